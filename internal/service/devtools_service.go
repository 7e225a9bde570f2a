package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brightdesk/finance-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Dev Tools
// ============================================================

var seedClients = []string{"Acme Corp", "Globex", "Initech", "Umbrella LLC", "Stark Industries"}
var seedProjects = []string{"Website Redesign", "Mobile App", "Branding", "SEO Retainer", "Data Migration"}

// DevGenerateSales inserts count synthetic sale records for the user,
// spread over the last 90 days. Testing helper only; amounts and
// client/project assignments are random.
func (s *ReportService) DevGenerateSales(ctx context.Context, userID string, count int) (int, error) {
	ctx, span := tracer.Start(ctx, "ReportService.DevGenerateSales")
	defer span.End()

	if userID == "" {
		return 0, &domain.ErrValidation{Field: "user_id", Message: "required"}
	}
	if count <= 0 {
		count = 10
	}
	if count > 500 {
		return 0, &domain.ErrValidation{Field: "count", Message: "must be at most 500"}
	}

	inserted := 0
	for i := 0; i < count; i++ {
		now := time.Now().UTC()
		date := now.AddDate(0, 0, -rand.Intn(90))
		clientIdx := rand.Intn(len(seedClients))
		projectIdx := rand.Intn(len(seedProjects))

		sale := map[string]any{
			"id":       uuid.New().String(),
			"owner_id": userID,
			"date":     date.Format(time.RFC3339),
			"invoice": map[string]any{
				"id":         uuid.New().String(),
				"number":     fmt.Sprintf("DEV-%06d", rand.Intn(1000000)),
				"creator_id": userID,
				"client":     map[string]any{"id": fmt.Sprintf("client-%d", clientIdx), "name": seedClients[clientIdx]},
				"project":    map[string]any{"id": fmt.Sprintf("project-%d", projectIdx), "name": seedProjects[projectIdx]},
				"line_items": []map[string]any{
					{"id": uuid.New().String(), "amount": float64(rand.Intn(190)+10) * 10},
				},
			},
		}

		if err := s.writer.InsertSale(ctx, sale); err != nil {
			s.logger.Error("DEV: failed to insert sale",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return inserted, err
		}
		inserted++
	}

	s.logger.Info("DEV: sales generated",
		zap.String("user_id", userID),
		zap.Int("count", inserted),
	)
	return inserted, nil
}
