package aggregate

import (
	"sort"

	"github.com/brightdesk/finance-api/internal/domain"
)

// UnknownLabel is the display name used when a client or project
// cannot be resolved. Never an empty string.
const UnknownLabel = "Unknown"

// TopClients groups the records by client, sums each group's invoice
// totals and returns up to limit entries ordered by revenue descending.
// Ties keep first-seen order.
func TopClients(records []domain.SaleRecord, limit int) []domain.LeaderboardEntry {
	return rank(records, limit, func(rec domain.SaleRecord) (string, string) {
		return rec.Invoice.Client.ID, rec.Invoice.Client.Name
	})
}

// TopProjects is the project-side counterpart of TopClients.
func TopProjects(records []domain.SaleRecord, limit int) []domain.LeaderboardEntry {
	return rank(records, limit, func(rec domain.SaleRecord) (string, string) {
		return rec.Invoice.Project.ID, rec.Invoice.Project.Name
	})
}

// BestClient returns the single top-revenue client, or nil when there
// are no records or the best total is not strictly positive.
func BestClient(records []domain.SaleRecord) *domain.LeaderboardEntry {
	return best(TopClients(records, 1))
}

// BestProject returns the single top-revenue project under the same
// rules as BestClient.
func BestProject(records []domain.SaleRecord) *domain.LeaderboardEntry {
	return best(TopProjects(records, 1))
}

func best(entries []domain.LeaderboardEntry) *domain.LeaderboardEntry {
	if len(entries) == 0 || entries[0].TotalRevenue <= 0 {
		return nil
	}
	e := entries[0]
	return &e
}

// rank builds the grouped, ordered leaderboard. Groups are collected
// in record order so that SliceStable preserves first-seen order
// among equal totals.
func rank(records []domain.SaleRecord, limit int, key func(domain.SaleRecord) (id, name string)) []domain.LeaderboardEntry {
	index := make(map[string]int)
	entries := make([]domain.LeaderboardEntry, 0)

	for _, rec := range records {
		id, name := key(rec)
		if name == "" {
			name = UnknownLabel
		}
		pos, seen := index[id]
		if !seen {
			index[id] = len(entries)
			entries = append(entries, domain.LeaderboardEntry{ID: id, Name: name})
			pos = len(entries) - 1
		}
		entries[pos].TotalRevenue += rec.Invoice.Total()
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalRevenue > entries[j].TotalRevenue
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
