package aggregate_test

import (
	"testing"

	"github.com/brightdesk/finance-api/internal/aggregate"
	"github.com/brightdesk/finance-api/internal/domain"
)

func saleFor(owner, clientID, clientName, projectID, projectName string, amount float64) domain.SaleRecord {
	return domain.SaleRecord{
		OwnerID: owner,
		Invoice: domain.Invoice{
			CreatorID: owner,
			Client:    domain.ClientRef{ID: clientID, Name: clientName},
			Project:   domain.ProjectRef{ID: projectID, Name: projectName},
			Items:     []domain.LineItem{{Amount: amount}},
		},
	}
}

func TestTopClients_OrderAndGrouping(t *testing.T) {
	records := []domain.SaleRecord{
		saleFor("u1", "c1", "Client X", "p1", "Site", 120),
		saleFor("u1", "c2", "Client Y", "p1", "Site", 80),
		saleFor("u1", "c1", "Client X", "p2", "App", 30),
	}

	top := aggregate.TopClients(records, 10)

	if len(top) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(top))
	}
	if top[0].Name != "Client X" || top[0].TotalRevenue != 150 {
		t.Errorf("expected Client X with 150, got %+v", top[0])
	}
	if top[1].Name != "Client Y" || top[1].TotalRevenue != 80 {
		t.Errorf("expected Client Y with 80, got %+v", top[1])
	}
}

func TestTopClients_TieBreakIsFirstSeen(t *testing.T) {
	// A and B have equal totals; A appears first in the record set
	// and must stay first after sorting.
	records := []domain.SaleRecord{
		saleFor("u1", "a", "Client A", "p", "P", 100),
		saleFor("u1", "b", "Client B", "p", "P", 100),
	}

	top := aggregate.TopClients(records, 2)

	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Name != "Client A" || top[1].Name != "Client B" {
		t.Errorf("expected [Client A, Client B] on tie, got [%s, %s]", top[0].Name, top[1].Name)
	}
}

func TestTopClients_LimitTruncatesWithoutPadding(t *testing.T) {
	records := []domain.SaleRecord{
		saleFor("u1", "a", "A", "p", "P", 300),
		saleFor("u1", "b", "B", "p", "P", 200),
		saleFor("u1", "c", "C", "p", "P", 100),
	}

	if top := aggregate.TopClients(records, 2); len(top) != 2 {
		t.Errorf("expected truncation to 2, got %d", len(top))
	}
	// Fewer groups than limit: return all, no padding.
	if top := aggregate.TopClients(records, 10); len(top) != 3 {
		t.Errorf("expected all 3 groups, got %d", len(top))
	}
}

func TestTopClients_UnknownNameFallback(t *testing.T) {
	records := []domain.SaleRecord{
		saleFor("u1", "c9", "", "p", "P", 50),
	}

	top := aggregate.TopClients(records, 1)
	if len(top) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(top))
	}
	if top[0].Name != "Unknown" {
		t.Errorf("expected name fallback 'Unknown', got %q", top[0].Name)
	}
}

func TestTopProjects_GroupsByProject(t *testing.T) {
	records := []domain.SaleRecord{
		saleFor("u1", "c1", "X", "p1", "Website", 120),
		saleFor("u1", "c2", "Y", "p2", "Branding", 200),
		saleFor("u1", "c1", "X", "p1", "Website", 100),
	}

	top := aggregate.TopProjects(records, 10)
	if len(top) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(top))
	}
	if top[0].Name != "Website" || top[0].TotalRevenue != 220 {
		t.Errorf("expected Website with 220, got %+v", top[0])
	}
}

func TestBestClient_NilOnEmpty(t *testing.T) {
	if got := aggregate.BestClient(nil); got != nil {
		t.Errorf("expected nil best client for no records, got %+v", got)
	}
}

func TestBestClient_NilOnZeroRevenue(t *testing.T) {
	records := []domain.SaleRecord{
		saleFor("u1", "c1", "X", "p1", "P", 0),
	}
	if got := aggregate.BestClient(records); got != nil {
		t.Errorf("expected nil best client when best total is not positive, got %+v", got)
	}
}

func TestBestClientAndProject(t *testing.T) {
	records := []domain.SaleRecord{
		saleFor("u1", "c1", "Client X", "p1", "Site", 120),
		saleFor("u1", "c2", "Client Y", "p2", "App", 80),
	}

	client := aggregate.BestClient(records)
	if client == nil || client.Name != "Client X" || client.TotalRevenue != 120 {
		t.Errorf("expected best client 'Client X' with 120, got %+v", client)
	}

	project := aggregate.BestProject(records)
	if project == nil || project.Name != "Site" || project.TotalRevenue != 120 {
		t.Errorf("expected best project 'Site' with 120, got %+v", project)
	}
}
