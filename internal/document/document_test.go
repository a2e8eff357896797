package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
)

func TestProposalRendersPDF(t *testing.T) {
	created := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	p := model.Proposal{
		ID:        uuid.New(),
		Number:    "EST-20240315-001",
		CreatedAt: created,
		ExpiresAt: created.AddDate(0, 0, 30),
		Status:    model.ProposalSent,
		Subtotal:  754,
		Discount:  54,
		Total:     700,
		Notes:     "Crew arrives at 8am. Café access needed.",
		LineItems: []model.LineItem{
			{ServiceType: model.ServiceRemoval, Description: "Oak", AFISSFactors: []string{"limited_access"}, AFScore: 85.1, Quantity: 85.1, UnitPrice: 8.5, TotalPrice: 629},
			{ServiceType: model.ServiceStumpGrinding, Quantity: 24, UnitPrice: 4, TotalPrice: 125},
		},
	}
	c := model.Customer{Name: "Jordan Park", Address: "12 Elm St"}

	body, err := NewGenerator("Canopy Works").Proposal(p, c, created.AddDate(0, 0, 40))
	if err != nil {
		t.Fatalf("render proposal: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Fatalf("expected a PDF document, got %q", body[:min(len(body), 16)])
	}
	if len(body) < 1000 {
		t.Fatalf("suspiciously small document: %d bytes", len(body))
	}
}

func TestDescribeIncludesFactors(t *testing.T) {
	got := describe(model.LineItem{
		ServiceType:  model.ServiceLandClearing,
		Description:  "Back lot",
		AFISSFactors: []string{"slope", "wet_ground"},
	})
	if got != "land clearing: Back lot (slope, wet_ground)" {
		t.Fatalf("unexpected description %q", got)
	}
}
