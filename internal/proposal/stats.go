package proposal

import (
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
)

// CustomerStats summarises a customer's proposals. Counts key off the stored
// status; Expired counts the derived expiry flag.
type CustomerStats struct {
	CustomerID     uuid.UUID  `json:"customer_id"`
	Count          int        `json:"count"`
	TotalValue     float64    `json:"total_value"`
	MostRecent     *time.Time `json:"most_recent,omitempty"`
	Accepted       int        `json:"accepted"`
	Rejected       int        `json:"rejected"`
	Expired        int        `json:"expired"`
	ConversionRate float64    `json:"conversion_rate"`
}

// StatsFor summarises the proposals of one customer. Conversion uses stored status.
func StatsFor(customerID uuid.UUID, proposals []model.Proposal, now time.Time) CustomerStats {
	stats := CustomerStats{CustomerID: customerID}
	for _, p := range proposals {
		if p.CustomerID != customerID {
			continue
		}

		stats.Count++
		stats.TotalValue += p.Total
		if stats.MostRecent == nil || p.CreatedAt.After(*stats.MostRecent) {
			created := p.CreatedAt
			stats.MostRecent = &created
		}

		switch p.Status {
		case model.ProposalAccepted:
			stats.Accepted++
		case model.ProposalRejected:
			stats.Rejected++
		}
		if p.IsExpired(now) {
			stats.Expired++
		}
	}

	if stats.Count > 0 {
		stats.ConversionRate = float64(stats.Accepted) / float64(stats.Count)
	}
	return stats
}
