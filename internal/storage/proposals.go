package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/canopyworks/arborcost/internal/model"
)

// ProposalPersister stores proposals together with their owned line items.
// Deleting a proposal row cascades to its line items.
type ProposalPersister struct {
	db *sql.DB
}

// LoadAll reads every proposal with its line items in order.
func (p *ProposalPersister) LoadAll(ctx context.Context) ([]model.Proposal, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, number, customer_id, created_at, expires_at, status, subtotal, discount, total, notes
		FROM proposals
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}

	var out []model.Proposal
	index := map[string]int{}
	for rows.Next() {
		var (
			pr                   model.Proposal
			createdAt, expiresAt string
		)
		if err := rows.Scan(&pr.ID, &pr.Number, &pr.CustomerID, &createdAt, &expiresAt, &pr.Status,
			&pr.Subtotal, &pr.Discount, &pr.Total, &pr.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		if pr.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("proposal %s: %w", pr.Number, err)
		}
		if pr.ExpiresAt, err = parseTime(expiresAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("proposal %s: %w", pr.Number, err)
		}
		index[pr.ID.String()] = len(out)
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	rows.Close()

	itemRows, err := p.db.QueryContext(ctx, `
		SELECT proposal_id, id, service_type, description, measurements_json, flags_json,
			afiss_factors_json, crew_size, equipment_class, include_cleanup, include_hauling, urgency,
			tree_score, afiss_multiplier, af_score, quantity, unit_price, total_price
		FROM line_items
		ORDER BY proposal_id, sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			proposalID                               string
			item                                     model.LineItem
			measurementsJSON, flagsJSON, factorsJSON string
		)
		if err := itemRows.Scan(
			&proposalID, &item.ID, &item.ServiceType, &item.Description, &measurementsJSON, &flagsJSON,
			&factorsJSON, &item.CrewSize, &item.EquipmentClass, &item.IncludeCleanup, &item.IncludeHauling,
			&item.Urgency, &item.TreeScore, &item.AFISSMultiplier, &item.AFScore, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		if err := json.Unmarshal([]byte(measurementsJSON), &item.Measurements); err != nil {
			return nil, fmt.Errorf("decode line item %s measurements: %w", item.ID, err)
		}
		if err := json.Unmarshal([]byte(flagsJSON), &item.Flags); err != nil {
			return nil, fmt.Errorf("decode line item %s flags: %w", item.ID, err)
		}
		if err := json.Unmarshal([]byte(factorsJSON), &item.AFISSFactors); err != nil {
			return nil, fmt.Errorf("decode line item %s factors: %w", item.ID, err)
		}
		if i, ok := index[proposalID]; ok {
			out[i].LineItems = append(out[i].LineItems, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return out, nil
}

// SaveAll replaces all proposals and their line items.
func (p *ProposalPersister) SaveAll(ctx context.Context, records []model.Proposal) error {
	return replaceAll(ctx, p.db, "proposals", func(tx *sql.Tx) error {
		for i, pr := range records {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO proposals (
					id, sort_order, number, customer_id, created_at, expires_at, status,
					subtotal, discount, total, notes
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, pr.ID, i, pr.Number, pr.CustomerID, formatTime(pr.CreatedAt), formatTime(pr.ExpiresAt),
				string(pr.Status), pr.Subtotal, pr.Discount, pr.Total, pr.Notes); err != nil {
				return fmt.Errorf("proposal %s: %w", pr.Number, err)
			}
			for j, item := range pr.LineItems {
				if err := insertLineItem(ctx, tx, pr, j, item); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func insertLineItem(ctx context.Context, tx *sql.Tx, pr model.Proposal, sortOrder int, item model.LineItem) error {
	measurements, err := json.Marshal(item.Measurements)
	if err != nil {
		return fmt.Errorf("encode line item %s measurements: %w", item.ID, err)
	}
	flags, err := json.Marshal(item.Flags)
	if err != nil {
		return fmt.Errorf("encode line item %s flags: %w", item.ID, err)
	}
	factors := item.AFISSFactors
	if factors == nil {
		factors = []string{}
	}
	factorsJSON, err := json.Marshal(factors)
	if err != nil {
		return fmt.Errorf("encode line item %s factors: %w", item.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO line_items (
			id, proposal_id, sort_order, service_type, description, measurements_json, flags_json,
			afiss_factors_json, crew_size, equipment_class, include_cleanup, include_hauling, urgency,
			tree_score, afiss_multiplier, af_score, quantity, unit_price, total_price
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, pr.ID, sortOrder, string(item.ServiceType), item.Description, string(measurements),
		string(flags), string(factorsJSON), item.CrewSize, string(item.EquipmentClass),
		item.IncludeCleanup, item.IncludeHauling, string(item.Urgency), item.TreeScore,
		item.AFISSMultiplier, item.AFScore, item.Quantity, item.UnitPrice, item.TotalPrice,
	); err != nil {
		return fmt.Errorf("proposal %s line item %d: %w", pr.Number, sortOrder, err)
	}
	return nil
}
