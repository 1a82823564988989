package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StockMovement is one append-only entry of the global stock ledger. A single
// record may carry multiple line items (bulk fill), with QuantityAdded signed:
// positive for "in", negative for "out". The materials.quantity column is a
// projection of this log.
type StockMovement struct {
	ID         int                 `json:"id"`
	Items      []StockMovementItem `json:"items"`
	TotalItems int                 `json:"total_items"`
	Reason     string              `json:"reason"`
	CreatedAt  time.Time           `json:"created_at"`
}

type StockMovementItem struct {
	MaterialID     int    `json:"material_id"`
	MaterialName   string `json:"material_name"`
	QuantityAdded  int    `json:"quantity_added"`
	QuantityBefore int    `json:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after"`
}

type FlatStockMovement struct {
	ID         int       `db:"id"`
	ItemsRaw   []byte    `db:"items"`
	TotalItems int       `db:"total_items"`
	Reason     string    `db:"reason"`
	CreatedAt  time.Time `db:"created_at"`
}

func (fm *FlatStockMovement) TransformToMovement() (StockMovement, error) {
	var items []StockMovementItem
	if err := json.Unmarshal(fm.ItemsRaw, &items); err != nil {
		return StockMovement{}, fmt.Errorf("failed to unmarshal movement items: %w", err)
	}

	return StockMovement{
		ID:         fm.ID,
		Items:      items,
		TotalItems: fm.TotalItems,
		Reason:     fm.Reason,
		CreatedAt:  fm.CreatedAt,
	}, nil
}

func (m *StockMovement) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "stock_movement",
	}
}
