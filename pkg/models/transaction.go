package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// ClientTransaction is one dispatch ("out") or return ("in") event on a
// client's ledger. Rows are insert-only; corrections happen through
// offsetting entries.
type ClientTransaction struct {
	ID        int               `json:"id"`
	ClientID  int               `json:"client_id"`
	Direction string            `json:"direction"`
	Items     []TransactionItem `json:"items"`
	Reason    string            `json:"reason"`
	CreatedAt time.Time         `json:"created_at"`
}

type TransactionItem struct {
	MaterialID   int    `json:"material_id"`
	MaterialName string `json:"material_name"`
	Quantity     int    `json:"quantity"`
}

type FlatClientTransaction struct {
	ID        int       `db:"id"`
	ClientID  int       `db:"client_id"`
	Direction string    `db:"direction"`
	ItemsRaw  []byte    `db:"items"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

func (ft *FlatClientTransaction) TransformToTransaction() (ClientTransaction, error) {
	var items []TransactionItem
	if err := json.Unmarshal(ft.ItemsRaw, &items); err != nil {
		return ClientTransaction{}, fmt.Errorf("failed to unmarshal transaction items: %w", err)
	}

	return ClientTransaction{
		ID:        ft.ID,
		ClientID:  ft.ClientID,
		Direction: ft.Direction,
		Items:     items,
		Reason:    ft.Reason,
		CreatedAt: ft.CreatedAt,
	}, nil
}

func (t *ClientTransaction) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "client_transaction",
	}
}
