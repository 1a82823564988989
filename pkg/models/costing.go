package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CostingSnapshot is the cached billing view for one client. It is derived
// from the client ledger and material prices; it can always be rebuilt, so it
// is never the only holder of a quantity.
type CostingSnapshot struct {
	ClientID  int           `json:"client_id"`
	Items     []CostingLine `json:"items"`
	BeforeTax float64       `json:"before_tax"`
	GST       float64       `json:"gst"`
	Grand     float64       `json:"grand"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CostingLine struct {
	MaterialID int     `json:"material_id"`
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	Rate       float64 `json:"rate"`
	GSTPercent float64 `json:"gst_percent"`
	Base       float64 `json:"base"`
	GST        float64 `json:"gst"`
	Total      float64 `json:"total"`
}

type FlatCostingSnapshot struct {
	ClientID  int       `db:"client_id"`
	ItemsRaw  []byte    `db:"items"`
	BeforeTax float64   `db:"before_tax"`
	GST       float64   `db:"gst"`
	Grand     float64   `db:"grand"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (fs *FlatCostingSnapshot) TransformToSnapshot() (CostingSnapshot, error) {
	var items []CostingLine
	if err := json.Unmarshal(fs.ItemsRaw, &items); err != nil {
		return CostingSnapshot{}, fmt.Errorf("failed to unmarshal costing lines: %w", err)
	}

	return CostingSnapshot{
		ClientID:  fs.ClientID,
		Items:     items,
		BeforeTax: fs.BeforeTax,
		GST:       fs.GST,
		Grand:     fs.Grand,
		UpdatedAt: fs.UpdatedAt,
	}, nil
}

func (s *CostingSnapshot) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ClientID,
		ResourceType: "costing_snapshot",
	}
}
