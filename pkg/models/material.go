package models

import "time"

type Material struct {
	ID          int      `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Quantity    int      `json:"quantity" db:"quantity"`
	Category    string   `json:"category" db:"category"`
	UnitPrice   *float64 `json:"unit_price,omitempty" db:"unit_price"`
	GSTPercent  *float64 `json:"gst_percent,omitempty" db:"gst_percent"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (m *Material) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "material",
	}
}
