package models

import "time"

type Client struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	ConsumerNo    string    `json:"consumer_no" db:"consumer_no"`
	Address       string    `json:"address" db:"address"`
	PlantCapacity string    `json:"plant_capacity" db:"plant_capacity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (c *Client) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   c.ID,
		ResourceType: "client",
	}
}
