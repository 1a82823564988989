package ledger

import "solarstock/pkg/models"

type RecordTransactionRequest struct {
	MaterialID int    `json:"material_id"`
	Quantity   int    `json:"quantity"`
	Direction  string `json:"direction"`
	Reason     string `json:"reason"`
}

func (r *RecordTransactionRequest) Validate() map[string]string {
	errs := map[string]string{}

	if r.MaterialID < 1 {
		errs["material_id"] = "Material is required"
	}
	if r.Quantity < 1 {
		errs["quantity"] = "Quantity must be a positive integer"
	}
	if r.Direction != models.DirectionIn && r.Direction != models.DirectionOut {
		errs["direction"] = "Direction must be \"in\" or \"out\""
	}

	return errs
}
