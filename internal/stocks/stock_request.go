package stocks

import "solarstock/pkg/models"

type AdjustStockRequest struct {
	Direction string `json:"direction"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

func (r *AdjustStockRequest) Validate() map[string]string {
	errs := map[string]string{}

	if r.Direction != models.DirectionIn && r.Direction != models.DirectionOut {
		errs["direction"] = "Direction must be \"in\" or \"out\""
	}
	if r.Quantity < 1 {
		errs["quantity"] = "Quantity must be a positive integer"
	}

	return errs
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (r *SetQuantityRequest) Validate() map[string]string {
	errs := map[string]string{}

	if r.Quantity < 0 {
		errs["quantity"] = "Quantity must not be negative"
	}

	return errs
}

type FillStockItem struct {
	MaterialID int `json:"material_id"`
	Quantity   int `json:"quantity"`
}

type FillStockRequest struct {
	Items  []FillStockItem `json:"items"`
	Reason string          `json:"reason"`
}

func (r *FillStockRequest) Validate() map[string]string {
	errs := map[string]string{}

	if len(r.Items) == 0 {
		errs["items"] = "At least one material is required"
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			errs["items"] = "Each quantity must be a positive integer"
			break
		}
	}

	return errs
}
