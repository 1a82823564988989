package costing

type SaveCostingLine struct {
	MaterialID int     `json:"material_id"`
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	Rate       float64 `json:"rate"`
	GSTPercent float64 `json:"gst_percent"`
}

type SaveCostingRequest struct {
	Items []SaveCostingLine `json:"items"`
}

func (r *SaveCostingRequest) Validate() map[string]string {
	errs := map[string]string{}

	for _, item := range r.Items {
		if item.Qty < 0 {
			errs["qty"] = "Quantity must not be negative"
		}
		if item.Rate < 0 {
			errs["rate"] = "Rate must not be negative"
		}
		if item.GSTPercent < 0 || item.GSTPercent > 100 {
			errs["gst_percent"] = "GST percent must be between 0 and 100"
		}
	}

	return errs
}
