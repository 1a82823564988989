package materials

type CreateMaterialRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Quantity    int      `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	GSTPercent  *float64 `json:"gst_percent"`
}

// Validate returns a field -> message map so the form layer can render
// inline errors. Empty map means the request is acceptable.
func (r *CreateMaterialRequest) Validate() map[string]string {
	errs := map[string]string{}

	if r.Name == "" {
		errs["name"] = "Material name is required"
	}
	if r.Quantity < 0 {
		errs["quantity"] = "Quantity must not be negative"
	}
	if r.UnitPrice != nil && *r.UnitPrice < 0 {
		errs["unit_price"] = "Unit price must not be negative"
	}
	if r.GSTPercent != nil && (*r.GSTPercent < 0 || *r.GSTPercent > 100) {
		errs["gst_percent"] = "GST percent must be between 0 and 100"
	}

	return errs
}
