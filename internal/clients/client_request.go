package clients

type CreateClientRequest struct {
	Name          string `json:"name"`
	ConsumerNo    string `json:"consumer_no"`
	Address       string `json:"address"`
	PlantCapacity string `json:"plant_capacity"`
}

func (r *CreateClientRequest) Validate() map[string]string {
	errs := map[string]string{}

	if r.Name == "" {
		errs["name"] = "Client name is required"
	}
	if r.ConsumerNo == "" {
		errs["consumer_no"] = "Consumer number is required"
	}

	return errs
}
