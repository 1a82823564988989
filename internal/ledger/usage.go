package ledger

import "solarstock/pkg/models"

// Usage is the per-material net position of one client.
type Usage struct {
	Out int `json:"out"`
	In  int `json:"in"`
	Net int `json:"net"`
}

// ComputeUsage folds a client's transaction ledger into per-material usage.
// Pure and commutative: sums only, so the result does not depend on the
// order the transactions are read in.
func ComputeUsage(transactions []models.ClientTransaction) map[int]Usage {
	usage := make(map[int]Usage)

	for _, transaction := range transactions {
		for _, item := range transaction.Items {
			u := usage[item.MaterialID]
			switch transaction.Direction {
			case models.DirectionOut:
				u.Out += item.Quantity
			case models.DirectionIn:
				u.In += item.Quantity
			}
			usage[item.MaterialID] = u
		}
	}

	for materialID, u := range usage {
		u.Net = u.Out - u.In
		if u.Net < 0 {
			u.Net = 0
		}
		usage[materialID] = u
	}

	return usage
}
