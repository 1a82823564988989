package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solarstock/pkg/models"
)

func tx(direction string, materialID int, qty int) models.ClientTransaction {
	return models.ClientTransaction{
		ClientID:  1,
		Direction: direction,
		Items: []models.TransactionItem{
			{MaterialID: materialID, MaterialName: "Widget", Quantity: qty},
		},
	}
}

func TestComputeUsage(t *testing.T) {
	tests := []struct {
		name         string
		transactions []models.ClientTransaction
		expected     map[int]Usage
	}{
		{
			name:         "no transactions",
			transactions: nil,
			expected:     map[int]Usage{},
		},
		{
			name: "dispatches only",
			transactions: []models.ClientTransaction{
				tx(models.DirectionOut, 1, 10),
				tx(models.DirectionOut, 1, 5),
			},
			expected: map[int]Usage{
				1: {Out: 15, In: 0, Net: 15},
			},
		},
		{
			name: "returns reduce net",
			transactions: []models.ClientTransaction{
				tx(models.DirectionOut, 1, 10),
				tx(models.DirectionIn, 1, 4),
			},
			expected: map[int]Usage{
				1: {Out: 10, In: 4, Net: 6},
			},
		},
		{
			name: "net clamps at zero",
			transactions: []models.ClientTransaction{
				tx(models.DirectionOut, 1, 3),
				tx(models.DirectionIn, 1, 5),
			},
			expected: map[int]Usage{
				1: {Out: 3, In: 5, Net: 0},
			},
		},
		{
			name: "multiple materials",
			transactions: []models.ClientTransaction{
				tx(models.DirectionOut, 1, 10),
				tx(models.DirectionOut, 2, 7),
				tx(models.DirectionIn, 2, 2),
			},
			expected: map[int]Usage{
				1: {Out: 10, In: 0, Net: 10},
				2: {Out: 7, In: 2, Net: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeUsage(tt.transactions))
		})
	}
}

func TestComputeUsageIsOrderIndependent(t *testing.T) {
	forward := []models.ClientTransaction{
		tx(models.DirectionOut, 1, 10),
		tx(models.DirectionOut, 1, 5),
		tx(models.DirectionIn, 1, 7),
		tx(models.DirectionOut, 2, 3),
	}

	reversed := make([]models.ClientTransaction, len(forward))
	for i, transaction := range forward {
		reversed[len(forward)-1-i] = transaction
	}

	assert.Equal(t, ComputeUsage(forward), ComputeUsage(reversed))
}
