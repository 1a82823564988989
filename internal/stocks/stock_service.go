package stocks

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"solarstock/internal/repository"
	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

var stockOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "solarstock_stock_operations_total",
		Help: "Stock reconciliation operations by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

type StockStore interface {
	AdjustQuantity(tx *goqu.TxDatabase, materialID int, delta int, guardNonNegative bool) (int, bool, error)
	QuantityTx(tx *goqu.TxDatabase, materialID int) (int, bool, error)
	SetQuantity(materialID int, quantity int) (bool, error)
	InsertMovement(tx *goqu.TxDatabase, items []models.StockMovementItem, totalItems int, reason string) (int, error)
	GetMovements() (*[]models.StockMovement, error)
}

type MaterialStore interface {
	GetMaterialByID(id int) (*models.Material, error)
}

// StockService is the reconciliation engine: every delta goes through a
// guarded projection update plus a ledger append inside one transaction.
type StockService struct {
	sr    StockStore
	mr    MaterialStore
	runTx func(fn func(tx *goqu.TxDatabase) error) error
}

func NewStockService(r *repository.Repository, sr StockStore, mr MaterialStore) *StockService {
	return &StockService{
		sr: sr,
		mr: mr,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
	}
}

// Adjust applies one signed stock change. "out" is rejected with
// InsufficientStock before any write when the pool cannot cover it; "in" has
// no upper bound.
func (s *StockService) Adjust(materialID int, req AdjustStockRequest) (*models.StockMovement, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &custom_error.ValidationError{Fields: errs}
	}

	material, err := s.mr.GetMaterialByID(materialID)
	if err != nil {
		return nil, err
	}

	delta := req.Quantity
	if req.Direction == models.DirectionOut {
		delta = -req.Quantity
	}

	var movement models.StockMovement
	err = s.runTx(func(tx *goqu.TxDatabase) error {
		newQuantity, updated, err := s.sr.AdjustQuantity(tx, materialID, delta, req.Direction == models.DirectionOut)
		if err != nil {
			return err
		}
		if !updated {
			available, found, err := s.sr.QuantityTx(tx, materialID)
			if err != nil {
				return err
			}
			if !found {
				return custom_error.NewNotFound("material", materialID)
			}
			return &custom_error.InsufficientStockError{
				MaterialID: materialID,
				Available:  available,
				Requested:  req.Quantity,
			}
		}

		items := []models.StockMovementItem{
			{
				MaterialID:     materialID,
				MaterialName:   material.Name,
				QuantityAdded:  delta,
				QuantityBefore: newQuantity - delta,
				QuantityAfter:  newQuantity,
			},
		}

		movementID, err := s.sr.InsertMovement(tx, items, delta, req.Reason)
		if err != nil {
			return err
		}

		movement = models.StockMovement{
			ID:         movementID,
			Items:      items,
			TotalItems: delta,
			Reason:     req.Reason,
		}
		return nil
	})
	if err != nil {
		stockOpsTotal.WithLabelValues("adjust", "rejected").Inc()
		return nil, err
	}

	stockOpsTotal.WithLabelValues("adjust", "applied").Inc()
	return &movement, nil
}

// SetQuantity replaces the projection with an absolute value. This is an
// administrative correction, not a ledgered transaction; callers record it
// in the audit log instead.
func (s *StockService) SetQuantity(materialID int, req SetQuantityRequest) (*models.Material, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &custom_error.ValidationError{Fields: errs}
	}

	updated, err := s.sr.SetQuantity(materialID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, custom_error.NewNotFound("material", materialID)
	}

	stockOpsTotal.WithLabelValues("set", "applied").Inc()
	return s.mr.GetMaterialByID(materialID)
}

// FillStock applies a batch of "in" adjustments and appends ONE consolidated
// movement record listing every line item and their sum.
func (s *StockService) FillStock(req FillStockRequest) (*models.StockMovement, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &custom_error.ValidationError{Fields: errs}
	}

	names := make(map[int]string, len(req.Items))
	for _, item := range req.Items {
		material, err := s.mr.GetMaterialByID(item.MaterialID)
		if err != nil {
			return nil, err
		}
		names[item.MaterialID] = material.Name
	}

	var movement models.StockMovement
	err := s.runTx(func(tx *goqu.TxDatabase) error {
		items := make([]models.StockMovementItem, 0, len(req.Items))
		total := 0

		for _, fill := range req.Items {
			newQuantity, updated, err := s.sr.AdjustQuantity(tx, fill.MaterialID, fill.Quantity, false)
			if err != nil {
				return err
			}
			if !updated {
				return custom_error.NewNotFound("material", fill.MaterialID)
			}

			items = append(items, models.StockMovementItem{
				MaterialID:     fill.MaterialID,
				MaterialName:   names[fill.MaterialID],
				QuantityAdded:  fill.Quantity,
				QuantityBefore: newQuantity - fill.Quantity,
				QuantityAfter:  newQuantity,
			})
			total += fill.Quantity
		}

		movementID, err := s.sr.InsertMovement(tx, items, total, req.Reason)
		if err != nil {
			return err
		}

		movement = models.StockMovement{
			ID:         movementID,
			Items:      items,
			TotalItems: total,
			Reason:     req.Reason,
		}
		return nil
	})
	if err != nil {
		stockOpsTotal.WithLabelValues("fill", "rejected").Inc()
		return nil, err
	}

	stockOpsTotal.WithLabelValues("fill", "applied").Inc()
	return &movement, nil
}

// RebuildQuantity re-derives the projection for one material by folding the
// movement ledger. Consistency repair for when an override went wrong.
func (s *StockService) RebuildQuantity(materialID int) (int, error) {
	if _, err := s.mr.GetMaterialByID(materialID); err != nil {
		return 0, err
	}

	movements, err := s.sr.GetMovements()
	if err != nil {
		return 0, err
	}

	quantity := 0
	for _, movement := range *movements {
		for _, item := range movement.Items {
			if item.MaterialID == materialID {
				quantity += item.QuantityAdded
			}
		}
	}
	if quantity < 0 {
		quantity = 0
	}

	if _, err := s.sr.SetQuantity(materialID, quantity); err != nil {
		return 0, err
	}

	return quantity, nil
}

func (s *StockService) GetHistory() (*[]models.StockMovement, error) {
	return s.sr.GetMovements()
}
