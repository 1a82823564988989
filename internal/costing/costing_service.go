package costing

import (
	"time"

	"github.com/doug-martin/goqu/v9"

	"solarstock/internal/ledger"
	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

type SnapshotStore interface {
	GetSnapshot(clientID int) (*models.CostingSnapshot, error)
	UpsertSnapshot(snapshot models.CostingSnapshot) error
	UpsertSnapshotTx(tx *goqu.TxDatabase, snapshot models.CostingSnapshot) error
}

type TransactionStore interface {
	GetTransactionsByClient(clientID int) (*[]models.ClientTransaction, error)
}

type MaterialStore interface {
	GetMaterials() (*[]models.Material, error)
}

type ClientStore interface {
	GetClientByID(id int) (*models.Client, error)
}

// CostingService serves the billing view: cached snapshot when one exists,
// otherwise a fresh derivation from the client ledger.
type CostingService struct {
	cs SnapshotStore
	tr TransactionStore
	mr MaterialStore
	cr ClientStore
}

func NewCostingService(cs SnapshotStore, tr TransactionStore, mr MaterialStore, cr ClientStore) *CostingService {
	return &CostingService{
		cs: cs,
		tr: tr,
		mr: mr,
		cr: cr,
	}
}

// GetCosting returns the cached snapshot when present; otherwise it computes
// from the ledger without persisting, so a plain read never creates state.
func (s *CostingService) GetCosting(clientID int) (*models.CostingSnapshot, error) {
	if _, err := s.cr.GetClientByID(clientID); err != nil {
		return nil, err
	}

	snapshot, err := s.cs.GetSnapshot(clientID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		return snapshot, nil
	}

	computed, err := s.computeFromLedger(clientID)
	if err != nil {
		return nil, err
	}

	return computed, nil
}

// Recompute discards any manual snapshot and rebuilds strictly from the
// ledger.
func (s *CostingService) Recompute(clientID int) (*models.CostingSnapshot, error) {
	if _, err := s.cr.GetClientByID(clientID); err != nil {
		return nil, err
	}

	snapshot, err := s.computeFromLedger(clientID)
	if err != nil {
		return nil, err
	}

	if err := s.cs.UpsertSnapshot(*snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Save upserts a manually edited costing sheet. Only qty/rate/GST per line
// are taken from the caller; base, GST amount, totals and grand totals are
// re-derived server-side.
func (s *CostingService) Save(clientID int, req SaveCostingRequest) (*models.CostingSnapshot, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &custom_error.ValidationError{Fields: errs}
	}

	if _, err := s.cr.GetClientByID(clientID); err != nil {
		return nil, err
	}

	lines := make([]models.CostingLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, RecomputeLine(models.CostingLine{
			MaterialID: item.MaterialID,
			Name:       item.Name,
			Qty:        item.Qty,
			Rate:       item.Rate,
			GSTPercent: item.GSTPercent,
		}))
	}

	beforeTax, gst, grand := Totals(lines)
	snapshot := models.CostingSnapshot{
		ClientID:  clientID,
		Items:     lines,
		BeforeTax: beforeTax,
		GST:       gst,
		Grand:     grand,
		UpdatedAt: time.Now(),
	}

	if err := s.cs.UpsertSnapshot(snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// RefreshTx rebuilds the snapshot from an in-memory ledger view inside an
// already-running transaction. Wired into the transaction service so every
// recorded dispatch/return refreshes the cache atomically.
func (s *CostingService) RefreshTx(tx *goqu.TxDatabase, clientID int, transactions []models.ClientTransaction) error {
	snapshot, err := s.build(clientID, transactions)
	if err != nil {
		return err
	}

	return s.cs.UpsertSnapshotTx(tx, *snapshot)
}

func (s *CostingService) computeFromLedger(clientID int) (*models.CostingSnapshot, error) {
	transactions, err := s.tr.GetTransactionsByClient(clientID)
	if err != nil {
		return nil, err
	}

	return s.build(clientID, *transactions)
}

func (s *CostingService) build(clientID int, transactions []models.ClientTransaction) (*models.CostingSnapshot, error) {
	materialList, err := s.mr.GetMaterials()
	if err != nil {
		return nil, err
	}

	materialsByID := make(map[int]models.Material, len(*materialList))
	for _, material := range *materialList {
		materialsByID[material.ID] = material
	}

	lines := BuildLines(ledger.ComputeUsage(transactions), materialsByID)
	beforeTax, gst, grand := Totals(lines)

	return &models.CostingSnapshot{
		ClientID:  clientID,
		Items:     lines,
		BeforeTax: beforeTax,
		GST:       gst,
		Grand:     grand,
		UpdatedAt: time.Now(),
	}, nil
}
