package ledger

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"solarstock/internal/repository"
	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

type TransactionStore interface {
	InsertTransaction(tx *goqu.TxDatabase, record models.ClientTransaction) (int, error)
	GetTransactionsByClient(clientID int) (*[]models.ClientTransaction, error)
	GetTransactionsByClientTx(tx *goqu.TxDatabase, clientID int) (*[]models.ClientTransaction, error)
	LockClient(tx *goqu.TxDatabase, clientID int) error
}

type StockStore interface {
	AdjustQuantity(tx *goqu.TxDatabase, materialID int, delta int, guardNonNegative bool) (int, bool, error)
	QuantityTx(tx *goqu.TxDatabase, materialID int) (int, bool, error)
	InsertMovement(tx *goqu.TxDatabase, items []models.StockMovementItem, totalItems int, reason string) (int, error)
}

type MaterialStore interface {
	GetMaterialByID(id int) (*models.Material, error)
}

type ClientStore interface {
	GetClientByID(id int) (*models.Client, error)
}

// SnapshotRefresher rebuilds the client's costing cache inside the running
// transaction. Injected at wiring time so the ledger does not depend on the
// costing package.
type SnapshotRefresher func(tx *goqu.TxDatabase, clientID int, transactions []models.ClientTransaction) error

// TransactionService records dispatch/return events. A dispatch consumes the
// global stock pool, a return gives back to it but is capped at the client's
// outstanding net usage. Ledger append, stock movement, quantity projection
// and costing snapshot commit as one transaction.
type TransactionService struct {
	tr              TransactionStore
	sr              StockStore
	mr              MaterialStore
	cr              ClientStore
	refreshSnapshot SnapshotRefresher
	runTx           func(fn func(tx *goqu.TxDatabase) error) error
}

func NewTransactionService(r *repository.Repository, tr TransactionStore, sr StockStore, mr MaterialStore, cr ClientStore, refresh SnapshotRefresher) *TransactionService {
	return &TransactionService{
		tr:              tr,
		sr:              sr,
		mr:              mr,
		cr:              cr,
		refreshSnapshot: refresh,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
	}
}

func (s *TransactionService) RecordTransaction(clientID int, req RecordTransactionRequest) (*models.ClientTransaction, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &custom_error.ValidationError{Fields: errs}
	}

	client, err := s.cr.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}

	material, err := s.mr.GetMaterialByID(req.MaterialID)
	if err != nil {
		return nil, err
	}

	delta := req.Quantity
	movementReason := fmt.Sprintf("return from %s", client.Name)
	if req.Direction == models.DirectionOut {
		delta = -req.Quantity
		movementReason = fmt.Sprintf("dispatch to %s", client.Name)
	}
	if req.Reason != "" {
		movementReason = req.Reason
	}

	record := models.ClientTransaction{
		ClientID:  clientID,
		Direction: req.Direction,
		Items: []models.TransactionItem{
			{
				MaterialID:   req.MaterialID,
				MaterialName: material.Name,
				Quantity:     req.Quantity,
			},
		},
		Reason: req.Reason,
	}

	err = s.runTx(func(tx *goqu.TxDatabase) error {
		// A return must not exceed what the client still holds. The ledger is
		// read under the client row lock so two concurrent returns cannot
		// both pass the cap against the same state; a rejection rolls back
		// with no partial record.
		if req.Direction == models.DirectionIn {
			if err := s.tr.LockClient(tx, clientID); err != nil {
				return err
			}
		}

		history, err := s.tr.GetTransactionsByClientTx(tx, clientID)
		if err != nil {
			return err
		}

		if req.Direction == models.DirectionIn {
			maxReturnable := ComputeUsage(*history)[req.MaterialID].Net
			if req.Quantity > maxReturnable {
				return &custom_error.OverReturnError{
					MaterialID:    req.MaterialID,
					MaxReturnable: maxReturnable,
				}
			}
		}

		newQuantity, updated, err := s.sr.AdjustQuantity(tx, req.MaterialID, delta, req.Direction == models.DirectionOut)
		if err != nil {
			return err
		}
		if !updated {
			available, found, err := s.sr.QuantityTx(tx, req.MaterialID)
			if err != nil {
				return err
			}
			if !found {
				return custom_error.NewNotFound("material", req.MaterialID)
			}
			return &custom_error.InsufficientStockError{
				MaterialID: req.MaterialID,
				Available:  available,
				Requested:  req.Quantity,
			}
		}

		movementItems := []models.StockMovementItem{
			{
				MaterialID:     req.MaterialID,
				MaterialName:   material.Name,
				QuantityAdded:  delta,
				QuantityBefore: newQuantity - delta,
				QuantityAfter:  newQuantity,
			},
		}
		if _, err := s.sr.InsertMovement(tx, movementItems, delta, movementReason); err != nil {
			return err
		}

		transactionID, err := s.tr.InsertTransaction(tx, record)
		if err != nil {
			return err
		}
		record.ID = transactionID

		if s.refreshSnapshot != nil {
			if err := s.refreshSnapshot(tx, clientID, append(*history, record)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *TransactionService) GetTransactions(clientID int) (*[]models.ClientTransaction, error) {
	if _, err := s.cr.GetClientByID(clientID); err != nil {
		return nil, err
	}

	return s.tr.GetTransactionsByClient(clientID)
}

func (s *TransactionService) GetUsage(clientID int) (map[int]Usage, error) {
	if _, err := s.cr.GetClientByID(clientID); err != nil {
		return nil, err
	}

	transactions, err := s.tr.GetTransactionsByClient(clientID)
	if err != nil {
		return nil, err
	}

	return ComputeUsage(*transactions), nil
}
