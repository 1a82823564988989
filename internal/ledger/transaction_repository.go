package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"solarstock/internal/repository"
	"solarstock/pkg/models"
)

type TransactionRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *TransactionRepository {
	return &TransactionRepository{repository: r}
}

// InsertTransaction appends one entry to the client ledger. Rows are never
// updated or deleted.
func (r *TransactionRepository) InsertTransaction(tx *goqu.TxDatabase, record models.ClientTransaction) (int, error) {
	itemsJSON, err := json.Marshal(record.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal transaction items: %w", err)
	}

	var transactionID int
	query := tx.Insert("client_transactions").
		Rows(goqu.Record{
			"client_id": record.ClientID,
			"direction": record.Direction,
			"items":     itemsJSON,
			"reason":    record.Reason,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&transactionID); err != nil {
		return 0, fmt.Errorf("failed to insert client transaction record: %w", err)
	}

	return transactionID, nil
}

// LockClient takes the client's row lock for the rest of the transaction.
// Concurrent returns for the same client serialize here, so the over-return
// cap cannot be passed twice against the same ledger state.
func (r *TransactionRepository) LockClient(tx *goqu.TxDatabase, clientID int) error {
	var id int
	if _, err := tx.ScanVal(&id, "SELECT id FROM clients WHERE id = $1 FOR UPDATE", clientID); err != nil {
		return fmt.Errorf("failed to lock client %d: %w", clientID, err)
	}

	return nil
}

func (r *TransactionRepository) GetTransactionsByClient(clientID int) (*[]models.ClientTransaction, error) {
	var flatTransactions []models.FlatClientTransaction

	query := r.repository.GoquDBWrapper.
		Select("id", "client_id", "direction", "items", "reason", "created_at").
		From("client_transactions").
		Where(goqu.Ex{"client_id": clientID}).
		Order(goqu.C("created_at").Desc())

	if err := query.Executor().ScanStructs(&flatTransactions); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for client transactions: %w", err)
	}

	return transformTransactions(flatTransactions)
}

// GetTransactionsByClientTx is the in-transaction read used when recording a
// transaction, so the cap check and the append see the same ledger state.
func (r *TransactionRepository) GetTransactionsByClientTx(tx *goqu.TxDatabase, clientID int) (*[]models.ClientTransaction, error) {
	var flatTransactions []models.FlatClientTransaction

	query := tx.
		Select("id", "client_id", "direction", "items", "reason", "created_at").
		From("client_transactions").
		Where(goqu.Ex{"client_id": clientID}).
		Order(goqu.C("created_at").Desc())

	if err := query.Executor().ScanStructs(&flatTransactions); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for client transactions: %w", err)
	}

	return transformTransactions(flatTransactions)
}

func transformTransactions(flatTransactions []models.FlatClientTransaction) (*[]models.ClientTransaction, error) {
	transactions := make([]models.ClientTransaction, 0, len(flatTransactions))
	for _, flat := range flatTransactions {
		transaction, err := flat.TransformToTransaction()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return &transactions, nil
}
