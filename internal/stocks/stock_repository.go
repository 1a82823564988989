package stocks

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"solarstock/internal/repository"
	"solarstock/pkg/models"
)

type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

// AdjustQuantity applies a signed delta to the quantity projection. With
// guardNonNegative the UPDATE carries a `quantity >= -delta` condition, so
// the read-check-write is atomic with respect to concurrent writers: a miss
// means either the material does not exist or stock is insufficient.
// Returns the post-update quantity and whether a row was updated.
func (r *StockRepository) AdjustQuantity(tx *goqu.TxDatabase, materialID int, delta int, guardNonNegative bool) (int, bool, error) {
	query := tx.Update("materials").
		Set(goqu.Record{
			"quantity": goqu.L("quantity + ?", delta),
		}).
		Where(goqu.Ex{"id": materialID})

	if guardNonNegative {
		query = query.Where(goqu.C("quantity").Gte(-delta))
	}

	var newQuantity int
	found, err := query.Returning("quantity").Executor().ScanVal(&newQuantity)
	if err != nil {
		return 0, false, fmt.Errorf("failed to adjust quantity for material %d: %w", materialID, err)
	}

	return newQuantity, found, nil
}

// QuantityTx reads the current projection inside the running transaction.
func (r *StockRepository) QuantityTx(tx *goqu.TxDatabase, materialID int) (int, bool, error) {
	var quantity int
	found, err := tx.Select("quantity").
		From("materials").
		Where(goqu.Ex{"id": materialID}).
		Executor().ScanVal(&quantity)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read quantity for material %d: %w", materialID, err)
	}

	return quantity, found, nil
}

// SetQuantity is the absolute administrative override. It bypasses the
// movement ledger by construction.
func (r *StockRepository) SetQuantity(materialID int, quantity int) (bool, error) {
	result, err := r.repository.GoquDBWrapper.Update("materials").
		Set(goqu.Record{"quantity": quantity}).
		Where(goqu.Ex{"id": materialID}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to set quantity for material %d: %w", materialID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// InsertMovement appends one record to the stock ledger. A bulk fill passes
// all its line items here so the history shows one consolidated event.
func (r *StockRepository) InsertMovement(tx *goqu.TxDatabase, items []models.StockMovementItem, totalItems int, reason string) (int, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal movement items: %w", err)
	}

	var movementID int
	query := tx.Insert("stock_movements").
		Rows(goqu.Record{
			"items":       itemsJSON,
			"total_items": totalItems,
			"reason":      reason,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&movementID); err != nil {
		return 0, fmt.Errorf("failed to insert stock movement record: %w", err)
	}

	return movementID, nil
}

func (r *StockRepository) GetMovements() (*[]models.StockMovement, error) {
	var flatMovements []models.FlatStockMovement

	query := r.repository.GoquDBWrapper.
		Select("id", "items", "total_items", "reason", "created_at").
		From("stock_movements").
		Order(goqu.C("created_at").Desc())

	if err := query.Executor().ScanStructs(&flatMovements); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock movements: %w", err)
	}

	movements := make([]models.StockMovement, 0, len(flatMovements))
	for _, flat := range flatMovements {
		movement, err := flat.TransformToMovement()
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return &movements, nil
}
