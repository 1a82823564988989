package materials

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"solarstock/internal/repository"
	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

// LowStockThreshold is the static cut-off for the low-stock report.
const LowStockThreshold = 10

type MaterialRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MaterialRepository {
	return &MaterialRepository{repository: r}
}

func (r *MaterialRepository) GetMaterials() (*[]models.Material, error) {
	var materials []models.Material

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description", "quantity", "category", "unit_price", "gst_percent", "created_at").
		From("materials").
		Order(goqu.C("name").Asc())

	if err := query.Executor().ScanStructs(&materials); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for materials: %w", err)
	}

	return &materials, nil
}

func (r *MaterialRepository) GetMaterialByID(id int) (*models.Material, error) {
	var material models.Material

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description", "quantity", "category", "unit_price", "gst_percent", "created_at").
		From("materials").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&material)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("material", id)
	}

	return &material, nil
}

func (r *MaterialRepository) GetLowStockMaterials() (*[]models.Material, error) {
	var materials []models.Material

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description", "quantity", "category", "unit_price", "gst_percent", "created_at").
		From("materials").
		Where(goqu.C("quantity").Lte(LowStockThreshold)).
		Order(goqu.C("quantity").Asc())

	if err := query.Executor().ScanStructs(&materials); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for low stock: %w", err)
	}

	return &materials, nil
}

// PersistMaterial creates the material and, for a nonzero starting quantity,
// seeds the stock ledger with an initial "in" movement in the same
// transaction. Without that seed the movement fold would under-count stock
// the warehouse actually holds.
func (r *MaterialRepository) PersistMaterial(req CreateMaterialRequest) (*models.Material, error) {
	material := models.Material{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		GSTPercent:  req.GSTPercent,
	}

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		query := tx.Insert("materials").
			Rows(goqu.Record{
				"name":        req.Name,
				"description": req.Description,
				"quantity":    req.Quantity,
				"category":    req.Category,
				"unit_price":  req.UnitPrice,
				"gst_percent": req.GSTPercent,
			}).
			Returning("id")

		if _, err := query.Executor().ScanVal(&material.ID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return custom_error.WrapDBError("Material name already registered", string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert material record: %w", err)
		}

		if req.Quantity == 0 {
			return nil
		}

		items := []models.StockMovementItem{
			{
				MaterialID:     material.ID,
				MaterialName:   req.Name,
				QuantityAdded:  req.Quantity,
				QuantityBefore: 0,
				QuantityAfter:  req.Quantity,
			},
		}
		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to marshal movement items: %w", err)
		}

		insert := tx.Insert("stock_movements").
			Rows(goqu.Record{
				"items":       itemsJSON,
				"total_items": req.Quantity,
				"reason":      "initial stock",
			})
		if _, err := insert.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert initial stock movement: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &material, nil
}

func (r *MaterialRepository) DeleteMaterial(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("materials").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("material", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete material: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("material", id)
	}

	return nil
}
