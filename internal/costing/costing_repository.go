package costing

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"solarstock/internal/repository"
	"solarstock/pkg/models"
)

type SnapshotRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *SnapshotRepository {
	return &SnapshotRepository{repository: r}
}

// inserter is satisfied by both *goqu.Database and *goqu.TxDatabase so the
// upsert can run standalone or inside a ledger transaction.
type inserter interface {
	Insert(table interface{}) *goqu.InsertDataset
}

// GetSnapshot returns nil without error when the client has no cached
// costing yet.
func (r *SnapshotRepository) GetSnapshot(clientID int) (*models.CostingSnapshot, error) {
	var flat models.FlatCostingSnapshot

	query := r.repository.GoquDBWrapper.
		Select("client_id", "items", "before_tax", "gst", "grand", "updated_at").
		From("costing_snapshots").
		Where(goqu.Ex{"client_id": clientID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get costing snapshot: %w", err)
	}
	if !found {
		return nil, nil
	}

	snapshot, err := flat.TransformToSnapshot()
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *SnapshotRepository) UpsertSnapshot(snapshot models.CostingSnapshot) error {
	return upsertSnapshot(r.repository.GoquDBWrapper, snapshot)
}

func (r *SnapshotRepository) UpsertSnapshotTx(tx *goqu.TxDatabase, snapshot models.CostingSnapshot) error {
	return upsertSnapshot(tx, snapshot)
}

func upsertSnapshot(db inserter, snapshot models.CostingSnapshot) error {
	itemsJSON, err := json.Marshal(snapshot.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal costing lines: %w", err)
	}

	query := db.Insert("costing_snapshots").
		Rows(goqu.Record{
			"client_id":  snapshot.ClientID,
			"items":      itemsJSON,
			"before_tax": snapshot.BeforeTax,
			"gst":        snapshot.GST,
			"grand":      snapshot.Grand,
			"updated_at": goqu.L("now()"),
		}).
		OnConflict(
			goqu.DoUpdate(
				"client_id",
				goqu.Record{
					"items":      itemsJSON,
					"before_tax": snapshot.BeforeTax,
					"gst":        snapshot.GST,
					"grand":      snapshot.Grand,
					"updated_at": goqu.L("now()"),
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to upsert costing snapshot for client %d: %w", snapshot.ClientID, err)
	}

	return nil
}
