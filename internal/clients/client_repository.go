package clients

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"solarstock/internal/repository"
	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

type ClientRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ClientRepository {
	return &ClientRepository{repository: r}
}

func (r *ClientRepository) GetClients() (*[]models.Client, error) {
	var clients []models.Client

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "consumer_no", "address", "plant_capacity", "created_at").
		From("clients").
		Order(goqu.C("name").Asc())

	if err := query.Executor().ScanStructs(&clients); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for clients: %w", err)
	}

	return &clients, nil
}

func (r *ClientRepository) GetClientByID(id int) (*models.Client, error) {
	var client models.Client

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "consumer_no", "address", "plant_capacity", "created_at").
		From("clients").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&client)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("client", id)
	}

	return &client, nil
}

func (r *ClientRepository) PersistClient(req CreateClientRequest) (*models.Client, error) {
	client := models.Client{
		Name:          req.Name,
		ConsumerNo:    req.ConsumerNo,
		Address:       req.Address,
		PlantCapacity: req.PlantCapacity,
	}

	query := r.repository.GoquDBWrapper.Insert("clients").
		Rows(goqu.Record{
			"name":           req.Name,
			"consumer_no":    req.ConsumerNo,
			"address":        req.Address,
			"plant_capacity": req.PlantCapacity,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&client.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Consumer number already registered", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert client record: %w", err)
	}

	return &client, nil
}

func (r *ClientRepository) DeleteClient(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("clients").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("client", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("client", id)
	}

	return nil
}
