package repository

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"solarstock/pkg/models"
)

func (r *Repository) PersistLog(auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   auditlog.ResourceID,
			"resource_type": auditlog.ResourceType,
			"action":        auditlog.Action,
			"data":          dataJSON,
			"user_id":       auditlog.UserID,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *Repository) GetLogs(resourceType string, resourceID int) ([]models.AuditLog, error) {
	var logs []models.AuditLog

	query := r.GoquDBWrapper.
		Select("id", "resource_id", "resource_type", "action", goqu.C("data").As("data"), "user_id", "created_at").
		From("audit_logs").
		Order(goqu.C("created_at").Desc())
	if resourceType != "" {
		query = query.Where(goqu.Ex{"resource_type": resourceType})
	}
	if resourceID != 0 {
		query = query.Where(goqu.Ex{"resource_id": resourceID})
	}

	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for audit logs: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return logs, nil
}
