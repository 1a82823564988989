package auditlog

import (
	"log"

	"solarstock/internal/repository"
	"solarstock/pkg/models"
)

type Auditlog struct {
	r *repository.Repository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log appends an audit entry for item. Called with `go` from handlers; a
// failed append only logs, it never fails the request.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	a.LogAs(action, data, item, nil)
}

func (a *Auditlog) LogAs(action string, data interface{}, item Auditable, userID *int) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = userID

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(repository *repository.Repository) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
