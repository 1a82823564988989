package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarstock/pkg/security"
)

// RegisterRoutes exposes the audit trail to moderators. Filtering is by
// resource type and id, newest first.
func (a *Auditlog) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	protectedRoutes.GET("/logs", security.Authorize("moderator"), a.GetLogs)
}

func (a *Auditlog) GetLogs(c *gin.Context) {
	resourceType := c.Query("resource_type")

	resourceID := 0
	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid resource_id"})
			return
		}
		resourceID = id
	}

	logs, err := a.r.GetLogs(resourceType, resourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Persistence error"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
