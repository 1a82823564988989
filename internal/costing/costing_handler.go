package costing

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarstock/internal/api"
	"solarstock/pkg/auditlog"
	"solarstock/pkg/security"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CostingHandler struct {
	Service  *CostingService
	AuditLog *auditlog.Auditlog
}

func NewCostingHandler(s *CostingService, a *auditlog.Auditlog) *CostingHandler {
	return &CostingHandler{
		Service:  s,
		AuditLog: a,
	}
}

func (h *CostingHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/clients/:id/costing", h.GetCosting)
	router.GET("/clients/:id/costing/export", h.ExportCosting)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.PUT("/clients/:id/costing", security.Authorize("user"), h.SaveCosting)
		protectedRoutes.POST("/clients/:id/costing/recompute", security.Authorize("user"), h.RecomputeCosting)
	}
}

func (h *CostingHandler) GetCosting(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	snapshot, err := h.Service.GetCosting(clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *CostingHandler) SaveCosting(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	var req SaveCostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	snapshot, err := h.Service.Save(clientID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"save",
		map[string]interface{}{
			"client_id": clientID,
			"lines":     len(snapshot.Items),
			"grand":     snapshot.Grand,
			"msg":       "Costing sheet saved manually",
		},
		snapshot,
	)

	c.JSON(http.StatusOK, snapshot)
}

func (h *CostingHandler) RecomputeCosting(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	snapshot, err := h.Service.Recompute(clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"recompute",
		map[string]interface{}{
			"client_id": clientID,
			"grand":     snapshot.Grand,
			"msg":       "Costing rebuilt from ledger",
		},
		snapshot,
	)

	c.JSON(http.StatusOK, snapshot)
}

func (h *CostingHandler) ExportCosting(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.Service.cr.GetClientByID(clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	snapshot, err := h.Service.GetCosting(clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	buf, err := ExportXLSX(*client, *snapshot)
	if err != nil {
		api.Fail(c, err)
		return
	}

	filename := fmt.Sprintf("costing_%s.xlsx", client.ConsumerNo)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
