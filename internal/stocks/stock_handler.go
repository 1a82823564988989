package stocks

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarstock/internal/api"
	"solarstock/internal/materials"
	"solarstock/internal/repository"
	"solarstock/pkg/auditlog"
	"solarstock/pkg/security"
)

type StockHandler struct {
	Service  *StockService
	AuditLog *auditlog.Auditlog
}

func NewStockHandler(r *repository.Repository, a *auditlog.Auditlog) *StockHandler {
	stockRepo := NewRepository(r)
	materialRepo := materials.NewRepository(r)

	return &StockHandler{
		Service:  NewStockService(r, stockRepo, materialRepo),
		AuditLog: a,
	}
}

func (h *StockHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/stocks/history", h.GetHistory)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/materials/:id/adjust", security.Authorize("user"), h.AdjustStock)
		protectedRoutes.PUT("/materials/:id/quantity", security.Authorize("admin"), h.SetQuantity)
		protectedRoutes.POST("/materials/:id/rebuild", security.Authorize("admin"), h.RebuildQuantity)
		protectedRoutes.POST("/stocks/fill", security.Authorize("user"), h.FillStock)
	}
}

func (h *StockHandler) AdjustStock(c *gin.Context) {
	materialID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid material ID")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	movement, err := h.Service.Adjust(materialID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"adjust",
		map[string]interface{}{
			"direction": req.Direction,
			"quantity":  req.Quantity,
			"reason":    req.Reason,
			"msg":       "Stock quantity adjusted",
		},
		movement,
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "movement": movement})
}

func (h *StockHandler) SetQuantity(c *gin.Context) {
	materialID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid material ID")
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	material, err := h.Service.SetQuantity(materialID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	// Overrides bypass the movement ledger, so the audit trail is the only
	// durable record of them.
	go h.AuditLog.LogAs(
		"set_quantity",
		map[string]interface{}{
			"quantity": req.Quantity,
			"msg":      "Stock quantity set directly",
		},
		material,
		security.UserIDFromContext(c),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "material": material})
}

func (h *StockHandler) FillStock(c *gin.Context) {
	var req FillStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	movement, err := h.Service.FillStock(req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"fill",
		map[string]interface{}{
			"total_items": movement.TotalItems,
			"line_items":  len(movement.Items),
			"msg":         "Bulk stock fill applied",
		},
		movement,
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "movement": movement})
}

func (h *StockHandler) RebuildQuantity(c *gin.Context) {
	materialID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid material ID")
		return
	}

	quantity, err := h.Service.RebuildQuantity(materialID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quantity": quantity})
}

func (h *StockHandler) GetHistory(c *gin.Context) {
	movements, err := h.Service.GetHistory()
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, movements)
}
