package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarstock/internal/api"
	"solarstock/pkg/auditlog"
	"solarstock/pkg/security"
)

type TransactionHandler struct {
	Service  *TransactionService
	AuditLog *auditlog.Auditlog
}

func NewTransactionHandler(s *TransactionService, a *auditlog.Auditlog) *TransactionHandler {
	return &TransactionHandler{
		Service:  s,
		AuditLog: a,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/clients/:id/transactions", h.GetTransactions)
	router.GET("/clients/:id/usage", h.GetUsage)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/clients/:id/transactions", security.Authorize("user"), h.RecordTransaction)
	}
}

func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	transaction, err := h.Service.RecordTransaction(clientID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"record",
		map[string]interface{}{
			"client_id": clientID,
			"direction": transaction.Direction,
			"items":     transaction.Items,
			"msg":       "Client transaction recorded",
		},
		transaction,
	)

	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": transaction})
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	transactions, err := h.Service.GetTransactions(clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetUsage(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	usage, err := h.Service.GetUsage(clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}
