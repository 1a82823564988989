package clients

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarstock/internal/api"
	"solarstock/internal/repository"
	"solarstock/pkg/auditlog"
	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/security"
)

type ClientHandler struct {
	r        *ClientRepository
	AuditLog *auditlog.Auditlog
}

func NewClientHandler(r *repository.Repository, a *auditlog.Auditlog) *ClientHandler {
	return &ClientHandler{
		r:        NewRepository(r),
		AuditLog: a,
	}
}

func (h *ClientHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/clients", h.GetClients)
	router.GET("/clients/:id", h.GetClient)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/clients", security.Authorize("user"), h.CreateClient)
		protectedRoutes.DELETE("/clients/:id", security.Authorize("admin"), h.RemoveClient)
	}
}

func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.r.GetClients()
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.r.GetClientByID(id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		api.Fail(c, &custom_error.ValidationError{Fields: errs})
		return
	}

	client, err := h.r.PersistClient(req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"name":        client.Name,
			"consumer_no": client.ConsumerNo,
			"msg":         "Client registered",
		},
		client,
	)

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) RemoveClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.r.GetClientByID(id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	if err := h.r.DeleteClient(id); err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"delete",
		map[string]interface{}{
			"name": client.Name,
			"msg":  "Client removed",
		},
		client,
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Client deleted"})
}
