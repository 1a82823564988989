package materials

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

type MaterialHandler struct {
	r        *MaterialRepository
	AuditLog *auditlog.Auditlog
}

func NewMaterialHandler(r *repository.Repository, a *auditlog.Auditlog) *MaterialHandler {
	return &MaterialHandler{
		r:        NewRepository(r),
		AuditLog: a,
	}
}

func (h *MaterialHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/materials", h.GetMaterials)
	router.GET("/materials/low-stock", h.GetLowStockMaterials)
	router.GET("/materials/:id", h.GetMaterial)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/materials", security.Authorize("user"), h.CreateMaterial)
		protectedRoutes.DELETE("/materials/:id", security.Authorize("admin"), h.RemoveMaterial)
	}
}

func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	materials, err := h.r.GetMaterials()
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

func (h *MaterialHandler) GetLowStockMaterials(c *gin.Context) {
	materials, err := h.r.GetLowStockMaterials()
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid material ID")
		return
	}

	material, err := h.r.GetMaterialByID(id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		api.Fail(c, &custom_error.ValidationError{Fields: errs})
		return
	}

	material, err := h.r.PersistMaterial(req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"name":     material.Name,
			"quantity": material.Quantity,
			"category": material.Category,
			"msg":      "Material registered in warehouse",
		},
		material,
	)

	c.JSON(http.StatusCreated, material)
}

func (h *MaterialHandler) RemoveMaterial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid material ID")
		return
	}

	material, err := h.r.GetMaterialByID(id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	if err := h.r.DeleteMaterial(id); err != nil {
		api.Fail(c, err)
		return
	}

	go h.AuditLog.LogAs(
		"delete",
		map[string]interface{}{
			"name": material.Name,
			"msg":  "Material removed from warehouse",
		},
		material,
		security.UserIDFromContext(c),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Material deleted"})
}
