package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"solarstock/internal/api"
	"solarstock/pkg/models"
	"solarstock/pkg/security"
)

type UsersHandler struct {
	Repository UserRepository
}

func NewHandler(r UserRepository) *UsersHandler {
	return &UsersHandler{
		Repository: r,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize("admin"), h.RegisterUser)
	router.PATCH("/users/:id", security.Authorize("admin"), h.UpdateUser)
	router.GET("/users/:id", security.Authorize("user"), h.GetUser)
	router.GET("/users", security.Authorize("moderator"), h.GetUserList)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	if err := h.Repository.PersistUser(req, hashedPassword); err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully"})
}

type updateUserRequest struct {
	Password *string `json:"password"`
	Role     *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Invalid request payload")
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	changes := &UserChanges{}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			api.BadRequest(c, "Password must be at least 6 characters long")
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Role != nil && *req.Role != user.Role {
		changes.Role = req.Role
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		api.Fail(c, err)
		return
	}

	updatedUser, err := h.Repository.GetUser(userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
