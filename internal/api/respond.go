package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	custom_error "solarstock/pkg/errors"
)

// Fail converts a domain error into the structured form-layer response
// {"success": false, "message": ..., "errors": {field: msg}?} with the
// matching HTTP status. Unrecognized errors become a 500 persistence error.
func Fail(c *gin.Context, err error) {
	switch e := err.(type) {
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  e.Fields,
		})
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": e.Error(),
		})
	case *custom_error.InsufficientStockError:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"success":   false,
			"message":   e.Error(),
			"available": e.Available,
			"requested": e.Requested,
		})
	case *custom_error.OverReturnError:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"success":        false,
			"message":        e.Error(),
			"max_returnable": e.MaxReturnable,
		})
	case *custom_error.UniqueViolationError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"success": false,
			"message": e.Error(),
		})
	case *custom_error.ForeignKeyViolationError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"success": false,
			"message": e.Error(),
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Persistence error",
			"details": err.Error(),
		})
	}
}

// BadRequest is the generic malformed-payload rejection used before any
// field-level validation can run.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
	})
}
