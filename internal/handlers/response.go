package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/backend/internal/validation"
)

// Envelope is the uniform response wrapper. Success and failure responses
// share this one shape so clients have a single parsing path.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, detail string) {
	c.JSON(status, Envelope{Success: false, Error: gin.H{"detail": detail}})
}

func respondValidationError(c *gin.Context, errs []validation.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Error: gin.H{
			"detail": "validation failed",
			"fields": errs,
		},
	})
}
