package pkg

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/domain"
)

// ErrorResponse is the JSON body of every non-2xx response. The client reads
// Message as the human-readable failure text.
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// Success sends a 200 JSON response with data as the body.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response with the created entity.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends a JSON error response. If err is a *domain.AppError, its code is
// mapped to the appropriate HTTP status; otherwise 500 is returned.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	msg := "internal error"
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, ErrorResponse{
		Code:    domain.ErrorCode(err),
		Message: msg,
		Errors:  ValidationFields(err),
	})
}

// BindAndValidate binds the JSON request body to obj and validates it.
// On failure it sends the error response and returns false.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		Error(c, domain.NewAppError(domain.CodeBadRequest, err.Error(), err))
		return false
	}
	if err := Validate(obj); err != nil {
		Error(c, err)
		return false
	}
	return true
}
