package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/dto"
)

// writeError maps a domain error to the HTTP response
func writeError(c *gin.Context, logger coreport.Logger, err error) {
	status := http.StatusInternalServerError
	message := err.Error()
	var fields map[string]string

	switch {
	case domainerr.IsNotFoundError(err):
		status = http.StatusNotFound
	case domainerr.IsConflictError(err):
		status = http.StatusConflict
	case domainerr.IsInvalidQuantityError(err):
		status = http.StatusUnprocessableEntity
	case domainerr.IsValidationError(err):
		status = http.StatusBadRequest
		var ve *domainerr.ValidationError
		if errors.As(err, &ve) {
			fields = ve.Fields
		}
	case errors.Is(err, domainerr.ErrInvalidDuration):
		status = http.StatusBadRequest
	case errors.Is(err, domainerr.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, domainerr.ErrUserNotApproved):
		status = http.StatusForbidden
	case errors.Is(err, domainerr.ErrDuplicateItem), errors.Is(err, domainerr.ErrDuplicateUser):
		status = http.StatusConflict
	default:
		logger.Error("Unhandled error in API request", map[string]any{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		})
		message = "Internal server error"
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
		Fields:  fields,
	})
}

// writeBindError reports a malformed request body
func writeBindError(c *gin.Context, logger coreport.Logger, err error) {
	logger.Debug("Invalid request format", map[string]any{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.CodeValidation,
		Message: "Invalid request format: " + err.Error(),
	})
}
