package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError maps the reservation error taxonomy to HTTP statuses.
// Anything outside the taxonomy is an infrastructure failure.
func RespondAppError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		conflictErr   *apperrors.ConflictError
		transitionErr *apperrors.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, JSONResponse{
			Status:  false,
			Message: validationErr.Message,
			Data:    gin.H{"field": validationErr.Field},
		})
	case errors.As(err, &notFoundErr):
		RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &conflictErr):
		RespondError(c, http.StatusConflict, err)
	case errors.As(err, &transitionErr):
		RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		ErrorLogger.Printf("internal error: %v", err)
		RespondError(c, http.StatusInternalServerError, err)
	}
}
