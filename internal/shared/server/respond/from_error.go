package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/shared/apperr"
)

// FromError maps a classified service error to the standardized error response.
// Unclassified errors become an opaque 500 so internals never leak to callers.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, apperr.ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.Is(err, apperr.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, apperr.ErrConflict):
		Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, apperr.ErrInvalidOperation):
		Error(c, http.StatusBadRequest, "invalid_operation", err.Error(), nil)
	case errors.Is(err, apperr.ErrExtraction):
		Error(c, http.StatusUnprocessableEntity, "extraction_failed", err.Error(), nil)
	default:
		Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
	}
}
