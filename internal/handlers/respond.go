package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/provdelegation/portal/api/internal/database"
	apierrors "github.com/provdelegation/portal/api/internal/errors"
	"github.com/provdelegation/portal/api/internal/services"
)

// bindFailed answers a failed ShouldBind. Tag failures list the fields;
// anything else (bad JSON, a string where a number belongs) is a plain 400.
func bindFailed(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, message, map[string]interface{}{
		"reason": err.Error(),
	})
}

// serviceFailed maps service errors to responses. Client mistakes become
// 400s, an unreachable database a 503, and everything else a 500 with the
// cause kept in the logs.
func serviceFailed(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrInvalidKind),
		errors.Is(err, services.ErrUnknownSite),
		errors.Is(err, services.ErrInvalidPagination):
		apierrors.BadRequest(c, err.Error(), nil)
	case database.IsUnavailable(err):
		apierrors.DatabaseUnavailable(c, "Database is temporarily unavailable", err)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}
