package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
)

// HandleAPIError translates service and repository errors into the uniform
// error body. Not-found covers both absence and foreign ownership; anything
// unrecognized is demoted to a 400 with the raw message in detail rather than
// crashing the request.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrNotAuthenticated),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	default:
		// Downstream data-layer failure: fail the request, surface the message.
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	}
}
