package handler

import (
	"errors"
	"net/http"

	"teamdesk/internal/transport/httpdto"
	deskerrors "teamdesk/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, errors.New("empty id")
	}
	return uuid.Parse(value)
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// respondError maps service errors onto HTTP statuses and stable codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, deskerrors.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse(err.Error(), "UNAUTHORIZED"))
	case errors.Is(err, deskerrors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse(err.Error(), "FORBIDDEN"))
	case errors.Is(err, deskerrors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, deskerrors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
	case errors.Is(err, deskerrors.ErrInvalidOperation):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "INVALID_OPERATION"))
	case errors.Is(err, deskerrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "ALREADY_EXISTS"))
	case errors.Is(err, deskerrors.ErrTokenExpired):
		c.JSON(http.StatusGone, httpdto.NewErrorResponse(err.Error(), "TOKEN_EXPIRED"))
	case errors.Is(err, deskerrors.ErrTokenUsed):
		c.JSON(http.StatusGone, httpdto.NewErrorResponse(err.Error(), "TOKEN_USED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
