package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/application/constant"
	"github.com/commune-hq/commune/internal/domain/apperrors"
)

// respondError translates engine error kinds into HTTP responses. An
// already-member outcome is a no-op success, not a failure.
func respondError(c echo.Context, err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindUnauthorized:
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case apperrors.KindNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperrors.KindInvalidState:
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case apperrors.KindExpiredInvite:
		return c.JSON(http.StatusGone, map[string]string{"error": err.Error()})
	case apperrors.KindAlreadyMember:
		return c.JSON(http.StatusOK, map[string]bool{"already_member": true})
	default:
		slog.Error("internal error", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
