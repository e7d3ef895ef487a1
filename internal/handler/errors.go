package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/domain"
	"inkwell/internal/httputil"
)

// respondDomainError maps domain errors to RFC 7807 responses. Unrecognized
// errors become a 500 and are logged; domain errors are surfaced verbatim.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var insufficient *domain.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		httputil.RespondErrorWithExtras(w, insufficient.StatusCode(), insufficient.Error(), map[string]interface{}{
			"required": insufficient.Required,
			"balance":  insufficient.Balance,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrStoreUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, "storage temporarily unavailable, retry the request")
	default:
		logger.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
