package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	apierrors "textcompare-api/internal/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps the failure taxonomy onto HTTP statuses. Authorization and
// eligibility failures surface verbatim; provider failures come back as
// structured 502/504 bodies instead of crashing the request.
func statusFor(err error) int {
	var providerErr *apierrors.ProviderError

	switch {
	case errors.Is(err, apierrors.ErrInvalidSignature),
		errors.Is(err, apierrors.ErrInvalidToken),
		errors.Is(err, apierrors.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, apierrors.ErrSubscriptionExpired):
		return http.StatusForbidden
	case errors.Is(err, apierrors.ErrQuotaExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, apierrors.ErrCredentialNotFound),
		errors.Is(err, apierrors.ErrTextNotFound),
		errors.Is(err, apierrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apierrors.ErrProviderTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, apierrors.ErrUnsupportedProvider), errors.As(err, &providerErr):
		return http.StatusBadGateway
	case errors.Is(err, apierrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
