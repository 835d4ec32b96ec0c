package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tecsup/order-svc/internal/errs"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Invalid writes a 400 with the invalid_request code.
func Invalid(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: message})
}

// Error maps a service error onto the boundary taxonomy. Orders missing
// from the URL path are a plain 404; a missing product referenced by a
// request body is 422, since the resource addressed by the URL may well
// exist. Storage details never reach the body.
func Error(w http.ResponseWriter, err error) {
	var notFound *errs.NotFoundError
	switch {
	case errors.As(err, &notFound):
		status := http.StatusNotFound
		if notFound.Resource == "product" {
			status = http.StatusUnprocessableEntity
		}
		JSON(w, status, ErrorResponse{Error: notFound.Resource + "_not_found", Message: notFound.Error()})
	case errors.Is(err, errs.ErrInvalidRequest):
		Invalid(w, err.Error())
	case errors.Is(err, errs.ErrUnavailable):
		JSON(w, http.StatusBadGateway, ErrorResponse{Error: "dependency_unavailable", Message: err.Error()})
	default:
		slog.Error("Unhandled service error", "error", err)
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "internal server error"})
	}
}
