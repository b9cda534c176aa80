package auth

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/fdg312/bioboard/internal/validation"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDevAuth handles POST /v1/auth/dev
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	var req DevAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	resp, err := h.service.SignInDev(req)
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.Is(err, ErrDevAuthDisabled):
			writeErrorResponse(w, http.StatusNotFound, "dev_auth_disabled", "Dev auth is disabled")
		case errors.As(err, &verr):
			writeErrorResponse(w, http.StatusBadRequest, "invalid_request", verr.Error())
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
