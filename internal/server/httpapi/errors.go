package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gastrolog/internal/common"
)

var errBadBody = errors.New("invalid request body")

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to its status. Internal causes are logged
// and hidden from the caller.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		code   = "internal"
		msg    = "Internal server error"
	)
	switch {
	case errors.Is(err, errBadBody), errors.Is(err, common.ErrorValidation):
		status, code, msg = http.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		status, code, msg = http.StatusUnauthorized, "unauthorized", "Unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		status, code, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, common.ErrorUpstream):
		status, code, msg = http.StatusBadGateway, "upstream", "Analysis service unavailable"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "status", status, "err", err)
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
