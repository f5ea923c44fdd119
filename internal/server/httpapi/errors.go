package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

// validationDetail strips the sentinel prefix so clients see only the
// message.
func validationDetail(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, common.ErrorValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

// writeError maps service errors onto status codes. Anything unrecognised
// is logged and reported as a 500 without internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		writeUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, common.ErrorForbidden):
		writeDetail(w, http.StatusForbidden, "Not allowed to access this conversation")
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorValidation):
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail(err))
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusConflict, "Already exists")
	case errors.Is(err, common.ErrorNotConfigured):
		writeDetail(w, http.StatusServiceUnavailable, "Recommendation engine is not configured")
	case errors.Is(err, common.ErrorUpstream):
		s.logger.Warn(r.Context(), "recommender failed", "err", err)
		writeDetail(w, http.StatusBadGateway, "Recommendation engine failed")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
