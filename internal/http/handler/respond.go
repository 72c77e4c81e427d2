package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"memorygym/internal/study"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeStudyError maps the domain error taxonomy to HTTP. Not-found and
// forbidden collapse into one generic 404 so another user's rows never
// leak their existence.
func writeStudyError(w http.ResponseWriter, err error) {
	var ve *study.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}

	var qe *study.QuotaError
	if errors.As(err, &qe) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": qe.Error(),
			"quota": map[string]any{
				"resource": qe.Resource,
				"limit":    qe.Limit,
				"count":    qe.Count,
			},
		})
		return
	}

	if errors.Is(err, study.ErrNotFound) || errors.Is(err, study.ErrForbidden) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var ue *study.UpstreamError
	if errors.As(err, &ue) {
		writeError(w, http.StatusBadGateway, "storage unavailable")
		return
	}

	writeError(w, http.StatusInternalServerError, "server error")
}
