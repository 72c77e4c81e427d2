package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"memorygym/internal/auth"
	"memorygym/internal/feedback"
)

type FeedbackHandler struct {
	Svc     *feedback.Service
	Limiter feedback.Limiter
}

type feedbackReq struct {
	Content string `json:"content"`
	Email   string `json:"email"`
}

// clientIP strips the port chi leaves on RemoteAddr for direct
// connections; behind a proxy the RealIP middleware has already
// rewritten it to a bare IP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if ok, retryAfter := h.Limiter.Allow(clientIP(r)); !ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	var userID *uint64
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		userID = &uid
	}

	fb, err := h.Svc.Submit(r.Context(), feedback.SubmitInput{
		UserID:  userID,
		Email:   req.Email,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, feedback.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": fb.ID})
}
