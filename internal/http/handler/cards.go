package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"memorygym/internal/auth"
	"memorygym/internal/study"

	"github.com/go-chi/chi/v5"
)

type CardHandler struct {
	Svc *study.Service
}

func cardID(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// subjectScope reads the optional {id} subject route param, present on
// /subjects/{id}/cards/... routes and absent on /cards/... routes.
func subjectScope(r *http.Request) (*uint64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// List serves GET /cards and GET /subjects/{id}/cards, with ?box=N as
// an optional filter.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	sid, ok := subjectScope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	// box is an optional filter; without it the subject's whole card
	// list comes back.
	var cards []study.Card
	var err error
	if raw := r.URL.Query().Get("box"); raw != "" {
		box, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "box must be a number (1..5)")
			return
		}
		cards, err = h.Svc.ListCardsByBox(r.Context(), uid, box, sid)
	} else {
		cards, err = h.Svc.ListCards(r.Context(), uid, sid)
	}
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": cards})
}

func (h *CardHandler) Today(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	sid, ok := subjectScope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	cards, err := h.Svc.ListCardsDueToday(r.Context(), uid, sid)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": cards})
}

func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	sid, ok := subjectScope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	cards, err := h.Svc.SearchCards(r.Context(), uid, r.URL.Query().Get("q"), sid)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": cards})
}

func (h *CardHandler) Count(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	sid, ok := subjectScope(r)
	if !ok || sid == nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	n, err := h.Svc.CountCards(r.Context(), uid, *sid)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

type createCardReq struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Create serves POST /subjects/{id}/cards.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	sid, ok := subjectScope(r)
	if !ok || sid == nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	var req createCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	card, err := h.Svc.CreateCard(r.Context(), uid, study.CreateCardInput{
		Front:     req.Front,
		Back:      req.Back,
		SubjectID: *sid,
	})
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": card})
}

type updateCardReq struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := cardID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	card, err := h.Svc.UpdateCard(r.Context(), uid, id, study.UpdateCardInput{
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": card})
}

type reviewReq struct {
	IsCorrect *bool `json:"isCorrect"`
}

func (h *CardHandler) Review(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := cardID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req reviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsCorrect == nil {
		writeError(w, http.StatusBadRequest, "isCorrect required")
		return
	}

	card, err := h.Svc.ReviewCard(r.Context(), uid, id, *req.IsCorrect)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": card})
}

type moveReq struct {
	Box *int `json:"box"`
}

// Move is the manual box override for the box-management view.
func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := cardID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Box == nil {
		writeError(w, http.StatusBadRequest, "box required")
		return
	}

	card, err := h.Svc.MoveCard(r.Context(), uid, id, *req.Box)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": card})
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := cardID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Svc.DeleteCard(r.Context(), uid, id); err != nil {
		writeStudyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
