package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"memorygym/internal/auth"
	"memorygym/internal/study"

	"github.com/go-chi/chi/v5"
)

type SubjectHandler struct {
	Svc *study.Service
}

func subjectID(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	subjects, err := h.Svc.ListSubjects(r.Context(), uid)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": subjects})
}

func (h *SubjectHandler) Count(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	n, err := h.Svc.CountSubjects(r.Context(), uid)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

type createSubjectReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createSubjectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	sub, err := h.Svc.CreateSubject(r.Context(), uid, study.CreateSubjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": sub})
}

type updateSubjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := subjectID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateSubjectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	sub, err := h.Svc.UpdateSubject(r.Context(), uid, id, study.UpdateSubjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": sub})
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := subjectID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Svc.DeleteSubject(r.Context(), uid, id); err != nil {
		writeStudyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
