package handler

import (
	"errors"
	"net/http"
	"strconv"

	"memorygym/internal/auth"
	"memorygym/internal/importer"

	"github.com/go-chi/chi/v5"
)

// Uploads above this size are rejected outright.
const maxImportSize = 5 << 20

type ImportHandler struct {
	Importer *importer.Importer
}

// Import serves POST /subjects/{id}/cards/import with a multipart "file"
// field holding an xlsx workbook.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	sid, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	result, err := h.Importer.Import(r.Context(), uid, sid, file)
	if err != nil {
		if errors.Is(err, importer.ErrBadWorkbook) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeStudyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": result})
}
