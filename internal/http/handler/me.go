package handler

import (
	"net/http"

	"memorygym/internal/auth"
	"memorygym/internal/billing"
	"memorygym/internal/study"

	"gorm.io/gorm"
)

type MeHandler struct {
	DB      *gorm.DB
	Billing *billing.Service
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var u auth.User
	if err := h.DB.Where("id = ?", uid).First(&u).Error; err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	profile, err := h.Billing.Profile(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	premium, err := h.Billing.IsPremium(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":       u.ID,
		"email":         u.Email,
		"last_login_at": u.LastLoginAt,
		"is_premium":    premium,
		"premium_until": profile.PremiumUntil,
	})
}

// DeleteAccount removes the user and everything they own: cards,
// subjects, billing profile, then the user row, in one transaction.
func (h *MeHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", uid).Delete(&study.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&study.Subject{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&billing.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", uid).Delete(&auth.User{}).Error
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
