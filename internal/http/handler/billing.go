package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"memorygym/internal/auth"
	"memorygym/internal/billing"
	"memorygym/internal/quota"
)

type PlanHandler struct{}

// Plans serves GET /plans and GET /plans?name=.
func (h *PlanHandler) Plans(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		plan, ok := quota.ByName(name)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown plan")
			return
		}
		writeJSON(w, http.StatusOK, plan)
		return
	}
	writeJSON(w, http.StatusOK, quota.Plans())
}

type PaymentHandler struct {
	Svc *billing.Service
}

// Order issues a merchant order id the client passes to the gateway.
func (h *PaymentHandler) Order(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"merchant_uid": billing.NewMerchantUID(),
	})
}

type verifyReq struct {
	ImpUID      string `json:"imp_uid"`
	MerchantUID string `json:"merchant_uid"`
	Amount      int    `json:"amount"`
	Period      string `json:"period"`
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	pay, err := h.Svc.Verify(r.Context(), uid, billing.VerifyInput{
		ImpUID:      req.ImpUID,
		MerchantUID: req.MerchantUID,
		Amount:      req.Amount,
		Period:      req.Period,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": pay})
	case errors.Is(err, billing.ErrAmountMismatch),
		errors.Is(err, billing.ErrNotPaid),
		errors.Is(err, billing.ErrBadPeriod):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	case errors.Is(err, billing.ErrGatewayDisabled):
		writeError(w, http.StatusServiceUnavailable, "payments disabled")
	default:
		writeError(w, http.StatusBadGateway, "payment verification failed")
	}
}
