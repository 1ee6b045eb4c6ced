/**
 * @description
 * Handlers for the period savings endpoints: the member's own records and
 * summary, and the administrative CRUD plus payment recording.
 */

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/app"
)

// MySavingsHandler lists the authenticated member's savings periods.
func (h *Handlers) MySavingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	records, err := h.service.ListUserSavings(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// MySavingsSummaryHandler returns the authenticated member's savings totals.
func (h *Handlers) MySavingsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	summary, err := h.service.UserSavingsSummary(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

type createSavingsRequest struct {
	UserID         int64           `json:"user_id"`
	Month          string          `json:"month"`
	Year           int             `json:"year"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
}

// CreateSavingsHandler opens a savings period for a member. Admin only.
func (h *Handlers) CreateSavingsHandler(w http.ResponseWriter, r *http.Request) {
	var req createSavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	savings, err := h.service.CreateSavings(r.Context(), app.CreateSavingsCommand{
		UserID:         req.UserID,
		Month:          req.Month,
		Year:           req.Year,
		ExpectedAmount: req.ExpectedAmount,
		PaidAmount:     req.PaidAmount,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, savings)
}

// ListSavingsHandler lists all savings periods. Admin only.
func (h *Handlers) ListSavingsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListSavings(r.Context(), listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// GetSavingsHandler returns one savings period by id. Admin only.
func (h *Handlers) GetSavingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "savingsID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	savings, err := h.service.GetSavings(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, savings)
}

type savingsPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// SavingsPaymentHandler records a payment against a savings period. Admin only.
func (h *Handlers) SavingsPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "savingsID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req savingsPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	savings, err := h.service.RecordSavingsPayment(r.Context(), id, req.Amount, req.PaymentDate)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, savings)
}

type updateSavingsRequest struct {
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
	PaidAmount     *decimal.Decimal `json:"paid_amount"`
}

// UpdateSavingsHandler overwrites a savings period's amounts. Admin only.
func (h *Handlers) UpdateSavingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "savingsID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateSavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	savings, err := h.service.UpdateSavings(r.Context(), app.UpdateSavingsCommand{
		SavingsID:      id,
		ExpectedAmount: req.ExpectedAmount,
		PaidAmount:     req.PaidAmount,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, savings)
}

// DeleteSavingsHandler removes a savings period. Admin only.
func (h *Handlers) DeleteSavingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "savingsID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteSavings(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserSavingsHandler lists one member's savings periods. Admin only.
func (h *Handlers) UserSavingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.service.ListUserSavings(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}
