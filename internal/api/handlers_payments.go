/**
 * @description
 * Handlers for the savings payment ledger endpoints: administrative CRUD over
 * individual payment events and the per-user aggregates.
 */

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/app"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

type recordPaymentRequest struct {
	UserID       int64                     `json:"user_id"`
	Amount       decimal.Decimal           `json:"amount"`
	Type         domain.SavingsPaymentType `json:"type"`
	PaymentDate  *time.Time                `json:"payment_date"`
	PaymentMonth *string                   `json:"payment_month"`
	Description  *string                   `json:"description"`
}

// RecordPaymentHandler appends a payment event to the ledger. Admin only.
func (h *Handlers) RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payment, err := h.service.RecordPayment(r.Context(), app.RecordPaymentCommand{
		UserID:       req.UserID,
		Amount:       req.Amount,
		Type:         req.Type,
		PaymentDate:  req.PaymentDate,
		PaymentMonth: req.PaymentMonth,
		Description:  req.Description,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, payment)
}

// ListPaymentsHandler lists the whole payment ledger. Admin only.
func (h *Handlers) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payments)
}

// GetPaymentHandler returns one payment event by id. Admin only.
func (h *Handlers) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "paymentID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payment)
}

type updatePaymentRequest struct {
	Amount       *decimal.Decimal           `json:"amount"`
	Type         *domain.SavingsPaymentType `json:"type"`
	PaymentDate  *time.Time                 `json:"payment_date"`
	PaymentMonth *string                    `json:"payment_month"`
	Description  *string                    `json:"description"`
}

// UpdatePaymentHandler edits a payment event. Admin only.
func (h *Handlers) UpdatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "paymentID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payment, err := h.service.UpdatePayment(r.Context(), id, domain.SavingsPaymentUpdate{
		Amount:       req.Amount,
		Type:         req.Type,
		PaymentDate:  req.PaymentDate,
		PaymentMonth: req.PaymentMonth,
		Description:  req.Description,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payment)
}

// DeletePaymentHandler removes a payment event. Admin only.
func (h *Handlers) DeletePaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "paymentID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeletePayment(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserPaymentsHandler lists one member's payment events. Admin only.
func (h *Handlers) UserPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payments, err := h.service.ListUserPayments(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payments)
}

// UserPaymentSummaryHandler returns one member's ledger totals. Admin only.
func (h *Handlers) UserPaymentSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := h.service.UserPaymentSummary(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}
