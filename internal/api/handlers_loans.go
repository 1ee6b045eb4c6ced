/**
 * @description
 * Handlers for the loan endpoints: member-facing application and loan listing,
 * and the administrative lifecycle operations (approve, disburse, repayment,
 * reject, close) plus CRUD.
 */

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/app"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

type applyLoanRequest struct {
	UserID         int64           `json:"user_id"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
	Description    *string         `json:"description"`
}

// ApplyLoanHandler files a loan application for the authenticated member.
// Admins may file on behalf of another member via user_id.
func (h *Handlers) ApplyLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req applyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	targetID := userID
	if role, _ := GetUserRole(r.Context()); role == domain.RoleAdmin && req.UserID > 0 {
		targetID = req.UserID
	}
	loan, err := h.service.ApplyLoan(r.Context(), app.ApplyLoanCommand{
		UserID:         targetID,
		LoanAmount:     req.LoanAmount,
		InterestRate:   req.InterestRate,
		DurationMonths: req.DurationMonths,
		Description:    req.Description,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, loan)
}

// MyLoansHandler lists the authenticated member's loans.
func (h *Handlers) MyLoansHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	loans, err := h.service.ListUserLoans(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loans)
}

// ListLoansHandler lists all loans. Admin only.
func (h *Handlers) ListLoansHandler(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context(), listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loans)
}

// GetLoanHandler returns one loan by id. Admin only.
func (h *Handlers) GetLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "loanID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loan, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loan)
}

// ApproveLoanHandler approves a pending loan. Admin only.
func (h *Handlers) ApproveLoanHandler(w http.ResponseWriter, r *http.Request) {
	h.loanTransition(w, r, h.service.ApproveLoan)
}

// DisburseLoanHandler disburses an approved loan. Admin only.
func (h *Handlers) DisburseLoanHandler(w http.ResponseWriter, r *http.Request) {
	h.loanTransition(w, r, h.service.DisburseLoan)
}

// RejectLoanHandler rejects a pending loan. Admin only.
func (h *Handlers) RejectLoanHandler(w http.ResponseWriter, r *http.Request) {
	h.loanTransition(w, r, h.service.RejectLoan)
}

// CloseLoanHandler closes a loan. Admin only.
func (h *Handlers) CloseLoanHandler(w http.ResponseWriter, r *http.Request) {
	h.loanTransition(w, r, h.service.CloseLoan)
}

func (h *Handlers) loanTransition(w http.ResponseWriter, r *http.Request, op func(context.Context, int64) (*domain.Loan, error)) {
	id, err := idParam(r, "loanID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loan, err := op(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loan)
}

type loanRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// LoanRepaymentHandler records a repayment against a loan. Admin only.
func (h *Handlers) LoanRepaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "loanID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req loanRepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := h.service.RecordLoanRepayment(r.Context(), id, req.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loan)
}

type updateLoanRequest struct {
	LoanAmount     *decimal.Decimal `json:"loan_amount"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
	DurationMonths *int             `json:"duration_months"`
	Description    *string          `json:"description"`
}

// UpdateLoanHandler edits a loan's terms. Admin only.
func (h *Handlers) UpdateLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "loanID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := h.service.UpdateLoan(r.Context(), app.UpdateLoanCommand{
		LoanID:         id,
		LoanAmount:     req.LoanAmount,
		InterestRate:   req.InterestRate,
		DurationMonths: req.DurationMonths,
		Description:    req.Description,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loan)
}

// DeleteLoanHandler removes a loan. Admin only.
func (h *Handlers) DeleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "loanID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteLoan(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserLoansHandler lists one member's loans. Admin only.
func (h *Handlers) UserLoansHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loans, err := h.service.ListUserLoans(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loans)
}
