/**
 * @description
 * Handlers for the transactions ledger endpoints: the member's own history and
 * the administrative CRUD.
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

// MyTransactionsHandler lists the authenticated member's ledger rows.
func (h *Handlers) MyTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	txs, err := h.service.ListUserTransactions(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, txs)
}

type createTransactionRequest struct {
	UserID          int64                  `json:"user_id"`
	Type            domain.TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	ReferenceID     *int64                 `json:"reference_id"`
	TransactionDate *time.Time             `json:"transaction_date"`
}

// CreateTransactionHandler books a manual ledger entry. Admin only.
func (h *Handlers) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := h.service.CreateTransaction(r.Context(), app.CreateTransactionCommand{
		UserID:          req.UserID,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		ReferenceID:     req.ReferenceID,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tx)
}

// ListTransactionsHandler lists the whole ledger. Admin only.
func (h *Handlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListTransactions(r.Context(), listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, txs)
}

// GetTransactionHandler returns one ledger row by id. Admin only.
func (h *Handlers) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "transactionID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

type updateTransactionRequest struct {
	Type            *domain.TransactionType `json:"transaction_type"`
	Amount          *decimal.Decimal        `json:"amount"`
	Description     *string                 `json:"description"`
	TransactionDate *time.Time              `json:"transaction_date"`
}

// UpdateTransactionHandler edits a ledger row. Admin only.
func (h *Handlers) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "transactionID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := h.service.UpdateTransaction(r.Context(), app.UpdateTransactionCommand{
		TransactionID:   id,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

// DeleteTransactionHandler removes a ledger row. Admin only.
func (h *Handlers) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "transactionID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserTransactionsHandler lists one member's ledger rows. Admin only.
func (h *Handlers) UserTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	txs, err := h.service.ListUserTransactions(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, txs)
}
