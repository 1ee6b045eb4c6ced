/**
 * @description
 * Handlers for the share endpoints: the member's own holdings and summary,
 * and the administrative CRUD.
 */

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/app"
)

// MySharesHandler lists the authenticated member's share entries.
func (h *Handlers) MySharesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	shares, err := h.service.ListUserShares(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, shares)
}

// MySharesSummaryHandler returns the authenticated member's share totals.
func (h *Handlers) MySharesSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	summary, err := h.service.UserShareSummary(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

type purchaseSharesRequest struct {
	UserID       int64           `json:"user_id"`
	SharesCount  int             `json:"shares_count"`
	ShareValue   decimal.Decimal `json:"share_value"`
	PurchaseDate *time.Time      `json:"purchase_date"`
}

// PurchaseSharesHandler records a share purchase. Admin only.
func (h *Handlers) PurchaseSharesHandler(w http.ResponseWriter, r *http.Request) {
	var req purchaseSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	share, err := h.service.PurchaseShares(r.Context(), app.PurchaseSharesCommand{
		UserID:       req.UserID,
		SharesCount:  req.SharesCount,
		ShareValue:   req.ShareValue,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, share)
}

// ListSharesHandler lists all share entries. Admin only.
func (h *Handlers) ListSharesHandler(w http.ResponseWriter, r *http.Request) {
	shares, err := h.service.ListShares(r.Context(), listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, shares)
}

// GetShareHandler returns one share entry by id. Admin only.
func (h *Handlers) GetShareHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shareID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	share, err := h.service.GetShare(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, share)
}

type updateShareRequest struct {
	SharesCount *int             `json:"shares_count"`
	ShareValue  *decimal.Decimal `json:"share_value"`
}

// UpdateShareHandler edits a share entry. Admin only.
func (h *Handlers) UpdateShareHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shareID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	share, err := h.service.UpdateShare(r.Context(), app.UpdateShareCommand{
		ShareID:     id,
		SharesCount: req.SharesCount,
		ShareValue:  req.ShareValue,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, share)
}

// DeleteShareHandler removes a share entry. Admin only.
func (h *Handlers) DeleteShareHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shareID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteShare(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserSharesHandler lists one member's share entries. Admin only.
func (h *Handlers) UserSharesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	shares, err := h.service.ListUserShares(r.Context(), userID, listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, shares)
}
