/**
 * @description
 * Handlers for authentication and the member's own profile: login, password
 * change, profile read/update and the member dashboard.
 */

package api

import (
	"encoding/json"
	"net/http"

	"github.com/thomasakiou/dpa-BE/internal/app"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	MemberID   string `json:"member_id"`
	Password   string `json:"password"`
}

// LoginHandler authenticates a member by email or member id and returns a
// bearer token.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.MemberID
	}

	result, err := h.service.Login(r.Context(), app.LoginCommand{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordHandler lets the authenticated user rotate their own password.
func (h *Handlers) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.service.ChangePassword(r.Context(), app.ChangePasswordCommand{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// MeHandler returns the authenticated user's profile.
func (h *Handlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// UpdateMeHandler lets the authenticated user edit their own contact details.
// Member id changes stay admin-only.
func (h *Handlers) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.service.UpdateUser(r.Context(), app.UpdateUserCommand{
		UserID:   userID,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// MemberDashboardHandler returns the authenticated member's dashboard.
func (h *Handlers) MemberDashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	dashboard, err := h.service.GetMemberDashboard(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dashboard)
}
