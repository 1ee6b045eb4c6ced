/**
 * @description
 * Handlers for the administrative endpoints: user management (CRUD, suspend,
 * activate, password reset), the admin dashboard and system settings.
 */

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thomasakiou/dpa-BE/internal/app"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

type createUserRequest struct {
	MemberID string          `json:"member_id"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName string          `json:"full_name"`
	Phone    string          `json:"phone"`
	Role     domain.UserRole `json:"role"`
}

// CreateUserHandler registers a new member or admin account.
func (h *Handlers) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.service.CreateUser(r.Context(), app.CreateUserCommand{
		MemberID: req.MemberID,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// ListUsersHandler lists all users.
func (h *Handlers) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), listOptions(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

// GetUserHandler returns one user by id.
func (h *Handlers) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	MemberID *string `json:"member_id"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UpdateUserHandler edits a user's details.
func (h *Handlers) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.service.UpdateUser(r.Context(), app.UpdateUserCommand{
		UserID:   id,
		MemberID: req.MemberID,
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

// SuspendUserHandler blocks an account from logging in.
func (h *Handlers) SuspendUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.SuspendUser(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// ActivateUserHandler restores a suspended or inactive account.
func (h *Handlers) ActivateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.ActivateUser(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// DeleteUserHandler removes a user.
func (h *Handlers) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ResetPasswordHandler sets a user's password without the old one.
func (h *Handlers) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

// AdminDashboardHandler returns the association-wide totals.
func (h *Handlers) AdminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetAdminDashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dashboard)
}

// ListSettingsHandler lists all system settings.
func (h *Handlers) ListSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.ListSettings(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

// GetSettingHandler returns one setting by key.
func (h *Handlers) GetSettingHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "setting key required")
		return
	}
	setting, err := h.service.GetSetting(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, setting)
}

type upsertSettingRequest struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Description *string `json:"description"`
}

// UpsertSettingHandler creates or updates a setting row.
func (h *Handlers) UpsertSettingHandler(w http.ResponseWriter, r *http.Request) {
	var req upsertSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	setting, err := h.service.UpsertSetting(r.Context(), req.Key, req.Value, req.Description)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, setting)
}
