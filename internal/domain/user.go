/**
 * @description
 * This file defines the User domain model and its role/status enumerations.
 * Users are either administrators of the association or regular members; every
 * financial record in the system hangs off a user row.
 */

package domain

import "time"

// UserRole enumerates the access levels recognised by the API.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// UserStatus enumerates account states. Only active users may log in.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserInactive  UserStatus = "inactive"
)

// User represents a member of the association. Maps to the `users` table.
type User struct {
	ID             int64      `json:"id"`
	MemberID       string     `json:"member_id"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	Role           UserRole   `json:"role"`
	Status         UserStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// Suspend marks the user as suspended.
func (u *User) Suspend() {
	u.Status = UserSuspended
	u.UpdatedAt = time.Now().UTC()
}

// Activate marks the user as active.
func (u *User) Activate() {
	u.Status = UserActive
	u.UpdatedAt = time.Now().UTC()
}
