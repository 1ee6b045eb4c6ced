/**
 * @description
 * User administration commands and queries: create with uniqueness pre-checks,
 * partial update with re-checks on email/member id changes, suspend, activate,
 * delete and the paginated listing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// CreateUserCommand carries a new member or admin account.
type CreateUserCommand struct {
	MemberID string
	Email    string
	Password string
	FullName string
	Phone    string
	Role     domain.UserRole
}

// CreateUser registers a user with a hashed password. Email and member id are
// checked before the insert; the unique indexes still back the check under
// concurrency.
func (s *Service) CreateUser(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	cmd.MemberID = strings.TrimSpace(cmd.MemberID)
	if cmd.MemberID == "" || cmd.Email == "" || cmd.FullName == "" {
		return nil, fmt.Errorf("%w: member id, email and full name are required", ErrValidation)
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	role := cmd.Role
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, cmd.Role)
	}

	if _, err := s.repo.FindUserByEmail(ctx, cmd.Email); err == nil {
		return nil, store.ErrEmailTaken
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindUserByMemberID(ctx, cmd.MemberID); err == nil {
		return nil, store.ErrMemberIDTaken
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		MemberID:       cmd.MemberID,
		Email:          cmd.Email,
		HashedPassword: string(hashed),
		FullName:       cmd.FullName,
		Phone:          cmd.Phone,
		Role:           role,
		Status:         domain.UserActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=app msg=\"user created\" user_id=%d member_id=%s role=%s", created.ID, created.MemberID, created.Role)
	return created, nil
}

// UpdateUserCommand carries a partial user edit; nil means keep the stored value.
type UpdateUserCommand struct {
	UserID   int64
	MemberID *string
	Email    *string
	FullName *string
	Phone    *string
}

// UpdateUser applies a partial edit. Changing the email or member id re-runs
// the uniqueness check against other users.
func (s *Service) UpdateUser(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*cmd.Email))
		if email != "" && email != user.Email {
			if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
				return nil, store.ErrEmailTaken
			} else if !errors.Is(err, store.ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if cmd.MemberID != nil {
		memberID := strings.TrimSpace(*cmd.MemberID)
		if memberID != "" && memberID != user.MemberID {
			if _, err := s.repo.FindUserByMemberID(ctx, memberID); err == nil {
				return nil, store.ErrMemberIDTaken
			} else if !errors.Is(err, store.ErrUserNotFound) {
				return nil, err
			}
			user.MemberID = memberID
		}
	}
	if cmd.FullName != nil && *cmd.FullName != "" {
		user.FullName = *cmd.FullName
	}
	if cmd.Phone != nil {
		user.Phone = *cmd.Phone
	}
	user.UpdatedAt = time.Now().UTC()

	return s.repo.UpdateUser(ctx, user)
}

// SuspendUser blocks the account from logging in.
func (s *Service) SuspendUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Suspend()
	updated, err := s.repo.UpdateUser(ctx, user)
	if err == nil {
		log.Printf("level=info component=app msg=\"user suspended\" user_id=%d", userID)
	}
	return updated, err
}

// ActivateUser restores a suspended or inactive account.
func (s *Service) ActivateUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Activate()
	return s.repo.UpdateUser(ctx, user)
}

// DeleteUser removes a user row. Returns ErrUserNotFound when nothing matched.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	deleted, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrUserNotFound
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// ListUsers returns a page of users.
func (s *Service) ListUsers(ctx context.Context, opts store.ListOptions) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, opts)
}
