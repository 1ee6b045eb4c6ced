/**
 * @description
 * Authentication commands: login with email or member id, password changes and
 * admin-driven resets. Tokens are HS256 JWTs carrying the user id, member id
 * and role so the API layer can authorize without a database round trip.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// LoginCommand carries the credentials of a login attempt. Identifier is an
// email address or a member id.
type LoginCommand struct {
	Identifier string
	Password   string
}

// LoginResult is the successful outcome of a login.
type LoginResult struct {
	Token     string       `json:"access_token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Login authenticates a user by email or member id. Unknown identifiers and
// wrong passwords return the same error so the response does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	identifier := strings.TrimSpace(cmd.Identifier)
	if identifier == "" || cmd.Password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}

	if err := s.throttleLogin(ctx, identifier); err != nil {
		return nil, err
	}

	user, err := s.findUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	log.Printf("level=info component=app msg=\"user logged in\" user_id=%d member_id=%s", user.ID, user.MemberID)
	return &LoginResult{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// findUserByIdentifier tries the identifier as an email first, then as a
// member id.
func (s *Service) findUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, store.ErrUserNotFound) {
		return s.repo.FindUserByMemberID(ctx, identifier)
	}
	return user, err
}

func (s *Service) throttleLogin(ctx context.Context, identifier string) error {
	if s.loginLimiter == nil || s.loginRateLimit <= 0 {
		return nil
	}
	count, retryAfter, err := s.loginLimiter.ConsumeRateLimit(ctx, "login", identifier, s.loginRateLimit, time.Minute)
	if err != nil {
		// Redis being down must not lock everyone out.
		log.Printf("level=warn component=app msg=\"login rate limiter unavailable\" err=%v", err)
		return nil
	}
	if count > s.loginRateLimit {
		return fmt.Errorf("%w: retry in %d seconds", ErrLoginThrottled, retryAfter)
	}
	return nil
}

func (s *Service) issueToken(user *domain.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":       fmt.Sprintf("%d", user.ID),
		"member_id": user.MemberID,
		"role":      string(user.Role),
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ChangePasswordCommand carries a self-service password change.
type ChangePasswordCommand struct {
	UserID      int64
	OldPassword string
	NewPassword string
}

// ChangePassword verifies the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	if len(cmd.NewPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrValidation)
	}
	user, err := s.repo.FindUserByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(cmd.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	user.HashedPassword = string(hashed)
	user.UpdatedAt = time.Now().UTC()
	_, err = s.repo.UpdateUser(ctx, user)
	return err
}

// ResetPassword sets a user's password without knowing the old one. Admin only;
// the API layer enforces the role.
func (s *Service) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrValidation)
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	user.HashedPassword = string(hashed)
	user.UpdatedAt = time.Now().UTC()
	_, err = s.repo.UpdateUser(ctx, user)
	if err == nil {
		log.Printf("level=info component=app msg=\"password reset\" user_id=%d", userID)
	}
	return err
}

// ParseToken validates a signed token and returns its claims. Used by the API
// middleware.
func (s *Service) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
