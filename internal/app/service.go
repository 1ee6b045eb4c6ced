/**
 * @description
 * This file contains the core of the application layer: the `Service` struct,
 * the command-level error values, and the financial-year resolution shared by
 * every create path. The Service orchestrates commands and queries against the
 * repository, enforces status-transition guards, and publishes domain events
 * after successful state changes.
 *
 * Key features:
 * - All handlers receive explicit command structs and return domain entities.
 * - Guard violations wrap sentinel errors so the API layer can map them with
 *   errors.Is while the message still carries the conflicting state.
 * - The active financial year comes from the system_settings row, falling
 *   back to a calendar-year label when the row is absent.
 *
 * @dependencies
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/rabbitmq: Event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
	"github.com/thomasakiou/dpa-BE/pkg/rabbitmq"
)

var (
	// ErrInvalidLoanStatus signals a loan operation attempted outside its
	// allowed states. Wrapped messages name the operation and current status.
	ErrInvalidLoanStatus = errors.New("operation not allowed for loan status")
	// ErrInvalidCredentials covers unknown identifier and wrong password alike.
	ErrInvalidCredentials = errors.New("incorrect email/member id or password")
	// ErrUserInactive signals a login attempt on a suspended or inactive account.
	ErrUserInactive = errors.New("user account is not active")
	// ErrValidation covers malformed command input.
	ErrValidation = errors.New("validation failed")
	// ErrLoginThrottled signals too many login attempts for one identifier.
	ErrLoginThrottled = errors.New("too many login attempts")
)

// Service provides the command and query handlers for the member ledger.
type Service struct {
	repo     store.Repository
	events   rabbitmq.Publisher
	exchange string

	jwtSecret []byte
	tokenTTL  time.Duration

	loginLimiter   RateLimiter
	loginRateLimit int

	defaultFinancialYear string
}

// NewService creates a new Service instance. The publisher may be nil, in
// which case events are dropped with a log line.
func NewService(repo store.Repository, events rabbitmq.Publisher, exchange string, jwtSecret string, tokenTTL time.Duration, defaultFinancialYear string) *Service {
	return &Service{
		repo:                 repo,
		events:               events,
		exchange:             exchange,
		jwtSecret:            []byte(jwtSecret),
		tokenTTL:             tokenTTL,
		defaultFinancialYear: defaultFinancialYear,
	}
}

// SetLoginRateLimiter enables distributed login throttling.
func (s *Service) SetLoginRateLimiter(limiter RateLimiter, perMinute int) {
	s.loginLimiter = limiter
	s.loginRateLimit = perMinute
}

// CurrentFinancialYear resolves the active financial-year label. The
// system_settings row wins; otherwise fall back to the configured default or,
// failing that, a label derived from the calendar year.
func (s *Service) CurrentFinancialYear(ctx context.Context) string {
	setting, err := s.repo.FindSettingByKey(ctx, domain.SettingFinancialYear)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if err != nil && !errors.Is(err, store.ErrSettingNotFound) {
		log.Printf("level=warn component=app msg=\"financial year lookup failed; using fallback\" err=%v", err)
	}
	if s.defaultFinancialYear != "" {
		return s.defaultFinancialYear
	}
	year := time.Now().UTC().Year()
	return fmt.Sprintf("%d-%d", year, year+1)
}

// SetFinancialYear upserts the active financial-year settings row.
func (s *Service) SetFinancialYear(ctx context.Context, value string) (*domain.SystemSetting, error) {
	desc := "Active financial year"
	setting, err := domain.NewSystemSetting(domain.SettingFinancialYear, value, &desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.UpsertSetting(ctx, setting)
}

// GetSetting returns one settings row by key.
func (s *Service) GetSetting(ctx context.Context, key string) (*domain.SystemSetting, error) {
	return s.repo.FindSettingByKey(ctx, key)
}

// ListSettings returns all settings rows.
func (s *Service) ListSettings(ctx context.Context) ([]domain.SystemSetting, error) {
	return s.repo.ListSettings(ctx)
}

// UpsertSetting validates and writes a settings row.
func (s *Service) UpsertSetting(ctx context.Context, key, value string, description *string) (*domain.SystemSetting, error) {
	setting, err := domain.NewSystemSetting(key, value, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.UpsertSetting(ctx, setting)
}
