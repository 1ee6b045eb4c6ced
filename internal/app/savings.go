/**
 * @description
 * Period savings commands and queries. Creation rejects a duplicate
 * (user, month, year) before hitting the unique index; payments are additive
 * and always re-derive the status; updates overwrite amounts absolutely and
 * re-derive the status too.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// CreateSavingsCommand carries a new savings period row.
type CreateSavingsCommand struct {
	UserID         int64
	Month          string
	Year           int
	ExpectedAmount decimal.Decimal
	PaidAmount     decimal.Decimal
}

// CreateSavings opens a savings period for a member. One row per member per
// (month, year).
func (s *Service) CreateSavings(ctx context.Context, cmd CreateSavingsCommand) (*domain.Savings, error) {
	if cmd.UserID <= 0 {
		return nil, fmt.Errorf("%w: user id must be valid", ErrValidation)
	}
	if cmd.Month == "" {
		return nil, fmt.Errorf("%w: month is required", ErrValidation)
	}
	if cmd.ExpectedAmount.IsNegative() || cmd.PaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: amounts cannot be negative", ErrValidation)
	}
	if _, err := s.repo.FindUserByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindSavingsByUserAndPeriod(ctx, cmd.UserID, cmd.Month, cmd.Year); err == nil {
		return nil, fmt.Errorf("savings record already exists for %s %d: %w", cmd.Month, cmd.Year, store.ErrSavingsPeriodExists)
	} else if !errors.Is(err, store.ErrSavingsNotFound) {
		return nil, err
	}

	savings := domain.NewSavings(cmd.UserID, cmd.Month, cmd.Year, cmd.ExpectedAmount, cmd.PaidAmount, s.CurrentFinancialYear(ctx))
	return s.repo.CreateSavings(ctx, savings)
}

// RecordSavingsPayment adds a payment to a savings period.
func (s *Service) RecordSavingsPayment(ctx context.Context, savingsID int64, amount decimal.Decimal, paymentDate *time.Time) (*domain.Savings, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	savings, err := s.repo.FindSavingsByID(ctx, savingsID)
	if err != nil {
		return nil, err
	}
	savings.RecordPayment(amount, paymentDate)
	updated, err := s.repo.UpdateSavings(ctx, savings)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, EventSavingsPayment, map[string]interface{}{
		"savings_id": updated.ID,
		"user_id":    updated.UserID,
		"amount":     amount,
		"status":     updated.Status,
	})
	return updated, nil
}

// UpdateSavingsCommand carries a savings edit; nil means keep the stored value.
type UpdateSavingsCommand struct {
	SavingsID      int64
	ExpectedAmount *decimal.Decimal
	PaidAmount     *decimal.Decimal
}

// UpdateSavings overwrites the period's amounts and re-derives the status.
// Unlike RecordSavingsPayment this is absolute, not additive.
func (s *Service) UpdateSavings(ctx context.Context, cmd UpdateSavingsCommand) (*domain.Savings, error) {
	savings, err := s.repo.FindSavingsByID(ctx, cmd.SavingsID)
	if err != nil {
		return nil, err
	}
	if cmd.ExpectedAmount != nil {
		if cmd.ExpectedAmount.IsNegative() {
			return nil, fmt.Errorf("%w: expected amount cannot be negative", ErrValidation)
		}
		savings.ExpectedAmount = *cmd.ExpectedAmount
	}
	if cmd.PaidAmount != nil {
		if cmd.PaidAmount.IsNegative() {
			return nil, fmt.Errorf("%w: paid amount cannot be negative", ErrValidation)
		}
		savings.PaidAmount = *cmd.PaidAmount
	}
	savings.RefreshStatus()
	savings.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateSavings(ctx, savings)
}

// DeleteSavings removes a savings period row.
func (s *Service) DeleteSavings(ctx context.Context, savingsID int64) error {
	deleted, err := s.repo.DeleteSavings(ctx, savingsID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrSavingsNotFound
	}
	return nil
}

// GetSavings retrieves a savings period by id.
func (s *Service) GetSavings(ctx context.Context, savingsID int64) (*domain.Savings, error) {
	return s.repo.FindSavingsByID(ctx, savingsID)
}

// ListSavings returns a page of all savings periods.
func (s *Service) ListSavings(ctx context.Context, opts store.ListOptions) ([]domain.Savings, error) {
	return s.repo.ListSavings(ctx, opts)
}

// ListUserSavings returns a page of one member's savings periods.
func (s *Service) ListUserSavings(ctx context.Context, userID int64, opts store.ListOptions) ([]domain.Savings, error) {
	return s.repo.ListSavingsByUser(ctx, userID, opts)
}

// SavingsSummary aggregates one member's savings position.
type SavingsSummary struct {
	UserID        int64           `json:"user_id"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalExpected decimal.Decimal `json:"total_expected"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// UserSavingsSummary returns the member's totals across all periods. The
// outstanding figure is floored at zero.
func (s *Service) UserSavingsSummary(ctx context.Context, userID int64) (*SavingsSummary, error) {
	paid, err := s.repo.TotalSavingsPaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	expected, err := s.repo.TotalSavingsExpectedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	outstanding := expected.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	return &SavingsSummary{
		UserID:        userID,
		TotalPaid:     paid,
		TotalExpected: expected,
		Outstanding:   outstanding,
	}, nil
}
