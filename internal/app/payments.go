/**
 * @description
 * Commands and queries over the savings_payments ledger: individual payment
 * events of any type (monthly savings, share purchases, loan repayments,
 * fees). Totals are always computed by aggregation over this table.
 */

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// RecordPaymentCommand carries one payment event.
type RecordPaymentCommand struct {
	UserID       int64
	Amount       decimal.Decimal
	Type         domain.SavingsPaymentType
	PaymentDate  *time.Time
	PaymentMonth *string
	Description  *string
}

// RecordPayment appends a payment event to the ledger and publishes it.
func (s *Service) RecordPayment(ctx context.Context, cmd RecordPaymentCommand) (*domain.SavingsPayment, error) {
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if _, err := s.repo.FindUserByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}
	paymentType := cmd.Type
	if paymentType == "" {
		paymentType = domain.PaymentMonthlySavings
	}

	payment, err := domain.NewSavingsPayment(cmd.UserID, cmd.Amount, paymentType, cmd.PaymentDate, cmd.PaymentMonth, cmd.Description, s.CurrentFinancialYear(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	created, err := s.repo.CreateSavingsPayment(ctx, payment)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, EventPaymentRecord, map[string]interface{}{
		"payment_id": created.ID,
		"user_id":    created.UserID,
		"amount":     created.Amount,
		"type":       created.Type,
	})
	return created, nil
}

// UpdatePayment applies a partial edit to a payment event.
func (s *Service) UpdatePayment(ctx context.Context, paymentID int64, upd domain.SavingsPaymentUpdate) (*domain.SavingsPayment, error) {
	if upd.Amount != nil && upd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	payment, err := s.repo.FindSavingsPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Apply(upd)
	return s.repo.UpdateSavingsPayment(ctx, payment)
}

// DeletePayment removes a payment event.
func (s *Service) DeletePayment(ctx context.Context, paymentID int64) error {
	deleted, err := s.repo.DeleteSavingsPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrPaymentNotFound
	}
	return nil
}

// GetPayment retrieves a payment event by id.
func (s *Service) GetPayment(ctx context.Context, paymentID int64) (*domain.SavingsPayment, error) {
	return s.repo.FindSavingsPaymentByID(ctx, paymentID)
}

// ListPayments returns a page of the whole ledger.
func (s *Service) ListPayments(ctx context.Context, opts store.ListOptions) ([]domain.SavingsPayment, error) {
	return s.repo.ListSavingsPayments(ctx, opts)
}

// ListUserPayments returns a page of one member's payment events.
func (s *Service) ListUserPayments(ctx context.Context, userID int64, opts store.ListOptions) ([]domain.SavingsPayment, error) {
	return s.repo.ListSavingsPaymentsByUser(ctx, userID, opts)
}

// PaymentSummary aggregates one member's payment ledger.
type PaymentSummary struct {
	UserID       int64           `json:"user_id"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	PaymentCount int64           `json:"payment_count"`
}

// UserPaymentSummary returns the member's ledger totals.
func (s *Service) UserPaymentSummary(ctx context.Context, userID int64) (*PaymentSummary, error) {
	total, err := s.repo.TotalPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PaymentSummary{UserID: userID, TotalPaid: total, PaymentCount: count}, nil
}
