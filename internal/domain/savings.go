/**
 * @description
 * This file defines the period-based Savings model: one row per member per
 * calendar month carrying an expected contribution and the amount paid so far.
 * Status is a pure function of paid versus expected; recording a payment is
 * additive and always recomputes it.
 *
 * @notes
 * - MISSED is a valid stored status but nothing in the service assigns it; it
 *   is reserved for a future end-of-period sweep.
 */

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsStatus enumerates the settlement states of a savings period.
type SavingsStatus string

const (
	SavingsPaid    SavingsStatus = "paid"
	SavingsPending SavingsStatus = "pending"
	SavingsPartial SavingsStatus = "partial"
	SavingsMissed  SavingsStatus = "missed"
)

// Savings represents one month's expected contribution for a member. Maps to
// the `savings` table; (user_id, month, year) is unique.
type Savings struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Month          string          `json:"month"`
	Year           int             `json:"year"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Status         SavingsStatus   `json:"status"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	FinancialYear  string          `json:"financial_year"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewSavings builds a savings period row. Status is derived from the initial
// paid amount, so seeding a pre-paid period lands directly in PARTIAL or PAID.
func NewSavings(userID int64, month string, year int, expected, paid decimal.Decimal, financialYear string) *Savings {
	now := time.Now().UTC()
	s := &Savings{
		UserID:         userID,
		Month:          month,
		Year:           year,
		ExpectedAmount: expected,
		PaidAmount:     paid,
		Status:         SavingsPending,
		FinancialYear:  financialYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.RefreshStatus()
	return s
}

// RecordPayment adds to the paid amount, stamps the payment date and refreshes
// the status. Payments accumulate; they never overwrite.
func (s *Savings) RecordPayment(amount decimal.Decimal, paymentDate *time.Time) {
	s.PaidAmount = s.PaidAmount.Add(amount)
	now := time.Now().UTC()
	if paymentDate != nil {
		s.PaymentDate = paymentDate
	} else {
		s.PaymentDate = &now
	}
	s.UpdatedAt = now
	s.RefreshStatus()
}

// RefreshStatus re-derives the status from paid versus expected.
func (s *Savings) RefreshStatus() {
	switch {
	case s.PaidAmount.GreaterThanOrEqual(s.ExpectedAmount):
		s.Status = SavingsPaid
	case s.PaidAmount.GreaterThan(decimal.Zero):
		s.Status = SavingsPartial
	default:
		s.Status = SavingsPending
	}
}

// IsFullyPaid reports whether the expected contribution has been met.
func (s *Savings) IsFullyPaid() bool {
	return s.PaidAmount.GreaterThanOrEqual(s.ExpectedAmount)
}

// RemainingAmount returns the shortfall for the period, floored at zero.
func (s *Savings) RemainingAmount() decimal.Decimal {
	remaining := s.ExpectedAmount.Sub(s.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
