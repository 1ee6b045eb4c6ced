/**
 * @description
 * This file defines the Loan domain model and the financial calculations that
 * drive its lifecycle. Interest is simple and non-compounding: the total
 * repayable is fixed at creation time and repayments are applied against it
 * until the balance reaches zero, at which point the loan closes itself.
 *
 * @notes
 * - Monetary fields use shopspring/decimal to avoid floating-point drift in
 *   repayment accounting.
 * - Status transitions are guarded by the application service, not here; the
 *   entity methods only perform the mutation and timestamping.
 */

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus enumerates the loan lifecycle states.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanActive   LoanStatus = "active"
	LoanClosed   LoanStatus = "closed"
	LoanRejected LoanStatus = "rejected"
)

var oneHundred = decimal.NewFromInt(100)

// Loan represents a member loan. Maps to the `loans` table.
type Loan struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	DurationMonths   int             `json:"duration_months"`
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment"`
	TotalRepayable   decimal.Decimal `json:"total_repayable"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Balance          decimal.Decimal `json:"balance"`
	Status           LoanStatus      `json:"status"`
	ApplicationDate  time.Time       `json:"application_date"`
	ApprovalDate     *time.Time      `json:"approval_date,omitempty"`
	DisbursementDate *time.Time      `json:"disbursement_date,omitempty"`
	Description      *string         `json:"description,omitempty"`
	FinancialYear    string          `json:"financial_year"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewLoan builds a pending loan with all derived amounts computed from the
// principal, annual rate (percent) and term.
func NewLoan(userID int64, amount, rate decimal.Decimal, durationMonths int, description *string, financialYear string) *Loan {
	now := time.Now().UTC()
	loan := &Loan{
		UserID:          userID,
		LoanAmount:      amount,
		InterestRate:    rate,
		DurationMonths:  durationMonths,
		AmountPaid:      decimal.Zero,
		Status:          LoanPending,
		ApplicationDate: now,
		Description:     description,
		FinancialYear:   financialYear,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	loan.Recalculate()
	loan.Balance = loan.TotalRepayable
	return loan
}

// CalculateTotalRepayable returns principal plus simple interest.
func (l *Loan) CalculateTotalRepayable() decimal.Decimal {
	interest := l.LoanAmount.Mul(l.InterestRate.Div(oneHundred))
	return l.LoanAmount.Add(interest)
}

// CalculateMonthlyRepayment returns the flat monthly instalment, or zero when
// the term is zero.
func (l *Loan) CalculateMonthlyRepayment() decimal.Decimal {
	if l.DurationMonths > 0 {
		return l.TotalRepayable.Div(decimal.NewFromInt(int64(l.DurationMonths)))
	}
	return decimal.Zero
}

// Recalculate refreshes total_repayable and monthly_repayment from the current
// principal, rate and term. The balance is re-derived only while no repayment
// has been recorded; after that the stored balance is left untouched.
func (l *Loan) Recalculate() {
	l.TotalRepayable = l.CalculateTotalRepayable()
	l.MonthlyRepayment = l.CalculateMonthlyRepayment()
	if l.AmountPaid.IsZero() {
		l.Balance = l.TotalRepayable
	}
}

// Approve moves the loan to approved and stamps the approval time.
func (l *Loan) Approve() {
	now := time.Now().UTC()
	l.Status = LoanApproved
	l.ApprovalDate = &now
	l.UpdatedAt = now
}

// Disburse marks the principal as released and the loan as active.
func (l *Loan) Disburse() {
	now := time.Now().UTC()
	l.Status = LoanActive
	l.DisbursementDate = &now
	l.UpdatedAt = now
}

// RecordRepayment applies a payment against the outstanding balance. The
// balance never goes below zero, and reaching zero closes the loan.
func (l *Loan) RecordRepayment(amount decimal.Decimal) {
	l.AmountPaid = l.AmountPaid.Add(amount)
	l.Balance = l.TotalRepayable.Sub(l.AmountPaid)
	l.UpdatedAt = time.Now().UTC()

	if l.Balance.LessThanOrEqual(decimal.Zero) {
		l.Balance = decimal.Zero
		l.Close()
	}
}

// Close marks the loan as closed. No guard: closing a closed loan is a no-op.
func (l *Loan) Close() {
	l.Status = LoanClosed
	l.UpdatedAt = time.Now().UTC()
}

// Reject marks the application as rejected.
func (l *Loan) Reject() {
	l.Status = LoanRejected
	l.UpdatedAt = time.Now().UTC()
}

// IsFullyPaid reports whether the outstanding balance has reached zero.
func (l *Loan) IsFullyPaid() bool {
	return l.Balance.LessThanOrEqual(decimal.Zero)
}
