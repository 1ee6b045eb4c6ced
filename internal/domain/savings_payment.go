/**
 * @description
 * This file defines the SavingsPayment model: an append-only ledger of
 * individual payment events (monthly savings, share purchases, loan
 * repayments, fees). A payment is a fact, not a state machine — there is no
 * status field and totals are computed by aggregation, never stored here.
 */

package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SavingsPaymentType enumerates what a payment was for.
type SavingsPaymentType string

const (
	PaymentMonthlySavings  SavingsPaymentType = "Monthly Savings"
	PaymentSharePurchase   SavingsPaymentType = "Share Purchase"
	PaymentLoanRepayment   SavingsPaymentType = "Loan Repayment"
	PaymentRegistrationFee SavingsPaymentType = "Registration Fee"
	PaymentOther           SavingsPaymentType = "Other"
)

// ErrInvalidUserID is returned when a payment is constructed without a valid owner.
var ErrInvalidUserID = errors.New("user id must be valid")

// SavingsPayment represents one recorded payment. Maps to `savings_payments`.
type SavingsPayment struct {
	ID            int64              `json:"id"`
	UserID        int64              `json:"user_id"`
	Amount        decimal.Decimal    `json:"amount"`
	Type          SavingsPaymentType `json:"type"`
	PaymentDate   time.Time          `json:"payment_date"`
	PaymentMonth  *string            `json:"payment_month,omitempty"`
	FinancialYear string             `json:"financial_year"`
	Description   *string            `json:"description,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// NewSavingsPayment builds and validates a payment record.
func NewSavingsPayment(userID int64, amount decimal.Decimal, paymentType SavingsPaymentType, paymentDate *time.Time, paymentMonth, description *string, financialYear string) (*SavingsPayment, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	now := time.Now().UTC()
	date := now
	if paymentDate != nil {
		date = *paymentDate
	}
	return &SavingsPayment{
		UserID:        userID,
		Amount:        amount,
		Type:          paymentType,
		PaymentDate:   date,
		PaymentMonth:  paymentMonth,
		FinancialYear: financialYear,
		Description:   description,
		CreatedAt:     now,
	}, nil
}

// SavingsPaymentUpdate carries the optional fields of a payment edit; nil
// means leave the stored value alone.
type SavingsPaymentUpdate struct {
	Amount       *decimal.Decimal
	Type         *SavingsPaymentType
	PaymentDate  *time.Time
	PaymentMonth *string
	Description  *string
}

// Apply overwrites the provided fields on the payment.
func (p *SavingsPayment) Apply(upd SavingsPaymentUpdate) {
	if upd.Amount != nil {
		p.Amount = *upd.Amount
	}
	if upd.Type != nil {
		p.Type = *upd.Type
	}
	if upd.PaymentDate != nil {
		p.PaymentDate = *upd.PaymentDate
	}
	if upd.PaymentMonth != nil {
		p.PaymentMonth = upd.PaymentMonth
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
}
