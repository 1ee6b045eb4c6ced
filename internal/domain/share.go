/**
 * @description
 * This file defines the Share model: a member's share purchase with the
 * derived total value. Updates recompute the total unconditionally; no history
 * of prior share values is kept.
 */

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Share represents a member's shareholding entry. Maps to the `shares` table.
type Share struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	SharesCount   int             `json:"shares_count"`
	ShareValue    decimal.Decimal `json:"share_value"`
	TotalValue    decimal.Decimal `json:"total_value"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	FinancialYear string          `json:"financial_year"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewShare builds a share entry with the total value derived from count and
// per-share value.
func NewShare(userID int64, count int, value decimal.Decimal, purchaseDate *time.Time, financialYear string) *Share {
	now := time.Now().UTC()
	date := now
	if purchaseDate != nil {
		date = *purchaseDate
	}
	s := &Share{
		UserID:        userID,
		SharesCount:   count,
		ShareValue:    value,
		PurchaseDate:  date,
		FinancialYear: financialYear,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.TotalValue = s.CalculateTotalValue()
	return s
}

// CalculateTotalValue returns shares_count * share_value.
func (s *Share) CalculateTotalValue() decimal.Decimal {
	return decimal.NewFromInt(int64(s.SharesCount)).Mul(s.ShareValue)
}

// AddShares increases the holding at a (possibly new) per-share value and
// recomputes the total.
func (s *Share) AddShares(count int, valuePerShare decimal.Decimal) {
	s.SharesCount += count
	s.ShareValue = valuePerShare
	s.TotalValue = s.CalculateTotalValue()
	s.UpdatedAt = time.Now().UTC()
}
