/**
 * @description
 * This file defines the Transaction ledger model and the fixed classification
 * of transaction types into the credit or debit column. Money flowing from a
 * member to the association (savings, shares, loan repayments, deposits) is a
 * credit; money flowing out (withdrawals, loan disbursements) is a debit.
 *
 * @notes
 * - The balance column is stored as written. Running-balance computation is
 *   deliberately not implemented; its semantics are undefined for this ledger.
 */

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates ledger entry categories.
type TransactionType string

const (
	TxSavings          TransactionType = "savings"
	TxShare            TransactionType = "share"
	TxLoanDisbursement TransactionType = "loan_disbursement"
	TxLoanRepayment    TransactionType = "loan_repayment"
	TxWithdrawal       TransactionType = "withdrawal"
	TxDeposit          TransactionType = "deposit"
)

// Transaction represents one ledger row. Maps to the `transactions` table.
type Transaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	TransactionType TransactionType `json:"transaction_type"`
	Description     string          `json:"description"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Balance         decimal.Decimal `json:"balance"`
	ReferenceID     *int64          `json:"reference_id,omitempty"`
	FinancialYear   string          `json:"financial_year"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsCreditType reports whether the given type books to the credit column.
func IsCreditType(t TransactionType) bool {
	switch t {
	case TxSavings, TxShare, TxLoanRepayment, TxDeposit:
		return true
	default:
		return false
	}
}

// NewTransaction builds a ledger row, placing the amount in the credit or
// debit column according to the type.
func NewTransaction(userID int64, txType TransactionType, amount decimal.Decimal, description string, referenceID *int64, txDate *time.Time, financialYear string) *Transaction {
	now := time.Now().UTC()
	date := now
	if txDate != nil {
		date = *txDate
	}
	tx := &Transaction{
		UserID:          userID,
		TransactionType: txType,
		Description:     description,
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Balance:         decimal.Zero,
		ReferenceID:     referenceID,
		FinancialYear:   financialYear,
		TransactionDate: date,
		CreatedAt:       now,
	}
	tx.Classify(amount)
	return tx
}

// Classify books the amount into the correct column for the current type,
// zeroing the other column.
func (t *Transaction) Classify(amount decimal.Decimal) {
	if IsCreditType(t.TransactionType) {
		t.Credit = amount
		t.Debit = decimal.Zero
	} else {
		t.Debit = amount
		t.Credit = decimal.Zero
	}
}

// IsDebit reports whether the row carries a debit amount.
func (t *Transaction) IsDebit() bool {
	return t.Debit.GreaterThan(decimal.Zero)
}

// IsCredit reports whether the row carries a credit amount.
func (t *Transaction) IsCredit() bool {
	return t.Credit.GreaterThan(decimal.Zero)
}
