/**
 * @description
 * Transaction ledger commands and queries. The credit/debit column is fixed by
 * the transaction type at write time; edits that change type or amount
 * re-classify the row.
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

func validTransactionType(t domain.TransactionType) bool {
	switch t {
	case domain.TxSavings, domain.TxShare, domain.TxLoanDisbursement,
		domain.TxLoanRepayment, domain.TxWithdrawal, domain.TxDeposit:
		return true
	default:
		return false
	}
}

// CreateTransactionCommand carries a manual ledger entry.
type CreateTransactionCommand struct {
	UserID          int64
	Type            domain.TransactionType
	Amount          decimal.Decimal
	Description     string
	ReferenceID     *int64
	TransactionDate *time.Time
}

// CreateTransaction books a ledger row with the amount in the column its type
// dictates.
func (s *Service) CreateTransaction(ctx context.Context, cmd CreateTransactionCommand) (*domain.Transaction, error) {
	if !validTransactionType(cmd.Type) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, cmd.Type)
	}
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if _, err := s.repo.FindUserByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(cmd.UserID, cmd.Type, cmd.Amount, cmd.Description, cmd.ReferenceID, cmd.TransactionDate, s.CurrentFinancialYear(ctx))
	return s.repo.CreateTransaction(ctx, tx)
}

// UpdateTransactionCommand carries a ledger edit; nil means keep the stored value.
type UpdateTransactionCommand struct {
	TransactionID   int64
	Type            *domain.TransactionType
	Amount          *decimal.Decimal
	Description     *string
	TransactionDate *time.Time
}

// UpdateTransaction edits a ledger row. Changing the type or amount books the
// row into the correct column again.
func (s *Service) UpdateTransaction(ctx context.Context, cmd UpdateTransactionCommand) (*domain.Transaction, error) {
	tx, err := s.repo.FindTransactionByID(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}

	amount := tx.Credit
	if tx.IsDebit() {
		amount = tx.Debit
	}
	reclassify := false

	if cmd.Type != nil {
		if !validTransactionType(*cmd.Type) {
			return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, *cmd.Type)
		}
		tx.TransactionType = *cmd.Type
		reclassify = true
	}
	if cmd.Amount != nil {
		if cmd.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
		}
		amount = *cmd.Amount
		reclassify = true
	}
	if cmd.Description != nil {
		tx.Description = *cmd.Description
	}
	if cmd.TransactionDate != nil {
		tx.TransactionDate = *cmd.TransactionDate
	}
	if reclassify {
		tx.Classify(amount)
	}

	return s.repo.UpdateTransaction(ctx, tx)
}

// DeleteTransaction removes a ledger row.
func (s *Service) DeleteTransaction(ctx context.Context, transactionID int64) error {
	deleted, err := s.repo.DeleteTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrTransactionNotFound
	}
	return nil
}

// GetTransaction retrieves a ledger row by id.
func (s *Service) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return s.repo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions returns a page of the whole ledger.
func (s *Service) ListTransactions(ctx context.Context, opts store.ListOptions) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, opts)
}

// ListUserTransactions returns a page of one member's ledger rows.
func (s *Service) ListUserTransactions(ctx context.Context, userID int64, opts store.ListOptions) ([]domain.Transaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userID, opts)
}
