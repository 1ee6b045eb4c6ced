/**
 * @description
 * Loan lifecycle commands and queries. Status transition guards live here:
 * approve requires PENDING, disburse requires APPROVED, repayments require
 * ACTIVE or APPROVED, reject requires PENDING. Closing is unguarded and
 * idempotent. Every lifecycle change publishes an event after the row has been
 * persisted.
 */

package app

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// ApplyLoanCommand carries a loan application.
type ApplyLoanCommand struct {
	UserID         int64
	LoanAmount     decimal.Decimal
	InterestRate   decimal.Decimal
	DurationMonths int
	Description    *string
}

// ApplyLoan creates a pending loan with all derived amounts computed. Members
// with loans already running are not blocked, only noted in the log.
func (s *Service) ApplyLoan(ctx context.Context, cmd ApplyLoanCommand) (*domain.Loan, error) {
	if cmd.UserID <= 0 {
		return nil, fmt.Errorf("%w: user id must be valid", ErrValidation)
	}
	if cmd.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: loan amount must be positive", ErrValidation)
	}
	if cmd.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", ErrValidation)
	}
	if cmd.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be at least one month", ErrValidation)
	}
	if _, err := s.repo.FindUserByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	active, err := s.repo.ListActiveLoansByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		log.Printf("level=info component=app msg=\"loan application with loans already active\" user_id=%d active_loans=%d", cmd.UserID, len(active))
	}

	loan := domain.NewLoan(cmd.UserID, cmd.LoanAmount, cmd.InterestRate, cmd.DurationMonths, cmd.Description, s.CurrentFinancialYear(ctx))
	return s.repo.CreateLoan(ctx, loan)
}

// ApproveLoan moves a pending loan to approved.
func (s *Service) ApproveLoan(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanPending {
		return nil, fmt.Errorf("cannot approve loan in %s status: %w", loan.Status, ErrInvalidLoanStatus)
	}
	loan.Approve()
	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, EventLoanApproved, map[string]interface{}{
		"loan_id": updated.ID,
		"user_id": updated.UserID,
		"amount":  updated.LoanAmount,
	})
	return updated, nil
}

// DisburseLoan releases the principal of an approved loan and activates it.
func (s *Service) DisburseLoan(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanApproved {
		return nil, fmt.Errorf("cannot disburse loan in %s status: %w", loan.Status, ErrInvalidLoanStatus)
	}
	loan.Disburse()
	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}

	// Book the outflow in the transactions ledger.
	refID := updated.ID
	desc := fmt.Sprintf("Loan disbursement (loan #%d)", updated.ID)
	tx := domain.NewTransaction(updated.UserID, domain.TxLoanDisbursement, updated.LoanAmount, desc, &refID, nil, updated.FinancialYear)
	if _, err := s.repo.CreateTransaction(ctx, tx); err != nil {
		log.Printf("level=warn component=app msg=\"disbursement ledger entry failed\" loan_id=%d err=%v", updated.ID, err)
	}

	s.publishEvent(ctx, EventLoanDisbursed, map[string]interface{}{
		"loan_id": updated.ID,
		"user_id": updated.UserID,
		"amount":  updated.LoanAmount,
	})
	return updated, nil
}

// RecordLoanRepayment applies a payment to an active or approved loan. A
// balance reaching zero closes the loan and emits a closed event as well.
func (s *Service) RecordLoanRepayment(ctx context.Context, loanID int64, amount decimal.Decimal) (*domain.Loan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: repayment amount must be positive", ErrValidation)
	}
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanActive && loan.Status != domain.LoanApproved {
		return nil, fmt.Errorf("cannot record repayment for loan in %s status: %w", loan.Status, ErrInvalidLoanStatus)
	}
	loan.RecordRepayment(amount)
	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}

	refID := updated.ID
	desc := fmt.Sprintf("Loan repayment (loan #%d)", updated.ID)
	tx := domain.NewTransaction(updated.UserID, domain.TxLoanRepayment, amount, desc, &refID, nil, updated.FinancialYear)
	if _, err := s.repo.CreateTransaction(ctx, tx); err != nil {
		log.Printf("level=warn component=app msg=\"repayment ledger entry failed\" loan_id=%d err=%v", updated.ID, err)
	}

	s.publishEvent(ctx, EventLoanRepayment, map[string]interface{}{
		"loan_id": updated.ID,
		"user_id": updated.UserID,
		"amount":  amount,
		"balance": updated.Balance,
	})
	if updated.Status == domain.LoanClosed {
		s.publishEvent(ctx, EventLoanClosed, map[string]interface{}{
			"loan_id": updated.ID,
			"user_id": updated.UserID,
		})
	}
	return updated, nil
}

// CloseLoan marks a loan as closed regardless of its current status.
func (s *Service) CloseLoan(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	loan.Close()
	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, EventLoanClosed, map[string]interface{}{
		"loan_id": updated.ID,
		"user_id": updated.UserID,
	})
	return updated, nil
}

// RejectLoan rejects a pending application.
func (s *Service) RejectLoan(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanPending {
		return nil, fmt.Errorf("cannot reject loan in %s status: %w", loan.Status, ErrInvalidLoanStatus)
	}
	loan.Reject()
	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, EventLoanRejected, map[string]interface{}{
		"loan_id": updated.ID,
		"user_id": updated.UserID,
	})
	return updated, nil
}

// UpdateLoanCommand carries a partial loan edit; nil means keep the stored value.
type UpdateLoanCommand struct {
	LoanID         int64
	LoanAmount     *decimal.Decimal
	InterestRate   *decimal.Decimal
	DurationMonths *int
	Description    *string
}

// UpdateLoan edits the loan terms. Derived amounts are recomputed when any
// term changed; the balance is re-derived only while nothing has been repaid.
func (s *Service) UpdateLoan(ctx context.Context, cmd UpdateLoanCommand) (*domain.Loan, error) {
	loan, err := s.repo.FindLoanByID(ctx, cmd.LoanID)
	if err != nil {
		return nil, err
	}

	termsChanged := false
	if cmd.LoanAmount != nil {
		if cmd.LoanAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: loan amount must be positive", ErrValidation)
		}
		loan.LoanAmount = *cmd.LoanAmount
		termsChanged = true
	}
	if cmd.InterestRate != nil {
		if cmd.InterestRate.IsNegative() {
			return nil, fmt.Errorf("%w: interest rate cannot be negative", ErrValidation)
		}
		loan.InterestRate = *cmd.InterestRate
		termsChanged = true
	}
	if cmd.DurationMonths != nil {
		if *cmd.DurationMonths <= 0 {
			return nil, fmt.Errorf("%w: duration must be at least one month", ErrValidation)
		}
		loan.DurationMonths = *cmd.DurationMonths
		termsChanged = true
	}
	if cmd.Description != nil {
		loan.Description = cmd.Description
	}
	if termsChanged {
		loan.Recalculate()
	}

	return s.repo.UpdateLoan(ctx, loan)
}

// DeleteLoan removes a loan row.
func (s *Service) DeleteLoan(ctx context.Context, loanID int64) error {
	deleted, err := s.repo.DeleteLoan(ctx, loanID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrLoanNotFound
	}
	return nil
}

// GetLoan retrieves a loan by id.
func (s *Service) GetLoan(ctx context.Context, loanID int64) (*domain.Loan, error) {
	return s.repo.FindLoanByID(ctx, loanID)
}

// ListLoans returns a page of all loans.
func (s *Service) ListLoans(ctx context.Context, opts store.ListOptions) ([]domain.Loan, error) {
	return s.repo.ListLoans(ctx, opts)
}

// ListUserLoans returns a page of one member's loans.
func (s *Service) ListUserLoans(ctx context.Context, userID int64, opts store.ListOptions) ([]domain.Loan, error) {
	return s.repo.ListLoansByUser(ctx, userID, opts)
}
