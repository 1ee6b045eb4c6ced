/**
 * @description
 * PostgreSQL queries for the loans table: CRUD, per-user listings and the
 * aggregate sums used by the admin dashboard (total principal disbursed,
 * total outstanding balance on active loans).
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

const loanColumns = `id, user_id, loan_amount, interest_rate, duration_months, monthly_repayment,
	total_repayable, amount_paid, balance, status, application_date, approval_date,
	disbursement_date, description, financial_year, created_at, updated_at`

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(&l.ID, &l.UserID, &l.LoanAmount, &l.InterestRate, &l.DurationMonths,
		&l.MonthlyRepayment, &l.TotalRepayable, &l.AmountPaid, &l.Balance, &l.Status,
		&l.ApplicationDate, &l.ApprovalDate, &l.DisbursementDate, &l.Description,
		&l.FinancialYear, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) collectLoans(ctx context.Context, query string, args ...interface{}) ([]domain.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.LoanAmount, &l.InterestRate, &l.DurationMonths,
			&l.MonthlyRepayment, &l.TotalRepayable, &l.AmountPaid, &l.Balance, &l.Status,
			&l.ApplicationDate, &l.ApprovalDate, &l.DisbursementDate, &l.Description,
			&l.FinancialYear, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// CreateLoan inserts a loan row with all derived amounts already computed.
func (r *PostgresRepository) CreateLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	query := `
		INSERT INTO loans (user_id, loan_amount, interest_rate, duration_months, monthly_repayment,
			total_repayable, amount_paid, balance, status, application_date, description, financial_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + loanColumns
	row := r.db.QueryRow(ctx, query,
		loan.UserID, loan.LoanAmount, loan.InterestRate, loan.DurationMonths, loan.MonthlyRepayment,
		loan.TotalRepayable, loan.AmountPaid, loan.Balance, loan.Status, loan.ApplicationDate,
		loan.Description, loan.FinancialYear)
	return scanLoan(row)
}

// FindLoanByID retrieves a loan by primary key.
func (r *PostgresRepository) FindLoanByID(ctx context.Context, id int64) (*domain.Loan, error) {
	return scanLoan(r.db.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
}

// UpdateLoan persists the loan's mutable fields and derived amounts.
func (r *PostgresRepository) UpdateLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	query := `
		UPDATE loans
		SET loan_amount = $2, interest_rate = $3, duration_months = $4, monthly_repayment = $5,
		    total_repayable = $6, amount_paid = $7, balance = $8, status = $9,
		    approval_date = $10, disbursement_date = $11, description = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + loanColumns
	row := r.db.QueryRow(ctx, query,
		loan.ID, loan.LoanAmount, loan.InterestRate, loan.DurationMonths, loan.MonthlyRepayment,
		loan.TotalRepayable, loan.AmountPaid, loan.Balance, loan.Status,
		loan.ApprovalDate, loan.DisbursementDate, loan.Description)
	return scanLoan(row)
}

// DeleteLoan removes a loan row. Hard delete, no audit trail.
func (r *PostgresRepository) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListLoans returns all loans ordered by id.
func (r *PostgresRepository) ListLoans(ctx context.Context, opts ListOptions) ([]domain.Loan, error) {
	return r.collectLoans(ctx, paginate(`SELECT `+loanColumns+` FROM loans ORDER BY id`, opts))
}

// ListLoansByUser returns one member's loans ordered by id.
func (r *PostgresRepository) ListLoansByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Loan, error) {
	return r.collectLoans(ctx, paginate(`SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY id`, opts), userID)
}

// ListActiveLoansByUser returns a member's loans currently in active status.
func (r *PostgresRepository) ListActiveLoansByUser(ctx context.Context, userID int64) ([]domain.Loan, error) {
	return r.collectLoans(ctx, `SELECT `+loanColumns+` FROM loans WHERE user_id = $1 AND status = 'active' ORDER BY id`, userID)
}

// TotalLoanDisbursed sums principal over loans that have been disbursed
// (active or since closed).
func (r *PostgresRepository) TotalLoanDisbursed(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(loan_amount), 0) FROM loans WHERE status IN ('active', 'closed')`
	err := r.db.QueryRow(ctx, query).Scan(&total)
	return total, err
}

// TotalLoanOutstanding sums the open balance over active loans.
func (r *PostgresRepository) TotalLoanOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(balance), 0) FROM loans WHERE status = 'active'`
	err := r.db.QueryRow(ctx, query).Scan(&total)
	return total, err
}

// TotalLoanBalanceByUser sums the open balance over one member's active loans.
func (r *PostgresRepository) TotalLoanBalanceByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(balance), 0) FROM loans WHERE user_id = $1 AND status = 'active'`
	err := r.db.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}
