/**
 * @description
 * PostgreSQL queries for the period-based savings table and the append-only
 * savings_payments ledger, including the per-user aggregate sums and counts
 * used by the member summary endpoints.
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

const savingsColumns = `id, user_id, month, year, expected_amount, paid_amount, status,
	payment_date, financial_year, created_at, updated_at`

func scanSavings(row pgx.Row) (*domain.Savings, error) {
	var s domain.Savings
	err := row.Scan(&s.ID, &s.UserID, &s.Month, &s.Year, &s.ExpectedAmount, &s.PaidAmount,
		&s.Status, &s.PaymentDate, &s.FinancialYear, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSavingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) collectSavings(ctx context.Context, query string, args ...interface{}) ([]domain.Savings, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Savings
	for rows.Next() {
		var s domain.Savings
		if err := rows.Scan(&s.ID, &s.UserID, &s.Month, &s.Year, &s.ExpectedAmount, &s.PaidAmount,
			&s.Status, &s.PaymentDate, &s.FinancialYear, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, s)
	}
	return records, rows.Err()
}

// CreateSavings inserts a savings period row. The unique index on
// (user_id, month, year) backs the duplicate-period guard.
func (r *PostgresRepository) CreateSavings(ctx context.Context, savings *domain.Savings) (*domain.Savings, error) {
	query := `
		INSERT INTO savings (user_id, month, year, expected_amount, paid_amount, status, payment_date, financial_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + savingsColumns
	row := r.db.QueryRow(ctx, query,
		savings.UserID, savings.Month, savings.Year, savings.ExpectedAmount, savings.PaidAmount,
		savings.Status, savings.PaymentDate, savings.FinancialYear)
	created, err := scanSavings(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSavingsPeriodExists
		}
		return nil, err
	}
	return created, nil
}

// FindSavingsByID retrieves a savings period by primary key.
func (r *PostgresRepository) FindSavingsByID(ctx context.Context, id int64) (*domain.Savings, error) {
	return scanSavings(r.db.QueryRow(ctx, `SELECT `+savingsColumns+` FROM savings WHERE id = $1`, id))
}

// FindSavingsByUserAndPeriod retrieves the row for one member's (month, year).
func (r *PostgresRepository) FindSavingsByUserAndPeriod(ctx context.Context, userID int64, month string, year int) (*domain.Savings, error) {
	query := `SELECT ` + savingsColumns + ` FROM savings WHERE user_id = $1 AND month = $2 AND year = $3`
	return scanSavings(r.db.QueryRow(ctx, query, userID, month, year))
}

// UpdateSavings persists amounts, status and payment date.
func (r *PostgresRepository) UpdateSavings(ctx context.Context, savings *domain.Savings) (*domain.Savings, error) {
	query := `
		UPDATE savings
		SET expected_amount = $2, paid_amount = $3, status = $4, payment_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + savingsColumns
	row := r.db.QueryRow(ctx, query,
		savings.ID, savings.ExpectedAmount, savings.PaidAmount, savings.Status, savings.PaymentDate)
	return scanSavings(row)
}

// DeleteSavings removes a savings period row.
func (r *PostgresRepository) DeleteSavings(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM savings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListSavings returns all savings periods ordered by year, then id.
func (r *PostgresRepository) ListSavings(ctx context.Context, opts ListOptions) ([]domain.Savings, error) {
	return r.collectSavings(ctx, paginate(`SELECT `+savingsColumns+` FROM savings ORDER BY year, id`, opts))
}

// ListSavingsByUser returns one member's savings periods.
func (r *PostgresRepository) ListSavingsByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Savings, error) {
	return r.collectSavings(ctx, paginate(`SELECT `+savingsColumns+` FROM savings WHERE user_id = $1 ORDER BY year, id`, opts), userID)
}

// TotalSavingsPaidByUser sums paid_amount over one member's periods.
func (r *PostgresRepository) TotalSavingsPaidByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(paid_amount), 0) FROM savings WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// TotalSavingsExpectedByUser sums expected_amount over one member's periods.
func (r *PostgresRepository) TotalSavingsExpectedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(expected_amount), 0) FROM savings WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// TotalSavingsPaidAllUsers sums paid_amount across the whole association.
func (r *PostgresRepository) TotalSavingsPaidAllUsers(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(paid_amount), 0) FROM savings`).Scan(&total)
	return total, err
}

const paymentColumns = `id, user_id, amount, type, payment_date, payment_month, financial_year, description, created_at`

func scanPayment(row pgx.Row) (*domain.SavingsPayment, error) {
	var p domain.SavingsPayment
	err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Type, &p.PaymentDate, &p.PaymentMonth,
		&p.FinancialYear, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) collectPayments(ctx context.Context, query string, args ...interface{}) ([]domain.SavingsPayment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.SavingsPayment
	for rows.Next() {
		var p domain.SavingsPayment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Type, &p.PaymentDate, &p.PaymentMonth,
			&p.FinancialYear, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// CreateSavingsPayment appends a payment event to the ledger.
func (r *PostgresRepository) CreateSavingsPayment(ctx context.Context, payment *domain.SavingsPayment) (*domain.SavingsPayment, error) {
	query := `
		INSERT INTO savings_payments (user_id, amount, type, payment_date, payment_month, financial_year, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + paymentColumns
	row := r.db.QueryRow(ctx, query,
		payment.UserID, payment.Amount, payment.Type, payment.PaymentDate, payment.PaymentMonth,
		payment.FinancialYear, payment.Description)
	return scanPayment(row)
}

// FindSavingsPaymentByID retrieves a payment by primary key.
func (r *PostgresRepository) FindSavingsPaymentByID(ctx context.Context, id int64) (*domain.SavingsPayment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM savings_payments WHERE id = $1`, id))
}

// UpdateSavingsPayment persists an edited payment event.
func (r *PostgresRepository) UpdateSavingsPayment(ctx context.Context, payment *domain.SavingsPayment) (*domain.SavingsPayment, error) {
	query := `
		UPDATE savings_payments
		SET user_id = $2, amount = $3, type = $4, payment_date = $5, payment_month = $6, description = $7
		WHERE id = $1
		RETURNING ` + paymentColumns
	row := r.db.QueryRow(ctx, query,
		payment.ID, payment.UserID, payment.Amount, payment.Type, payment.PaymentDate,
		payment.PaymentMonth, payment.Description)
	return scanPayment(row)
}

// DeleteSavingsPayment removes a payment event.
func (r *PostgresRepository) DeleteSavingsPayment(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM savings_payments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListSavingsPayments returns the whole ledger ordered by payment date.
func (r *PostgresRepository) ListSavingsPayments(ctx context.Context, opts ListOptions) ([]domain.SavingsPayment, error) {
	return r.collectPayments(ctx, paginate(`SELECT `+paymentColumns+` FROM savings_payments ORDER BY payment_date DESC, id DESC`, opts))
}

// ListSavingsPaymentsByUser returns one member's payment events.
func (r *PostgresRepository) ListSavingsPaymentsByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.SavingsPayment, error) {
	return r.collectPayments(ctx, paginate(`SELECT `+paymentColumns+` FROM savings_payments WHERE user_id = $1 ORDER BY payment_date DESC, id DESC`, opts), userID)
}

// TotalPaymentsByUser sums amount over one member's payment events.
func (r *PostgresRepository) TotalPaymentsByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM savings_payments WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// CountPaymentsByUser counts one member's payment events.
func (r *PostgresRepository) CountPaymentsByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM savings_payments WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
