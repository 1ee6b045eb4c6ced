/**
 * @description
 * PostgreSQL queries for the transactions ledger. The balance column is
 * written and read verbatim; no running balance is computed here or anywhere
 * else in the service.
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

const transactionColumns = `id, user_id, transaction_type, description, debit, credit, balance,
	reference_id, financial_year, transaction_date, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.TransactionType, &t.Description, &t.Debit, &t.Credit,
		&t.Balance, &t.ReferenceID, &t.FinancialYear, &t.TransactionDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) collectTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.TransactionType, &t.Description, &t.Debit, &t.Credit,
			&t.Balance, &t.ReferenceID, &t.FinancialYear, &t.TransactionDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// CreateTransaction inserts a classified ledger row.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, transaction_type, description, debit, credit, balance,
			reference_id, financial_year, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns
	row := r.db.QueryRow(ctx, query,
		tx.UserID, tx.TransactionType, tx.Description, tx.Debit, tx.Credit, tx.Balance,
		tx.ReferenceID, tx.FinancialYear, tx.TransactionDate)
	return scanTransaction(row)
}

// FindTransactionByID retrieves a ledger row by primary key.
func (r *PostgresRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
}

// UpdateTransaction persists a re-classified ledger row.
func (r *PostgresRepository) UpdateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET transaction_type = $2, description = $3, debit = $4, credit = $5, transaction_date = $6
		WHERE id = $1
		RETURNING ` + transactionColumns
	row := r.db.QueryRow(ctx, query,
		tx.ID, tx.TransactionType, tx.Description, tx.Debit, tx.Credit, tx.TransactionDate)
	return scanTransaction(row)
}

// DeleteTransaction removes a ledger row.
func (r *PostgresRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListTransactions returns the whole ledger, newest first.
func (r *PostgresRepository) ListTransactions(ctx context.Context, opts ListOptions) ([]domain.Transaction, error) {
	return r.collectTransactions(ctx, paginate(`SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_date DESC, id DESC`, opts))
}

// ListTransactionsByUser returns one member's ledger rows, newest first.
func (r *PostgresRepository) ListTransactionsByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Transaction, error) {
	return r.collectTransactions(ctx, paginate(`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY transaction_date DESC, id DESC`, opts), userID)
}
