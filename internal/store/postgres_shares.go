/**
 * @description
 * PostgreSQL queries for the shares table: CRUD, per-user listings and the
 * share count/value aggregates behind the shares summary endpoints.
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

const shareColumns = `id, user_id, shares_count, share_value, total_value, purchase_date, financial_year, created_at, updated_at`

func scanShare(row pgx.Row) (*domain.Share, error) {
	var s domain.Share
	err := row.Scan(&s.ID, &s.UserID, &s.SharesCount, &s.ShareValue, &s.TotalValue,
		&s.PurchaseDate, &s.FinancialYear, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) collectShares(ctx context.Context, query string, args ...interface{}) ([]domain.Share, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []domain.Share
	for rows.Next() {
		var s domain.Share
		if err := rows.Scan(&s.ID, &s.UserID, &s.SharesCount, &s.ShareValue, &s.TotalValue,
			&s.PurchaseDate, &s.FinancialYear, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

// CreateShare inserts a share entry with its derived total value.
func (r *PostgresRepository) CreateShare(ctx context.Context, share *domain.Share) (*domain.Share, error) {
	query := `
		INSERT INTO shares (user_id, shares_count, share_value, total_value, purchase_date, financial_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + shareColumns
	row := r.db.QueryRow(ctx, query,
		share.UserID, share.SharesCount, share.ShareValue, share.TotalValue, share.PurchaseDate, share.FinancialYear)
	return scanShare(row)
}

// FindShareByID retrieves a share entry by primary key.
func (r *PostgresRepository) FindShareByID(ctx context.Context, id int64) (*domain.Share, error) {
	return scanShare(r.db.QueryRow(ctx, `SELECT `+shareColumns+` FROM shares WHERE id = $1`, id))
}

// UpdateShare persists count, per-share value and the recomputed total.
func (r *PostgresRepository) UpdateShare(ctx context.Context, share *domain.Share) (*domain.Share, error) {
	query := `
		UPDATE shares
		SET shares_count = $2, share_value = $3, total_value = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + shareColumns
	row := r.db.QueryRow(ctx, query, share.ID, share.SharesCount, share.ShareValue, share.TotalValue)
	return scanShare(row)
}

// DeleteShare removes a share entry.
func (r *PostgresRepository) DeleteShare(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM shares WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListShares returns all share entries ordered by id.
func (r *PostgresRepository) ListShares(ctx context.Context, opts ListOptions) ([]domain.Share, error) {
	return r.collectShares(ctx, paginate(`SELECT `+shareColumns+` FROM shares ORDER BY id`, opts))
}

// ListSharesByUser returns one member's share entries.
func (r *PostgresRepository) ListSharesByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Share, error) {
	return r.collectShares(ctx, paginate(`SELECT `+shareColumns+` FROM shares WHERE user_id = $1 ORDER BY id`, opts), userID)
}

// TotalSharesByUser sums shares_count over one member's entries.
func (r *PostgresRepository) TotalSharesByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(shares_count), 0) FROM shares WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// TotalShareValueByUser sums total_value over one member's entries.
func (r *PostgresRepository) TotalShareValueByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_value), 0) FROM shares WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// TotalShareValueAllUsers sums total_value across the whole association.
func (r *PostgresRepository) TotalShareValueAllUsers(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_value), 0) FROM shares`).Scan(&total)
	return total, err
}
