/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface for users and system settings, plus the sentinel errors and
 * pagination helper shared by the other postgres_* files.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrSavingsNotFound     = errors.New("savings record not found")
	ErrSavingsPeriodExists = errors.New("savings record already exists for period")
	ErrPaymentNotFound     = errors.New("savings payment not found")
	ErrShareNotFound       = errors.New("share record not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSettingNotFound     = errors.New("setting not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrMemberIDTaken       = errors.New("member id already registered")
)

const uniqueViolation = "23505"

// PostgresRepository is the concrete Repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// paginate appends OFFSET/LIMIT clauses to a query. A non-positive limit
// means no limit, matching the repository contract.
func paginate(query string, opts ListOptions) string {
	query = fmt.Sprintf("%s OFFSET %d", query, opts.Skip)
	if opts.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, opts.Limit)
	}
	return query
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const userColumns = `id, member_id, email, hashed_password, full_name, phone, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.MemberID, &u.Email, &u.HashedPassword, &u.FullName, &u.Phone, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user row. Unique violations on email or member_id are
// mapped to the matching sentinel.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (member_id, email, hashed_password, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	row := r.db.QueryRow(ctx, query,
		user.MemberID, user.Email, user.HashedPassword, user.FullName, user.Phone, user.Role, user.Status)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, mapUserUniqueViolation(err)
		}
		return nil, err
	}
	return created, nil
}

func mapUserUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.ConstraintName == "users_member_id_key" {
			return ErrMemberIDTaken
		}
	}
	return ErrEmailTaken
}

// FindUserByID retrieves a user by primary key.
func (r *PostgresRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindUserByMemberID retrieves a user by the association-issued member id.
func (r *PostgresRepository) FindUserByMemberID(ctx context.Context, memberID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE member_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, memberID))
}

// UpdateUser persists all mutable user fields.
func (r *PostgresRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET member_id = $2, email = $3, hashed_password = $4, full_name = $5,
		    phone = $6, role = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRow(ctx, query,
		user.ID, user.MemberID, user.Email, user.HashedPassword, user.FullName, user.Phone, user.Role, user.Status)
	updated, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, mapUserUniqueViolation(err)
		}
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes a user row. Returns false when no row matched.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListUsers returns users ordered by id with offset pagination.
func (r *PostgresRepository) ListUsers(ctx context.Context, opts ListOptions) ([]domain.User, error) {
	query := paginate(`SELECT `+userColumns+` FROM users ORDER BY id`, opts)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.MemberID, &u.Email, &u.HashedPassword, &u.FullName, &u.Phone, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total member count.
func (r *PostgresRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// FindSettingByKey retrieves one configuration row.
func (r *PostgresRepository) FindSettingByKey(ctx context.Context, key string) (*domain.SystemSetting, error) {
	var s domain.SystemSetting
	query := `SELECT id, key, value, description, updated_at FROM system_settings WHERE key = $1`
	err := r.db.QueryRow(ctx, query, key).Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpsertSetting inserts or overwrites the row for the setting's key.
func (r *PostgresRepository) UpsertSetting(ctx context.Context, setting *domain.SystemSetting) (*domain.SystemSetting, error) {
	var s domain.SystemSetting
	query := `
		INSERT INTO system_settings (key, value, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = NOW()
		RETURNING id, key, value, description, updated_at`
	err := r.db.QueryRow(ctx, query, setting.Key, setting.Value, setting.Description).
		Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSettings returns every configuration row.
func (r *PostgresRepository) ListSettings(ctx context.Context) ([]domain.SystemSetting, error) {
	rows, err := r.db.Query(ctx, `SELECT id, key, value, description, updated_at FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.SystemSetting
	for rows.Next() {
		var s domain.SystemSetting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
