/**
 * @description
 * This file defines the `Repository` interface: the persistence contract
 * consumed by the application service. Defining an interface keeps the
 * business logic decoupled from PostgreSQL and lets tests substitute an
 * in-memory fake.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/shopspring/decimal: Monetary aggregate results.
 * - internal/domain: The service's domain models.
 */

package store

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

// ListOptions carries offset pagination for list queries. A Limit of zero or
// less means no limit.
type ListOptions struct {
	Skip  int
	Limit int
}

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByMemberID(ctx context.Context, memberID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]domain.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Loans
	CreateLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	FindLoanByID(ctx context.Context, id int64) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id int64) (bool, error)
	ListLoans(ctx context.Context, opts ListOptions) ([]domain.Loan, error)
	ListLoansByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Loan, error)
	ListActiveLoansByUser(ctx context.Context, userID int64) ([]domain.Loan, error)
	TotalLoanDisbursed(ctx context.Context) (decimal.Decimal, error)
	TotalLoanOutstanding(ctx context.Context) (decimal.Decimal, error)
	TotalLoanBalanceByUser(ctx context.Context, userID int64) (decimal.Decimal, error)

	// Savings periods
	CreateSavings(ctx context.Context, savings *domain.Savings) (*domain.Savings, error)
	FindSavingsByID(ctx context.Context, id int64) (*domain.Savings, error)
	FindSavingsByUserAndPeriod(ctx context.Context, userID int64, month string, year int) (*domain.Savings, error)
	UpdateSavings(ctx context.Context, savings *domain.Savings) (*domain.Savings, error)
	DeleteSavings(ctx context.Context, id int64) (bool, error)
	ListSavings(ctx context.Context, opts ListOptions) ([]domain.Savings, error)
	ListSavingsByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Savings, error)
	TotalSavingsPaidByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalSavingsExpectedByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalSavingsPaidAllUsers(ctx context.Context) (decimal.Decimal, error)

	// Savings payment ledger
	CreateSavingsPayment(ctx context.Context, payment *domain.SavingsPayment) (*domain.SavingsPayment, error)
	FindSavingsPaymentByID(ctx context.Context, id int64) (*domain.SavingsPayment, error)
	UpdateSavingsPayment(ctx context.Context, payment *domain.SavingsPayment) (*domain.SavingsPayment, error)
	DeleteSavingsPayment(ctx context.Context, id int64) (bool, error)
	ListSavingsPayments(ctx context.Context, opts ListOptions) ([]domain.SavingsPayment, error)
	ListSavingsPaymentsByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.SavingsPayment, error)
	TotalPaymentsByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	CountPaymentsByUser(ctx context.Context, userID int64) (int64, error)

	// Shares
	CreateShare(ctx context.Context, share *domain.Share) (*domain.Share, error)
	FindShareByID(ctx context.Context, id int64) (*domain.Share, error)
	UpdateShare(ctx context.Context, share *domain.Share) (*domain.Share, error)
	DeleteShare(ctx context.Context, id int64) (bool, error)
	ListShares(ctx context.Context, opts ListOptions) ([]domain.Share, error)
	ListSharesByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Share, error)
	TotalSharesByUser(ctx context.Context, userID int64) (int64, error)
	TotalShareValueByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalShareValueAllUsers(ctx context.Context) (decimal.Decimal, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) (bool, error)
	ListTransactions(ctx context.Context, opts ListOptions) ([]domain.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID int64, opts ListOptions) ([]domain.Transaction, error)

	// System settings
	FindSettingByKey(ctx context.Context, key string) (*domain.SystemSetting, error)
	UpsertSetting(ctx context.Context, setting *domain.SystemSetting) (*domain.SystemSetting, error)
	ListSettings(ctx context.Context) ([]domain.SystemSetting, error)
}
