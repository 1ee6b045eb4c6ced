/**
 * @description
 * Read-only dashboard queries: the member dashboard shown after login and the
 * association-wide admin dashboard. Both are assembled from the aggregate
 * queries of the repository, never from stored rollups.
 */

package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

const recentTransactionCount = 5

// MemberDashboard is one member's financial position at a glance.
type MemberDashboard struct {
	User               *domain.User         `json:"user"`
	TotalSavings       decimal.Decimal      `json:"total_savings"`
	TotalShareValue    decimal.Decimal      `json:"total_share_value"`
	LoanBalance        decimal.Decimal      `json:"loan_balance"`
	RecentTransactions []domain.Transaction `json:"recent_transactions"`
}

// GetMemberDashboard assembles the member's savings, shares and loan totals
// plus their most recent ledger activity.
func (s *Service) GetMemberDashboard(ctx context.Context, userID int64) (*MemberDashboard, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	savings, err := s.repo.TotalSavingsPaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	shareValue, err := s.repo.TotalShareValueByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	loanBalance, err := s.repo.TotalLoanBalanceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListTransactionsByUser(ctx, userID, store.ListOptions{Limit: recentTransactionCount})
	if err != nil {
		return nil, err
	}
	return &MemberDashboard{
		User:               user,
		TotalSavings:       savings,
		TotalShareValue:    shareValue,
		LoanBalance:        loanBalance,
		RecentTransactions: recent,
	}, nil
}

// AdminDashboard is the association-wide financial position.
type AdminDashboard struct {
	MemberCount          int64           `json:"member_count"`
	TotalSavings         decimal.Decimal `json:"total_savings"`
	TotalShareValue      decimal.Decimal `json:"total_share_value"`
	TotalLoanDisbursed   decimal.Decimal `json:"total_loan_disbursed"`
	TotalLoanOutstanding decimal.Decimal `json:"total_loan_outstanding"`
	FinancialYear        string          `json:"financial_year"`
}

// GetAdminDashboard assembles the association totals for the admin overview.
func (s *Service) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	memberCount, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	savings, err := s.repo.TotalSavingsPaidAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	shareValue, err := s.repo.TotalShareValueAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	disbursed, err := s.repo.TotalLoanDisbursed(ctx)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.repo.TotalLoanOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{
		MemberCount:          memberCount,
		TotalSavings:         savings,
		TotalShareValue:      shareValue,
		TotalLoanDisbursed:   disbursed,
		TotalLoanOutstanding: outstanding,
		FinancialYear:        s.CurrentFinancialYear(ctx),
	}, nil
}
