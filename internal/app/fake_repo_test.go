package app

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// fakeRepo is an in-memory store.Repository used by the service tests.
type fakeRepo struct {
	users    map[int64]*domain.User
	loans    map[int64]*domain.Loan
	savings  map[int64]*domain.Savings
	payments map[int64]*domain.SavingsPayment
	shares   map[int64]*domain.Share
	txs      map[int64]*domain.Transaction
	settings map[string]*domain.SystemSetting
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[int64]*domain.User),
		loans:    make(map[int64]*domain.Loan),
		savings:  make(map[int64]*domain.Savings),
		payments: make(map[int64]*domain.SavingsPayment),
		shares:   make(map[int64]*domain.Share),
		txs:      make(map[int64]*domain.Transaction),
		settings: make(map[string]*domain.SystemSetting),
	}
}

func (r *fakeRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func paginateIDs(ids []int64, opts store.ListOptions) []int64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if opts.Skip > 0 {
		if opts.Skip >= len(ids) {
			return nil
		}
		ids = ids[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(ids) {
		ids = ids[:opts.Limit]
	}
	return ids
}

// Users

func (r *fakeRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, store.ErrEmailTaken
		}
		if u.MemberID == user.MemberID {
			return nil, store.ErrMemberIDTaken
		}
	}
	cp := *user
	cp.ID = r.id()
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (r *fakeRepo) FindUserByMemberID(_ context.Context, memberID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.MemberID == memberID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (r *fakeRepo) UpdateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) DeleteUser(_ context.Context, id int64) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeRepo) ListUsers(_ context.Context, opts store.ListOptions) ([]domain.User, error) {
	var ids []int64
	for id := range r.users {
		ids = append(ids, id)
	}
	var out []domain.User
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *fakeRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// Loans

func (r *fakeRepo) CreateLoan(_ context.Context, loan *domain.Loan) (*domain.Loan, error) {
	cp := *loan
	cp.ID = r.id()
	r.loans[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) FindLoanByID(_ context.Context, id int64) (*domain.Loan, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, store.ErrLoanNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeRepo) UpdateLoan(_ context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if _, ok := r.loans[loan.ID]; !ok {
		return nil, store.ErrLoanNotFound
	}
	cp := *loan
	r.loans[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) DeleteLoan(_ context.Context, id int64) (bool, error) {
	if _, ok := r.loans[id]; !ok {
		return false, nil
	}
	delete(r.loans, id)
	return true, nil
}

func (r *fakeRepo) ListLoans(_ context.Context, opts store.ListOptions) ([]domain.Loan, error) {
	var ids []int64
	for id := range r.loans {
		ids = append(ids, id)
	}
	var out []domain.Loan
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.loans[id])
	}
	return out, nil
}

func (r *fakeRepo) ListLoansByUser(_ context.Context, userID int64, opts store.ListOptions) ([]domain.Loan, error) {
	var ids []int64
	for id, l := range r.loans {
		if l.UserID == userID {
			ids = append(ids, id)
		}
	}
	var out []domain.Loan
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.loans[id])
	}
	return out, nil
}

func (r *fakeRepo) ListActiveLoansByUser(_ context.Context, userID int64) ([]domain.Loan, error) {
	var out []domain.Loan
	for _, l := range r.loans {
		if l.UserID == userID && l.Status == domain.LoanActive {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeRepo) TotalLoanDisbursed(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.loans {
		if l.Status == domain.LoanActive || l.Status == domain.LoanClosed {
			total = total.Add(l.LoanAmount)
		}
	}
	return total, nil
}

func (r *fakeRepo) TotalLoanOutstanding(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.loans {
		if l.Status == domain.LoanActive {
			total = total.Add(l.Balance)
		}
	}
	return total, nil
}

func (r *fakeRepo) TotalLoanBalanceByUser(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.loans {
		if l.UserID == userID && l.Status == domain.LoanActive {
			total = total.Add(l.Balance)
		}
	}
	return total, nil
}

// Savings periods

func (r *fakeRepo) CreateSavings(_ context.Context, savings *domain.Savings) (*domain.Savings, error) {
	for _, s := range r.savings {
		if s.UserID == savings.UserID && s.Month == savings.Month && s.Year == savings.Year {
			return nil, store.ErrSavingsPeriodExists
		}
	}
	cp := *savings
	cp.ID = r.id()
	r.savings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) FindSavingsByID(_ context.Context, id int64) (*domain.Savings, error) {
	s, ok := r.savings[id]
	if !ok {
		return nil, store.ErrSavingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) FindSavingsByUserAndPeriod(_ context.Context, userID int64, month string, year int) (*domain.Savings, error) {
	for _, s := range r.savings {
		if s.UserID == userID && s.Month == month && s.Year == year {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrSavingsNotFound
}

func (r *fakeRepo) UpdateSavings(_ context.Context, savings *domain.Savings) (*domain.Savings, error) {
	if _, ok := r.savings[savings.ID]; !ok {
		return nil, store.ErrSavingsNotFound
	}
	cp := *savings
	r.savings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) DeleteSavings(_ context.Context, id int64) (bool, error) {
	if _, ok := r.savings[id]; !ok {
		return false, nil
	}
	delete(r.savings, id)
	return true, nil
}

func (r *fakeRepo) ListSavings(_ context.Context, opts store.ListOptions) ([]domain.Savings, error) {
	var ids []int64
	for id := range r.savings {
		ids = append(ids, id)
	}
	var out []domain.Savings
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.savings[id])
	}
	return out, nil
}

func (r *fakeRepo) ListSavingsByUser(_ context.Context, userID int64, opts store.ListOptions) ([]domain.Savings, error) {
	var ids []int64
	for id, s := range r.savings {
		if s.UserID == userID {
			ids = append(ids, id)
		}
	}
	var out []domain.Savings
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.savings[id])
	}
	return out, nil
}

func (r *fakeRepo) TotalSavingsPaidByUser(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.savings {
		if s.UserID == userID {
			total = total.Add(s.PaidAmount)
		}
	}
	return total, nil
}

func (r *fakeRepo) TotalSavingsExpectedByUser(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.savings {
		if s.UserID == userID {
			total = total.Add(s.ExpectedAmount)
		}
	}
	return total, nil
}

func (r *fakeRepo) TotalSavingsPaidAllUsers(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.savings {
		total = total.Add(s.PaidAmount)
	}
	return total, nil
}

// Savings payment ledger

func (r *fakeRepo) CreateSavingsPayment(_ context.Context, payment *domain.SavingsPayment) (*domain.SavingsPayment, error) {
	cp := *payment
	cp.ID = r.id()
	r.payments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) FindSavingsPaymentByID(_ context.Context, id int64) (*domain.SavingsPayment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, store.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) UpdateSavingsPayment(_ context.Context, payment *domain.SavingsPayment) (*domain.SavingsPayment, error) {
	if _, ok := r.payments[payment.ID]; !ok {
		return nil, store.ErrPaymentNotFound
	}
	cp := *payment
	r.payments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) DeleteSavingsPayment(_ context.Context, id int64) (bool, error) {
	if _, ok := r.payments[id]; !ok {
		return false, nil
	}
	delete(r.payments, id)
	return true, nil
}

func (r *fakeRepo) ListSavingsPayments(_ context.Context, opts store.ListOptions) ([]domain.SavingsPayment, error) {
	var ids []int64
	for id := range r.payments {
		ids = append(ids, id)
	}
	var out []domain.SavingsPayment
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.payments[id])
	}
	return out, nil
}

func (r *fakeRepo) ListSavingsPaymentsByUser(_ context.Context, userID int64, opts store.ListOptions) ([]domain.SavingsPayment, error) {
	var ids []int64
	for id, p := range r.payments {
		if p.UserID == userID {
			ids = append(ids, id)
		}
	}
	var out []domain.SavingsPayment
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.payments[id])
	}
	return out, nil
}

func (r *fakeRepo) TotalPaymentsByUser(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.UserID == userID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *fakeRepo) CountPaymentsByUser(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, p := range r.payments {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Shares

func (r *fakeRepo) CreateShare(_ context.Context, share *domain.Share) (*domain.Share, error) {
	cp := *share
	cp.ID = r.id()
	r.shares[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) FindShareByID(_ context.Context, id int64) (*domain.Share, error) {
	s, ok := r.shares[id]
	if !ok {
		return nil, store.ErrShareNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) UpdateShare(_ context.Context, share *domain.Share) (*domain.Share, error) {
	if _, ok := r.shares[share.ID]; !ok {
		return nil, store.ErrShareNotFound
	}
	cp := *share
	r.shares[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) DeleteShare(_ context.Context, id int64) (bool, error) {
	if _, ok := r.shares[id]; !ok {
		return false, nil
	}
	delete(r.shares, id)
	return true, nil
}

func (r *fakeRepo) ListShares(_ context.Context, opts store.ListOptions) ([]domain.Share, error) {
	var ids []int64
	for id := range r.shares {
		ids = append(ids, id)
	}
	var out []domain.Share
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.shares[id])
	}
	return out, nil
}

func (r *fakeRepo) ListSharesByUser(_ context.Context, userID int64, opts store.ListOptions) ([]domain.Share, error) {
	var ids []int64
	for id, s := range r.shares {
		if s.UserID == userID {
			ids = append(ids, id)
		}
	}
	var out []domain.Share
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.shares[id])
	}
	return out, nil
}

func (r *fakeRepo) TotalSharesByUser(_ context.Context, userID int64) (int64, error) {
	var total int64
	for _, s := range r.shares {
		if s.UserID == userID {
			total += int64(s.SharesCount)
		}
	}
	return total, nil
}

func (r *fakeRepo) TotalShareValueByUser(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.shares {
		if s.UserID == userID {
			total = total.Add(s.TotalValue)
		}
	}
	return total, nil
}

func (r *fakeRepo) TotalShareValueAllUsers(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.shares {
		total = total.Add(s.TotalValue)
	}
	return total, nil
}

// Transactions

func (r *fakeRepo) CreateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	cp := *tx
	cp.ID = r.id()
	r.txs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) FindTransactionByID(_ context.Context, id int64) (*domain.Transaction, error) {
	t, ok := r.txs[id]
	if !ok {
		return nil, store.ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepo) UpdateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := r.txs[tx.ID]; !ok {
		return nil, store.ErrTransactionNotFound
	}
	cp := *tx
	r.txs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) DeleteTransaction(_ context.Context, id int64) (bool, error) {
	if _, ok := r.txs[id]; !ok {
		return false, nil
	}
	delete(r.txs, id)
	return true, nil
}

func (r *fakeRepo) ListTransactions(_ context.Context, opts store.ListOptions) ([]domain.Transaction, error) {
	var ids []int64
	for id := range r.txs {
		ids = append(ids, id)
	}
	var out []domain.Transaction
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.txs[id])
	}
	return out, nil
}

func (r *fakeRepo) ListTransactionsByUser(_ context.Context, userID int64, opts store.ListOptions) ([]domain.Transaction, error) {
	var ids []int64
	for id, t := range r.txs {
		if t.UserID == userID {
			ids = append(ids, id)
		}
	}
	var out []domain.Transaction
	for _, id := range paginateIDs(ids, opts) {
		out = append(out, *r.txs[id])
	}
	return out, nil
}

// System settings

func (r *fakeRepo) FindSettingByKey(_ context.Context, key string) (*domain.SystemSetting, error) {
	s, ok := r.settings[key]
	if !ok {
		return nil, store.ErrSettingNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) UpsertSetting(_ context.Context, setting *domain.SystemSetting) (*domain.SystemSetting, error) {
	cp := *setting
	if existing, ok := r.settings[cp.Key]; ok {
		cp.ID = existing.ID
	} else {
		cp.ID = r.id()
	}
	r.settings[cp.Key] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) ListSettings(_ context.Context) ([]domain.SystemSetting, error) {
	var out []domain.SystemSetting
	for _, s := range r.settings {
		out = append(out, *s)
	}
	return out, nil
}

var _ store.Repository = (*fakeRepo)(nil)
