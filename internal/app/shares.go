/**
 * @description
 * Share commands and queries. The total value of an entry is always derived
 * from count times per-share value; updates recompute it unconditionally.
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

// PurchaseSharesCommand carries a new share purchase.
type PurchaseSharesCommand struct {
	UserID       int64
	SharesCount  int
	ShareValue   decimal.Decimal
	PurchaseDate *time.Time
}

// PurchaseShares records a share purchase with the derived total value.
func (s *Service) PurchaseShares(ctx context.Context, cmd PurchaseSharesCommand) (*domain.Share, error) {
	if cmd.SharesCount <= 0 {
		return nil, fmt.Errorf("%w: shares count must be positive", ErrValidation)
	}
	if cmd.ShareValue.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: share value must be positive", ErrValidation)
	}
	if _, err := s.repo.FindUserByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	share := domain.NewShare(cmd.UserID, cmd.SharesCount, cmd.ShareValue, cmd.PurchaseDate, s.CurrentFinancialYear(ctx))
	return s.repo.CreateShare(ctx, share)
}

// UpdateShareCommand carries a share edit; nil means keep the stored value.
type UpdateShareCommand struct {
	ShareID     int64
	SharesCount *int
	ShareValue  *decimal.Decimal
}

// UpdateShare edits count or per-share value and recomputes the total.
func (s *Service) UpdateShare(ctx context.Context, cmd UpdateShareCommand) (*domain.Share, error) {
	share, err := s.repo.FindShareByID(ctx, cmd.ShareID)
	if err != nil {
		return nil, err
	}
	if cmd.SharesCount != nil {
		if *cmd.SharesCount <= 0 {
			return nil, fmt.Errorf("%w: shares count must be positive", ErrValidation)
		}
		share.SharesCount = *cmd.SharesCount
	}
	if cmd.ShareValue != nil {
		if cmd.ShareValue.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: share value must be positive", ErrValidation)
		}
		share.ShareValue = *cmd.ShareValue
	}
	share.TotalValue = share.CalculateTotalValue()
	share.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateShare(ctx, share)
}

// DeleteShare removes a share entry.
func (s *Service) DeleteShare(ctx context.Context, shareID int64) error {
	deleted, err := s.repo.DeleteShare(ctx, shareID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrShareNotFound
	}
	return nil
}

// GetShare retrieves a share entry by id.
func (s *Service) GetShare(ctx context.Context, shareID int64) (*domain.Share, error) {
	return s.repo.FindShareByID(ctx, shareID)
}

// ListShares returns a page of all share entries.
func (s *Service) ListShares(ctx context.Context, opts store.ListOptions) ([]domain.Share, error) {
	return s.repo.ListShares(ctx, opts)
}

// ListUserShares returns a page of one member's share entries.
func (s *Service) ListUserShares(ctx context.Context, userID int64, opts store.ListOptions) ([]domain.Share, error) {
	return s.repo.ListSharesByUser(ctx, userID, opts)
}

// ShareSummary aggregates one member's shareholding.
type ShareSummary struct {
	UserID      int64           `json:"user_id"`
	TotalShares int64           `json:"total_shares"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// UserShareSummary returns the member's share count and value totals.
func (s *Service) UserShareSummary(ctx context.Context, userID int64) (*ShareSummary, error) {
	count, err := s.repo.TotalSharesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	value, err := s.repo.TotalShareValueByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ShareSummary{UserID: userID, TotalShares: count, TotalValue: value}, nil
}
