package app

import (
	"context"
	"errors"
	"testing"

	"github.com/thomasakiou/dpa-BE/internal/domain"
)

func TestCreateTransactionBooksByType(t *testing.T) {
	svc := newTestService(newFakeRepo())
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	credit, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: user.ID, Type: domain.TxSavings, Amount: dec("2000"), Description: "monthly savings",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !credit.Credit.Equal(dec("2000")) || !credit.Debit.IsZero() {
		t.Fatalf("expected credit row, got credit=%s debit=%s", credit.Credit, credit.Debit)
	}

	debit, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: user.ID, Type: domain.TxWithdrawal, Amount: dec("500"), Description: "cash out",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !debit.Debit.Equal(dec("500")) || !debit.Credit.IsZero() {
		t.Fatalf("expected debit row, got credit=%s debit=%s", debit.Credit, debit.Debit)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	if _, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: user.ID, Type: "transfer", Amount: dec("100"),
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: user.ID, Type: domain.TxSavings, Amount: dec("0"),
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestUpdateTransactionReclassifiesOnTypeChange(t *testing.T) {
	svc := newTestService(newFakeRepo())
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: user.ID, Type: domain.TxSavings, Amount: dec("2000"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	newType := domain.TxWithdrawal
	updated, err := svc.UpdateTransaction(ctx, UpdateTransactionCommand{TransactionID: tx.ID, Type: &newType})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if !updated.Debit.Equal(dec("2000")) || !updated.Credit.IsZero() {
		t.Fatalf("type change must move the amount to the debit column, got credit=%s debit=%s", updated.Credit, updated.Debit)
	}
}

func TestUpdateTransactionAmountKeepsColumn(t *testing.T) {
	svc := newTestService(newFakeRepo())
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: user.ID, Type: domain.TxDeposit, Amount: dec("100"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	amount := dec("350")
	updated, err := svc.UpdateTransaction(ctx, UpdateTransactionCommand{TransactionID: tx.ID, Amount: &amount})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if !updated.Credit.Equal(dec("350")) || !updated.Debit.IsZero() {
		t.Fatalf("expected credit 350, got credit=%s debit=%s", updated.Credit, updated.Debit)
	}
}

func TestListUserTransactionsScopesToUser(t *testing.T) {
	svc := newTestService(newFakeRepo())
	alice := seedUser(t, svc, "MEM-001", "alice@example.com")
	bob := seedUser(t, svc, "MEM-002", "bob@example.com")
	ctx := context.Background()

	if _, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: alice.ID, Type: domain.TxSavings, Amount: dec("100"),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		UserID: bob.ID, Type: domain.TxSavings, Amount: dec("200"),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	txs, err := svc.ListUserTransactions(ctx, alice.ID, listAll())
	if err != nil {
		t.Fatalf("ListUserTransactions: %v", err)
	}
	if len(txs) != 1 || txs[0].UserID != alice.ID {
		t.Fatalf("expected only alice's row, got %d rows", len(txs))
	}
}
