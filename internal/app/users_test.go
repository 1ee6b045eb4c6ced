package app

import (
	"context"
	"errors"
	"testing"

	"github.com/thomasakiou/dpa-BE/internal/domain"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

func TestCreateUserDefaultsAndNormalization(t *testing.T) {
	svc := newTestService(newFakeRepo())

	user, err := svc.CreateUser(context.Background(), CreateUserCommand{
		MemberID: "MEM-001",
		Email:    "  Alice@Example.COM ",
		Password: "secret123",
		FullName: "Alice A",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.Role != domain.RoleMember {
		t.Fatalf("expected member role default, got %s", user.Role)
	}
	if user.Status != domain.UserActive {
		t.Fatalf("expected active status, got %s", user.Status)
	}
	if user.HashedPassword == "secret123" {
		t.Fatal("password must be hashed")
	}
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	svc := newTestService(newFakeRepo())
	seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserCommand{
		MemberID: "MEM-002", Email: "alice@example.com", Password: "secret123", FullName: "Dup",
	})
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	_, err = svc.CreateUser(ctx, CreateUserCommand{
		MemberID: "MEM-001", Email: "other@example.com", Password: "secret123", FullName: "Dup",
	})
	if !errors.Is(err, store.ErrMemberIDTaken) {
		t.Fatalf("expected member id taken, got %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  CreateUserCommand
	}{
		{"missing member id", CreateUserCommand{Email: "a@b.com", Password: "secret123", FullName: "A"}},
		{"missing email", CreateUserCommand{MemberID: "MEM-001", Password: "secret123", FullName: "A"}},
		{"short password", CreateUserCommand{MemberID: "MEM-001", Email: "a@b.com", Password: "abc", FullName: "A"}},
		{"unknown role", CreateUserCommand{MemberID: "MEM-001", Email: "a@b.com", Password: "secret123", FullName: "A", Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateUser(ctx, tc.cmd); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateUserPartialEdit(t *testing.T) {
	svc := newTestService(newFakeRepo())
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	name := "Alice Updated"
	empty := ""
	updated, err := svc.UpdateUser(ctx, UpdateUserCommand{UserID: user.ID, FullName: &name, Email: &empty})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.FullName != "Alice Updated" {
		t.Fatalf("expected updated name, got %q", updated.FullName)
	}
	// Empty strings never clobber stored values.
	if updated.Email != "alice@example.com" {
		t.Fatalf("expected email untouched, got %q", updated.Email)
	}
}

func TestUpdateUserEmailCollision(t *testing.T) {
	svc := newTestService(newFakeRepo())
	seedUser(t, svc, "MEM-001", "alice@example.com")
	bob := seedUser(t, svc, "MEM-002", "bob@example.com")

	taken := "alice@example.com"
	_, err := svc.UpdateUser(context.Background(), UpdateUserCommand{UserID: bob.ID, Email: &taken})
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())
	if err := svc.DeleteUser(context.Background(), 42); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
