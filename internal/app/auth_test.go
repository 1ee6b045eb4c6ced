package app

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestLoginByEmailAndMemberID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	for _, identifier := range []string{"alice@example.com", "MEM-001"} {
		result, err := svc.Login(ctx, LoginCommand{Identifier: identifier, Password: "secret123"})
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if result.Token == "" {
			t.Fatal("expected a token")
		}
		if result.TokenType != "bearer" {
			t.Fatalf("expected bearer token type, got %q", result.TokenType)
		}
		if result.User.ID != user.ID {
			t.Fatalf("expected user %d, got %d", user.ID, result.User.ID)
		}

		claims, err := svc.ParseToken(result.Token)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		sub, _ := claims["sub"].(string)
		if sub != strconv.FormatInt(user.ID, 10) {
			t.Fatalf("expected sub %d, got %q", user.ID, sub)
		}
		if role, _ := claims["role"].(string); role != "member" {
			t.Fatalf("expected member role claim, got %q", role)
		}
	}
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	_, errWrong := svc.Login(ctx, LoginCommand{Identifier: "alice@example.com", Password: "nope"})
	_, errUnknown := svc.Login(ctx, LoginCommand{Identifier: "ghost@example.com", Password: "nope"})

	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", errWrong)
	}
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("error messages must not leak account existence: %q vs %q", errWrong, errUnknown)
	}
}

func TestLoginSuspendedUserRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	if _, err := svc.SuspendUser(ctx, user.ID); err != nil {
		t.Fatalf("SuspendUser: %v", err)
	}
	if _, err := svc.Login(ctx, LoginCommand{Identifier: "alice@example.com", Password: "secret123"}); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected inactive error, got %v", err)
	}

	if _, err := svc.ActivateUser(ctx, user.ID); err != nil {
		t.Fatalf("ActivateUser: %v", err)
	}
	if _, err := svc.Login(ctx, LoginCommand{Identifier: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("expected login after reactivation, got %v", err)
	}
}

// stubLimiter counts calls and reports whatever the test configures.
type stubLimiter struct {
	count      int
	retryAfter int
	err        error
	calls      int
}

func (s *stubLimiter) ConsumeRateLimit(_ context.Context, _, _ string, _ int, _ time.Duration) (int, int, error) {
	s.calls++
	return s.count, s.retryAfter, s.err
}

func TestLoginThrottledOverLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	seedUser(t, svc, "MEM-001", "alice@example.com")

	limiter := &stubLimiter{count: 11, retryAfter: 30}
	svc.SetLoginRateLimiter(limiter, 10)

	_, err := svc.Login(context.Background(), LoginCommand{Identifier: "alice@example.com", Password: "secret123"})
	if !errors.Is(err, ErrLoginThrottled) {
		t.Fatalf("expected throttled error, got %v", err)
	}
	if limiter.calls != 1 {
		t.Fatalf("expected one limiter call, got %d", limiter.calls)
	}
}

func TestLoginLimiterFailureDoesNotBlock(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	seedUser(t, svc, "MEM-001", "alice@example.com")

	limiter := &stubLimiter{err: errors.New("redis down")}
	svc.SetLoginRateLimiter(limiter, 10)

	if _, err := svc.Login(context.Background(), LoginCommand{Identifier: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("expected login to succeed despite limiter outage, got %v", err)
	}
}

func TestChangePasswordVerifiesOldPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, ChangePasswordCommand{UserID: user.ID, OldPassword: "wrong", NewPassword: "newsecret"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	if err := svc.ChangePassword(ctx, ChangePasswordCommand{UserID: user.ID, OldPassword: "secret123", NewPassword: "newsecret"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, LoginCommand{Identifier: "alice@example.com", Password: "newsecret"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, LoginCommand{Identifier: "alice@example.com", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

func TestResetPasswordSkipsOldPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	user := seedUser(t, svc, "MEM-001", "alice@example.com")
	ctx := context.Background()

	if err := svc.ResetPassword(ctx, user.ID, "resetpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.Login(ctx, LoginCommand{Identifier: "MEM-001", Password: "resetpass"}); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	user := seedUser(t, svc, "MEM-001", "alice@example.com")

	if err := svc.ResetPassword(context.Background(), user.ID, "abc"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
