package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thomasakiou/dpa-BE/internal/app"
	"github.com/thomasakiou/dpa-BE/internal/domain"
)

const testSecret = "test-secret"

func newAuthTestService() *app.Service {
	return app.NewService(nil, nil, "test_events", testSecret, time.Hour, "2025-2026")
}

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func memberClaims(userID string, role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":       userID,
		"member_id": "MEM-001",
		"role":      role,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	}
}

func TestAuthMiddlewareInjectsIdentity(t *testing.T) {
	svc := newAuthTestService()
	token := signTestToken(t, testSecret, memberClaims("7", "member"))

	var gotID int64
	var gotRole domain.UserRole
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotRole, _ = GetUserRole(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/members/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	AuthMiddleware(svc)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 7 {
		t.Fatalf("expected user id 7, got %d", gotID)
	}
	if gotRole != domain.RoleMember {
		t.Fatalf("expected member role, got %s", gotRole)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	svc := newAuthTestService()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + signTestToken(t, "other-secret", memberClaims("7", "member"))},
		{"expired", "Bearer " + signTestToken(t, testSecret, jwt.MapClaims{
			"sub": "7", "role": "member",
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"non-numeric subject", "Bearer " + signTestToken(t, testSecret, memberClaims("alice", "member"))},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/v1/members/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			AuthMiddleware(svc)(next).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireAdminGate(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	memberCtx := context.WithValue(context.Background(), userRoleKey, domain.RoleMember)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard", nil).WithContext(memberCtx)
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", rec.Code)
	}

	adminCtx := context.WithValue(context.Background(), userRoleKey, domain.RoleAdmin)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/admin/dashboard", nil).WithContext(adminCtx)
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
