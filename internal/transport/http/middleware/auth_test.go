package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salescomp/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", TenantID: "t1", RoleID: "r1", RoleName: auth.RoleCompAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.RoleName != auth.RoleCompAdmin {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

type stubPermissionStore struct {
	allowed map[string]bool
}

func (s *stubPermissionStore) HasPermission(_ context.Context, _, permission string) (bool, error) {
	return s.allowed[permission], nil
}

func TestRequirePermission(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", TenantID: "t1", RoleID: "r1", RoleName: auth.RoleFinance}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	store := &stubPermissionStore{allowed: map[string]bool{auth.PermPayoutsRead: true}}

	call := func(permission string) int {
		called := false
		handler := Auth(secret)(RequirePermission(permission, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if called && rec.Code != http.StatusOK {
			t.Fatalf("handler called but status %d", rec.Code)
		}
		return rec.Code
	}

	if code := call(auth.PermPayoutsRead); code != http.StatusOK {
		t.Fatalf("expected 200 for granted permission, got %d", code)
	}
	if code := call(auth.PermPayoutsRun); code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing permission, got %d", code)
	}
}

func TestRequirePermissionUnauthenticated(t *testing.T) {
	store := &stubPermissionStore{allowed: map[string]bool{}}
	handler := RequirePermission(auth.PermPayoutsRead, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
