package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func okHandler(t *testing.T, wantScopeID int64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		scope := ScopeFromContext(r.Context())
		if scope == nil {
			t.Fatalf("expected scope in context")
		}
		if scope.ID != wantScopeID {
			t.Fatalf("expected scope id %d, got %d", wantScopeID, scope.ID)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireUser(t *testing.T) {
	repo := newStubRepo()
	repo.add(&User{ID: 1, Email: "a@a.com", Token: "valid-token"})
	mw := Middleware{Service: newTestService(repo)}

	router := chi.NewRouter()
	router.With(mw.RequireUser).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			t.Fatalf("expected user in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer valid-token", http.StatusOK},
		{"bare token", "valid-token", http.StatusOK},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"no header", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRequireUserRepositoryFailure(t *testing.T) {
	repo := newStubRepo()
	repo.findTokenErr = errors.New("connection refused")
	mw := Middleware{Service: newTestService(repo)}

	router := chi.NewRouter()
	router.With(mw.RequireUser).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on repository failure, got %d", rec.Code)
	}
}

func TestScopeUser(t *testing.T) {
	repo := newStubRepo()
	repo.add(&User{ID: 1, Email: "a@a.com", Token: "valid-token"})
	mw := Middleware{Service: newTestService(repo)}

	router := chi.NewRouter()
	router.Use(mw.RequireUser)
	router.With(mw.ScopeUser).Get("/me/items", okHandler(t, 1))
	router.With(mw.ScopeUser).Get("/users/{userID}/items", okHandler(t, 1))

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"implicit me", "/me/items", http.StatusOK},
		{"me alias", "/users/me/items", http.StatusOK},
		{"own id", "/users/1/items", http.StatusOK},
		{"other id", "/users/2/items", http.StatusUnauthorized},
		{"garbage id", "/users/admin/items", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "Bearer valid-token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestScopeUserWithoutAuthenticatedUser(t *testing.T) {
	mw := Middleware{Service: newTestService(newStubRepo())}

	router := chi.NewRouter()
	router.With(mw.ScopeUser).Get("/me/items", func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/me/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
