package users_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/users"
	_ "github.com/tasklane/tasklane/testing"
)

func newProfileRouter(user *auth.User) chi.Router {
	handler := users.NewHandler(nil)
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(auth.ContextWithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	})
	router.Get("/me", handler.Show)
	router.Get("/users/{userID}", handler.Show)
	return router
}

func TestShowProfile(t *testing.T) {
	me := &auth.User{ID: 1, Name: "Alice", Email: "a@a.com"}
	router := newProfileRouter(me)

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"implicit me", "/me", http.StatusOK},
		{"me alias", "/users/me", http.StatusOK},
		{"own id", "/users/1", http.StatusOK},
		{"other id", "/users/2", http.StatusNotFound},
		{"garbage id", "/users/admin", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.status != http.StatusOK {
				return
			}
			var body struct {
				ID    int64  `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.ID != 1 || body.Name != "Alice" || body.Email != "a@a.com" {
				t.Fatalf("unexpected profile payload: %+v", body)
			}
		})
	}
}

func TestShowProfileWithoutUser(t *testing.T) {
	router := newProfileRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
