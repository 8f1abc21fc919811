// Package users exposes the profile endpoint for the authenticated account.
package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/platform/httpx"
)

// Handler serves user profile reads.
type Handler struct {
	logger *slog.Logger
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

type profileResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Show renders the authenticated user's profile. The path may name the user
// as "me" or by numeric id; any other id answers 404 so profiles of other
// accounts stay hidden.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	param := chi.URLParam(r, "userID")
	if param != "" && param != "me" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil || id != user.ID {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "")
			return
		}
	}

	httpx.JSON(w, http.StatusOK, profileResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}
