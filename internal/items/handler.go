package items

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/platform/httpx"
)

// Handler serves the item CRUD endpoints. Routes are mounted behind
// auth.Middleware, so the scoped owner is always present in the context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers the item routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.ScopeFromContext(r.Context())
	if owner == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	req := ListItemsRequest{OwnerID: owner.ID}
	if page := r.URL.Query().Get("page"); page != "" {
		if parsed, err := strconv.Atoi(page); err == nil && parsed > 0 {
			req.Page = parsed
		}
	}
	if per := r.URL.Query().Get("per"); per != "" {
		if parsed, err := strconv.Atoi(per); err == nil && parsed > 0 {
			req.Per = parsed
		}
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list items failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result == nil {
		result = []Item{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	owner := auth.ScopeFromContext(r.Context())
	if owner == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	}

	item, err := h.service.Get(r.Context(), owner.ID, id)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("get item failed", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.ScopeFromContext(r.Context())
	if owner == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req CreateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid request body")
		return
	}
	if fields := h.validationErrors(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	item, err := h.service.Create(r.Context(), owner.ID, req)
	if err != nil {
		h.logger.Error("create item failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/users/%d/items/%d", owner.ID, item.ID))
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.ScopeFromContext(r.Context())
	if owner == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	}

	var req UpdateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid request body")
		return
	}
	if fields := h.validationErrors(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	item, err := h.service.Update(r.Context(), owner.ID, id, req)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("update item failed", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := auth.ScopeFromContext(r.Context())
	if owner == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	}

	if err := h.service.Delete(r.Context(), owner.ID, id); err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("delete item failed", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validationErrors(req any) httpx.FieldErrors {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	fields := httpx.FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("base", "is invalid")
		return fields
	}
	for _, fieldErr := range verrs {
		name := fieldErr.Field()
		switch name {
		case "Name":
			name = "name"
		case "Description":
			name = "description"
		case "Done":
			name = "done"
		}
		if fieldErr.Tag() == "required" || fieldErr.Tag() == "min" {
			fields.Add(name, "can't be blank")
			continue
		}
		fields.Add(name, "is invalid")
	}
	return fields
}
