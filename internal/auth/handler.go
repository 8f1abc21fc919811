package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tasklane/tasklane/internal/platform/httpx"
)

// Handler wires HTTP endpoints for registration and login.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	throttle  *LoginThrottle
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, throttle *LoginThrottle) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		throttle:  throttle,
		validator: validator.New(),
	}
}

// MountRoutes registers session routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sessions", h.handleRegister)
	r.Post("/sessions/authenticate", h.handleLogin)
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type tokenResponse struct {
	AuthToken string `json:"auth_token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid request body")
		return
	}
	if fields := h.validateCredentials(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, ErrEmailTaken) {
		httpx.ValidationProblem(w, httpx.FieldErrors{"user_creation": {"already exists"}})
		return
	}
	if err != nil {
		h.logger.Error("register failed", slog.Any("error", err))
		httpx.ValidationProblem(w, httpx.FieldErrors{"user_creation": {"unknown error"}})
		return
	}

	httpx.JSON(w, http.StatusCreated, tokenResponse{AuthToken: user.Token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid request body")
		return
	}

	clientKey := remoteIP(r)
	blocked, err := h.throttle.Blocked(r.Context(), clientKey)
	if err != nil {
		h.logger.Warn("login throttle check", slog.Any("error", err))
	}
	if blocked {
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "too many failed login attempts")
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil && !errors.Is(err, ErrInvalidCredentials) {
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if auditErr := h.service.RecordLogin(r.Context(), user, req.Email, clientKey, err == nil); auditErr != nil {
		h.logger.Warn("record login attempt", slog.Any("error", auditErr))
	}
	if err != nil {
		if throttleErr := h.throttle.RecordFailure(r.Context(), clientKey); throttleErr != nil {
			h.logger.Warn("login throttle record", slog.Any("error", throttleErr))
		}
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", ErrInvalidCredentials.Error())
		return
	}
	if throttleErr := h.throttle.Reset(r.Context(), clientKey); throttleErr != nil {
		h.logger.Warn("login throttle reset", slog.Any("error", throttleErr))
	}

	httpx.JSON(w, http.StatusOK, tokenResponse{AuthToken: user.Token})
}

func (h *Handler) validateCredentials(req credentialsRequest) httpx.FieldErrors {
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
		switch fieldErr.Tag() {
		case "required":
			fields.Add(jsonField(fieldErr.Field()), "can't be blank")
		case "email":
			fields.Add(jsonField(fieldErr.Field()), "is invalid")
		default:
			fields.Add(jsonField(fieldErr.Field()), "is invalid")
		}
	}
	return fields
}

func jsonField(name string) string {
	switch name {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "Name":
		return "name"
	}
	return name
}

// remoteIP strips the port from RemoteAddr; RealIP middleware already
// rewrote it to the client address.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
