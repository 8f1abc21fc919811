package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasklane/tasklane/internal/platform/httpx"
)

var (
	// ErrInvalidCredentials indicates login failure. Unknown email and wrong
	// password surface identically so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken indicates a request without an Authorization header.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken indicates a token that matches no user.
	ErrInvalidToken = errors.New("invalid token")
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	codec    *Codec
	tokenTTL time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *Codec, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{repo: repo, codec: codec, tokenTTL: tokenTTL}
}

// Login validates email/password credentials and returns the user carrying
// the stable stored token. The token is never re-minted at login.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Register creates an account and derives its lifetime token. The signed
// payload combines the registration instant and the email as a uniqueness
// heuristic; the resulting string is persisted and returned on every login.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	now := time.Now()
	token, err := s.codec.Encode(map[string]any{
		"token": fmt.Sprintf("%d%s", now.UnixNano(), email),
	}, now.Add(s.tokenTTL))
	if err != nil {
		return nil, fmt.Errorf("auth: encode token: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, name, string(hash), token)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// AuthenticateRequest resolves the bearer token carried by the request
// headers. The token is the last whitespace-delimited segment of the
// Authorization value, so "Bearer <token>" and a bare token both work.
func (s *Service) AuthenticateRequest(ctx context.Context, headers http.Header) (*User, error) {
	value := headers.Get("Authorization")
	if value == "" {
		return nil, ErrMissingToken
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, ErrMissingToken
	}
	user, err := s.repo.FindByToken(ctx, fields[len(fields)-1])
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("auth: lookup token: %w", err)
	}
	return user, nil
}

// RecordLogin stores an audit row for a login attempt. user is nil when the
// credentials resolved to no account.
func (s *Service) RecordLogin(ctx context.Context, user *User, email, remoteIP string, success bool) error {
	attempt := LoginAttempt{
		ID:        uuid.New(),
		Email:     email,
		RemoteIP:  remoteIP,
		Success:   success,
		CreatedAt: time.Now(),
	}
	if user != nil {
		attempt.UserID = &user.ID
	}
	return s.repo.RecordLogin(ctx, attempt)
}
