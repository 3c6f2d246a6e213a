package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// maxPasswordBytes is bcrypt's input limit. The validator's max counts
// runes, so multibyte passwords need this separate check.
const maxPasswordBytes = 72

// Sessions authenticates requests against the user table and the token
// revocation list.
type Sessions struct {
	DB     *sql.DB
	Tokens *Tokens
}

// NewSessions returns a Sessions using db for lookups and tokens for signing.
func NewSessions(db *sql.DB, tokens *Tokens) *Sessions {
	return &Sessions{DB: db, Tokens: tokens}
}

// dummyHash is compared against when the email is unknown, so a failed login
// costs the same whether or not the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return hash
})

// ResolveCurrentUser returns the user a token belongs to. An empty, invalid,
// expired or revoked token, or one whose user was deleted, yields a nil user
// and no error. Only store failures are returned as errors.
func (s *Sessions) ResolveCurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	revoked, err := store.IsTokenRevoked(ctx, s.DB, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	if revoked {
		return nil, nil
	}

	userID, _ := claims.UserID()
	user, err := store.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	return user, nil
}

// RequireUser is ResolveCurrentUser that fails with KindUnauthorized when
// there is no session.
func (s *Sessions) RequireUser(ctx context.Context, token string) (*model.User, error) {
	user, err := s.ResolveCurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	return user, nil
}

// RequireAdmin returns the session's user if it is an admin. It fails with
// KindUnauthorized when there is no session and KindForbidden when the user
// is not an admin.
func (s *Sessions) RequireAdmin(ctx context.Context, token string) (*model.User, error) {
	user, err := s.RequireUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, apperr.Forbidden("admin access required")
	}
	return user, nil
}

// Register creates a regular account and signs it in.
func (s *Sessions) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := apperr.Check(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperr.ValidationFields("invalid input", map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", maxPasswordBytes),
		})
	}

	existing, err := store.FindUserByEmail(ctx, s.DB, in.Email)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user with this email already exists", nil)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// A concurrent registration can still win the race; CreateUser reports
	// that as a conflict too.
	user, err := store.CreateUser(ctx, s.DB, in.Email, hash, in.Name, in.Phone)
	if err != nil {
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return &Session{Token: token, User: user}, nil
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords fail identically.
func (s *Sessions) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password required")
	}

	user, err := store.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if user == nil {
		// Only the time it takes matters; the result is always a mismatch.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		slog.Warn("login failed", "reason", "unknown email")
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if !VerifyPassword(password, user.PasswordHash) {
		slog.Warn("login failed", "user_id", user.ID)
		return nil, apperr.Unauthorized("invalid email or password")
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "admin", user.IsAdmin)
	return &Session{Token: token, User: user}, nil
}

// Logout revokes token until it would have expired. Logging out with an
// invalid or already expired token does nothing.
func (s *Sessions) Logout(ctx context.Context, token string) error {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil
	}

	if err := store.RevokeToken(ctx, s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// PurgeExpired removes revocation entries for tokens that have expired on
// their own.
func (s *Sessions) PurgeExpired(ctx context.Context) (int64, error) {
	return store.PurgeRevokedTokens(ctx, s.DB, s.Tokens.now())
}
