package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/dartz_league/internal/config"
	"github.com/Skotchmaster/dartz_league/internal/events"
	"github.com/Skotchmaster/dartz_league/internal/hash"
	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/models"
	"github.com/Skotchmaster/dartz_league/internal/repo"
	"github.com/Skotchmaster/dartz_league/internal/tokens"
	"github.com/Skotchmaster/dartz_league/internal/validator"
)

// ErrUnauthorized is returned for both unknown users and wrong passwords.
var ErrUnauthorized = errors.New("invalid email/username or password")

type UserFinder interface {
	FindByLogin(ctx context.Context, emailOrUsername string) (*models.User, error)
}

type Revoker interface {
	Blacklist(ctx context.Context, token string) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

type Config struct {
	AccessSecret         []byte
	RefreshSecret        []byte
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	SecureCookie         bool
	RevokeRotatedRefresh bool
}

func ConfigFrom(cfg config.Config) Config {
	return Config{
		AccessSecret:         cfg.JWTSecret,
		RefreshSecret:        cfg.JWTRefreshSecret,
		AccessTTL:            cfg.AccessTTL,
		RefreshTTL:           cfg.RefreshTTL,
		SecureCookie:         cfg.Production(),
		RevokeRotatedRefresh: cfg.RevokeRotatedRefresh,
	}
}

type Credentials struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

type Manager struct {
	users   UserFinder
	codec   *tokens.Codec
	revoked Revoker
	cfg     Config
	events  events.Publisher

	checkPassword func(hash, password string) bool
}

func NewManager(users UserFinder, codec *tokens.Codec, revoked Revoker, cfg Config) *Manager {
	return &Manager{users: users, codec: codec, revoked: revoked, cfg: cfg, checkPassword: hash.CheckPassword}
}

// SetPublisher enables login and logout events.
func (m *Manager) SetPublisher(p events.Publisher) {
	m.events = p
}

func IdentityOf(u *models.User) identity.Identity {
	id := identity.Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
	if u.PlayerProfile != nil {
		pid := u.PlayerProfile.ID
		id.ProfileID = &pid
	}
	return id
}

func (m *Manager) Login(ctx context.Context, w CookieSetter, creds Credentials) (string, error) {
	l := logging.FromContext(ctx).With("svc", "session.login")

	if err := validator.ValidateLogin(creds.EmailOrUsername, creds.Password); err != nil {
		return "", err
	}

	user, err := m.users.FindByLogin(ctx, strings.TrimSpace(creds.EmailOrUsername))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			m.checkPassword(hash.DummyHash(), creds.Password)
			l.Warn("login_failed", "reason", "user not found")
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !m.checkPassword(user.PasswordHash, creds.Password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return "", ErrUnauthorized
	}

	id := IdentityOf(user)
	refresh, err := m.IssueSession(ctx, w, id)
	if err != nil {
		return "", err
	}
	events.PublishUser(ctx, m.events, events.TypeUserLoggedIn, id.ID, id.Username)
	return refresh, nil
}

// IssueSession sets the access cookie on w and returns the refresh token.
// Nothing is written to w unless both tokens were signed.
func (m *Manager) IssueSession(ctx context.Context, w CookieSetter, id identity.Identity) (string, error) {
	access, err := m.codec.Sign(id, m.cfg.AccessSecret, m.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := m.codec.Sign(id, m.cfg.RefreshSecret, m.cfg.RefreshTTL)
	if err != nil {
		return "", fmt.Errorf("issue refresh token: %w", err)
	}

	w.SetCookie(CreateCookie(AccessCookieName, access, "/", m.cfg.AccessTTL, m.cfg.SecureCookie))
	logging.FromContext(ctx).Debug("session_issued", "user_id", id.ID)
	return refresh, nil
}

// Refresh rotates the pair. The consumed refresh token stays valid until its
// own expiry unless RevokeRotatedRefresh is set.
func (m *Manager) Refresh(ctx context.Context, w CookieSetter, refreshToken string) (string, error) {
	id, err := m.verify(ctx, refreshToken, m.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}

	if m.cfg.RevokeRotatedRefresh {
		if err := m.revoked.Blacklist(ctx, refreshToken); err != nil {
			return "", fmt.Errorf("revoke rotated refresh token: %w", err)
		}
	}

	return m.IssueSession(ctx, w, id)
}

// Logout blacklists every non-empty token it is given and always clears the
// access cookie. The returned error is informational.
func (m *Manager) Logout(ctx context.Context, w CookieSetter, accessToken, refreshToken string) error {
	defer w.SetCookie(DeleteCookie(AccessCookieName, "/", m.cfg.SecureCookie))

	if m.events != nil && accessToken != "" {
		if id, err := m.codec.Verify(accessToken, m.cfg.AccessSecret); err == nil {
			events.PublishUser(ctx, m.events, events.TypeUserLoggedOut, id.ID, id.Username)
		}
	}

	var errs []error
	for _, tok := range []string{accessToken, refreshToken} {
		if tok == "" {
			continue
		}
		if err := m.revoked.Blacklist(ctx, tok); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) VerifyIdentity(ctx context.Context, accessToken string) (identity.Identity, error) {
	return m.verify(ctx, accessToken, m.cfg.AccessSecret)
}

func (m *Manager) verify(ctx context.Context, token string, secret []byte) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, fmt.Errorf("%w: empty token", tokens.ErrTokenInvalid)
	}

	blacklisted, err := m.revoked.IsBlacklisted(ctx, token)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("check blacklist: %w", err)
	}
	if blacklisted {
		return identity.Identity{}, tokens.ErrTokenBlacklisted
	}

	return m.codec.Verify(token, secret)
}
