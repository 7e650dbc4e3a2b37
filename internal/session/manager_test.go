package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dartz_league/internal/events"
	"github.com/Skotchmaster/dartz_league/internal/hash"
	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/models"
	"github.com/Skotchmaster/dartz_league/internal/repo"
	"github.com/Skotchmaster/dartz_league/internal/revocation"
	"github.com/Skotchmaster/dartz_league/internal/testutil"
	"github.com/Skotchmaster/dartz_league/internal/tokens"
	"github.com/Skotchmaster/dartz_league/internal/validator"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) FindByLogin(_ context.Context, login string) (*models.User, error) {
	for _, u := range f {
		if u.Email == login || u.Username == login {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

type cookieJar struct {
	cookies []*http.Cookie
}

func (j *cookieJar) SetCookie(c *http.Cookie) { j.cookies = append(j.cookies, c) }

func (j *cookieJar) last() *http.Cookie {
	if len(j.cookies) == 0 {
		return nil
	}
	return j.cookies[len(j.cookies)-1]
}

type failingRevoker struct {
	mu       sync.Mutex
	attempts []string
}

func (f *failingRevoker) Blacklist(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, token)
	return errors.New("redis: connection refused")
}

func (f *failingRevoker) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

var testConfig = Config{
	AccessSecret:  []byte("test-jwt-secret"),
	RefreshSecret: []byte("test-refresh-secret"),
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
}

func newUsers(t *testing.T) fakeUsers {
	t.Helper()

	pw, err := hash.HashPassword("correct-horse1")
	require.NoError(t, err)
	return fakeUsers{
		"alice": {
			ID:            1,
			Username:      "alice",
			Email:         "alice@example.com",
			PasswordHash:  pw,
			Role:          "User",
			PlayerProfile: &models.PlayerProfile{ID: 10, UserID: 1},
		},
		"dave": {
			ID:           2,
			Username:     "dave",
			Email:        "dave@example.com",
			PasswordHash: pw,
			Role:         "Tournament Director",
		},
	}
}

func newTestManager(t *testing.T, cfg Config) (*Manager, *revocation.Store) {
	t.Helper()

	rdb, _ := testutil.NewRedis(t)
	codec := tokens.NewCodec()
	store := revocation.NewStore(rdb, codec)
	return NewManager(newUsers(t), codec, store, cfg), store
}

func TestManager_LoginIssuesSession(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	ctx := context.Background()
	jar := &cookieJar{}

	refresh, err := m.Login(ctx, jar, Credentials{EmailOrUsername: "alice@example.com", Password: "correct-horse1"})
	require.NoError(t, err)
	require.NotEmpty(t, refresh)

	require.Len(t, jar.cookies, 1)
	c := jar.last()
	assert.Equal(t, AccessCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 900, c.MaxAge)
	assert.False(t, c.Secure)

	id, err := m.VerifyIdentity(ctx, c.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "User", id.Role)
	require.NotNil(t, id.ProfileID)
	assert.Equal(t, uint(10), *id.ProfileID)

	// the refresh token is not an access token
	_, err = m.VerifyIdentity(ctx, refresh)
	assert.ErrorIs(t, err, tokens.ErrTokenInvalid)
}

func TestManager_LoginByUsernameWithoutProfile(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	jar := &cookieJar{}

	_, err := m.Login(context.Background(), jar, Credentials{EmailOrUsername: " dave ", Password: "correct-horse1"})
	require.NoError(t, err)

	id, err := m.VerifyIdentity(context.Background(), jar.last().Value)
	require.NoError(t, err)
	assert.Equal(t, "Tournament Director", id.Role)
	assert.Nil(t, id.ProfileID)
}

func TestManager_LoginRejected(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{"wrong password", Credentials{"alice", "wrong-password1"}, ErrUnauthorized},
		{"unknown user", Credentials{"mallory@example.com", "correct-horse1"}, ErrUnauthorized},
		{"missing password", Credentials{"alice", ""}, validator.ErrValidation},
		{"missing login", Credentials{"  ", "correct-horse1"}, validator.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jar := &cookieJar{}
			refresh, err := m.Login(context.Background(), jar, tt.creds)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, refresh)
			assert.Empty(t, jar.cookies)
		})
	}
}

func TestManager_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	ctx := context.Background()

	_, errUnknown := m.Login(ctx, &cookieJar{}, Credentials{"nobody", "correct-horse1"})
	_, errWrong := m.Login(ctx, &cookieJar{}, Credentials{"alice", "not-it-at-all1"})
	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestManager_UnknownUserStillComparesHash(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	var compared []string
	m.checkPassword = func(h, pw string) bool {
		compared = append(compared, h)
		return hash.CheckPassword(h, pw)
	}

	_, err := m.Login(context.Background(), &cookieJar{}, Credentials{"nobody", "correct-horse1"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, []string{hash.DummyHash()}, compared)

	_, err = m.Login(context.Background(), &cookieJar{}, Credentials{"alice", "not-it-at-all1"})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Len(t, compared, 2)
	assert.NotEqual(t, hash.DummyHash(), compared[1])
}

func TestManager_LogoutRevokesBothTokens(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, testConfig)
	ctx := context.Background()
	jar := &cookieJar{}

	refresh, err := m.Login(ctx, jar, Credentials{"alice", "correct-horse1"})
	require.NoError(t, err)
	access := jar.last().Value

	require.NoError(t, m.Logout(ctx, jar, access, refresh))

	cleared := jar.last()
	assert.Equal(t, AccessCookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)

	_, err = m.VerifyIdentity(ctx, access)
	assert.ErrorIs(t, err, tokens.ErrTokenBlacklisted)

	refreshed, err := m.Refresh(ctx, &cookieJar{}, refresh)
	assert.ErrorIs(t, err, tokens.ErrTokenBlacklisted)
	assert.Empty(t, refreshed)

	blacklisted, err := store.IsBlacklisted(ctx, refresh)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestManager_LogoutWithoutTokens(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	jar := &cookieJar{}

	require.NoError(t, m.Logout(context.Background(), jar, "", ""))
	require.Len(t, jar.cookies, 1)
	assert.Equal(t, -1, jar.last().MaxAge)
}

func TestManager_LogoutBestEffort(t *testing.T) {
	t.Parallel()

	rev := &failingRevoker{}
	m := NewManager(newUsers(t), tokens.NewCodec(), rev, testConfig)
	jar := &cookieJar{}

	err := m.Logout(context.Background(), jar, "access.token.value", "refresh.token.value")
	require.Error(t, err)
	assert.Equal(t, []string{"access.token.value", "refresh.token.value"}, rev.attempts)

	require.Len(t, jar.cookies, 1)
	assert.Equal(t, -1, jar.last().MaxAge)
}

func TestManager_RefreshExpired(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	id := identity.Identity{ID: 1, Username: "alice", Email: "alice@example.com", Role: "User"}

	expired, err := tokens.NewCodec().Sign(id, testConfig.RefreshSecret, -time.Minute)
	require.NoError(t, err)

	jar := &cookieJar{}
	refresh, err := m.Refresh(context.Background(), jar, expired)
	require.ErrorIs(t, err, tokens.ErrTokenExpired)
	assert.Equal(t, tokens.KindExpired, tokens.KindOf(err))
	assert.Empty(t, refresh)
	assert.Empty(t, jar.cookies)
}

func TestManager_RefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	jar := &cookieJar{}

	_, err := m.Login(context.Background(), jar, Credentials{"alice", "correct-horse1"})
	require.NoError(t, err)

	_, err = m.Refresh(context.Background(), &cookieJar{}, jar.last().Value)
	assert.ErrorIs(t, err, tokens.ErrTokenInvalid)
}

func TestManager_RefreshRotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		revokeRotated bool
		oldStillWorks bool
	}{
		{name: "old refresh token survives rotation", revokeRotated: false, oldStillWorks: true},
		{name: "rotated refresh token is revoked", revokeRotated: true, oldStillWorks: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig
			cfg.RevokeRotatedRefresh = tt.revokeRotated
			m, _ := newTestManager(t, cfg)
			ctx := context.Background()

			old, err := m.Login(ctx, &cookieJar{}, Credentials{"alice", "correct-horse1"})
			require.NoError(t, err)

			jar := &cookieJar{}
			rotated, err := m.Refresh(ctx, jar, old)
			require.NoError(t, err)
			assert.NotEqual(t, old, rotated)
			require.Len(t, jar.cookies, 1)

			id, err := m.VerifyIdentity(ctx, jar.last().Value)
			require.NoError(t, err)
			assert.Equal(t, "alice", id.Username)

			_, err = m.Refresh(ctx, &cookieJar{}, old)
			if tt.oldStillWorks {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tokens.ErrTokenBlacklisted)
			}

			_, err = m.Refresh(ctx, &cookieJar{}, rotated)
			assert.NoError(t, err)
		})
	}
}

func TestManager_VerifyStoreOutage(t *testing.T) {
	t.Parallel()

	m := NewManager(newUsers(t), tokens.NewCodec(), &failingRevoker{}, testConfig)
	tok, err := tokens.NewCodec().Sign(identity.Identity{ID: 1, Username: "alice", Role: "User"}, testConfig.AccessSecret, time.Minute)
	require.NoError(t, err)

	_, err = m.VerifyIdentity(context.Background(), tok)
	require.Error(t, err)
	assert.Equal(t, tokens.KindUnknown, tokens.KindOf(err))
}

func TestManager_VerifyEmptyToken(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	_, err := m.VerifyIdentity(context.Background(), "")
	assert.ErrorIs(t, err, tokens.ErrTokenInvalid)
}

func TestManager_SecureCookieInProduction(t *testing.T) {
	t.Parallel()

	cfg := testConfig
	cfg.SecureCookie = true
	m, _ := newTestManager(t, cfg)
	jar := &cookieJar{}

	_, err := m.IssueSession(context.Background(), jar, identity.Identity{ID: 3, Username: "erin", Role: "Admin"})
	require.NoError(t, err)
	assert.True(t, jar.last().Secure)

	require.NoError(t, m.Logout(context.Background(), jar, "", ""))
	assert.True(t, jar.last().Secure)
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, event any) error {
	if ev, ok := event.(events.UserEvent); ok {
		p.types = append(p.types, ev.Type)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestManager_PublishesUserEvents(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, testConfig)
	pub := &recordingPublisher{}
	m.SetPublisher(pub)
	ctx := context.Background()
	jar := &cookieJar{}

	_, err := m.Login(ctx, jar, Credentials{"alice", "wrong-password1"})
	require.Error(t, err)
	assert.Empty(t, pub.types)

	refresh, err := m.Login(ctx, jar, Credentials{"alice", "correct-horse1"})
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx, jar, jar.last().Value, refresh))

	assert.Equal(t, []string{events.TypeUserLoggedIn, events.TypeUserLoggedOut}, pub.types)
}
