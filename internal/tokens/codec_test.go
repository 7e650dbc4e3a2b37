package tokens

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dartz_league/internal/identity"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func uintPtr(v uint) *uint { return &v }

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestCodec_SignVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	tests := []struct {
		name string
		id   identity.Identity
		ttl  time.Duration
	}{
		{
			name: "user with profile",
			id:   identity.Identity{ID: 1, Username: "alice", Email: "alice@example.com", Role: "User", ProfileID: uintPtr(10)},
			ttl:  15 * time.Minute,
		},
		{
			name: "director without profile",
			id:   identity.Identity{ID: 2, Username: "bob", Email: "bob@example.com", Role: "Tournament Director"},
			ttl:  time.Hour,
		},
		{
			name: "super admin long ttl",
			id:   identity.Identity{ID: 99, Username: "root", Email: "root@example.com", Role: "Super Admin", ProfileID: uintPtr(0)},
			ttl:  7 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok, err := codec.Sign(tt.id, accessSecret, tt.ttl)
			require.NoError(t, err)
			require.NotEmpty(t, tok)

			got, err := codec.Verify(tok, accessSecret)
			require.NoError(t, err)
			assert.True(t, tt.id.Equal(got), "got %+v want %+v", got, tt.id)
		})
	}
}

func TestCodec_Sign_UniquePerCall(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := NewCodecWithClock(clock.Now)
	id := identity.Identity{ID: 1, Username: "alice", Role: "User"}

	a, err := codec.Sign(id, accessSecret, time.Minute)
	require.NoError(t, err)
	b, err := codec.Sign(id, accessSecret, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	id := identity.Identity{ID: 1, Username: "alice", Role: "User"}

	tok, err := codec.Sign(id, refreshSecret, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(tok, accessSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := NewCodecWithClock(clock.Now)
	id := identity.Identity{ID: 1, Username: "alice", Role: "User"}

	tok, err := codec.Sign(id, accessSecret, time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(tok, accessSecret)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	_, err = codec.Verify(tok, accessSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, KindExpired, KindOf(err))
}

func TestCodec_Verify_NegativeTTLIsExpired(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	tok, err := codec.Sign(identity.Identity{ID: 1, Username: "alice", Role: "User"}, accessSecret, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(tok, accessSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCodec_Verify_ExpiredAndWrongSecretIsInvalid(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	tok, err := codec.Sign(identity.Identity{ID: 1, Username: "alice", Role: "User"}, refreshSecret, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(tok, accessSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestCodec_Verify_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	tests := []string{"", "not-a-valid-jwt", "not.a.jwt", "a.b"}

	for _, raw := range tests {
		raw := raw
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			t.Parallel()

			_, err := codec.Verify(raw, accessSecret)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestCodec_Verify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"id":       1,
		"username": "alice",
		"role":     "Admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = NewCodec().Verify(tok, accessSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_Verify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{"id": 1, "username": "alice", "role": "User"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = NewCodec().Verify(tok, accessSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_Verify_RequiresIdentityClaims(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{"id": 1, "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = NewCodec().Verify(tok, accessSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_Sign_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec().Sign(identity.Identity{Username: "alice", Role: "User"}, nil, time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCodec_ExpiresAt(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := NewCodecWithClock(clock.Now)

	tok, err := codec.Sign(identity.Identity{ID: 1, Username: "alice", Role: "User"}, accessSecret, 10*time.Minute)
	require.NoError(t, err)

	exp, err := codec.ExpiresAt(tok)
	require.NoError(t, err)
	assert.True(t, exp.Equal(clock.t.Add(10*time.Minute)))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "x"}).SignedString(accessSecret)
	require.NoError(t, err)
	_, err = codec.ExpiresAt(noExp)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = codec.ExpiresAt("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want Kind
	}{
		{err: nil, want: KindUnknown},
		{err: errors.New("redis down"), want: KindUnknown},
		{err: fmt.Errorf("wrap: %w", ErrTokenBlacklisted), want: KindBlacklisted},
		{err: fmt.Errorf("wrap: %w", ErrTokenExpired), want: KindExpired},
		{err: fmt.Errorf("wrap: %w", ErrTokenInvalid), want: KindInvalid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "err=%v", tt.err)
	}
	assert.Equal(t, "blacklisted", KindBlacklisted.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
