package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/smart_inventory/internal/models"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	s, err := NewService(testSecret, ttl)
	require.NoError(t, err)
	return s
}

var alice = Identity{UserID: 7, Username: "alice", Role: models.RoleAdmin, FullName: "Alice A"}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestService(t, time.Hour)

	tok, exp, err := s.Issue(alice)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, alice, *id)
}

func TestIssueUniqueTokenIDs(t *testing.T) {
	t.Parallel()
	s := newTestService(t, time.Hour)

	a, _, err := s.Issue(alice)
	require.NoError(t, err)
	b, _, err := s.Issue(alice)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssueWithoutExpiry(t *testing.T) {
	t.Parallel()
	s := newTestService(t, 0)

	tok, exp, err := s.Issue(alice)
	require.NoError(t, err)
	assert.True(t, exp.IsZero())

	s.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, err = s.Verify(tok)
	require.NoError(t, err)
}

func TestIssueRejectsIncompleteIdentity(t *testing.T) {
	t.Parallel()
	s := newTestService(t, time.Hour)

	for name, id := range map[string]Identity{
		"no id":       {Username: "a", Role: models.RoleUser},
		"no username": {UserID: 1, Role: models.RoleUser},
		"bad role":    {UserID: 1, Username: "a", Role: "root"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Issue(id)
			require.Error(t, err)
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	s := newTestService(t, time.Minute)

	tok, _, err := s.Issue(alice)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()
	s := newTestService(t, time.Hour)
	good, _, err := s.Issue(alice)
	require.NoError(t, err)

	other, err := NewService([]byte("another-secret-another-secret-xx"), time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(alice)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Username:         "alice",
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Username:         "alice",
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:         "alice",
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}).SignedString(testSecret)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:         "alice",
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":       "",
		"garbage":     "not.a.token",
		"foreign key": foreign,
		"tampered":    tampered,
		"alg none":    none,
		"alg hs512":   hs512,
		"no expiry":   noExp,
		"bad role":    badRole,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			id, err := s.Verify(tok)
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, id)
			assert.Equal(t, ErrInvalidToken.Error(), err.Error())
		})
	}
}

func TestNewServiceSecret(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, time.Hour)
	require.ErrorIs(t, err, ErrEmptySecret)

	secret := []byte("0123456789abcdef0123456789abcdef")
	s, err := NewService(secret, time.Hour)
	require.NoError(t, err)
	tok, _, err := s.Issue(alice)
	require.NoError(t, err)

	secret[0] = 'x'
	_, err = s.Verify(tok)
	require.NoError(t, err, "caller mutation must not affect the service")
}
