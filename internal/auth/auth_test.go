package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/academic-records-api/internal/config"
)

// newTestService builds a Service with two accounts: admin/admin-pass
// and alice/alice-pass. MinCost keeps the bcrypt comparisons fast.
func newTestService(t *testing.T, tokenTTL time.Duration) *Service {
	t.Helper()

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}

	return New(config.Auth{
		TokenSecret: "test-secret",
		TokenTTL:    tokenTTL,
		Accounts: []config.Account{
			{Username: "admin", PasswordHash: hash("admin-pass"), Role: RoleAdmin},
			{Username: "alice", PasswordHash: hash("alice-pass"), Role: RoleUser},
		},
	})
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t, time.Minute)

	t.Run("admin with correct password", func(t *testing.T) {
		id, err := svc.Authenticate("admin", "admin-pass")
		require.NoError(t, err)
		assert.Equal(t, "admin", id.Username)
		assert.True(t, id.IsAdmin())
	})

	t.Run("regular user with correct password", func(t *testing.T) {
		id, err := svc.Authenticate("alice", "alice-pass")
		require.NoError(t, err)
		assert.Equal(t, "alice", id.Username)
		assert.False(t, id.IsAdmin())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate("mallory", "alice-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Authenticate("", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthorize(t *testing.T) {
	svc := newTestService(t, time.Minute)
	admin := Identity{Username: "admin", Role: RoleAdmin}
	alice := Identity{Username: "alice", Role: RoleUser}

	assert.NoError(t, svc.Authorize(admin, OpRead))
	assert.NoError(t, svc.Authorize(admin, OpWrite))
	assert.NoError(t, svc.Authorize(alice, OpRead))
	assert.ErrorIs(t, svc.Authorize(alice, OpWrite), ErrDenied)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Minute)

	token, expiresAt, err := svc.IssueToken(Identity{Username: "alice", Role: RoleUser})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, RoleUser, id.Role)
}

func TestParseTokenRejects(t *testing.T) {
	svc := newTestService(t, time.Minute)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestService(t, -time.Minute)
		token, _, err := expired.IssueToken(Identity{Username: "alice", Role: RoleUser})
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := New(config.Auth{TokenSecret: "other-secret", TokenTTL: time.Minute})
		token, _, err := other.IssueToken(Identity{Username: "alice", Role: RoleUser})
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
