package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/internal/store"
	"github.com/khanghh/photoshare/internal/testutil"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func newTestTokenService(t *testing.T, userStore UserStore, storage store.Storage, clock *testClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{SecretKey: testSecret}, userStore, storage)
	require.NoError(t, err)
	svc.now = clock.Now
	return svc
}

func newTestUsers(t *testing.T) *users.UserService {
	t.Helper()
	db := testutil.NewDB(t)
	return users.NewUserService(db, users.NewUserRepository(db), common.NewPasswordHasher(0))
}

func createTestUser(t *testing.T, userService *users.UserService, username, email string) *model.User {
	t.Helper()
	user, err := userService.CreateUser(context.Background(), users.CreateUserOptions{
		Username: username,
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

// recordingStorage remembers the expiry passed to Set.
type recordingStorage struct {
	store.Storage
	lastTTL time.Duration
	sets    int
}

func (s *recordingStorage) Set(ctx context.Context, key string, val []byte, expiresIn time.Duration) error {
	s.lastTTL = expiresIn
	s.sets++
	return s.Storage.Set(ctx, key, val, expiresIn)
}

func TestNewTokenServiceConfig(t *testing.T) {
	storage := testutil.NewStorage(t)

	_, err := NewTokenService(TokenConfig{}, nil, storage)
	assert.Error(t, err)

	_, err = NewTokenService(TokenConfig{SecretKey: testSecret, Algorithm: "RS256"}, nil, storage)
	assert.Error(t, err)

	svc, err := NewTokenService(TokenConfig{SecretKey: testSecret, Algorithm: "HS512"}, nil, storage)
	require.NoError(t, err)
	assert.Equal(t, "HS512", svc.signingMethod.Alg())
	assert.Equal(t, 60*time.Minute, svc.accessTTL)
	assert.Equal(t, 7*24*time.Hour, svc.refreshTTL)
}

func TestIssuedTokenClaims(t *testing.T) {
	clock := newTestClock()
	svc := newTestTokenService(t, nil, testutil.NewStorage(t), clock)

	accessToken, err := svc.IssueAccessToken("a@x.com")
	require.NoError(t, err)
	claims, err := svc.parse(accessToken)
	require.NoError(t, err)
	assert.Equal(t, ScopeAccessToken, claims.Scope)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, clock.now, claims.IssuedAt.Time.UTC())
	assert.Equal(t, clock.now.Add(60*time.Minute), claims.ExpiresAt.Time.UTC())
	assert.NotEmpty(t, claims.ID)

	refreshToken, err := svc.IssueRefreshToken("a@x.com", time.Hour)
	require.NoError(t, err)
	claims, err = svc.parse(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, ScopeRefreshToken, claims.Scope)
	assert.Equal(t, clock.now.Add(time.Hour), claims.ExpiresAt.Time.UTC())

	other, err := svc.IssueAccessToken("a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, accessToken, other)
}

func TestDecodeRefreshToken(t *testing.T) {
	clock := newTestClock()
	svc := newTestTokenService(t, nil, testutil.NewStorage(t), clock)

	refreshToken, err := svc.IssueRefreshToken("a@x.com")
	require.NoError(t, err)
	email, err := svc.DecodeRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	accessToken, err := svc.IssueAccessToken("a@x.com")
	require.NoError(t, err)
	_, err = svc.DecodeRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestDecodeRefreshTokenInvalid(t *testing.T) {
	clock := newTestClock()
	svc := newTestTokenService(t, nil, testutil.NewStorage(t), clock)

	refreshToken, err := svc.IssueRefreshToken("a@x.com")
	require.NoError(t, err)

	otherSvc := newTestTokenService(t, nil, testutil.NewStorage(t), clock)
	otherSvc.secretKey = "another-secret"
	foreignToken, err := otherSvc.IssueRefreshToken("a@x.com")
	require.NoError(t, err)

	otherAlg := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Scope: ScopeRefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	})
	otherAlgToken, err := otherAlg.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Scope:            ScopeRefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
	})
	noExpiryToken, err := noExpiry.SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(refreshToken, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "tampered", token: tampered},
		{name: "foreign secret", token: foreignToken},
		{name: "other algorithm", token: otherAlgToken},
		{name: "no expiry", token: noExpiryToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.DecodeRefreshToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	t.Run("expired", func(t *testing.T) {
		clock.Advance(8 * 24 * time.Hour)
		_, err := svc.DecodeRefreshToken(refreshToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	userService := newTestUsers(t)
	user := createTestUser(t, userService, "alice", "a@x.com")
	svc := newTestTokenService(t, userService, testutil.NewStorage(t), clock)

	accessToken, err := svc.IssueAccessToken(user.Email)
	require.NoError(t, err)
	resolved, err := svc.ResolveIdentity(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	refreshToken, err := svc.IssueRefreshToken(user.Email)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	ghostToken, err := svc.IssueAccessToken("ghost@x.com")
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, ghostToken)
	assert.ErrorIs(t, err, ErrUnknownIdentity)

	clock.Advance(61 * time.Minute)
	_, err = svc.ResolveIdentity(ctx, accessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	userService := newTestUsers(t)
	user := createTestUser(t, userService, "alice", "a@x.com")
	svc := newTestTokenService(t, userService, testutil.NewStorage(t), clock)

	accessToken, err := svc.IssueAccessToken(user.Email)
	require.NoError(t, err)
	otherToken, err := svc.IssueAccessToken(user.Email)
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, accessToken)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, accessToken))
	require.NoError(t, svc.Revoke(ctx, accessToken))

	revoked, err = svc.IsRevoked(ctx, accessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.ResolveIdentity(ctx, accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resolved, err := svc.ResolveIdentity(ctx, otherToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestRevokedTokenReencodedSignature(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	userService := newTestUsers(t)
	user := createTestUser(t, userService, "alice", "a@x.com")
	svc := newTestTokenService(t, userService, testutil.NewStorage(t), clock)

	accessToken, err := svc.IssueAccessToken(user.Email)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, accessToken))

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	head, last := accessToken[:len(accessToken)-1], accessToken[len(accessToken)-1]
	for _, c := range []byte(alphabet) {
		if c == last {
			continue
		}
		variant := head + string(c)
		_, err := svc.ResolveIdentity(ctx, variant)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "variant ending in %q", c)
	}
}

func TestTokenWithoutIDRejected(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	userService := newTestUsers(t)
	user := createTestUser(t, userService, "alice", "a@x.com")
	svc := newTestTokenService(t, userService, testutil.NewStorage(t), clock)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Scope: ScopeAccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, svc.Revoke(ctx, token), ErrInvalidCredentials)
}

func TestFingerprint(t *testing.T) {
	clock := newTestClock()
	svc := newTestTokenService(t, nil, testutil.NewStorage(t), clock)

	refreshToken, err := svc.IssueRefreshToken("a@x.com")
	require.NoError(t, err)
	fingerprint := svc.Fingerprint(refreshToken)
	assert.Len(t, fingerprint, 64)
	assert.Equal(t, fingerprint, svc.Fingerprint(refreshToken))
	assert.NotEqual(t, fingerprint, svc.Fingerprint(refreshToken+"x"))
}

func TestRevokeRejectsInvalidTokens(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	svc := newTestTokenService(t, nil, testutil.NewStorage(t), clock)

	refreshToken, err := svc.IssueRefreshToken("a@x.com")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Revoke(ctx, refreshToken), ErrInvalidScope)
	assert.ErrorIs(t, svc.Revoke(ctx, "not-a-token"), ErrInvalidCredentials)
}

func TestRevokeTTL(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	storage := &recordingStorage{Storage: testutil.NewStorage(t)}
	svc := newTestTokenService(t, nil, storage, clock)

	accessToken, err := svc.IssueAccessToken("a@x.com")
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	require.NoError(t, svc.Revoke(ctx, accessToken))
	assert.Equal(t, 1, storage.sets)
	assert.GreaterOrEqual(t, storage.lastTTL, 50*time.Minute)
	assert.LessOrEqual(t, storage.lastTTL, 50*time.Minute+time.Second)

	// expired tokens are already rejected, nothing to store
	clock.Advance(time.Hour)
	require.NoError(t, svc.Revoke(ctx, accessToken))
	assert.Equal(t, 1, storage.sets)
}
