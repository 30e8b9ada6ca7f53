package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/internal/store"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
)

const (
	ScopeAccessToken  = "access_token"
	ScopeRefreshToken = "refresh_token"
)

// TokenConfig carries the signing secret, algorithm and default lifetimes.
type TokenConfig struct {
	SecretKey       string
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// UserStore is the part of the credential store the token service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SetRefreshToken(ctx context.Context, userID uint, token string) error
}

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// RevokedToken is the denylist entry stored under the token's jti.
type RevokedToken struct {
	Subject   string    `json:"sub"`
	RevokedAt time.Time `json:"revokedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var errMissingTokenID = errors.New("token has no id")

type TokenService struct {
	secretKey     string
	signingMethod jwt.SigningMethod
	accessTTL     time.Duration
	refreshTTL    time.Duration
	userStore     UserStore
	revokedStore  store.Store[RevokedToken]
	now           func() time.Time
}

func (s *TokenService) issue(subject string, scope string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(s.signingMethod, claims).SignedString([]byte(s.secretKey))
}

func pickTTL(ttl []time.Duration, fallback time.Duration) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return ttl[0]
	}
	return fallback
}

// IssueAccessToken signs an access token for subject. The default lifetime applies when ttl is omitted.
func (s *TokenService) IssueAccessToken(subject string, ttl ...time.Duration) (string, error) {
	return s.issue(subject, ScopeAccessToken, pickTTL(ttl, s.accessTTL))
}

func (s *TokenService) IssueRefreshToken(subject string, ttl ...time.Duration) (string, error) {
	return s.issue(subject, ScopeRefreshToken, pickTTL(ttl, s.refreshTTL))
}

func (s *TokenService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) {
			return []byte(s.secretKey), nil
		},
		jwt.WithValidMethods([]string{s.signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return claims, err
	}
	if claims.ID == "" {
		return claims, errMissingTokenID
	}
	return claims, nil
}

// DecodeRefreshToken returns the subject of a valid refresh token.
func (s *TokenService) DecodeRefreshToken(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if claims.Scope != ScopeRefreshToken {
		return "", ErrInvalidScope
	}
	return claims.Subject, nil
}

// Fingerprint is the keyed digest under which a refresh token is persisted.
func (s *TokenService) Fingerprint(token string) string {
	return common.TokenDigest(s.secretKey, token)
}

// Revoke denylists an access token until it would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if claims.Scope != ScopeAccessToken {
		return ErrInvalidScope
	}

	now := s.now()
	expiresAt := claims.ExpiresAt.Time
	ttl := expiresAt.Sub(now)
	// storages expire in whole seconds, and a zero ttl means never
	ttl = ttl.Truncate(time.Second) + time.Second
	if ttl < params.MinRevocationTTL {
		ttl = params.MinRevocationTTL
	}
	entry := RevokedToken{
		Subject:   claims.Subject,
		RevokedAt: now,
		ExpiresAt: expiresAt,
	}
	return s.revokedStore.Set(ctx, claims.ID, entry, ttl)
}

// IsRevoked reports whether the token's id is denylisted. Revocation follows
// the jti, so every encoding of a revoked token stays revoked.
func (s *TokenService) IsRevoked(ctx context.Context, token string) (bool, error) {
	claims, err := s.parse(token)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return s.revokedStore.Exists(ctx, claims.ID)
}

// ResolveIdentity returns the identity an access token was issued to.
func (s *TokenService) ResolveIdentity(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if claims.Scope != ScopeAccessToken {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, ErrInvalidScope)
	}

	revoked, err := s.revokedStore.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.userStore.GetUserByEmail(ctx, claims.Subject)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrUnknownIdentity
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	if alg == "" {
		alg = params.DefaultSigningAlgorithm
	}
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	}
	return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
}

func NewTokenService(cfg TokenConfig, userStore UserStore, storage store.Storage) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token secret key is empty")
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = params.DefaultAccessTokenTTL
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = params.DefaultRefreshTokenTTL
	}
	return &TokenService{
		secretKey:     cfg.SecretKey,
		signingMethod: method,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		userStore:     userStore,
		revokedStore:  store.New[RevokedToken](storage, params.RevokedTokenKeyPrefix),
		now:           time.Now,
	}, nil
}
