package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthService struct {
	tokenService *TokenService
	userStore    UserStore
	hasher       *common.PasswordHasher
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.tokenService.IssueAccessToken(user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokenService.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, err
	}
	fingerprint := s.tokenService.Fingerprint(refreshToken)
	if err := s.userStore.SetRefreshToken(ctx, user.ID, fingerprint); err != nil {
		return nil, err
	}
	user.RefreshToken = fingerprint
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    params.TokenTypeBearer,
	}, nil
}

// Login verifies the credentials and starts a session. The returned user is
// set whenever the email is known, so callers can audit failed attempts.
func (s *AuthService) Login(ctx context.Context, email string, password string) (*TokenPair, *model.User, error) {
	user, err := s.userStore.GetUserByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, nil, ErrInvalidEmail
	}
	if err != nil {
		return nil, nil, err
	}
	// banned identities are refused whatever password they present
	if user.Banned {
		return nil, user, ErrBanned
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		if errors.Is(err, common.ErrPasswordMismatch) {
			return nil, user, ErrInvalidPassword
		}
		return nil, user, err
	}
	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, user, err
	}
	return pair, user, nil
}

// Refresh exchanges the identity's current refresh token for a new pair.
// A token that is not the stored one ends the session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *model.User, error) {
	email, err := s.tokenService.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userStore.GetUserByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, nil, ErrUnknownIdentity
	}
	if err != nil {
		return nil, nil, err
	}
	if user.Banned {
		return nil, user, ErrBanned
	}
	fingerprint := s.tokenService.Fingerprint(refreshToken)
	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(fingerprint)) != 1 {
		if err := s.userStore.SetRefreshToken(ctx, user.ID, ""); err != nil {
			return nil, user, err
		}
		user.RefreshToken = ""
		return nil, user, ErrInvalidRefreshToken
	}
	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, user, err
	}
	return pair, user, nil
}

// Logout revokes the presented access token. The stored refresh token is kept.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.tokenService.Revoke(ctx, accessToken)
}

func NewAuthService(tokenService *TokenService, userStore UserStore, hasher *common.PasswordHasher) *AuthService {
	return &AuthService{
		tokenService: tokenService,
		userStore:    userStore,
		hasher:       hasher,
	}
}
