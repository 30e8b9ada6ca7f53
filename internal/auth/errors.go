package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrBanned              = errors.New("identity is banned")
	ErrInvalidScope        = errors.New("invalid scope for token")
	ErrInvalidCredentials  = errors.New("could not validate credentials")
	ErrUnknownIdentity     = errors.New("unknown identity")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrForbidden           = errors.New("operation forbidden")
)

// ErrTokenRevoked is returned for a denylisted access token. It matches ErrInvalidCredentials.
var ErrTokenRevoked = fmt.Errorf("%w: token revoked", ErrInvalidCredentials)
