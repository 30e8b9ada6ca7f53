package users

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrCannotModifySelf = errors.New("cannot change own ban state or role")
)
