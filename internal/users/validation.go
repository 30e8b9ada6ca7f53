package users

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/params"
)

// NormalizeEmail returns the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < params.UsernameMinLength || n > params.UsernameMaxLength {
		return common.NewValidationError("username",
			fmt.Sprintf("must be %d to %d characters", params.UsernameMinLength, params.UsernameMaxLength))
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > params.EmailMaxLength {
		return common.NewValidationError("email", fmt.Sprintf("must be at most %d characters", params.EmailMaxLength))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.NewValidationError("email", "invalid email address")
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < params.PasswordMinLength || n > params.PasswordMaxLength {
		return common.NewValidationError("password",
			fmt.Sprintf("must be %d to %d characters", params.PasswordMinLength, params.PasswordMaxLength))
	}
	return nil
}

func validateSex(sex string) error {
	if utf8.RuneCountInString(sex) > params.SexMaxLength {
		return common.NewValidationError("sex", fmt.Sprintf("must be at most %d characters", params.SexMaxLength))
	}
	return nil
}
