package validator

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var ErrValidation = errors.New("validation error")

const (
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt ignores anything longer
	MinUsernameLen = 3
	MaxUsernameLen = 32
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateLogin checks shape only. Strength rules apply at signup.
func ValidateLogin(emailOrUsername, password string) error {
	if strings.TrimSpace(emailOrUsername) == "" || password == "" {
		return invalid("missing email/username or password")
	}
	if len(password) > MaxPasswordLen {
		return invalid("password is too long")
	}
	return nil
}

func ValidateSignup(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return invalid("missing username, email or password")
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func ValidateUsername(username string) error {
	if len(username) < MinUsernameLen || len(username) > MaxUsernameLen {
		return invalid("username must be %d-%d characters", MinUsernameLen, MaxUsernameLen)
	}
	if !usernameRe.MatchString(username) {
		return invalid("username may contain letters, digits, '.', '_' and '-' only")
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return invalid("invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return invalid("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return invalid("password is too long")
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return invalid("password does not meet strength requirements")
	}
	return nil
}
