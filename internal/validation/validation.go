// Package validation holds field-level input checks shared by the services and handlers.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	maxEmailLength    = 254
	MinPasswordLength = 6
	// MaxPasswordBytes is bcrypt's input limit; longer passwords are refused
	// rather than silently truncated.
	MaxPasswordBytes = 72
)

// Password failures carry the message shown to the client.
var (
	ErrPasswordTooShort = fmt.Errorf("Please enter a password with %d or more characters", MinPasswordLength) //nolint:staticcheck // client-facing
	ErrPasswordTooLong  = fmt.Errorf("Please enter a password with at most %d bytes", MaxPasswordBytes)       //nolint:staticcheck // client-facing
)

var (
	emailRegex          = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)
	githubUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9]|-[a-zA-Z0-9]){0,38}$`)
)

// ValidateEmail checks the general shape of an email address.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidatePassword enforces the registration length rules. It returns
// ErrPasswordTooShort or ErrPasswordTooLong.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateGithubUsername applies GitHub's login rules: up to 39 letters, digits
// or single hyphens, never leading or trailing.
func ValidateGithubUsername(name string) error {
	if !githubUsernameRegex.MatchString(name) {
		return errors.New("invalid github username")
	}
	return nil
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// SplitList splits a comma separated list, trimming items and dropping empty ones.
func SplitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
