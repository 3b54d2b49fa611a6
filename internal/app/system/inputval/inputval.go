// internal/app/system/inputval/inputval.go

// Package inputval validates user-supplied registration and login
// fields. Rules match what the public API documents: names at least 3
// characters, syntactically valid email, passwords at least 8
// characters.
package inputval

import (
	"net/mail"
	"strings"
)

const (
	MinNameLen     = 3
	MinPasswordLen = 8
)

// ValidName reports whether name is acceptable as a display name.
func ValidName(name string) bool {
	return len(strings.TrimSpace(name)) >= MinNameLen
}

// ValidEmail reports whether s parses as an email address.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// ValidPassword reports whether the password meets the length floor.
func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLen
}
