package validation

import (
	"strings"
	"unicode"

	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// symbols is the accepted special-character set for passwords.
const symbols = "!@#?.,[]"

// PasswordPolicy validates candidate passwords before hashing. Implementations
// return a VALIDATION_FAILED domain error describing the first violation.
type PasswordPolicy interface {
	Validate(password string) error
}

// DefaultPasswordPolicy enforces minimum length plus upper, lower, and
// symbol character classes.
type DefaultPasswordPolicy struct {
	MinLength int
}

// NewDefaultPasswordPolicy returns the stock policy.
func NewDefaultPasswordPolicy() *DefaultPasswordPolicy {
	return &DefaultPasswordPolicy{MinLength: 8}
}

// Validate checks the password against the policy rules.
func (p *DefaultPasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return apperrors.NewValidationError("password must be at least 8 characters long", nil)
	}

	var hasUpper, hasLower, hasSymbol bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		}
		if strings.ContainsRune(symbols, ch) {
			hasSymbol = true
		}
	}

	if !hasUpper {
		return apperrors.NewValidationError("password must contain at least one uppercase letter", nil)
	}
	if !hasLower {
		return apperrors.NewValidationError("password must contain at least one lowercase letter", nil)
	}
	if !hasSymbol {
		return apperrors.NewValidationError("password must contain at least one symbol (!, @, #, ?, ., ,)", nil)
	}
	return nil
}
