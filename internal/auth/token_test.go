package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestIssueValidateRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, exp, err := tm.Issue("user-123", domain.RoleStaff)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp, 2*time.Second)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, domain.RoleStaff, claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	issuer := NewTokenManager(testSecret)
	issuer.now = func() time.Time { return time.Now().Add(-TokenTTL - time.Minute) }

	token, _, err := issuer.Issue("user-123", domain.RoleCustomer)
	require.NoError(t, err)

	// Signature is valid; only the expiry window has passed.
	tm := NewTokenManager(testSecret)
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateExpiryIsStrict(t *testing.T) {
	issued := time.Now()
	issuer := NewTokenManager(testSecret)
	issuer.now = func() time.Time { return issued }

	token, exp, err := issuer.Issue("user-123", domain.RoleCustomer)
	require.NoError(t, err)

	verifier := NewTokenManager(testSecret)

	verifier.now = func() time.Time { return exp.Add(-time.Second) }
	_, err = verifier.Validate(token)
	assert.NoError(t, err, "token inside the window must validate")

	verifier.now = func() time.Time { return exp.Add(time.Second) }
	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired, "token past the window must be expired")
}

func TestValidateTamperedToken(t *testing.T) {
	tm := NewTokenManager(testSecret)

	// Expired AND wrongly signed: signature failure must win over expiry.
	issuer := NewTokenManager("a-different-secret")
	issuer.now = func() time.Time { return time.Now().Add(-TokenTTL - time.Minute) }
	foreign, _, err := issuer.Issue("user-123", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = tm.Validate(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestValidateCorruptedSignature(t *testing.T) {
	tm := NewTokenManager(testSecret)
	token, _, err := tm.Issue("user-123", domain.RoleAdmin)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = tm.Validate(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret)

	for _, input := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := tm.Validate(input)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", input)
	}
}
