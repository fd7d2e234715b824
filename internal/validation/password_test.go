package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/account-service/pkg/util"
)

func TestDefaultPasswordPolicy(t *testing.T) {
	policy := NewDefaultPasswordPolicy()

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all rules satisfied", "Wonder?land1", true},
		{"symbol from the bracket set", "Passw0rd[ok]", true},
		{"too short", "Ab?def1", false},
		{"no uppercase", "wonder?land1", false},
		{"no lowercase", "WONDER?LAND1", false},
		{"no symbol", "Wonderland11", false},
		{"symbol outside the set", "Wonderland1$", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}
}
