package authenticator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{"nickname wins", Claims{"sub": "auth|1", "nickname": "nick", "name": "Nick N", "email": "n@example.com"}, "nick"},
		{"name fallback", Claims{"sub": "auth|1", "nickname": "", "name": "Nick N"}, "Nick N"},
		{"email fallback", Claims{"sub": "auth|1", "email": "n@example.com"}, "n@example.com"},
		{"subject fallback", Claims{"sub": "auth|1"}, "auth|1"},
		{"non-string ignored", Claims{"sub": "auth|1", "name": 42}, "auth|1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.DisplayName())
		})
	}
}

func TestNewOpenIDProvider_RequiresConfig(t *testing.T) {
	_, err := NewOpenIDProvider(context.Background(), OpenIDConfig{Domain: "login.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID")
}
