package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(123, "owner@example.com", "owner", testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: token, secret: testSecret},
		{name: "Wrong secret", token: token, secret: "other-secret", wantErr: ErrInvalidToken},
		{name: "Malformed token", token: "not.a.token", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(123), claims.UserID)
			assert.Equal(t, "owner@example.com", claims.Email)
			assert.Equal(t, "owner", claims.Role)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(1, "designer@example.com", "designer", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
