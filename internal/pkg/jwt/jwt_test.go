//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"hotel-booking/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken_Roundtrip(t *testing.T) {
	svc := jwt.NewService("test-secret")

	token, err := svc.GenerateToken(42, time.Hour)
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := jwt.NewService("test-secret")

	token, err := svc.GenerateToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := jwt.NewService("secret-a").GenerateToken(42, time.Hour)
	require.NoError(t, err)

	_, err = jwt.NewService("secret-b").ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := jwt.NewService("test-secret").ValidateToken("not.a.token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
