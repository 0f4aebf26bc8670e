package utils

import (
	"testing"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Model: gorm.Model{ID: 7},
		Email: "carrier@example.com",
		Role:  models.RoleCarrier,
	}

	tokenString, err := GenerateToken(user)
	require.NoError(t, err)

	token, err := ValidateToken(tokenString)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(7), claims["id"])
	assert.Equal(t, "carrier@example.com", claims["email"])
	assert.Equal(t, "CARRIER", claims["role"])
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 1}, Email: "a@b.com", Role: models.RoleShipper}
	tokenString, err := GenerateToken(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")

	token, err := ValidateToken(tokenString)
	assert.Error(t, err)
	if token != nil {
		assert.False(t, token.Valid)
	}
}
