package jwt

import (
	"testing"
	"time"

	"TransitGuard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *jwtService {
	return &jwtService{secretKey: "test-secret", issuer: "TRANSITGUARD"}
}

func TestTokenUserRoundTrip(t *testing.T) {
	service := testService()

	token := service.GenerateTokenUser("user-1", domain.RoleGuard)
	require.NotEmpty(t, token)

	userID, role, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, domain.RoleGuard, role)
}

func TestTokenUserWrongSecret(t *testing.T) {
	token := testService().GenerateTokenUser("user-1", domain.RoleOperator)

	other := &jwtService{secretKey: "different-secret", issuer: "TRANSITGUARD"}
	_, _, err := other.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenUserGarbage(t *testing.T) {
	_, _, err := testService().GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerifyEmailTokenRoundTrip(t *testing.T) {
	service := testService()

	token, err := service.GenerateVerifyEmailToken("operator@transitguard.app", time.Hour)
	require.NoError(t, err)

	email, err := service.ValidateVerifyEmailToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator@transitguard.app", email)
}

func TestVerifyEmailTokenExpired(t *testing.T) {
	service := testService()

	token, err := service.GenerateVerifyEmailToken("operator@transitguard.app", -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateVerifyEmailToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
