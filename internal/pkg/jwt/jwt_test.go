package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorhub/internal/domain"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, domain.RoleMentor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleMentor, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("test-secret", time.Hour).GenerateToken(42, domain.RoleStudent)
	require.NoError(t, err)

	_, err = New("other-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	token, err := New("test-secret", -time.Minute).GenerateToken(42, domain.RoleStudent)
	require.NoError(t, err)

	_, err = New("test-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_ForeignIssuer(t *testing.T) {
	// Correctly signed but minted by someone else.
	foreign := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID: 42,
		Role:   domain.RoleStudent,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "somewhere-else",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := foreign.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = New("test-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
