package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "test"})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(120 * time.Minute)
	user := &models.User{StudentID: "2023210001", Name: "Li Hua", Role: models.RoleStudentLeader}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, 7200, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "2023210001", claims.StudentID())
	assert.Equal(t, "Li Hua", claims.Name)
	assert.Equal(t, models.RoleStudentLeader, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.GenerateAccessToken(&models.User{StudentID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_Invalid(t *testing.T) {
	svc := newTestService(time.Hour)
	other := NewJWTService(JWTConfig{SecretKey: "another-secret", AccessTokenExp: time.Hour})
	forged, _, err := other.GenerateAccessToken(&models.User{StudentID: "s1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	unknownRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "s1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	badRole, err := unknownRole.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(forged)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.ValidateToken(badRole)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "someone-else"})
	token, _, err := other.GenerateAccessToken(&models.User{StudentID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = newTestService(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	noIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour})
	token, _, err = noIssuer.GenerateAccessToken(&models.User{StudentID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)
	_, err = newTestService(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken("bearer   xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	tok, err = ExtractBearerToken("raw-token")
	require.NoError(t, err)
	assert.Equal(t, "raw-token", tok)

	_, err = ExtractBearerToken("  ")
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)
}
