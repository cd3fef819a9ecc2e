package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	token, err := tm.GenerateToken("emp-1", domain.EmployeeRoleCounselor)
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	require.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token.Value)
	require.NoError(t, err)
	require.Equal(t, "emp-1", claims.EmployeeID)
	require.Equal(t, domain.EmployeeRoleCounselor, claims.Role)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.GenerateToken("emp-1", domain.EmployeeRoleCounselor)
	require.NoError(t, err)

	_, err = tm.ParseToken(token.Value)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("other-secret", 60)
	token, err := issuer.GenerateToken("emp-1", domain.EmployeeRoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 60).ParseToken(token.Value)
	require.Error(t, err)
}

func TestTokenManager_RejectsUnsignedAndGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		EmployeeID: "emp-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ParseToken(raw)
	require.Error(t, err)

	_, err = tm.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestTokenManager_RequiresExpiry(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{EmployeeID: "emp-1"})
	raw, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(raw)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", hash)
	require.NoError(t, ComparePassword(hash, "s3cret!"))
	require.Error(t, ComparePassword(hash, "wrong"))
}
