package service

import (
	"context"
	"crypto/rand"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"getunitycodes/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	randRead = rand.Read
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestHashPasswordLengthLimit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, _ := HashPassword("pw")
	u := model.User{PasswordHash: hash}
	require.NoError(t, AuthenticateUser(context.Background(), u, "pw"))
	require.ErrorIs(t, AuthenticateUser(context.Background(), u, "bad"), ErrInvalidPassword)
	require.ErrorIs(t, AuthenticateUser(context.Background(), model.User{}, ""), ErrInvalidPassword)
}

func TestIssueAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	_, err := IssueAccessToken(model.User{}, time.Minute)
	require.Error(t, err)

	os.Setenv("JWT_SECRET", "s")
	tok, err := IssueAccessToken(model.User{ID: 5, Name: "Ann", Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil })
	require.NoError(t, err)
	require.Equal(t, 5, claims.UserID)
	require.Equal(t, "5", claims.Subject)
	require.True(t, claims.IsAdmin())
}

func TestVerifyAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	_, err := VerifyAccessToken("abc")
	require.Error(t, err)

	os.Setenv("JWT_SECRET", "s")
	_, err = VerifyAccessToken("invalid")
	require.Error(t, err)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"foo": "bar"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = VerifyAccessToken(tokNone)
	require.Error(t, err)

	parseWithClaims = func(s string, c jwt.Claims, k jwt.Keyfunc, opts ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = VerifyAccessToken("whatever")
	require.Error(t, err)

	parseWithClaims = jwt.ParseWithClaims
	tok, _ := IssueAccessToken(model.User{ID: 3, Role: model.RoleUser}, time.Minute)
	claims, err := VerifyAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, 3, claims.UserID)
	require.False(t, claims.IsAdmin())

	// 過期的 token
	timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := IssueAccessToken(model.User{ID: 3}, time.Minute)
	_, err = VerifyAccessToken(expired)
	require.Error(t, err)
}

func TestNewVerifyToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }

	tok, exp, err := NewVerifyToken()
	require.NoError(t, err)
	require.Len(t, tok, 64)
	require.Equal(t, fixed.Add(24*time.Hour), exp)

	other, _, _ := NewVerifyToken()
	require.NotEqual(t, tok, other)

	randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
	_, _, err = NewVerifyToken()
	require.Error(t, err)
}
