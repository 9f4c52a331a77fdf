// File: internal/service/authentication.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"getunitycodes/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionTTL 是登入 cookie 與 JWT 的有效期
	SessionTTL     = 24 * time.Hour
	VerifyTokenTTL = 24 * time.Hour
)

var ErrInvalidPassword = errors.New("invalid password")

var (
	randRead        = rand.Read
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int    `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c CustomClaims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// AuthenticateUser 以 bcrypt 比對明文密碼
func AuthenticateUser(_ context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// NewVerifyToken 產生 32 bytes 隨機驗證碼與到期時間
func NewVerifyToken() (string, time.Time, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", time.Time{}, fmt.Errorf("NewVerifyToken: %w", err)
	}
	return hex.EncodeToString(b), timeNow().Add(VerifyTokenTTL), nil
}
