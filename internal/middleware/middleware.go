package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"getunitycodes/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey = "user"
	// SessionCookie 是登入後發給瀏覽器的 HTTP-only cookie 名稱
	SessionCookie = "token"
)

// tokenFromRequest 先讀 cookie，沒有時再看 Authorization: Bearer
func tokenFromRequest(c echo.Context) (string, error) {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value, nil
	}
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	return parts[1], nil
}

func extractClaims(c echo.Context) (*service.CustomClaims, error) {
	tokenString, err := tokenFromRequest(c)
	if err != nil {
		return nil, err
	}
	claims, err := service.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
	}
	return claims, nil
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := extractClaims(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserKey, claims)
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireAuth(func(c echo.Context) error {
		claims := c.Get(ContextUserKey).(*service.CustomClaims)
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	})
}

// OptionalAuth 有合法 token 時放入 claims，沒有或無效時照常放行
func OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := extractClaims(c); err == nil {
			c.Set(ContextUserKey, claims)
		}
		return next(c)
	}
}

// CurrentUser 取出 RequireAuth 放入的 claims
func CurrentUser(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims != nil
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
