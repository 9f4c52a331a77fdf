package users

import (
	"errors"
	"fmt"
	"net/http"

	"getunitycodes/internal/api"
	"getunitycodes/internal/database"
	"getunitycodes/internal/middleware"
	"getunitycodes/internal/service"
	"getunitycodes/internal/store"

	"github.com/labstack/echo/v4"
)

// sessionCookie 建立登入 cookie；maxAge < 0 代表刪除
func sessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// LoginHandler 使用 Email/Password 驗證並以 HTTP-only cookie 發出 JWT
// @Summary     登入
// @Description 成功時設定 token cookie（一天有效）
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /user/login [post]
func LoginHandler(db database.DB, secureCookies bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		}
		if req.Email == "" || req.Password == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "All fields are required"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		user, err := getUserByEmail(c.Request().Context(), db, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "User does not exist"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid password"})
		}

		token, err := issueAccessToken(*user, service.SessionTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fmt.Sprintf("failed to issue token: %v", err)})
		}
		c.SetCookie(sessionCookie(token, int(service.SessionTTL.Seconds()), secureCookies))
		return c.JSON(http.StatusOK, api.LoginResponse{Message: "Login successful", Success: true, Role: user.Role})
	}
}

// LogoutHandler 清除登入 cookie
// @Summary     登出
// @Tags        user
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Router      /user/logout [post]
func LogoutHandler(secureCookies bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(sessionCookie("", -1, secureCookies))
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out successfully"})
	}
}
