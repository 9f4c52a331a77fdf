package users

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"getunitycodes/internal/api"
	"getunitycodes/internal/database"
	"getunitycodes/internal/mailer"
	"getunitycodes/internal/middleware"
	"getunitycodes/internal/model"
	"getunitycodes/internal/service"
	"getunitycodes/internal/store"
	"getunitycodes/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	newVerifyToken   = service.NewVerifyToken
	createUser       = store.CreateUser
	getUserByID      = store.GetUserByID
	getUserByEmail   = store.GetUserByEmail
	verifyUser       = store.VerifyUser
	timeNow          = time.Now
)

const mailTimeout = 30 * time.Second

// RegisterHandler 建立帳號並寄出驗證信
// @Summary     註冊
// @Description name、email、password 皆必填；role 預設 user，只有管理員可以建立 admin
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.RegisterResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /user/register [post]
func RegisterHandler(db database.DB, m mailer.Mailer, jobs worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = store.NormalizeEmail(req.Email)
		if req.Name == "" || req.Email == "" || req.Password == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "All fields are required"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		if len(req.Password) > service.MaxPasswordBytes {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Password must be at most 72 bytes"})
		}
		if req.Role == model.RoleAdmin {
			if caller, ok := middleware.CurrentUser(c); !ok || !caller.IsAdmin() {
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin privileges required"})
			}
		}

		ctx := c.Request().Context()
		if _, err := getUserByEmail(ctx, db, req.Email); err == nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "User already exists"})
		} else if !errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to hash password"})
		}
		token, expiry, err := newVerifyToken()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create verify token"})
		}

		u, err := createUser(ctx, db, &model.User{
			Name:              req.Name,
			Email:             req.Email,
			PasswordHash:      hash,
			Role:              req.Role,
			VerifyToken:       &token,
			VerifyTokenExpiry: &expiry,
		})
		if errors.Is(err, store.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "User already exists"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}

		msg := mailer.VerifyMessage(*u, token)
		jobs.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
			defer cancel()
			if err := m.Send(ctx, msg); err != nil {
				log.Printf("send verify mail to %s: %v", msg.To, err)
			}
		})

		return c.JSON(http.StatusCreated, api.RegisterResponse{Message: "User registered successfully", User: *u})
	}
}

// VerifyHandler 以信件中的驗證碼啟用帳號
// @Summary     驗證 Email
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       body body     api.VerifyRequest true "驗證碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /user/verify [post]
func VerifyHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.VerifyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		err := verifyUser(c.Request().Context(), db, req.Token, timeNow())
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid or expired token"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Email verified successfully"})
	}
}

// ProfileHandler 回傳目前登入者資料（不含密碼）
// @Summary     個人資料
// @Tags        user
// @Produce     json
// @Success     200 {object} api.ProfileResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /user/profile [post]
func ProfileHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		}
		u, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, api.ProfileResponse{Message: "User profile fetched", User: *u})
	}
}
