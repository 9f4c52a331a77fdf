package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"getunitycodes/internal/database"
	"getunitycodes/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, role, verify_token, verify_token_expiry, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.VerifyToken,
		&u.VerifyTokenExpiry,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", translate(err))
	}
	return u, nil
}

// GetUserByEmail 比對時不分大小寫
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		NormalizeEmail(email),
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", translate(err))
	}
	return u, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser 寫入新使用者；email 重複時回傳 ErrEmailTaken
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, verify_token, verify_token_expiry)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.VerifyToken,
		u.VerifyTokenExpiry,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", translate(err))
	}
	return u, nil
}

// VerifyUser 以驗證碼啟用帳號；碼錯誤或過期回傳 ErrNotFound
func VerifyUser(ctx context.Context, db database.DB, token string, now time.Time) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET verify_token = NULL, verify_token_expiry = NULL
		 WHERE verify_token = $1 AND verify_token_expiry > $2`,
		token,
		now,
	)
	if err != nil {
		return fmt.Errorf("VerifyUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("VerifyUser: %w", ErrNotFound)
	}
	return nil
}
