// File: internal/model/user.go
package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID                int        `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Role              string     `db:"role" json:"role"`
	VerifyToken       *string    `db:"verify_token" json:"-"`
	VerifyTokenExpiry *time.Time `db:"verify_token_expiry" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
