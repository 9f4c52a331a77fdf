package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"getunitycodes/internal/database"
	"getunitycodes/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userValues(u model.User) []any {
	return []any{u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.VerifyToken, u.VerifyTokenExpiry, u.CreatedAt}
}

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := model.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		Role:         model.RoleAdmin,
		CreatedAt:    now,
	}

	/* --- GetUserByID --- */
	t.Run("GetUserByID success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{values: userValues(sample)}
			},
		}
		u, err := GetUserByID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Equal(t, sample.Email, u.Email)
		require.True(t, u.IsAdmin())
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{scanErr: pgx.ErrNoRows}
			},
		}
		u, err := GetUserByID(context.Background(), db, 999)
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, u)
	})

	/* --- GetUserByEmail --- */
	t.Run("GetUserByEmail lower-cases", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, "alice@example.com", args[0])
				return &fakeRow{values: userValues(sample)}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "  Alice@Example.com ")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
	})

	/* --- CreateUser --- */
	t.Run("CreateUser success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeRow{values: []any{42, now}}
			},
		}
		created, err := CreateUser(context.Background(), db, &model.User{Name: "Bob", Email: "Bob@Example.com", PasswordHash: "h"})
		require.NoError(t, err)
		require.Equal(t, 42, created.ID)
		require.Equal(t, "bob@example.com", created.Email)
		require.Equal(t, model.RoleUser, gotArgs[3])
	})

	t.Run("CreateUser duplicate email", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{Email: "a@b.c"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("CreateUser other error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{scanErr: errors.New("conn reset")}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrEmailTaken)
	})

	/* --- VerifyUser --- */
	t.Run("VerifyUser", func(t *testing.T) {
		affected := "UPDATE 1"
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				require.Equal(t, "tok", args[0])
				return pgconn.NewCommandTag(affected), nil
			},
		}
		require.NoError(t, VerifyUser(context.Background(), db, "tok", now))
		affected = "UPDATE 0"
		require.ErrorIs(t, VerifyUser(context.Background(), db, "tok", now), ErrNotFound)

		failing := &database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("boom")
			},
		}
		require.Error(t, VerifyUser(context.Background(), failing, "tok", now))
	})
}
