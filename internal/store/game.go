package store

import (
	"context"
	"fmt"
	"strings"

	"getunitycodes/internal/database"
	"getunitycodes/internal/model"

	"github.com/jackc/pgx/v5"
)

const gameColumns = `id, name, description, price, category, image, gallery, platforms, versions,
	license_agreement, latest_version, latest_release_date, original_unity_version, uploaded_at`

func scanGame(row pgx.Row) (*model.Game, error) {
	g := &model.Game{}
	if err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.Price,
		&g.Category,
		&g.Image,
		&g.Gallery,
		&g.Platforms,
		&g.Versions,
		&g.LicenseAgreement,
		&g.LatestVersion,
		&g.LatestReleaseDate,
		&g.OriginalUnityVersion,
		&g.UploadedAt,
	); err != nil {
		return nil, err
	}
	normalize(g)
	return g, nil
}

// normalize 讓空集合序列化成 [] 而不是 null
func normalize(g *model.Game) {
	if g.Gallery == nil {
		g.Gallery = []string{}
	}
	if g.Platforms == nil {
		g.Platforms = []model.PriceOption{}
	}
	if g.Versions == nil {
		g.Versions = []model.PriceOption{}
	}
}

// ListGames 依上傳時間新到舊列出全部商品
func ListGames(ctx context.Context, db database.DB) ([]model.Game, error) {
	rows, err := db.Query(ctx,
		`SELECT `+gameColumns+`
		 FROM games ORDER BY uploaded_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListGames: %w", err)
	}
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("ListGames scan: %w", err)
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListGames rows: %w", err)
	}
	return games, nil
}

func GetGameByID(ctx context.Context, db database.DB, id int) (*model.Game, error) {
	row := db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`,
		id,
	)
	g, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("GetGameByID: %w", translate(err))
	}
	return g, nil
}

func CreateGame(ctx context.Context, db database.DB, g *model.Game) (*model.Game, error) {
	normalize(g)
	row := db.QueryRow(ctx,
		`INSERT INTO games (name, description, price, category, image, gallery, platforms, versions,
		 license_agreement, latest_version, latest_release_date, original_unity_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, uploaded_at`,
		g.Name,
		g.Description,
		g.Price,
		g.Category,
		g.Image,
		g.Gallery,
		g.Platforms,
		g.Versions,
		g.LicenseAgreement,
		g.LatestVersion,
		g.LatestReleaseDate,
		g.OriginalUnityVersion,
	)
	if err := row.Scan(&g.ID, &g.UploadedAt); err != nil {
		return nil, fmt.Errorf("CreateGame: %w", err)
	}
	return g, nil
}

// UpdateGame 只更新 patch 內非 nil 的欄位並回傳更新後的商品
func UpdateGame(ctx context.Context, db database.DB, id int, p model.GamePatch) (*model.Game, error) {
	if p.Empty() {
		return GetGameByID(ctx, db, id)
	}
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.Image != nil {
		add("image", *p.Image)
	}
	args = append(args, id)

	row := db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE games SET %s WHERE id = $%d RETURNING `+gameColumns,
			strings.Join(sets, ", "), len(args)),
		args...,
	)
	g, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("UpdateGame: %w", translate(err))
	}
	return g, nil
}

// DeleteGame 刪除並回傳被刪除的商品
func DeleteGame(ctx context.Context, db database.DB, id int) (*model.Game, error) {
	row := db.QueryRow(ctx,
		`DELETE FROM games WHERE id = $1 RETURNING `+gameColumns,
		id,
	)
	g, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("DeleteGame: %w", translate(err))
	}
	return g, nil
}
