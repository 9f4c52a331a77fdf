// File: internal/handler/games/read.go
package games

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"getunitycodes/internal/api"
	"getunitycodes/internal/catalog"
	"getunitycodes/internal/database"
	"getunitycodes/internal/model"
	"getunitycodes/internal/pricing"
	"getunitycodes/internal/search"
	"getunitycodes/internal/store"

	"github.com/labstack/echo/v4"
)

// parseID 解析正整數 id
func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetGamesHandler 列出全部商品，帶 id 時只回傳單筆
// @Summary     取得商品
// @Description 不帶 id 回傳全部商品（新上傳在前）；帶 id 回傳單一商品
// @Tags        games
// @Produce     json
// @Param       id  query    int false "商品 ID"
// @Success     200 {object} api.GamesResponse
// @Success     200 {object} api.GameResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /games [get]
func GetGamesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if raw := c.QueryParam("id"); raw != "" {
			id, ok := parseID(raw)
			if !ok {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid game ID"})
			}
			g, err := store.GetGameByID(ctx, db, id)
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Game not found"})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			}
			return c.JSON(http.StatusOK, api.GameResponse{Message: "Game fetched successfully", Game: *g})
		}

		games, err := store.ListGames(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, api.GamesResponse{Message: "Games fetched successfully", Games: games})
	}
}

// BrowseGamesHandler 篩選並分頁，每頁 6 筆
// @Summary     瀏覽商品
// @Tags        games
// @Produce     json
// @Param       category    query    string false "PC 或 Mobile"
// @Param       q           query    string false "關鍵字"
// @Param       page        query    int    false "頁碼，從 1 開始"
// @Param       description query    bool   false "關鍵字也比對描述"
// @Success     200 {object} api.BrowseResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /games/browse [get]
func BrowseGamesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		page := 1
		if raw := c.QueryParam("page"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid page"})
			}
			page = p
		}
		q := catalog.Query{
			Text:               c.QueryParam("q"),
			Category:           c.QueryParam("category"),
			IncludeDescription: c.QueryParam("description") == "true",
		}

		games, err := store.ListGames(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, api.BrowseResponse{
			Page:     catalog.Paginate(catalog.Filter(games, q), page, catalog.PageSize),
			Query:    q.Text,
			Category: q.Category,
		})
	}
}

// SearchGamesHandler 以搜尋索引查詢，索引未設定或失敗時退回記憶體篩選
// @Summary     搜尋商品
// @Tags        games
// @Produce     json
// @Param       q        query    string false "關鍵字（比對名稱與描述）"
// @Param       category query    string false "PC 或 Mobile"
// @Success     200 {object} api.SearchResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /games/search [get]
func SearchGamesHandler(db database.DB, idx search.Index) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		q := catalog.Query{
			Text:               c.QueryParam("q"),
			Category:           c.QueryParam("category"),
			IncludeDescription: true,
		}
		games, err := store.ListGames(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}

		result := []model.Game(nil)
		if idx != nil {
			ids, err := idx.Search(ctx, q)
			if err != nil {
				log.Printf("search index unavailable, falling back: %v", err)
			} else {
				result = search.Resolve(games, ids)
			}
		}
		if result == nil {
			result = catalog.Filter(games, q)
		}
		return c.JSON(http.StatusOK, api.SearchResponse{Games: result, Count: len(result)})
	}
}

// PriceHandler 計算指定平台與版本的售價
// @Summary     試算價格
// @Description 售價 = 基本價 + 平台加價 + 版本加價
// @Tags        games
// @Produce     json
// @Param       id       query    int    true  "商品 ID"
// @Param       platform query    string false "平台名稱"
// @Param       version  query    string false "版本名稱"
// @Success     200 {object} api.PriceResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /games/price [get]
func PriceHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c.QueryParam("id"))
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid game ID"})
		}
		g, err := store.GetGameByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Game not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		price, err := pricing.Quote(*g, c.QueryParam("platform"), c.QueryParam("version"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, api.PriceResponse{Price: pricing.Format(price)})
	}
}
