// File: internal/handler/cart/cart.go
package cart

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"getunitycodes/internal/api"
	"getunitycodes/internal/database"
	"getunitycodes/internal/lists"
	"getunitycodes/internal/middleware"
	"getunitycodes/internal/model"
	"getunitycodes/internal/pricing"
	"getunitycodes/internal/store"

	"github.com/labstack/echo/v4"
)

var getGameByID = store.GetGameByID

func respond(c echo.Context, code int, msg string, entries []model.ListEntry) error {
	return c.JSON(code, api.ListResponse{
		Message: msg,
		Items:   entries,
		Count:   len(entries),
		Total:   pricing.Format(lists.Total(entries)),
	})
}

func owner(c echo.Context) (int, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// ItemsHandler 回傳整份清單
// @Summary     取得購物車 / 願望清單
// @Tags        cart,wishlist
// @Produce     json
// @Success     200 {object} api.ListResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /cart [get]
// @Router      /wishlist [get]
func ItemsHandler(s *lists.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := owner(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		}
		entries, err := s.Items(c.Request().Context(), uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return respond(c, http.StatusOK, "", entries)
	}
}

// AddItemHandler 加入商品；已在清單中時不重複加入
// @Summary     加入購物車 / 願望清單
// @Description 以目前商品資料與所選平台、版本計算單價後存入清單
// @Tags        cart,wishlist
// @Accept      json
// @Produce     json
// @Param       body body     api.ListItemRequest true "商品與選項"
// @Success     200  {object} api.ListResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /cart [post]
// @Router      /wishlist [post]
func AddItemHandler(db database.DB, s *lists.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := owner(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		}
		var req api.ListItemRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		ctx := c.Request().Context()
		g, err := getGameByID(ctx, db, req.GameID)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Game not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		price, err := pricing.Quote(*g, req.Platform, req.Version)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		entries, added, err := s.Add(ctx, uid, model.ListEntry{
			Game:     *g,
			Platform: req.Platform,
			Version:  req.Version,
			Price:    price,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		msg := fmt.Sprintf("Added to %s", s.Kind())
		if !added {
			msg = fmt.Sprintf("Already in %s", s.Kind())
		}
		return respond(c, http.StatusOK, msg, entries)
	}
}

// RemoveItemHandler 移除商品；不在清單中時不做任何事
// @Summary     從購物車 / 願望清單移除
// @Tags        cart,wishlist
// @Produce     json
// @Param       game_id path     int true "商品 ID"
// @Success     200     {object} api.ListResponse
// @Failure     400     {object} api.ErrorResponse
// @Failure     401     {object} api.ErrorResponse
// @Failure     500     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /cart/{game_id} [delete]
// @Router      /wishlist/{game_id} [delete]
func RemoveItemHandler(s *lists.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := owner(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		}
		gameID, err := strconv.Atoi(c.Param("game_id"))
		if err != nil || gameID <= 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid game ID"})
		}
		entries, removed, err := s.Remove(c.Request().Context(), uid, gameID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		msg := fmt.Sprintf("Removed from %s", s.Kind())
		if !removed {
			msg = fmt.Sprintf("Not in %s", s.Kind())
		}
		return respond(c, http.StatusOK, msg, entries)
	}
}
