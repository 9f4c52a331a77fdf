package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"getunitycodes/internal/api"
	"getunitycodes/internal/cache"
	"getunitycodes/internal/database"
	"getunitycodes/internal/lists"
	"getunitycodes/internal/middleware"
	"getunitycodes/internal/model"
	"getunitycodes/internal/service"
	"getunitycodes/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testValidator struct{ v *validator.Validate }

func (s *testValidator) Validate(i interface{}) error { return s.v.Struct(i) }

func newCtx(method, body string, userID int) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID > 0 {
		c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: userID})
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) api.ListResponse {
	t.Helper()
	var out api.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func stubGames(t *testing.T) {
	t.Cleanup(func() { getGameByID = store.GetGameByID })
	getGameByID = func(_ context.Context, _ database.DB, id int) (*model.Game, error) {
		if id > 10 {
			return nil, store.ErrNotFound
		}
		return &model.Game{
			ID:        id,
			Name:      "Game",
			Price:     decimal.NewFromInt(10),
			Platforms: []model.PriceOption{{Name: "PC", Price: decimal.NewFromInt(5)}},
			Versions:  []model.PriceOption{{Name: "Deluxe", Price: decimal.NewFromInt(3)}},
		}, nil
	}
}

func TestCartFlow(t *testing.T) {
	stubGames(t)
	mem := cache.NewMemoryCache()
	cart := lists.NewStore(mem, lists.Cart)
	db := &database.FakeDB{}

	ctx, rec := newCtx(http.MethodPost, `{"game_id":1,"platform":"PC","version":"Deluxe"}`, 5)
	require.NoError(t, AddItemHandler(db, cart)(ctx))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	require.Equal(t, "Added to cart", out.Message)
	require.Equal(t, 1, out.Count)
	require.Equal(t, "18.00", out.Total)

	// 重複加入不改變數量
	ctx, rec = newCtx(http.MethodPost, `{"game_id":1}`, 5)
	require.NoError(t, AddItemHandler(db, cart)(ctx))
	out = decode(t, rec)
	require.Equal(t, "Already in cart", out.Message)
	require.Equal(t, 1, out.Count)

	ctx, rec = newCtx(http.MethodPost, `{"game_id":2}`, 5)
	require.NoError(t, AddItemHandler(db, cart)(ctx))
	require.Equal(t, "28.00", decode(t, rec).Total)

	ctx, rec = newCtx(http.MethodGet, ``, 5)
	require.NoError(t, ItemsHandler(cart)(ctx))
	require.Equal(t, 2, decode(t, rec).Count)

	// 其他使用者的購物車是空的
	ctx, rec = newCtx(http.MethodGet, ``, 6)
	require.NoError(t, ItemsHandler(cart)(ctx))
	require.Contains(t, rec.Body.String(), `"items":[]`)

	ctx, rec = newCtx(http.MethodDelete, ``, 5)
	ctx.SetParamNames("game_id")
	ctx.SetParamValues("1")
	require.NoError(t, RemoveItemHandler(cart)(ctx))
	out = decode(t, rec)
	require.Equal(t, "Removed from cart", out.Message)
	require.Equal(t, 1, out.Count)

	ctx, rec = newCtx(http.MethodDelete, ``, 5)
	ctx.SetParamNames("game_id")
	ctx.SetParamValues("1")
	require.NoError(t, RemoveItemHandler(cart)(ctx))
	out = decode(t, rec)
	require.Equal(t, "Not in cart", out.Message)
	require.Equal(t, 1, out.Count)
}

func TestWishlistUsesOwnKey(t *testing.T) {
	stubGames(t)
	mem := cache.NewMemoryCache()
	wish := lists.NewStore(mem, lists.Wishlist)
	ctx, rec := newCtx(http.MethodPost, `{"game_id":3}`, 5)
	require.NoError(t, AddItemHandler(&database.FakeDB{}, wish)(ctx))
	require.Equal(t, "Added to wishlist", decode(t, rec).Message)
	require.Contains(t, mem.Data, "wishlist:5")
	require.NotContains(t, mem.Data, "cart:5")
}

func TestAddItemErrors(t *testing.T) {
	stubGames(t)
	cart := lists.NewStore(cache.NewMemoryCache(), lists.Cart)
	cases := []struct {
		name string
		body string
		user int
		code int
	}{
		{"unauthenticated", `{"game_id":1}`, 0, http.StatusUnauthorized},
		{"bad json", `{`, 5, http.StatusBadRequest},
		{"missing game id", `{}`, 5, http.StatusBadRequest},
		{"unknown game", `{"game_id":99}`, 5, http.StatusNotFound},
		{"unknown platform", `{"game_id":1,"platform":"Switch"}`, 5, http.StatusBadRequest},
		{"unknown version", `{"game_id":1,"version":"Gold"}`, 5, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, rec := newCtx(http.MethodPost, tc.body, tc.user)
			require.NoError(t, AddItemHandler(&database.FakeDB{}, cart)(ctx))
			require.Equal(t, tc.code, rec.Code)
		})
	}

	t.Run("cache error", func(t *testing.T) {
		broken := lists.NewStore(&cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("down"))
		}}, lists.Cart)
		ctx, rec := newCtx(http.MethodPost, `{"game_id":1}`, 5)
		require.NoError(t, AddItemHandler(&database.FakeDB{}, broken)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		ctx, rec = newCtx(http.MethodGet, ``, 5)
		require.NoError(t, ItemsHandler(broken)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRemoveItemErrors(t *testing.T) {
	cart := lists.NewStore(cache.NewMemoryCache(), lists.Cart)

	ctx, rec := newCtx(http.MethodDelete, ``, 0)
	require.NoError(t, RemoveItemHandler(cart)(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	ctx, rec = newCtx(http.MethodDelete, ``, 5)
	ctx.SetParamNames("game_id")
	ctx.SetParamValues("abc")
	require.NoError(t, RemoveItemHandler(cart)(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
