package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"getunitycodes/internal/cache"
	"getunitycodes/internal/database"
	"getunitycodes/internal/events"
	"getunitycodes/internal/mailer"
	"getunitycodes/internal/storage"
	"getunitycodes/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func testDeps() Deps {
	return Deps{
		DB:      &database.FakeDB{},
		Cache:   cache.NewMemoryCache(),
		Uploads: &storage.FakeUploader{},
		Events:  &events.FakePublisher{},
		Mailer:  &mailer.FakeMailer{},
		Jobs:    &worker.FakePool{},
	}
}

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, testDeps())

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /api/ping",
		http.MethodGet + " /api/games",
		http.MethodGet + " /api/games/browse",
		http.MethodGet + " /api/games/search",
		http.MethodGet + " /api/games/price",
		http.MethodPost + " /api/games",
		http.MethodPut + " /api/games/updategames",
		http.MethodDelete + " /api/games/deletegames",
		http.MethodPost + " /api/user/register",
		http.MethodPost + " /api/user/login",
		http.MethodPost + " /api/user/logout",
		http.MethodPost + " /api/user/verify",
		http.MethodPost + " /api/user/profile",
		http.MethodGet + " /api/cart",
		http.MethodPost + " /api/cart",
		http.MethodDelete + " /api/cart/:game_id",
		http.MethodGet + " /api/wishlist",
		http.MethodPost + " /api/wishlist",
		http.MethodDelete + " /api/wishlist/:game_id",
		http.MethodPost + " /api/checkout",
		http.MethodPost + " /api/sendEmail",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	e := echo.New()
	Setup(e, testDeps())

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/games"},
		{http.MethodPut, "/api/games/updategames"},
		{http.MethodDelete, "/api/games/deletegames"},
		{http.MethodPost, "/api/user/profile"},
		{http.MethodGet, "/api/cart"},
		{http.MethodDelete, "/api/wishlist/1"},
		{http.MethodPost, "/api/checkout"},
		{http.MethodPost, "/api/sendEmail"},
	} {
		req := httptest.NewRequest(r.method, r.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
	}
}
