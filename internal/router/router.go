// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"getunitycodes/internal/cache"
	"getunitycodes/internal/database"
	"getunitycodes/internal/events"
	"getunitycodes/internal/handler"
	"getunitycodes/internal/handler/cart"
	"getunitycodes/internal/handler/checkout"
	"getunitycodes/internal/handler/email"
	"getunitycodes/internal/handler/games"
	"getunitycodes/internal/handler/users"
	"getunitycodes/internal/lists"
	"getunitycodes/internal/mailer"
	"getunitycodes/internal/middleware"
	"getunitycodes/internal/search"
	"getunitycodes/internal/storage"
	"getunitycodes/internal/worker"
)

// Deps 是路由需要的所有外部依賴；Search 為 nil 時搜尋走記憶體過濾
type Deps struct {
	DB            database.DB
	Cache         cache.Cache
	Uploads       storage.Uploader
	Events        events.Publisher
	Search        search.Index
	Mailer        mailer.Mailer
	Jobs          worker.Pool
	SecureCookies bool
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")
	sync := games.Sync{Events: d.Events, Index: d.Search, Jobs: d.Jobs}

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 商品目錄（公開讀取、管理員寫入）
	api.GET("/games", games.GetGamesHandler(d.DB))
	api.GET("/games/browse", games.BrowseGamesHandler(d.DB))
	api.GET("/games/search", games.SearchGamesHandler(d.DB, d.Search))
	api.GET("/games/price", games.PriceHandler(d.DB))
	api.POST("/games", games.CreateGameHandler(d.DB, d.Uploads, sync), middleware.RequireAdmin)
	api.PUT("/games/updategames", games.UpdateGameHandler(d.DB, d.Uploads, sync), middleware.RequireAdmin)
	api.DELETE("/games/deletegames", games.DeleteGameHandler(d.DB, d.Uploads, sync), middleware.RequireAdmin)

	// 使用者註冊、登入、登出；帶管理員 session 才能註冊 admin
	api.POST("/user/register", users.RegisterHandler(d.DB, d.Mailer, d.Jobs), middleware.OptionalAuth)
	api.POST("/user/login", users.LoginHandler(d.DB, d.SecureCookies))
	api.POST("/user/logout", users.LogoutHandler(d.SecureCookies))
	api.POST("/user/verify", users.VerifyHandler(d.DB))
	api.POST("/user/profile", users.ProfileHandler(d.DB), middleware.RequireAuth)

	// 購物車與願望清單存在 Redis
	for _, kind := range []lists.Kind{lists.Cart, lists.Wishlist} {
		s := lists.NewStore(d.Cache, kind)
		path := "/" + string(kind)
		api.GET(path, cart.ItemsHandler(s), middleware.RequireAuth)
		api.POST(path, cart.AddItemHandler(d.DB, s), middleware.RequireAuth)
		api.DELETE(path+"/:game_id", cart.RemoveItemHandler(s), middleware.RequireAuth)
	}

	api.POST("/checkout", checkout.CheckoutHandler(lists.NewStore(d.Cache, lists.Cart), d.Mailer, d.Events, d.Jobs), middleware.RequireAuth)
	api.POST("/sendEmail", email.SendEmailHandler(d.Mailer), middleware.RequireAuth)
}
