// File: internal/handler/games/write.go
package games

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"getunitycodes/internal/api"
	"getunitycodes/internal/database"
	"getunitycodes/internal/model"
	"getunitycodes/internal/storage"
	"getunitycodes/internal/store"

	"github.com/labstack/echo/v4"
)

const msgCreateRequired = "All fields (name, description, price, category, and image) are required"

// discard 移除這次請求已存下的檔案，用在寫入失敗的路徑
func discard(up storage.Uploader, paths []string) {
	for _, p := range paths {
		if err := up.Remove(p); err != nil {
			log.Printf("remove upload %s: %v", p, err)
		}
	}
}

func uploadError(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrUnsupportedImage) {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save image"})
}

// CreateGameHandler 上傳新商品（multipart/form-data）
// @Summary     新增商品
// @Description 需要管理員；圖片存到上傳目錄，platforms / versions 為 JSON 陣列
// @Tags        games
// @Accept      multipart/form-data
// @Produce     json
// @Param       name                   formData string true  "名稱"
// @Param       description            formData string true  "描述（HTML）"
// @Param       price                  formData string true  "基本價"
// @Param       category               formData string true  "PC 或 Mobile"
// @Param       image                  formData file   true  "主圖"
// @Param       gallery                formData file   false "相簿圖片，可多張"
// @Param       platforms              formData string false "平台加價 JSON"
// @Param       versions               formData string false "版本加價 JSON"
// @Param       licenseAgreement       formData string false "授權條款"
// @Param       latestVersion          formData string false "最新版本"
// @Param       latestReleaseDate      formData string false "最新發布日期"
// @Param       originalUnityVersion   formData string false "原始 Unity 版本"
// @Success     201 {object} api.GameResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /games [post]
func CreateGameHandler(db database.DB, up storage.Uploader, sync Sync) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := strings.TrimSpace(c.FormValue("name"))
		description := sanitize(c.FormValue("description"))
		rawPrice := strings.TrimSpace(c.FormValue("price"))
		rawCategory := c.FormValue("category")
		image, imgErr := c.FormFile("image")
		if name == "" || description == "" || rawPrice == "" || strings.TrimSpace(rawCategory) == "" || imgErr != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgCreateRequired})
		}

		price, err := parsePrice(rawPrice)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		category, ok := model.NormalizeCategory(rawCategory)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid category"})
		}
		platforms, err := parseOptions("platforms", c.FormValue("platforms"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		versions, err := parseOptions("versions", c.FormValue("versions"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		imagePath, err := up.Save(image)
		if err != nil {
			return uploadError(c, err)
		}
		gallery := []string{}
		form, _ := c.MultipartForm()
		for _, fh := range galleryFiles(form) {
			p, err := up.Save(fh)
			if err != nil {
				discard(up, append([]string{imagePath}, gallery...))
				return uploadError(c, err)
			}
			gallery = append(gallery, p)
		}

		g := &model.Game{
			Name:                 name,
			Description:          description,
			Price:                price,
			Category:             category,
			Image:                imagePath,
			Gallery:              gallery,
			Platforms:            platforms,
			Versions:             versions,
			LicenseAgreement:     strings.TrimSpace(c.FormValue("licenseAgreement")),
			LatestVersion:        strings.TrimSpace(c.FormValue("latestVersion")),
			LatestReleaseDate:    strings.TrimSpace(c.FormValue("latestReleaseDate")),
			OriginalUnityVersion: strings.TrimSpace(c.FormValue("originalUnityVersion")),
		}
		created, err := store.CreateGame(c.Request().Context(), db, g)
		if err != nil {
			discard(up, append([]string{imagePath}, gallery...))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		sync.Created(*created)
		return c.JSON(http.StatusCreated, api.GameResponse{Message: "Game uploaded successfully", Game: *created})
	}
}

// UpdateGameHandler 局部更新商品，只有非空白欄位會被改寫
// @Summary     更新商品
// @Tags        games
// @Accept      multipart/form-data
// @Produce     json
// @Param       id          formData int    true  "商品 ID"
// @Param       name        formData string false "名稱"
// @Param       description formData string false "描述（HTML）"
// @Param       price       formData string false "基本價"
// @Param       category    formData string false "PC 或 Mobile"
// @Param       image       formData file   false "新的主圖"
// @Success     200 {object} api.GameResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /games/updategames [put]
func UpdateGameHandler(db database.DB, up storage.Uploader, sync Sync) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c.FormValue("id"))
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Game ID is required"})
		}

		var patch model.GamePatch
		if v := strings.TrimSpace(c.FormValue("name")); v != "" {
			patch.Name = &v
		}
		if v := sanitize(c.FormValue("description")); v != "" {
			patch.Description = &v
		}
		if v := strings.TrimSpace(c.FormValue("price")); v != "" {
			price, err := parsePrice(v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			}
			patch.Price = &price
		}
		if v := strings.TrimSpace(c.FormValue("category")); v != "" {
			category, ok := model.NormalizeCategory(v)
			if !ok {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid category"})
			}
			patch.Category = &category
		}
		if fh, err := c.FormFile("image"); err == nil {
			p, err := up.Save(fh)
			if err != nil {
				return uploadError(c, err)
			}
			patch.Image = &p
		}

		g, err := store.UpdateGame(c.Request().Context(), db, id, patch)
		if err != nil && patch.Image != nil {
			discard(up, []string{*patch.Image})
		}
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Game not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		if !patch.Empty() {
			sync.Updated(*g)
		}
		return c.JSON(http.StatusOK, api.GameResponse{Message: "Game updated successfully", Game: *g})
	}
}

// DeleteGameHandler 刪除商品並清掉圖片檔
// @Summary     刪除商品
// @Tags        games
// @Produce     json
// @Param       id  query    int true "商品 ID"
// @Success     200 {object} api.GameResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /games/deletegames [delete]
func DeleteGameHandler(db database.DB, up storage.Uploader, sync Sync) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.QueryParam("id")
		if strings.TrimSpace(raw) == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Game ID is required"})
		}
		id, ok := parseID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid game ID"})
		}
		g, err := store.DeleteGame(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Game not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		for _, p := range append([]string{g.Image}, g.Gallery...) {
			if err := up.Remove(p); err != nil {
				log.Printf("remove upload %s: %v", p, err)
			}
		}
		sync.Deleted(*g)
		return c.JSON(http.StatusOK, api.GameResponse{Message: "Game deleted successfully", Game: *g})
	}
}
