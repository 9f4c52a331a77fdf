package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"getunitycodes/internal/api"
	"getunitycodes/internal/model"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// descriptionPolicy 允許一般富文字標籤，移除 script 與事件屬性
var descriptionPolicy = bluemonday.UGCPolicy()

func sanitize(html string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(html))
}

var errInvalidPrice = errors.New("Invalid price")

// maxPrice 對應 games.price NUMERIC(12, 2) 的上限（不含）
var maxPrice = decimal.New(1, 10)

// parsePrice 接受非負、最多兩位小數且小於 maxPrice 的十進位字串
func parsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() || !d.Equal(d.Truncate(2)) || d.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, errInvalidPrice
	}
	return d, nil
}

// parseOptions 解析 platforms / versions 欄位，例如 [{"platform":"PC","price":"5"}]
func parseOptions(field, raw string) ([]model.PriceOption, error) {
	out := []model.PriceOption{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var in []api.OptionInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("Invalid %s: %v", field, err)
	}
	for _, o := range in {
		name := strings.TrimSpace(o.Label())
		if name == "" {
			return nil, fmt.Errorf("Invalid %s: option name is required", field)
		}
		price := decimal.Zero
		if o.Price != "" {
			p, err := parsePrice(o.Price.String())
			if err != nil {
				return nil, fmt.Errorf("Invalid %s: bad price for %q", field, name)
			}
			price = p
		}
		out = append(out, model.PriceOption{Name: name, Price: price})
	}
	return out, nil
}

// galleryFiles 取出 multipart 的 gallery 欄位，非 multipart 請求回傳 nil
func galleryFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	return form.File["gallery"]
}
