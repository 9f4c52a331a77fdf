// Package pricing computes the displayed price of a game for a chosen platform and version.
package pricing

import (
	"errors"
	"strings"

	"getunitycodes/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrUnknownVersion  = errors.New("unknown version")
)

// Calculate 回傳 base + 平台加價 + 版本加價，未選擇的項目以 0 計
func Calculate(base decimal.Decimal, platform, version *model.PriceOption) decimal.Decimal {
	total := base
	if platform != nil {
		total = total.Add(platform.Price)
	}
	if version != nil {
		total = total.Add(version.Price)
	}
	return total
}

// FindOption looks an option up by name, ignoring case and surrounding spaces.
func FindOption(opts []model.PriceOption, name string) (*model.PriceOption, bool) {
	name = strings.TrimSpace(name)
	for i := range opts {
		if strings.EqualFold(strings.TrimSpace(opts[i].Name), name) {
			return &opts[i], true
		}
	}
	return nil, false
}

// Quote prices a game for the named platform and version. An empty name means no selection.
func Quote(g model.Game, platformName, versionName string) (decimal.Decimal, error) {
	var platform, version *model.PriceOption
	if strings.TrimSpace(platformName) != "" {
		p, ok := FindOption(g.Platforms, platformName)
		if !ok {
			return decimal.Zero, ErrUnknownPlatform
		}
		platform = p
	}
	if strings.TrimSpace(versionName) != "" {
		v, ok := FindOption(g.Versions, versionName)
		if !ok {
			return decimal.Zero, ErrUnknownVersion
		}
		version = v
	}
	return Calculate(g.Price, platform, version), nil
}

// Format renders a price with two decimals, e.g. "18.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
