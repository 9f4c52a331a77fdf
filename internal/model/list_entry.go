// File: internal/model/list_entry.go
package model

import "github.com/shopspring/decimal"

// ListEntry 是購物車或願望清單中的一筆商品快照，以 Game.ID 判斷是否重複
type ListEntry struct {
	Game     Game            `json:"game"`
	Platform string          `json:"platform,omitempty"`
	Version  string          `json:"version,omitempty"`
	Price    decimal.Decimal `json:"price"`
}
