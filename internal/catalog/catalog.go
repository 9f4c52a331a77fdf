// Package catalog implements catalog browsing: upload-date ordering, category and text filtering, and paging.
package catalog

import (
	"sort"
	"strings"

	"getunitycodes/internal/model"
)

// PageSize 是每頁顯示的商品數
const PageSize = 6

type Query struct {
	Text               string
	Category           string
	IncludeDescription bool
}

// SortByUploadDate 回傳依上傳時間新到舊排序的副本；時間相同或缺少時保留原順序
func SortByUploadDate(games []model.Game) []model.Game {
	out := make([]model.Game, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].UploadedAt, out[j].UploadedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	return out
}

// Matches 判斷單筆商品是否符合分類與關鍵字條件
func Matches(g model.Game, q Query) bool {
	if cat := strings.TrimSpace(q.Category); cat != "" {
		if !strings.EqualFold(strings.TrimSpace(g.Category), cat) {
			return false
		}
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(g.Name), text) {
		return true
	}
	return q.IncludeDescription && strings.Contains(strings.ToLower(g.Description), text)
}

// Filter sorts by upload date and keeps the games matching q. The result is never nil.
func Filter(games []model.Game, q Query) []model.Game {
	out := make([]model.Game, 0, len(games))
	for _, g := range SortByUploadDate(games) {
		if Matches(g, q) {
			out = append(out, g)
		}
	}
	return out
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}

// TotalPages = ceil(n/size)
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate slices items into the requested 1-based page. Pages before the first clamp to 1;
// pages past the end come back empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(items), size),
		Total:      len(items),
	}
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end]
	return p
}
