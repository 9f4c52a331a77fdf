// Package search mirrors the catalog into an Elasticsearch index for text search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"getunitycodes/internal/catalog"
	"getunitycodes/internal/model"

	"github.com/elastic/go-elasticsearch/v8"
)

const IndexName = "games"

// Index 定義搜尋索引操作
type Index interface {
	IndexGame(ctx context.Context, g model.Game) error
	DeleteGame(ctx context.Context, id int) error
	// Search returns matching game IDs, best match first.
	Search(ctx context.Context, q catalog.Query) ([]int, error)
}

var newClient = elasticsearch.NewClient

type ElasticIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewElasticIndex 建立 client；addr 可用逗號分隔多個節點
func NewElasticIndex(addr string, transport http.RoundTripper) (*ElasticIndex, error) {
	cfg := elasticsearch.Config{Addresses: splitAddrs(addr)}
	if transport != nil {
		cfg.Transport = transport
	}
	es, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("NewElasticIndex: %w", err)
	}
	return &ElasticIndex{es: es, index: IndexName}, nil
}

func splitAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// document 另存小寫的 name_lc / description_lc，wildcard 查詢才能做不分大小寫的子字串比對
type document struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	NameLC        string `json:"name_lc"`
	Description   string `json:"description"`
	DescriptionLC string `json:"description_lc"`
	Category      string `json:"category"`
	Price         string `json:"price"`
	UploadedAt    string `json:"uploaded_at"`
}

func toDocument(g model.Game) document {
	return document{
		ID:            g.ID,
		Name:          g.Name,
		NameLC:        strings.ToLower(g.Name),
		Description:   g.Description,
		DescriptionLC: strings.ToLower(g.Description),
		Category:      g.Category,
		Price:         g.Price.StringFixed(2),
		UploadedAt:    g.UploadedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Mapping 是 games 索引的欄位定義
var Mapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":             map[string]any{"type": "integer"},
			"name":           map[string]any{"type": "text"},
			"name_lc":        map[string]any{"type": "wildcard"},
			"description":    map[string]any{"type": "text"},
			"description_lc": map[string]any{"type": "wildcard"},
			"category":       map[string]any{"type": "keyword"},
			"price":          map[string]any{"type": "keyword"},
			"uploaded_at":    map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex 索引不存在時以 Mapping 建立
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := e.es.Indices.Exists([]string{e.index}, e.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("EnsureIndex: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("EnsureIndex: %s", res.Status())
	}

	body, err := json.Marshal(Mapping)
	if err != nil {
		return fmt.Errorf("EnsureIndex: %w", err)
	}
	res, err = e.es.Indices.Create(
		e.index,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("EnsureIndex: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		// 其他節點剛好先建好
		if bytes.Contains(msg, []byte("resource_already_exists_exception")) {
			return nil
		}
		return fmt.Errorf("EnsureIndex: %s: %s", res.Status(), msg)
	}
	log.Printf("created index %s", e.index)
	return nil
}

func (e *ElasticIndex) IndexGame(ctx context.Context, g model.Game) error {
	body, err := json.Marshal(toDocument(g))
	if err != nil {
		return fmt.Errorf("IndexGame: %w", err)
	}
	res, err := e.es.Index(
		e.index,
		bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.Itoa(g.ID)),
	)
	if err != nil {
		return fmt.Errorf("IndexGame: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("IndexGame: %s", res.Status())
	}
	log.Printf("indexed game %d", g.ID)
	return nil
}

// DeleteGame 刪除索引文件；文件不存在視為成功
func (e *ElasticIndex) DeleteGame(ctx context.Context, id int) error {
	res, err := e.es.Delete(e.index, strconv.Itoa(id), e.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("DeleteGame: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("DeleteGame: %s", res.Status())
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func containsQuery(field, text string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field: map[string]any{"value": "*" + wildcardEscaper.Replace(text) + "*"},
		},
	}
}

// BuildQuery 與 catalog.Filter 同義：name（可選 description）不分大小寫子字串比對、分類完全相等、
// 依上傳時間新到舊排序
func BuildQuery(q catalog.Query) map[string]any {
	boolQuery := map[string]any{}
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		should := []any{containsQuery("name_lc", text)}
		if q.IncludeDescription {
			should = append(should, containsQuery("description_lc", text))
		}
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	} else {
		boolQuery["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}
	if raw := strings.TrimSpace(q.Category); raw != "" {
		// 不在列舉內的分類照原字串過濾，結果為空
		cat, ok := model.NormalizeCategory(raw)
		if !ok {
			cat = raw
		}
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"category": cat}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort": []any{
			map[string]any{"uploaded_at": map[string]any{"order": "desc"}},
			map[string]any{"id": map[string]any{"order": "desc"}},
		},
		"_source": []string{"id"},
		"size":    1000,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				ID int `json:"id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticIndex) Search(ctx context.Context, q catalog.Query) ([]int, error) {
	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("Search: %s: %s", res.Status(), msg)
	}
	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("Search: decode: %w", err)
	}
	ids := make([]int, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		id := h.Source.ID
		if id == 0 {
			if id, err = strconv.Atoi(h.ID); err != nil {
				continue
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Resolve 依 ids 的順序從 games 取出對應商品，找不到的 id 略過
func Resolve(games []model.Game, ids []int) []model.Game {
	byID := make(map[int]model.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	out := make([]model.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

// FakeIndex 預設回傳空結果
type FakeIndex struct {
	IndexGameFn  func(ctx context.Context, g model.Game) error
	DeleteGameFn func(ctx context.Context, id int) error
	SearchFn     func(ctx context.Context, q catalog.Query) ([]int, error)
}

func (f *FakeIndex) IndexGame(ctx context.Context, g model.Game) error {
	if f.IndexGameFn != nil {
		return f.IndexGameFn(ctx, g)
	}
	return nil
}

func (f *FakeIndex) DeleteGame(ctx context.Context, id int) error {
	if f.DeleteGameFn != nil {
		return f.DeleteGameFn(ctx, id)
	}
	return nil
}

func (f *FakeIndex) Search(ctx context.Context, q catalog.Query) ([]int, error) {
	if f.SearchFn != nil {
		return f.SearchFn(ctx, q)
	}
	return nil, nil
}
