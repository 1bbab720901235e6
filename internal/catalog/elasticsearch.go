package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"shopping-agent/internal/common/database"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// IndexMapping keeps filterable fields as keywords so the filter stage sees exact values.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "name":         {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "price":        {"type": "double"},
      "description":  {"type": "text"},
      "category":     {"type": "keyword"},
      "subcategory":  {"type": "keyword"},
      "brand":        {"type": "keyword"},
      "rating":       {"type": "float"},
      "review_count": {"type": "integer"},
      "image_url":    {"type": "keyword", "index": false},
      "features":     {"type": "keyword"},
      "position":     {"type": "integer"},
      "stores": {
        "properties": {
          "name":     {"type": "keyword"},
          "price":    {"type": "double"},
          "shipping": {"type": "double"}
        }
      }
    }
  }
}`

// maxCatalogSize bounds a single match_all page.
const maxCatalogSize = 10000

type Elasticsearch struct {
	client *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewElasticsearch(client *database.ElasticsearchClient, index string, log logger.Logger) *Elasticsearch {
	if index == "" {
		index = "products"
	}
	return &Elasticsearch{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog", "index": index}),
	}
}

type indexedProduct struct {
	models.Product
	Position int `json:"position"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []struct {
			Source indexedProduct `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type getResponse struct {
	Found  bool           `json:"found"`
	Source indexedProduct `json:"_source"`
}

func (e *Elasticsearch) All(ctx context.Context) ([]models.Product, error) {
	body := map[string]interface{}{
		"query":            map[string]interface{}{"match_all": map[string]interface{}{}},
		"size":             maxCatalogSize,
		"sort":             []interface{}{map[string]interface{}{"position": "asc"}},
		"track_total_hits": true,
	}
	payload, _ := json.Marshal(body)

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, e.client.Client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s failed: %s", e.index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if r.Hits.Total.Value > len(r.Hits.Hits) {
		e.logger.Warn("catalog truncated to one search page", map[string]interface{}{
			"total":    r.Hits.Total.Value,
			"returned": len(r.Hits.Hits),
		})
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source.Product)
	}
	return products, nil
}

func (e *Elasticsearch) Get(ctx context.Context, id string) (models.Product, error) {
	req := esapi.GetRequest{
		Index:      e.index,
		DocumentID: id,
	}
	res, err := req.Do(ctx, e.client.Client)
	if err != nil {
		return models.Product{}, fmt.Errorf("get %s/%s: %w", e.index, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return models.Product{}, ErrProductNotFound
	}
	if res.IsError() {
		return models.Product{}, fmt.Errorf("get %s/%s failed: %s", e.index, id, res.String())
	}

	var r getResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return models.Product{}, fmt.Errorf("decode get response: %w", err)
	}
	if !r.Found {
		return models.Product{}, ErrProductNotFound
	}
	return r.Source.Product, nil
}

func (e *Elasticsearch) EnsureIndex(ctx context.Context) error {
	return e.client.EnsureIndex(ctx, e.index, IndexMapping)
}

// Index writes every product under its id and refreshes once after the last one.
func (e *Elasticsearch) Index(ctx context.Context, products []models.Product) error {
	for i, p := range products {
		doc, err := json.Marshal(indexedProduct{Product: p, Position: i})
		if err != nil {
			return fmt.Errorf("encode %s: %w", p.ID, err)
		}
		req := esapi.IndexRequest{
			Index:      e.index,
			DocumentID: p.ID,
			Body:       strings.NewReader(string(doc)),
		}
		if i == len(products)-1 {
			req.Refresh = "true"
		}
		res, err := req.Do(ctx, e.client.Client)
		if err != nil {
			return fmt.Errorf("index %s: %w", p.ID, err)
		}
		failed := res.IsError()
		status := res.String()
		res.Body.Close()
		if failed {
			return fmt.Errorf("index %s failed: %s", p.ID, status)
		}
	}
	return nil
}
