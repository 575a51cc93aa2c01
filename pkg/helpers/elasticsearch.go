package helpers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// ProductDocument is the searchable projection of a product.
type ProductDocument struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url,omitempty"`
	Prices      []string `json:"prices,omitempty"`
}

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "url":         {"type": "keyword"},
      "prices":      {"type": "keyword"}
    }
  }
}`

// ESProductIndex keeps one document per product, keyed by product id.
type ESProductIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewESProductIndex(client *elasticsearch.Client, index string) *ESProductIndex {
	return &ESProductIndex{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *ESProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	drain(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = x.client.Indices.Create(x.index,
		x.client.Indices.Create.WithBody(bytes.NewReader([]byte(productMapping))),
		x.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer drain(res)
	if res.IsError() && res.StatusCode != http.StatusBadRequest { // 400: created concurrently
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

func (x *ESProductIndex) Index(ctx context.Context, doc ProductDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := x.client.Index(x.index, bytes.NewReader(body),
		x.client.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
		x.client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", doc.ID, res.Status())
	}
	return nil
}

// Delete removes the document; a missing document is not an error.
func (x *ESProductIndex) Delete(ctx context.Context, id int64) error {
	res, err := x.client.Delete(x.index, strconv.FormatInt(id, 10), x.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer drain(res)
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product %d: %s", id, res.Status())
	}
	return nil
}

// Search runs a full-text match over name and description and returns
// product ids by relevance.
func (x *ESProductIndex) Search(ctx context.Context, q string, limit int) ([]int64, error) {
	query := map[string]any{
		"size":    limit,
		"_source": []string{"id"},
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer drain(res)
	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source ProductDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]int64, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
