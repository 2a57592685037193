// internal/retrieval/retriever.go
package retrieval

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"career-chat-workers/internal/common/database"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/metrics"
)

var ErrRetrievalFailed = errors.New("RETRIEVAL_FAILED")

const cachePrefix = "rag:ctx:"

// Document is one retrieved passage.
type Document struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	URL     string  `json:"url,omitempty"`
	Score   float64 `json:"score"`
}

type Config struct {
	Index      string
	MaxResults int
	CacheTTL   time.Duration
	EnableKNN  bool
}

// Retriever searches the knowledge index with BM25 and, when an embedder is
// configured, an additional kNN clause over the embedding field.
type Retriever struct {
	cfg      Config
	es       *elasticsearch.Client
	cache    *database.RedisClient
	embedder llm.Embedder
	logger   logger.Logger
}

// New builds a Retriever. cache and embedder may be nil.
func New(cfg Config, es *elasticsearch.Client, cache *database.RedisClient, embedder llm.Embedder, log logger.Logger) *Retriever {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 4
	}
	return &Retriever{
		cfg:      cfg,
		es:       es,
		cache:    cache,
		embedder: embedder,
		logger:   log.With(map[string]interface{}{"component": "retriever", "index": cfg.Index}),
	}
}

// Retrieve returns up to MaxResults documents for query, served from cache when possible.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Document{}, nil
	}

	key := r.cacheKey(query)
	if docs, ok := r.fromCache(ctx, key); ok {
		return docs, nil
	}

	body := map[string]interface{}{
		"size": r.cfg.MaxResults,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "content"},
			},
		},
		"_source": []string{"title", "content", "source", "url"},
	}
	if knn := r.knnClause(ctx, query); knn != nil {
		body["knn"] = knn
	}

	docs, err := r.search(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}

	if r.cache != nil && r.cfg.CacheTTL > 0 {
		if err := r.cache.SetJSON(ctx, key, docs, r.cfg.CacheTTL); err != nil {
			r.logger.Warn("failed to cache retrieval result", map[string]interface{}{"error": err.Error()})
		}
	}

	r.logger.Info("context retrieved", map[string]interface{}{"documents": len(docs)})
	return docs, nil
}

func (r *Retriever) knnClause(ctx context.Context, query string) map[string]interface{} {
	if !r.cfg.EnableKNN || r.embedder == nil {
		return nil
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("embedding failed, using keyword search only", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return map[string]interface{}{
		"field":          "embedding",
		"query_vector":   vec,
		"k":              r.cfg.MaxResults,
		"num_candidates": r.cfg.MaxResults * 10,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Source struct {
				Title   string `json:"title"`
				Content string `json:"content"`
				Source  string `json:"source"`
				URL     string `json:"url"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *Retriever) search(ctx context.Context, body map[string]interface{}) ([]Document, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{r.cfg.Index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, r.es)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]Document, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		docs = append(docs, Document{
			ID:      h.ID,
			Title:   h.Source.Title,
			Content: h.Source.Content,
			Source:  h.Source.Source,
			URL:     h.Source.URL,
			Score:   h.Score,
		})
	}
	return docs, nil
}

func (r *Retriever) fromCache(ctx context.Context, key string) ([]Document, bool) {
	if r.cache == nil {
		return nil, false
	}
	var docs []Document
	err := r.cache.GetJSON(ctx, key, &docs)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("retrieval", "hit").Inc()
		return docs, true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("retrieval", "miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("retrieval", "error").Inc()
		r.logger.Warn("retrieval cache read failed", map[string]interface{}{"error": err.Error()})
	}
	return nil, false
}

func (r *Retriever) cacheKey(query string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%t|%s", r.cfg.Index, r.cfg.MaxResults, r.cfg.EnableKNN, strings.ToLower(query))))
	return cachePrefix + hex.EncodeToString(sum[:16])
}

// FormatContext joins documents into the context block of the answer prompt.
func FormatContext(docs []Document) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		var b strings.Builder
		if d.Title != "" {
			b.WriteString(d.Title)
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(d.Content))
		if d.URL != "" {
			b.WriteString("\nSource: ")
			b.WriteString(d.URL)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}
