// internal/realtime/fetcher.go
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"career-chat-workers/internal/common/config"
	httpclient "career-chat-workers/internal/common/http"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/structuring"
)

var ErrUnknownSource = errors.New("unknown realtime source")

const (
	DefaultEventsURL   = "https://real-time-events-search.p.rapidapi.com/search-events"
	DefaultJobsURL     = "https://api.scrapingdog.com/linkedinjobs"
	DefaultNewsURL     = "https://real-time-news-data.p.rapidapi.com/topic-news-by-section"
	DefaultEventsQuery = "Technology events in india"
	DefaultNewsTopic   = "TECHNOLOGY"
	defaultTimeout     = 10 * time.Second
	maxContextItems    = 5
)

// Item is one record returned by a live feed, kept in its provider shape.
type Item map[string]interface{}

type endpoint struct {
	url     string
	query   url.Values
	headers map[string]string
	key     string // response field holding the records
}

// Fetcher reads live events, jobs and news. Outside production mode every
// fetch returns an empty list without touching the network.
type Fetcher struct {
	cfg        config.RealtimeConfig
	production bool
	client     *httpclient.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

func NewFetcher(cfg config.RealtimeConfig, production bool, log logger.Logger) *Fetcher {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg.Timeout = int(timeout / time.Millisecond)

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Fetcher{
		cfg:        cfg,
		production: production,
		client:     httpclient.NewClient(timeout, 0),
		limiter:    rate.NewLimiter(limit, 3),
		logger:     log.With(map[string]interface{}{"component": "realtime"}),
	}
}

// Enabled reports whether live sources are queried at all.
func (f *Fetcher) Enabled() bool {
	return f.production
}

func (f *Fetcher) endpoint(source models.RealtimeSource) (endpoint, error) {
	switch source {
	case models.SourceEvents:
		return endpoint{
			url:     pick(f.cfg.EventsURL, DefaultEventsURL),
			query:   url.Values{"query": {pick(f.cfg.EventsQuery, DefaultEventsQuery)}},
			headers: map[string]string{"x-rapidapi-key": f.cfg.RapidAPIKey},
			key:     "data",
		}, nil
	case models.SourceJobs:
		return endpoint{
			url:   pick(f.cfg.JobsURL, DefaultJobsURL),
			query: url.Values{"api_key": {f.cfg.ScrapingDogKey}},
			key:   "jobs",
		}, nil
	case models.SourceNews:
		return endpoint{
			url:     pick(f.cfg.NewsURL, DefaultNewsURL),
			query:   url.Values{"topic": {pick(f.cfg.NewsTopic, DefaultNewsTopic)}},
			headers: map[string]string{"x-rapidapi-key": f.cfg.RapidAPIKey},
			key:     "data",
		}, nil
	}
	return endpoint{}, fmt.Errorf("%w: %q", ErrUnknownSource, source)
}

// Fetch returns the records of one source. Failures are logged and yield
// an empty list.
func (f *Fetcher) Fetch(ctx context.Context, source models.RealtimeSource) []Item {
	items, err := f.fetch(ctx, source)
	if err != nil {
		f.logger.Warn("realtime fetch failed", map[string]interface{}{
			"source": string(source),
			"error":  err.Error(),
		})
		return []Item{}
	}
	return items
}

func (f *Fetcher) fetch(ctx context.Context, source models.RealtimeSource) ([]Item, error) {
	if !f.production {
		return []Item{}, nil
	}
	ep, err := f.endpoint(source)
	if err != nil {
		return nil, err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body map[string]json.RawMessage
	if err := f.client.GetJSON(ctx, ep.url, ep.query, ep.headers, &body); err != nil {
		return nil, err
	}

	raw, ok := body[ep.key]
	if !ok {
		return []Item{}, nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s records: %w", ep.key, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// FetchAll queries each requested source concurrently.
func (f *Fetcher) FetchAll(ctx context.Context, sources []models.RealtimeSource) map[models.RealtimeSource][]Item {
	results := make([][]Item, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			results[i] = f.Fetch(gctx, source)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[models.RealtimeSource][]Item, len(sources))
	for i, source := range sources {
		out[source] = results[i]
	}
	return out
}

// SourcesFor maps a question's classified domain to the live feeds worth querying.
func SourcesFor(domain structuring.Domain) []models.RealtimeSource {
	switch domain {
	case structuring.DomainNews:
		return []models.RealtimeSource{models.SourceNews}
	case structuring.DomainJob:
		return []models.RealtimeSource{models.SourceJobs}
	case structuring.DomainEvent:
		return []models.RealtimeSource{models.SourceEvents}
	}
	return nil
}

// ParseSources converts source names, rejecting unknown ones.
func ParseSources(names []string) ([]models.RealtimeSource, error) {
	out := make([]models.RealtimeSource, 0, len(names))
	for _, n := range names {
		s := models.RealtimeSource(strings.ToLower(strings.TrimSpace(n)))
		switch s {
		case models.SourceEvents, models.SourceJobs, models.SourceNews:
			out = append(out, s)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, n)
		}
	}
	return out, nil
}

var summaryFields = []string{"title", "name", "job_position", "company_name", "job_location", "start_time", "date", "published_datetime_utc", "source_url", "link", "job_link"}

// FormatContext renders fetched records as plain lines for the answer prompt.
func FormatContext(data map[models.RealtimeSource][]Item) string {
	sources := make([]string, 0, len(data))
	for s, items := range data {
		if len(items) > 0 {
			sources = append(sources, string(s))
		}
	}
	sort.Strings(sources)

	var b strings.Builder
	for _, s := range sources {
		items := data[models.RealtimeSource(s)]
		fmt.Fprintf(&b, "Live %s:\n", s)
		for i, item := range items {
			if i == maxContextItems {
				break
			}
			var parts []string
			for _, field := range summaryFields {
				if v, ok := item[field].(string); ok && v != "" {
					parts = append(parts, fmt.Sprintf("%s: %s", field, v))
				}
			}
			if len(parts) > 0 {
				b.WriteString("- " + strings.Join(parts, "; ") + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
