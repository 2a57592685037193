// internal/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/database"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/realtime"
	"career-chat-workers/internal/retrieval"
	"career-chat-workers/internal/store"
)

// Deps is everything the chat API and the worker manager share: the three
// backing stores, the generation backend and the repositories built on them.
type Deps struct {
	Postgres *database.PostgresClient
	Redis    *database.RedisClient
	Elastic  *database.ElasticsearchClient

	Generator llm.Generator
	Embedder  llm.Embedder

	Conversations *store.ConversationStore
	Users         *store.UserStore
	Retriever     *retrieval.Retriever
	Realtime      *realtime.Fetcher
}

// RetryWithBackoff runs operation until it succeeds or attempts run out,
// doubling the delay after each failure.
func RetryWithBackoff(operation func() error, attempts int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < attempts; i++ {
		if err = operation(); err == nil {
			return nil
		}

		if i < attempts-1 {
			log.Warn(operationName+" failed, retrying", map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxAttempts": attempts,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, err)
}

// Connect dials Postgres, Redis and Elasticsearch with retries, applies the
// schema and index mapping, and builds the generator and repositories.
func Connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*Deps, error) {
	d := &Deps{}

	err := RetryWithBackoff(func() error {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		d.Postgres = pg
		return nil
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	log.Info("PostgreSQL connected", nil)

	if err := d.Postgres.EnsureSchema(ctx); err != nil {
		d.Close()
		return nil, err
	}

	err = RetryWithBackoff(func() error {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return err
		}
		d.Redis = rc
		return nil
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		d.Close()
		return nil, err
	}
	log.Info("Redis connected", nil)

	err = RetryWithBackoff(func() error {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := es.Ping(); err != nil {
			return err
		}
		d.Elastic = es
		return nil
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		d.Close()
		return nil, err
	}
	if err := d.Elastic.EnsureIndex(ctx, cfg.Retrieval.Index); err != nil {
		log.Warn("knowledge index unavailable", map[string]interface{}{"index": cfg.Retrieval.Index, "error": err.Error()})
	}
	log.Info("Elasticsearch connected", nil)

	if d.Generator, err = llm.New(ctx, cfg); err != nil {
		d.Close()
		return nil, fmt.Errorf("generator: %w", err)
	}

	if cfg.Retrieval.EnableKNN {
		emb, err := llm.NewGeminiEmbedder(ctx, cfg.APIs.GenAI)
		if err != nil {
			log.Warn("embedder unavailable, kNN disabled", map[string]interface{}{"error": err.Error()})
		} else {
			d.Embedder = emb
		}
	}

	d.Conversations = store.NewConversationStore(d.Postgres.DB, d.Redis,
		time.Duration(cfg.Conversation.CacheTTL)*time.Second, log)
	d.Users = store.NewUserStore(d.Postgres.DB)
	d.Retriever = retrieval.New(retrieval.Config{
		Index:      cfg.Retrieval.Index,
		MaxResults: cfg.Retrieval.MaxResults,
		CacheTTL:   time.Duration(cfg.Retrieval.CacheTTL) * time.Second,
		EnableKNN:  cfg.Retrieval.EnableKNN && d.Embedder != nil,
	}, d.Elastic.Client, d.Redis, d.Embedder, log)
	d.Realtime = realtime.NewFetcher(cfg.APIs.Realtime, cfg.App.IsProduction(), log)

	log.Info("dependencies ready", map[string]interface{}{
		"provider": d.Generator.Provider(),
		"realtime": d.Realtime.Enabled(),
		"knn":      d.Embedder != nil,
	})
	return d, nil
}

// Ready pings the relational store and the cache.
func (d *Deps) Ready(ctx context.Context) error {
	if d.Postgres != nil {
		if err := d.Postgres.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (d *Deps) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Postgres != nil {
		_ = d.Postgres.Close()
	}
}
