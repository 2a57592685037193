// internal/store/conversations.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"career-chat-workers/internal/common/database"
	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/metrics"
	"career-chat-workers/internal/models"
)

const (
	DefaultListLimit     = 20
	conversationCacheKey = "rag:conv:"
)

// ConversationStore persists conversations in Postgres with a Redis
// read-through cache on Get.
type ConversationStore struct {
	db       *sql.DB
	cache    *database.RedisClient
	cacheTTL time.Duration
	logger   logger.Logger
	now      func() time.Time
}

var _ models.ConversationRepository = (*ConversationStore)(nil)

// NewConversationStore builds a store. cache may be nil.
func NewConversationStore(db *sql.DB, cache *database.RedisClient, cacheTTL time.Duration, log logger.Logger) *ConversationStore {
	return &ConversationStore{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.With(map[string]interface{}{"component": "conversation-store"}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func parseConversationID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", apperrors.NewInvalidConversationIDError(id)
	}
	return parsed.String(), nil
}

// Create inserts an empty conversation.
func (s *ConversationStore) Create(ctx context.Context) (*models.Conversation, error) {
	now := s.now()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, messages, created_at, updated_at)
		VALUES ($1, '[]'::jsonb, $2, $3)`,
		conv.ID, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_conversation", err)
	}
	return conv, nil
}

// Get loads a conversation with its messages.
func (s *ConversationStore) Get(ctx context.Context, id string) (*models.Conversation, error) {
	id, err := parseConversationID(id)
	if err != nil {
		return nil, err
	}

	if conv, ok := s.cached(ctx, id); ok {
		return conv, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, messages, created_at, updated_at
		FROM conversations
		WHERE id = $1`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewConversationNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_conversation", err)
	}

	s.store(ctx, conv)
	return conv, nil
}

// List returns the most recently updated conversations without messages.
func (s *ConversationStore) List(ctx context.Context, limit int) ([]models.ConversationSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_conversations", err)
	}
	defer rows.Close()

	out := []models.ConversationSummary{}
	for rows.Next() {
		var c models.ConversationSummary
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list_conversations", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_conversations", err)
	}
	return out, nil
}

// Append adds messages to the end of a conversation and bumps updated_at.
func (s *ConversationStore) Append(ctx context.Context, id string, msgs ...models.Message) (*models.Conversation, error) {
	id, err := parseConversationID(id)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	payload, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE conversations
		SET messages = messages || $2::jsonb, updated_at = $3
		WHERE id = $1
		RETURNING id, messages, created_at, updated_at`,
		id, string(payload), s.now(),
	)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewConversationNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("append_messages", err)
	}

	s.invalidate(ctx, id)
	return conv, nil
}

// Delete removes a conversation.
func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	id, err := parseConversationID(id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_conversation", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_conversation", err)
	}

	s.invalidate(ctx, id)
	if n == 0 {
		return apperrors.NewConversationNotFoundError(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var (
		conv models.Conversation
		raw  []byte
	)
	if err := row.Scan(&conv.ID, &raw, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &conv.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}
	return &conv, nil
}

func (s *ConversationStore) cached(ctx context.Context, id string) (*models.Conversation, bool) {
	if s.cache == nil {
		return nil, false
	}
	var conv models.Conversation
	err := s.cache.GetJSON(ctx, conversationCacheKey+id, &conv)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("conversation", "hit").Inc()
		return &conv, true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("conversation", "miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("conversation", "error").Inc()
		s.logger.Warn("conversation cache read failed", map[string]interface{}{
			"conversationId": id,
			"error":          err.Error(),
		})
	}
	return nil, false
}

func (s *ConversationStore) store(ctx context.Context, conv *models.Conversation) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, conversationCacheKey+conv.ID, conv, s.cacheTTL); err != nil {
		s.logger.Warn("conversation cache write failed", map[string]interface{}{
			"conversationId": conv.ID,
			"error":          err.Error(),
		})
	}
}

func (s *ConversationStore) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, conversationCacheKey+id); err != nil {
		s.logger.Warn("conversation cache invalidation failed", map[string]interface{}{
			"conversationId": id,
			"error":          err.Error(),
		})
	}
}
