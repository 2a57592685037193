// internal/common/database/database_test.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"career-chat-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Postgres
// ==========================

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	pg := NewPostgresFromDB(db)
	require.NoError(t, pg.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS conversations").WillReturnError(errors.New("permission denied"))

	err = NewPostgresFromDB(db).EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestInTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM conversations").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewPostgresFromDB(db).InTx(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.Exec("DELETE FROM conversations WHERE id = $1", "x")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err = NewPostgresFromDB(db).InTx(context.Background(), func(tx *sql.Tx) error {
			return errors.New("abort")
		})
		assert.EqualError(t, err, "abort")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// ==========================
// Redis
// ==========================

type cached struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisJSON_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedisFromCmdable(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	require.NoError(t, rc.SetJSON(ctx, "k", cached{Name: "jobs", Count: 3}, time.Minute))

	var got cached
	require.NoError(t, rc.GetJSON(ctx, "k", &got))
	assert.Equal(t, cached{Name: "jobs", Count: 3}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, rc.GetJSON(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, rc.SetJSON(ctx, "k2", cached{}, 0))
	require.NoError(t, rc.Del(ctx, "k2"))
	assert.False(t, mr.Exists("k2"))
}

func TestRedisJSON_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("k").SetErr(errors.New("connection refused"))

	var got cached
	err := NewRedisFromCmdable(client).GetJSON(context.Background(), "k", &got)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Elasticsearch
// ==========================

func newESServer(t *testing.T, indexExists bool, creates *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"},"tagline":"You Know, for Search"}`))
		case r.Method == http.MethodHead && r.URL.Path == "/":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodHead:
			if indexExists {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			atomic.AddInt32(creates, 1)
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureIndex(t *testing.T) {
	tests := []struct {
		name        string
		exists      bool
		wantCreates int32
	}{
		{"creates missing index", false, 1},
		{"leaves existing index", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var creates int32
			srv := newESServer(t, tt.exists, &creates)

			es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
			require.NoError(t, err)
			require.NoError(t, es.Ping())
			require.NoError(t, es.EnsureIndex(context.Background(), "knowledge"))
			assert.Equal(t, tt.wantCreates, atomic.LoadInt32(&creates))
		})
	}
}
