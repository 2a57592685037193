// internal/common/http/client_test.go
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["prompt"])
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	var out struct {
		Text string `json:"text"`
	}
	c := NewClient(0, 2)
	err := c.PostJSON(context.Background(), srv.URL, map[string]string{"X-Api-Key": "secret"}, map[string]string{"prompt": "hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetJSON(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		wantErr   bool
	}{
		{"ok", http.StatusOK, 1, false},
		{"client error is not retried", http.StatusUnauthorized, 1, true},
		{"server error is retried", http.StatusServiceUnavailable, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, "tech", r.URL.Query().Get("q"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"data":[1,2]}`))
			}))
			defer srv.Close()

			var out struct {
				Data []int `json:"data"`
			}
			err := NewClient(time.Second, 2).GetJSON(context.Background(), srv.URL, url.Values{"q": {"tech"}}, nil, &out)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			if tt.wantErr {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.status, se.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2}, out.Data)
		})
	}
}

func TestDo_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewClient(0, 3).GetJSON(ctx, srv.URL, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}
