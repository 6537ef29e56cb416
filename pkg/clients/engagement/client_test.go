package engagement

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkarsh-OTS/smm/pkg/logging"
)

func TestFetchEngagement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/engagement/post-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"post_id":"post-1","engagement":4.2}`))
		case "/v1/engagement/post-missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Logger: logging.NewLogger()})

	value, ok, err := c.FetchEngagement(context.Background(), "post-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.2, value)

	_, ok, err = c.FetchEngagement(context.Background(), "post-missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchEngagement_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"post_id":"post-1","engagement":1.5}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3, Logger: logging.NewLogger()})

	value, ok, err := c.FetchEngagement(context.Background(), "post-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.5, value)
	assert.Equal(t, int32(3), calls.Load())
}
