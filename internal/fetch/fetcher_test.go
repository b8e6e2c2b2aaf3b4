package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Config{
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
		Retry:     FixedDelayPolicy{Attempts: 3, Wait: 10 * time.Millisecond},
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestFetchDocument(t *testing.T) {
	t.Parallel()

	var ua atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><h1 class="headline">Kickoff</h1></body></html>`))
	}))
	defer server.Close()

	client := newTestClient(t)
	doc, err := client.FetchDocument(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", doc.Find("h1.headline").Text())
	assert.Equal(t, "test-agent", ua.Load())
}

func TestFetchDocumentIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t)
	_, err := client.FetchDocument(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchJSONRecoversWithinRetryBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"league":"Premier League"}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	var payload struct {
		League string `json:"league"`
	}
	err := client.FetchJSON(context.Background(), server.URL, &payload)
	require.NoError(t, err)
	assert.Equal(t, "Premier League", payload.League)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchJSONRetriesOnDecodeError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(t)
	var payload map[string]any
	err := client.FetchJSON(context.Background(), server.URL, &payload)
	require.Error(t, err)

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchTextExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t)
	_, err := client.FetchText(context.Background(), server.URL)
	require.Error(t, err)

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(")]}',\n{\"ok\":true}"))
	}))
	defer server.Close()

	client := newTestClient(t)
	text, err := client.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, `{"ok":true}`)
}
