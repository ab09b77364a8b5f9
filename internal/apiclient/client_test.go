package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordSleeps replaces sleepFunc for the duration of a test
func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFunc
	sleepFunc = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleepFunc = orig })
	return &slept
}

func newTestClient(url string, auth Auth) *Client {
	return New(Config{BaseURL: url, Auth: auth, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestClient_RetriesOnceAndHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	slept := recordSleeps(t)
	client := newTestClient(server.URL, nil)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.Get(context.Background(), "/organizations", nil, &out))

	assert.True(t, out.OK)
	assert.Equal(t, int32(2), calls.Load(), "expected exactly one retry")
	assert.Equal(t, []time.Duration{7 * time.Second}, *slept)
}

func TestClient_DefaultRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	slept := recordSleeps(t)
	client := newTestClient(server.URL, nil)

	status, err := client.Post(context.Background(), "/organizations", map[string]string{"name": "Acme"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []time.Duration{5 * time.Second}, *slept)
}

func TestClient_RetryResendsIdenticalRequest(t *testing.T) {
	var bodies []string
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(buf))
		queries = append(queries, r.URL.RawQuery)
		if len(bodies) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	recordSleeps(t)
	client := newTestClient(server.URL, nil)

	_, err := client.Do(context.Background(), http.MethodPost, "/lists/1/list-entries", url.Values{"a": {"b"}}, map[string]int{"entity_id": 9})
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, queries[0], queries[1])
	assert.JSONEq(t, `{"entity_id": 9}`, bodies[1])
}

func TestClient_RateLimitExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	slept := recordSleeps(t)
	client := New(Config{BaseURL: server.URL, MaxAttempts: 3}, nil)

	err := client.Get(context.Background(), "/notes", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimitExceeded))

	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 3, rle.Attempts)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, *slept, 2, "no sleep after the final attempt")
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such organization"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	err := client.Get(context.Background(), "/organizations/1", nil, nil)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusConflict))
	assert.Contains(t, err.Error(), "no such organization")

	status, err := client.Post(context.Background(), "/organizations", map[string]string{}, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	client := newTestClient(target, nil)
	err := client.Get(context.Background(), "/organizations", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_Auth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/basic":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		case "/header":
			if r.Header.Get("apikey") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, newTestClient(server.URL, BasicAuth{Password: "secret"}).Get(context.Background(), "/basic", nil, nil))
	assert.NoError(t, newTestClient(server.URL, HeaderAuth{Name: "apikey", Value: "secret"}).Get(context.Background(), "/header", nil, nil))
	assert.True(t, IsStatus(newTestClient(server.URL, nil).Get(context.Background(), "/basic", nil, nil), http.StatusUnauthorized))
}

type countingPacer struct{ n atomic.Int32 }

func (p *countingPacer) Wait(ctx context.Context, rawURL string) error {
	p.n.Add(1)
	return nil
}

func TestClient_PacesEveryAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	recordSleeps(t)
	pacer := &countingPacer{}
	client := New(Config{BaseURL: server.URL, Pacer: pacer}, nil)
	require.NoError(t, client.Get(context.Background(), "/x", nil, nil))
	assert.Equal(t, int32(2), pacer.n.Load())
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, 5*time.Second, retryAfter("", now))
	assert.Equal(t, 5*time.Second, retryAfter("soon", now))
	assert.Equal(t, 5*time.Second, retryAfter("-3", now))
	assert.Equal(t, time.Duration(0), retryAfter("0", now))
	assert.Equal(t, 12*time.Second, retryAfter(" 12 ", now))
	assert.Equal(t, 30*time.Second, retryAfter(now.Add(30*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), retryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}
