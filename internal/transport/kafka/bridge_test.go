package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic string
	data  string
}

type recorder struct {
	mu   sync.Mutex
	msgs []published
}

func (r *recorder) publish(_ context.Context, topic string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, published{topic, string(data)})
	return nil
}

func (r *recorder) snapshot() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.msgs...)
}

func localServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/daily-articles":
			w.Write([]byte(`[{"title":"t","url":"u"}]`))
		case "/api/read-article":
			w.Write([]byte(`{"title":"` + r.URL.Query().Get("url") + `"}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

var topics = Topics{Digest: "daily_articles", Reader: "read_article"}

func newBridge(receive ReceiveFunc, rec *recorder, baseURL string) *Bridge {
	b := NewBridge(receive, rec.publish, baseURL, topics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b.backoff = time.Millisecond
	return b
}

func TestHandleRoutesByPath(t *testing.T) {
	srv := localServer()
	defer srv.Close()
	rec := &recorder{}
	b := newBridge(nil, rec, srv.URL+"/")

	require.NoError(t, b.Handle(context.Background(), "/api/daily-articles"))
	require.NoError(t, b.Handle(context.Background(), " /api/read-article?url=x \n"))

	assert.Equal(t, []published{
		{"daily_articles", `[{"title":"t","url":"u"}]`},
		{"read_article", `{"title":"x"}`},
	}, rec.snapshot())
}

func TestHandleUnknownPath(t *testing.T) {
	rec := &recorder{}
	err := newBridge(nil, rec, "http://unused").Handle(context.Background(), "/newslist/")
	assert.Error(t, err)
	assert.Empty(t, rec.snapshot())
}

func TestHandlePublishError(t *testing.T) {
	srv := localServer()
	defer srv.Close()
	b := NewBridge(nil, func(context.Context, string, []byte) error { return errors.New("broker down") },
		srv.URL, topics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := b.Handle(context.Background(), "/api/daily-articles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestRunStopsOnContext(t *testing.T) {
	srv := localServer()
	defer srv.Close()

	msgs := make(chan []byte, 3)
	msgs <- []byte("/api/daily-articles")
	msgs <- []byte("/bogus")
	msgs <- []byte("/api/read-article?url=y")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	receive := func(ctx context.Context) ([]byte, error) {
		select {
		case m := <-msgs:
			return m, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	done := make(chan error, 1)
	go func() { done <- newBridge(receive, rec, srv.URL).Run(ctx) }()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestRunSurvivesReceiveErrors(t *testing.T) {
	srv := localServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	receive := func(ctx context.Context) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return nil, errors.New("rebalance")
		}
		if calls == 2 {
			return []byte("/api/daily-articles"), nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- newBridge(receive, rec, srv.URL).Run(ctx) }()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
