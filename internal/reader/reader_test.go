package reader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:   baseURL,
		Timeout:   time.Second,
		UserAgent: "Mozilla/5.0",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"h1", "# Title", "<h1>Title</h1>"},
		{"h2", "## Section", "<h2>Section</h2>"},
		{"h3", "### Sub", "<h3>Sub</h3>"},
		{"bold", "a **b** c", "a <strong>b</strong> c"},
		{"italic", "a *b* c", "a <em>b</em> c"},
		{"link", "[Aeon](https://aeon.co)", `<a href="https://aeon.co" target="_blank" rel="noopener noreferrer">Aeon</a>`},
		{"newlines", "one\ntwo\r\nthree", "one<br>two<br>three"},
		{"mixed", "# T\n**b** and *i*", "<h1>T</h1><br><strong>b</strong> and <em>i</em>"},
		{"hash mid-line", "not # a header", "not # a header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTML(tt.in))
		})
	}
}

func TestSplitHeader(t *testing.T) {
	title, md := splitHeader("Title: On Time\n\nURL Source: https://aeon.co/x\n\nMarkdown Content:\nBody text")
	assert.Equal(t, "On Time", title)
	assert.Equal(t, "Body text", md)

	title, md = splitHeader("  plain body  ")
	assert.Empty(t, title)
	assert.Equal(t, "plain body", md)
}

func TestReadUsesProxy(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		w.Write([]byte("Title: Slow Cities\n\nURL Source: https://aeon.co/essays/x\n\nMarkdown Content:\n## Part one\nSome **bold** words"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/")
	assert.Equal(t, srv.URL+"/https://aeon.co/essays/x", c.ProxyURL(" https://aeon.co/essays/x "))

	article, err := c.Read(context.Background(), "https://aeon.co/essays/x")
	require.NoError(t, err)
	assert.Equal(t, "/https://aeon.co/essays/x", gotPath)
	assert.Equal(t, "Slow Cities", article.Title)
	assert.Equal(t, "<h2>Part one</h2><br>Some <strong>bold</strong> words", article.Content)
}

func TestReadTitleFromHeading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# The Heading\nbody"))
	}))
	defer srv.Close()

	article, err := newTestClient(srv.URL+"/").Read(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "The Heading", article.Title)
}

func TestReadUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL+"/").Read(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestReadEmptyURL(t *testing.T) {
	_, err := newTestClient("http://unused/").Read(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrEmptyURL))
}

func TestReadRateLimiterRespectsContext(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://unused/", RequestsPerSecond: 0.001, Burst: 1},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Read(ctx, "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
