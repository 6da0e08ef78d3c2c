package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrEmptyURL = errors.New("missing url")

// Article — результат чтения статьи через прокси.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// Client обращается к внешнему сервису, который отдаёт страницу в виде markdown.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *slog.Logger
}

func NewClient(opts Options, log *slog.Logger) *Client {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(limit, burst),
		log:       log.With(slog.String("component", "reader")),
	}
}

// ProxyURL строит адрес запроса к сервису чтения.
func (c *Client) ProxyURL(target string) string {
	return c.baseURL + strings.TrimSpace(target)
}

func (c *Client) Read(ctx context.Context, target string) (Article, error) {
	if strings.TrimSpace(target) == "" {
		return Article{}, ErrEmptyURL
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Article{}, fmt.Errorf("rate limiter: %w", err)
	}

	proxyURL := c.ProxyURL(target)
	log := c.log.With(slog.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, proxyURL, nil)
	if err != nil {
		return Article{}, fmt.Errorf("failed to create reader request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/plain, text/markdown")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("Reader request failed", slog.Any("error", err))
		return Article{}, fmt.Errorf("reader request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Article{}, fmt.Errorf("failed to read reader response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error("Unexpected reader status", slog.Int("status_code", resp.StatusCode))
		return Article{}, fmt.Errorf("reader returned status %d", resp.StatusCode)
	}

	title, markdown := splitHeader(string(body))
	content := ToHTML(markdown)
	if title == "" {
		title = firstHeading(content)
	}
	log.Debug("Article read", slog.Int("bytes", len(body)))
	return Article{Title: title, Content: content}, nil
}

// splitHeader отделяет служебную шапку сервиса ("Title:", "URL Source:",
// "Markdown Content:") от текста. Без шапки текст возвращается целиком.
func splitHeader(body string) (title, markdown string) {
	const marker = "Markdown Content:"
	head, rest, found := strings.Cut(body, marker)
	if !found {
		return "", strings.TrimSpace(body)
	}
	for _, line := range strings.Split(head, "\n") {
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "Title:"); ok {
			title = strings.TrimSpace(t)
			break
		}
	}
	return title, strings.TrimSpace(rest)
}
