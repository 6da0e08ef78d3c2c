package http

import (
	"context"
	"dailyarticles/internal/domain"
	"dailyarticles/internal/models"
	"dailyarticles/internal/reader"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httputils "github.com/Fau1con/renderresponse"
	"github.com/gorilla/feeds"
)

const (
	defaultStatusLimit = 20
	maxStatusLimit     = 100
)

type Aggregator interface {
	Aggregate(ctx context.Context) (domain.Selection, error)
}

type ArticleReader interface {
	Read(ctx context.Context, url string) (reader.Article, error)
}

type FetchLog interface {
	RecentFetches(ctx context.Context, limit int) ([]domain.FetchRecord, error)
}

type Options struct {
	CacheMaxAge    int
	RequestTimeout time.Duration
	FeedTitle      string
	FeedLink       string
}

type Api struct {
	mux        *http.ServeMux
	aggregator Aggregator
	reader     ArticleReader
	fetchLog   FetchLog
	opts       Options
	log        *slog.Logger
}

// NewApi собирает HTTP API. fetchLog может быть nil.
func NewApi(aggregator Aggregator, reader ArticleReader, fetchLog FetchLog, opts Options, log *slog.Logger) *Api {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	api := Api{
		mux:        http.NewServeMux(),
		aggregator: aggregator,
		reader:     reader,
		fetchLog:   fetchLog,
		opts:       opts,
		log:        log,
	}
	api.endpoints()
	return &api
}

func (api *Api) Router() http.Handler {
	return api.mux
}

// Метод регистратор endpoint-ов.
func (api *Api) endpoints() {
	// подборка статей
	api.mux.HandleFunc("/api/daily-articles", api.DailyArticlesHandler)
	// та же подборка в виде RSS
	api.mux.HandleFunc("/api/daily-articles.rss", api.DailyArticlesRSSHandler)
	// чтение статьи через прокси
	api.mux.HandleFunc("/api/read-article", api.ReadArticleHandler)
	// журнал загрузок лент
	api.mux.HandleFunc("/api/feed-status", api.FeedStatusHandler)
	api.mux.HandleFunc("/health", api.HealthHandler)
}

func (api *Api) DailyArticlesHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodOptions) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.opts.RequestTimeout)
	defer cancel()

	selection, err := api.aggregator.Aggregate(ctx)
	if err != nil {
		api.log.Error("Failed to build daily articles",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.Any("error", err),
		)
		renderError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", api.opts.CacheMaxAge))
	renderJSON(w, selection, http.StatusOK)
}

func (api *Api) DailyArticlesRSSHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodOptions) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.opts.RequestTimeout)
	defer cancel()

	selection, err := api.aggregator.Aggregate(ctx)
	if err != nil {
		api.log.Error("Failed to build daily articles feed", slog.Any("error", err))
		renderError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	feed := &feeds.Feed{
		Title:       api.opts.FeedTitle,
		Link:        &feeds.Link{Href: api.opts.FeedLink},
		Description: "Daily selection of long-form essays",
		Created:     now,
	}
	for _, link := range selection {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:   link.Title,
			Link:    &feeds.Link{Href: link.URL},
			Id:      link.URL,
			Created: now,
		})
	}
	body, err := feed.ToRss()
	if err != nil {
		api.log.Error("Failed to render RSS", slog.Any("error", err))
		renderError(w, "failed to render rss", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", api.opts.CacheMaxAge))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		api.log.Warn("Failed to write RSS response", slog.Any("error", err))
	}
}

func (api *Api) ReadArticleHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodOptions) {
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		renderError(w, "Missing url", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.opts.RequestTimeout)
	defer cancel()

	article, err := api.reader.Read(ctx, target)
	if err != nil {
		if errors.Is(err, reader.ErrEmptyURL) {
			renderError(w, "Missing url", http.StatusBadRequest)
			return
		}
		api.log.Error("Failed to read article",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("url", target),
			slog.Any("error", err),
		)
		renderError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderJSON(w, article, http.StatusOK)
}

func (api *Api) FeedStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodOptions) {
		return
	}
	if api.fetchLog == nil {
		renderError(w, "fetch log is not configured", http.StatusNotFound)
		return
	}

	limit := defaultStatusLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			renderError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = min(n, maxStatusLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := api.fetchLog.RecentFetches(ctx, limit)
	if err != nil {
		renderError(w, "Failed to get fetch log from database", http.StatusInternalServerError)
		return
	}

	renderJSON(w, models.FeedStatusResponse{Fetches: records}, http.StatusOK)
}

func (api *Api) HealthHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, models.HealthResponse{Status: "ok"}, http.StatusOK)
}

func renderError(w http.ResponseWriter, message string, status int) {
	renderJSON(w, models.ErrorResponse{Error: message}, status)
}

// renderJSON пишет значение как есть, без обёртки {"status","data"}:
// клиенты ждут массив статей и {"error": ...} на верхнем уровне.
func renderJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("Failed to write JSON response", slog.Any("error", err))
	}
}
