package usecase

import (
	"context"
	"dailyarticles/internal/domain"
	"dailyarticles/internal/scoring"
	"dailyarticles/internal/selection"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type AggregateUseCase struct {
	fetcher     FeedFetcher
	parser      FeedParser
	recorder    FetchRecorder
	scorer      *scoring.Scorer
	log         *slog.Logger
	feeds       []domain.FeedSource
	concurrency int
}

func NewAggregateUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	scorer *scoring.Scorer,
	log *slog.Logger,
	feeds []domain.FeedSource,
	concurrency int,
) *AggregateUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AggregateUseCase{
		fetcher:     fetcher,
		parser:      parser,
		scorer:      scorer,
		log:         log.With(slog.String("component", "aggregator")),
		feeds:       feeds,
		concurrency: concurrency,
	}
}

// WithRecorder подключает журнал загрузок.
func (uc *AggregateUseCase) WithRecorder(r FetchRecorder) *AggregateUseCase {
	uc.recorder = r
	return uc
}

// Aggregate собирает статьи из всех лент, оценивает их и возвращает подборку.
// Ошибка отдельной ленты не прерывает работу: лента просто ничего не добавляет.
// Ошибка возвращается только если контекст запроса завершён и ни одна
// лента не успела ничего отдать.
func (uc *AggregateUseCase) Aggregate(ctx context.Context) (domain.Selection, error) {
	start := time.Now()
	perFeed := make([][]domain.RawArticle, len(uc.feeds))

	if uc.concurrency == 1 {
		for i, source := range uc.feeds {
			perFeed[i] = uc.collect(ctx, source)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(uc.concurrency)
		for i, source := range uc.feeds {
			g.Go(func() error {
				perFeed[i] = uc.collect(ctx, source)
				return nil
			})
		}
		_ = g.Wait()
	}

	var all []domain.RawArticle
	for _, articles := range perFeed {
		all = append(all, articles...)
	}

	// Истёкший запрос не отменяет уже собранные статьи.
	if err := ctx.Err(); err != nil {
		if len(all) == 0 {
			uc.log.Error("Aggregation aborted", slog.Any("error", err))
			return nil, fmt.Errorf("aggregation aborted: %w", err)
		}
		uc.log.Warn("Aggregation deadline reached, using collected articles",
			slog.Int("candidates", len(all)),
			slog.Any("error", err),
		)
	}

	ranked := selection.Rank(uc.scorer.ScoreAll(all))
	result := selection.Select(ranked)

	uc.log.Info("Aggregation completed",
		slog.Int("feeds", len(uc.feeds)),
		slog.Int("candidates", len(all)),
		slog.Int("ranked", len(ranked)),
		slog.Int("selected", len(result)),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// collect загружает одну ленту и записывает результат в журнал.
func (uc *AggregateUseCase) collect(ctx context.Context, source domain.FeedSource) []domain.RawArticle {
	start := time.Now()
	articles, err := uc.ProcessFeed(ctx, source)

	record := domain.FetchRecord{
		FeedName:  uc.feedName(source),
		FeedURL:   source.URL,
		FetchedAt: start,
		Items:     len(articles),
		Duration:  time.Since(start),
	}
	if err != nil {
		record.Error = err.Error()
	}
	if uc.recorder != nil {
		if rerr := uc.recorder.SaveFetchResult(ctx, record); rerr != nil {
			uc.log.Warn("Failed to record feed fetch",
				slog.String("url", source.URL),
				slog.Any("error", rerr),
			)
		}
	}
	return articles
}

// ProcessFeed выполняет загрузку и разбор одной ленты.
func (uc *AggregateUseCase) ProcessFeed(ctx context.Context, source domain.FeedSource) ([]domain.RawArticle, error) {
	start := time.Now()
	feedName := uc.feedName(source)
	log := uc.log.With(
		slog.String("feed", feedName),
		slog.String("url", source.URL),
	)
	log.Debug("Processing feed started")

	reader, err := uc.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("fetch failed for %s: %w", feedName, err)
	}
	defer reader.Close()

	articles, err := uc.parser.Parse(ctx, reader, source)
	if err != nil {
		log.Error("Feed parsing error",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("parse failed for %s: %w", feedName, err)
	}

	log.Info("Feed processing completed",
		slog.Int("items_parsed", len(articles)),
		slog.Duration("duration", time.Since(start)),
	)
	return articles, nil
}

// feedName возвращает читаемое имя ленты: из конфигурации или по домену URL.
func (uc *AggregateUseCase) feedName(source domain.FeedSource) string {
	if source.Name != "" {
		return source.Name
	}
	parts := strings.Split(source.URL, "/")
	if len(parts) >= 3 {
		return strings.TrimPrefix(parts[2], "www.")
	}
	return "Unknown"
}
