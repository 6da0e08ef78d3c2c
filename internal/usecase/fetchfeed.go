package usecase

import (
	"context"
	"dailyarticles/internal/domain"
	"io"
)

// FeedFetcher — интерфейс для получения данных из источника.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser — интерфейс для разбора ленты в статьи-кандидаты.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader, source domain.FeedSource) ([]domain.RawArticle, error)
}

// FetchRecorder — журнал результатов загрузки лент. Может отсутствовать.
type FetchRecorder interface {
	SaveFetchResult(ctx context.Context, record domain.FetchRecord) error
}
