package storage

import (
	"context"
	"dailyarticles/internal/domain"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConfigured возвращается Open, если драйвер не указан.
var ErrNotConfigured = errors.New("storage is not configured")

// FetchLogStorage хранит журнал загрузок лент. Содержимое статей не сохраняется.
type FetchLogStorage interface {
	SaveFetchResult(ctx context.Context, record domain.FetchRecord) error
	RecentFetches(ctx context.Context, limit int) ([]domain.FetchRecord, error)
	Close()
}

const createFetchLogTable = `CREATE TABLE IF NOT EXISTS feed_fetches (
	feed_name   TEXT NOT NULL DEFAULT '',
	feed_url    TEXT NOT NULL,
	fetched_at  %s NOT NULL,
	items       INTEGER NOT NULL DEFAULT 0,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);`

// Open открывает хранилище по имени драйвера: "postgres" или "sqlite".
func Open(ctx context.Context, driver, dsn string, log *slog.Logger) (FetchLogStorage, error) {
	switch driver {
	case "":
		return nil, ErrNotConfigured
	case "postgres":
		return NewStorage(ctx, dsn, log)
	case "sqlite":
		return NewSQLiteStorage(ctx, dsn, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
