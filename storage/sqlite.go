package storage

import (
	"context"
	"dailyarticles/internal/domain"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStorage — журнал загрузок в файле SQLite, для запуска без Postgres.
type SQLiteStorage struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, log *slog.Logger) (*SQLiteStorage, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Один writer: SQLite не любит параллельную запись.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(createFetchLogTable, "TEXT")); err != nil {
		db.Close()
		return nil, fmt.Errorf("create feed_fetches table: %w", err)
	}

	log.Info("Database connection established", slog.String("driver", "sqlite"))
	return &SQLiteStorage{db: db, log: log}, nil
}

func (s *SQLiteStorage) SaveFetchResult(ctx context.Context, record domain.FetchRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feed_fetches (feed_name, feed_url, fetched_at, items, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.FeedName,
		record.FeedURL,
		record.FetchedAt.UTC().Format(time.RFC3339Nano),
		record.Items,
		record.Duration.Milliseconds(),
		record.Error,
	)
	if err != nil {
		s.log.Error("Failed to save fetch record", slog.Any("error", err), slog.String("url", record.FeedURL))
		return fmt.Errorf("failed to save fetch record: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) RecentFetches(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT feed_name, feed_url, fetched_at, items, duration_ms, error
		 FROM feed_fetches ORDER BY fetched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read fetch log: %w", err)
	}
	defer rows.Close()

	records := []domain.FetchRecord{}
	for rows.Next() {
		var (
			rec        domain.FetchRecord
			fetchedAt  string
			durationMS int64
		)
		if err := rows.Scan(&rec.FeedName, &rec.FeedURL, &fetchedAt, &rec.Items, &durationMS, &rec.Error); err != nil {
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}
		rec.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("bad fetched_at %q: %w", fetchedAt, err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		s.log.Warn("Failed to close database", slog.Any("error", err))
	}
}
