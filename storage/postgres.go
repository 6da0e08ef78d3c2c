package storage

import (
	"context"
	"dailyarticles/internal/domain"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	DB  *pgxpool.Pool
	log *slog.Logger
}

func NewStorage(ctx context.Context, connStr string, log *slog.Logger) (*Storage, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(ctx, fmt.Sprintf(createFetchLogTable, "TIMESTAMPTZ")); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create feed_fetches table: %w", err)
	}

	log.Info("Database connection established", slog.String("driver", "postgres"))
	return &Storage{
		DB:  db,
		log: log,
	}, nil
}

// Метод для записи результата загрузки ленты
func (s *Storage) SaveFetchResult(ctx context.Context, record domain.FetchRecord) error {
	query := `INSERT INTO feed_fetches (feed_name, feed_url, fetched_at, items, duration_ms, error)
              VALUES ($1, $2, $3, $4, $5, $6);`
	_, err := s.DB.Exec(ctx, query,
		record.FeedName,
		record.FeedURL,
		record.FetchedAt,
		record.Items,
		record.Duration.Milliseconds(),
		record.Error,
	)
	if err != nil {
		s.log.Error(
			"Failed to save fetch record",
			slog.Any("error", err),
			slog.String("url", record.FeedURL),
		)
		return fmt.Errorf("failed to save fetch record: %w", err)
	}
	return nil
}

// Метод для выборки последних записей журнала
func (s *Storage) RecentFetches(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	query := `SELECT feed_name, feed_url, fetched_at, items, duration_ms, error
              FROM feed_fetches ORDER BY fetched_at DESC LIMIT $1;`
	rows, err := s.DB.Query(ctx, query, limit)
	if err != nil {
		s.log.Error(
			"Failed to read fetch log from database",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to read fetch log: %w", err)
	}
	defer rows.Close()

	records := []domain.FetchRecord{}
	for rows.Next() {
		var (
			rec        domain.FetchRecord
			durationMS int64
		)
		if err := rows.Scan(
			&rec.FeedName,
			&rec.FeedURL,
			&rec.FetchedAt,
			&rec.Items,
			&durationMS,
			&rec.Error,
		); err != nil {
			s.log.Error(
				"Failed to scan row",
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch log: %w", err)
	}
	return records, nil
}

func (s *Storage) Close() {
	s.DB.Close()
}
