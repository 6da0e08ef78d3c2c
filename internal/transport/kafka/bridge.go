package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ReceiveFunc читает следующее сообщение из топика запросов.
type ReceiveFunc func(ctx context.Context) ([]byte, error)

// PublishFunc отправляет сообщение в топик.
type PublishFunc func(ctx context.Context, topic string, data []byte) error

type Topics struct {
	Digest string
	Reader string
}

// Bridge принимает из Kafka пути запросов вида "/api/daily-articles",
// выполняет их на локальном HTTP-сервере и публикует тело ответа в топик,
// соответствующий маршруту.
type Bridge struct {
	receive ReceiveFunc
	publish PublishFunc
	baseURL string
	topics  Topics
	client  *http.Client
	backoff time.Duration
	log     *slog.Logger
}

func NewBridge(receive ReceiveFunc, publish PublishFunc, baseURL string, topics Topics, log *slog.Logger) *Bridge {
	return &Bridge{
		receive: receive,
		publish: publish,
		baseURL: strings.TrimRight(baseURL, "/"),
		topics:  topics,
		client:  &http.Client{Timeout: 90 * time.Second},
		backoff: time.Second,
		log:     log.With(slog.String("component", "kafka-bridge")),
	}
}

// Run обрабатывает сообщения, пока не завершится ctx.
func (b *Bridge) Run(ctx context.Context) error {
	b.log.Info("Start getting messages and redirecting")
	for {
		msg, err := b.receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Error("Failed to read message from Kafka", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.backoff):
			}
			continue
		}
		if err := b.Handle(ctx, string(msg)); err != nil {
			b.log.Error("Failed to handle Kafka message",
				slog.String("path", string(msg)),
				slog.Any("error", err),
			)
		}
	}
}

// Handle выполняет один запрос и публикует ответ.
func (b *Bridge) Handle(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	topic := b.route(path)
	if topic == "" {
		return fmt.Errorf("no topic for path %q", path)
	}
	data, err := b.forward(ctx, path)
	if err != nil {
		return err
	}
	if err := b.publish(ctx, topic, data); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

// Маршрутизация по типам запросов
func (b *Bridge) route(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/daily-articles"):
		return b.topics.Digest
	case strings.HasPrefix(path, "/api/read-article"):
		return b.topics.Reader
	default:
		return ""
	}
}

// forward выполняет HTTP запрос к локальному сервису
func (b *Bridge) forward(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		b.log.Warn("Unexpected response code",
			slog.String("path", path),
			slog.Int("status_code", resp.StatusCode),
		)
	}
	return body, nil
}
