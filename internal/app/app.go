package app

import (
	"context"
	"dailyarticles/internal/fetcher"
	"dailyarticles/internal/infrastructure/config"
	"dailyarticles/internal/infrastructure/logger"
	"dailyarticles/internal/parser"
	"dailyarticles/internal/reader"
	"dailyarticles/internal/scoring"
	transport "dailyarticles/internal/transport/http"
	"dailyarticles/internal/transport/kafka"
	"dailyarticles/internal/usecase"
	"dailyarticles/storage"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	kfk "github.com/Fau1con/kafkawrapper"
)

const defaultConfigPath = "configs/config.yaml"

// Run запускает приложение и блокируется до отмены ctx.
func Run(ctx context.Context) error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format).
		With(slog.String("app", cfg.GetAppName()))

	// Журнал загрузок лент (необязательный)
	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN, log)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Info("Fetch log storage disabled")
	case err != nil:
		log.Error("Error DB connection", slog.Any("error", err))
		return err
	default:
		defer store.Close()
	}

	aggregator := usecase.NewAggregateUseCase(
		fetcher.New(log, cfg.GetFetchTimeout(), cfg.Fetch.UserAgent),
		newFeedParser(cfg.Fetch.Parser, log),
		scoring.New(),
		log,
		cfg.FeedSources(),
		cfg.Fetch.Concurrency,
	)
	var fetchLog transport.FetchLog
	if store != nil {
		aggregator.WithRecorder(store)
		fetchLog = store
	}

	articleReader := reader.NewClient(reader.Options{
		BaseURL:           cfg.Reader.BaseURL,
		Timeout:           cfg.GetReaderTimeout(),
		RequestsPerSecond: cfg.Reader.RequestsPerSecond,
		Burst:             cfg.Reader.Burst,
		UserAgent:         cfg.Reader.UserAgent,
	}, log)

	apiInstance := transport.NewApi(aggregator, articleReader, fetchLog, transport.Options{
		CacheMaxAge:    cfg.HTTP.CacheMaxAge,
		RequestTimeout: cfg.GetWriteTimeout(),
		FeedTitle:      cfg.GetAppName(),
		FeedLink:       fmt.Sprintf("http://localhost:%d/api/daily-articles", cfg.HTTP.Port),
	}, log)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           transport.Chain(apiInstance.Router(), log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.GetReadTimeout(),
		WriteTimeout:      cfg.GetWriteTimeout() + 5*time.Second,
	}

	if len(cfg.Kafka.Brokers) > 0 {
		bridge, err := newKafkaBridge(cfg, log)
		if err != nil {
			return err
		}
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Kafka bridge stopped", slog.Any("error", err))
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server started", slog.String("addr", server.Addr), slog.Int("feeds", len(cfg.Feeds)))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func newFeedParser(kind string, log *slog.Logger) usecase.FeedParser {
	if kind == config.ParserStrict {
		return parser.NewStrict(log)
	}
	return parser.New(log)
}

// newKafkaBridge подключает обработку запросов, приходящих через Kafka.
func newKafkaBridge(cfg *config.Config, log *slog.Logger) (*kafka.Bridge, error) {
	consumer, err := kfk.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Requests)
	if err != nil {
		log.Error("Kafka consumer creating error", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	producer, err := kfk.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Error("Kafka creating producer error", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	log.Info("Kafka bridge enabled", slog.Any("brokers", cfg.Kafka.Brokers))

	receive := func(ctx context.Context) ([]byte, error) {
		msg, err := consumer.GetMessages(ctx)
		if err != nil {
			return nil, err
		}
		return msg.Value, nil
	}
	publish := func(ctx context.Context, topic string, data []byte) error {
		return producer.SendMessage(ctx, topic, data)
	}
	return kafka.NewBridge(receive, publish, fmt.Sprintf("http://127.0.0.1:%d", cfg.HTTP.Port), kafka.Topics{
		Digest: cfg.Kafka.Topics.Digest,
		Reader: cfg.Kafka.Topics.Reader,
	}, log), nil
}
