package config

import (
	"dailyarticles/internal/domain"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ParserRegex  = "regex"
	ParserStrict = "strict"

	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	Name string `yaml:"name"`
}

type FeedURL struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type HTTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	CacheMaxAge  int    `yaml:"cache_max_age"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type FetchConfig struct {
	Timeout     int    `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
	UserAgent   string `yaml:"user_agent"`
	Parser      string `yaml:"parser"`
}

type ReaderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	Timeout           int     `yaml:"timeout"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	UserAgent         string  `yaml:"user_agent"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type KafkaTopics struct {
	Requests string `yaml:"requests"`
	Digest   string `yaml:"digest"`
	Reader   string `yaml:"reader"`
}

type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

type Config struct {
	App     AppConfig     `yaml:"app"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Feeds   []FeedURL     `yaml:"feeds"`
	Reader  ReaderConfig  `yaml:"reader"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

// DefaultFeeds — пять лент, с которыми сервис работает без конфигурации.
var DefaultFeeds = []FeedURL{
	{Name: "aeon", URL: "https://aeon.co/feed.rss"},
	{Name: "paris-review", URL: "https://www.theparisreview.org/blog/feed/"},
	{Name: "nautilus", URL: "https://nautil.us/feed/"},
	{Name: "lithub", URL: "https://lithub.com/category/craftandcriticism/craft-and-advice/feed/"},
	{Name: "lrb", URL: "https://www.lrb.co.uk/feeds/lrb"},
}

func Default() *Config {
	feeds := make([]FeedURL, len(DefaultFeeds))
	copy(feeds, DefaultFeeds)
	return &Config{
		App: AppConfig{Name: "dailyarticles"},
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  10,
			WriteTimeout: 60,
			CacheMaxAge:  3600,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Fetch: FetchConfig{
			Timeout:     10,
			Concurrency: 1,
			Parser:      ParserRegex,
		},
		Feeds: feeds,
		Reader: ReaderConfig{
			BaseURL:           "https://r.jina.ai/",
			Timeout:           30,
			RequestsPerSecond: 1,
			Burst:             3,
			UserAgent:         "Mozilla/5.0",
		},
		Kafka: KafkaConfig{
			Topics: KafkaTopics{
				Requests: "articles_input",
				Digest:   "daily_articles",
				Reader:   "read_article",
			},
		},
	}
}

func (c *Config) GetAppName() string {
	return c.App.Name
}

func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadTimeout) * time.Second
}

func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.HTTP.WriteTimeout) * time.Second
}

func (c *Config) GetFetchTimeout() time.Duration {
	return time.Duration(c.Fetch.Timeout) * time.Second
}

func (c *Config) GetReaderTimeout() time.Duration {
	return time.Duration(c.Reader.Timeout) * time.Second
}

// FeedSources переводит список лент в доменные источники.
func (c *Config) FeedSources() []domain.FeedSource {
	sources := make([]domain.FeedSource, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		sources = append(sources, domain.FeedSource{Name: f.Name, URL: f.URL})
	}
	return sources
}

// fetchBudget — время загрузки всех лент, если каждая упрётся в fetch.timeout.
func (c *Config) fetchBudget() time.Duration {
	waves := (len(c.Feeds) + c.Fetch.Concurrency - 1) / c.Fetch.Concurrency
	return time.Duration(waves) * c.GetFetchTimeout()
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Feeds) == 0 {
		errs = append(errs, errors.New("at least one feed is required"))
	}
	for i, f := range c.Feeds {
		if f.URL == "" {
			errs = append(errs, fmt.Errorf("feeds[%d]: url is empty", i))
		}
	}
	if c.Fetch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("fetch.concurrency must be positive, got %d", c.Fetch.Concurrency))
	} else if budget := c.fetchBudget(); c.HTTP.WriteTimeout > 0 && budget >= c.GetWriteTimeout() {
		errs = append(errs, fmt.Errorf(
			"http.write_timeout (%s) must exceed the worst-case fetch time (%s): lower fetch.timeout or raise fetch.concurrency",
			c.GetWriteTimeout(), budget,
		))
	}
	switch c.Fetch.Parser {
	case ParserRegex, ParserStrict:
	default:
		errs = append(errs, fmt.Errorf("unknown fetch.parser %q", c.Fetch.Parser))
	}
	switch c.Storage.Driver {
	case DriverNone:
	case DriverPostgres, DriverSQLite:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	return errors.Join(errs...)
}

// LoadConfig читает YAML поверх значений по умолчанию. Переменные окружения
// (в том числе из .env) подставляются в текст файла. Пустой путь или
// отсутствующий файл означают конфигурацию по умолчанию.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := Default()
	if configPath == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("config file %s not found, using defaults", configPath)
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	if err = yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
