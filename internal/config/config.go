package config

import (
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/allinone-seolbi/site/internal/queue"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/pg"
	"github.com/allinone-seolbi/site/pkg/prom"
	"github.com/allinone-seolbi/site/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	NotifyModeInline = "inline"
	NotifyModeQueue  = "queue"
)

var config *Config

// Config holds every value the binaries read from the environment. Nothing
// else reads env directly; main hands the relevant slices of it to each
// component.
type Config struct {
	AppEnv     string `env:"APP_ENV,default=dev"`
	AppName    string `env:"APP_NAME,default=allinone-site"`
	AppBaseUrl string `env:"APP_BASE_URL,default=http://localhost:8080"`

	HttpListenAddr         string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpServerReadTimeout  time.Duration `env:"HTTP_SERVER_READ_TIMEOUT,default=5s"`
	HttpServerWriteTimeout time.Duration `env:"HTTP_SERVER_WRITE_TIMEOUT,default=10s"`
	HttpRequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=10s"`
	HttpMaxRequestBodySize int           `env:"HTTP_MAX_REQUEST_BODY_SIZE,default=1048576"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST,default=localhost"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST,default=localhost"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	PostgresSSLMode string `env:"POSTGRES_SSLMODE,default=disable"`
	PostgresDebug   bool   `env:"POSTGRES_DEBUG,default=false"`
	MigrationsDir   string `env:"MIGRATIONS_DIR,default=migrations"`

	RedisAddr               string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=site:"`

	PromNamespace     string `env:"PROM_NAMESPACE,default=allinone"`
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR"`
	MetricsURI        string `env:"METRICS_URI,default=/metrics"`

	LogLevel          string `env:"LOG_LEVEL,default=info"`
	LogFile           string `env:"LOG_FILE"`
	LogFileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB,default=50"`
	LogFileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS,default=5"`
	LogFileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS,default=30"`

	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AdminTokenSecret  string        `env:"ADMIN_TOKEN_SECRET"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL,default=1h"`
	AdminCookieSecure bool          `env:"ADMIN_COOKIE_SECURE,default=false"`

	NotifyMode       string        `env:"NOTIFY_MODE,default=inline"`
	NotifyWebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT,default=5s"`
	NotifyWorkers    int           `env:"NOTIFY_WORKERS,default=2"`
	NotifyBuffer     int           `env:"NOTIFY_BUFFER,default=100"`
	NotifyUsername   string        `env:"NOTIFY_USERNAME"`

	QueueName              string        `env:"QUEUE_NAME,default=contact:notifications"`
	QueueConsumerGroup     string        `env:"QUEUE_CONSUMER_GROUP,default=notifier"`
	QueueConsumerName      string        `env:"QUEUE_CONSUMER_NAME"`
	QueueConsumers         int           `env:"QUEUE_CONSUMERS,default=1"`
	QueueMaxRetries        int           `env:"QUEUE_MAX_RETRIES,default=5"`
	QueueVisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT,default=30s"`
	QueuePollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL,default=1s"`
	QueueBatchSize         int64         `env:"QUEUE_BATCH_SIZE,default=10"`
	QueueMaxLen            int64         `env:"QUEUE_MAX_LEN,default=10000"`
	QueueEnableDLQ         bool          `env:"QUEUE_ENABLE_DLQ,default=true"`

	SiteName    string `env:"SITE_NAME,default=올인원설비"`
	SiteChatURL string `env:"SITE_CHAT_URL,default=http://pf.kakao.com/_lQxaxon/chat"`

	WebhookSinkAddr      string `env:"WEBHOOK_SINK_ADDR,default=:8090"`
	WebhookSinkFailEvery int    `env:"WEBHOOK_SINK_FAIL_EVERY,default=0"`
	WebhookSinkKeep      int    `env:"WEBHOOK_SINK_KEEP,default=100"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c, err := Parse()
	if err != nil {
		return err
	}

	config = c
	return nil
}

// Parse maps the current environment onto a fresh Config without touching
// the global one.
func Parse() (*Config, error) {
	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to Configuration object")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.NotifyMode {
	case NotifyModeInline, NotifyModeQueue:
	default:
		return errors.Errorf("NOTIFY_MODE must be %q or %q, got %q", NotifyModeInline, NotifyModeQueue, c.NotifyMode)
	}
	if c.AdminTokenTTL <= 0 {
		return errors.New("ADMIN_TOKEN_TTL must be positive")
	}
	if c.NotifyWorkers < 1 {
		return errors.New("NOTIFY_WORKERS must be at least 1")
	}
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func (c *Config) PostgresRead() pg.Config {
	return pg.Config{
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
		SSLMode:  c.PostgresSSLMode,
	}
}

func (c *Config) PostgresWrite() pg.Config {
	return pg.Config{
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
		SSLMode:  c.PostgresSSLMode,
	}
}

func (c *Config) Redis() redis.Config {
	return redis.Config{
		Addr:      c.RedisAddr,
		User:      c.RedisUsername,
		Password:  c.RedisPassword,
		Database:  c.RedisDatabase,
		KeyPrefix: c.RedisUniversalKeyPrefix,
	}
}

func (c *Config) HTTP() xhttp.Config {
	return xhttp.Config{
		ListenAddr:         c.HttpListenAddr,
		ReadTimeout:        c.HttpServerReadTimeout,
		WriteTimeout:       c.HttpServerWriteTimeout,
		RequestTimeout:     c.HttpRequestTimeout,
		MaxRequestBodySize: c.HttpMaxRequestBodySize,
	}
}

func (c *Config) Prom() prom.Config {
	return prom.Config{
		Namespace:  c.PromNamespace,
		ListenAddr: c.MetricsListenAddr,
		URI:        c.MetricsURI,
	}
}

func (c *Config) Log() logger.Options {
	mode := "development"
	if !c.IsDev() {
		mode = "production"
	}
	return logger.Options{
		Env:        mode,
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSizeMB:  c.LogFileMaxSizeMB,
		MaxBackups: c.LogFileMaxBackups,
		MaxAgeDays: c.LogFileMaxAgeDays,
	}
}

func (c *Config) Queue() queue.QueueConfig {
	return queue.QueueConfig{
		Name:              c.QueueName,
		ConsumerGroup:     c.QueueConsumerGroup,
		ConsumerName:      c.QueueConsumerName,
		MaxRetries:        c.QueueMaxRetries,
		VisibilityTimeout: c.QueueVisibilityTimeout,
		PollInterval:      c.QueuePollInterval,
		BatchSize:         c.QueueBatchSize,
		MaxLen:            c.QueueMaxLen,
		EnableDLQ:         c.QueueEnableDLQ,
	}
}

// EnvPathFromArgs returns the value of a --env=path argument, or "" when
// absent or unreadable.
func EnvPathFromArgs(args []string) string {
	for _, v := range args {
		path, ok := strings.CutPrefix(v, "--env=")
		if !ok {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			logger.Error("failed to open the passed env file", "path", path, "error", err)
			return ""
		}
		return path
	}
	return ""
}
