package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/just-nibble/repo-analytics/pkg/errcodes"
	"github.com/just-nibble/repo-analytics/pkg/validator"
)

type Config struct {
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	DB          DBConfig          `envconfig:"DB"`
	GitHub      GitHubConfig      `envconfig:"GITHUB"`
	Aggregation AggregationConfig `envconfig:"AGGREGATION"`

	// DefaultRepository is seeded on an empty database, e.g. "chromium/chromium".
	DefaultRepository string    `envconfig:"DEFAULT_REPOSITORY"`
	DefaultStartDate  time.Time `envconfig:"DEFAULT_START_DATE"`

	MonitorInterval time.Duration `envconfig:"MONITOR_INTERVAL" default:"1h"`
	SyncConcurrency int           `envconfig:"SYNC_CONCURRENCY" default:"4"`
	// SyncTimeout bounds one background sync of one repository. Zero disables it.
	SyncTimeout time.Duration `envconfig:"SYNC_TIMEOUT" default:"2h"`
}

type DBConfig struct {
	URL              string        `envconfig:"URL" default:"sqlite:///analytics.db"`
	MaxOpenConns     int           `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns     int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime  time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
	OperationTimeout time.Duration `envconfig:"OPERATION_TIMEOUT" default:"30s"`
	RetryAttempts    int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryBackoff     time.Duration `envconfig:"RETRY_BACKOFF" default:"200ms"`
}

type GitHubConfig struct {
	Token   string `envconfig:"TOKEN"`
	PerPage int    `envconfig:"PER_PAGE" default:"100"`
	// FetchFiles costs one extra request per commit.
	FetchFiles     bool          `envconfig:"FETCH_FILES" default:"true"`
	RateLimitSleep time.Duration `envconfig:"RATE_LIMIT_SLEEP" default:"1h"`
}

type AggregationConfig struct {
	// IncludeInactive emits zero-valued rows for known contributors with no activity in a period.
	IncludeInactive bool `envconfig:"INCLUDE_INACTIVE" default:"false"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envPath string) (Config, error) {
	if envPath == "" {
		envPath = ".env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DefaultRepository != "" && !validator.IsRepository(c.DefaultRepository) {
		return fmt.Errorf("DEFAULT_REPOSITORY %q: %w", c.DefaultRepository, errcodes.ErrInvalidRepositoryName)
	}
	if c.SyncConcurrency < 1 {
		return fmt.Errorf("SYNC_CONCURRENCY must be positive, got %d", c.SyncConcurrency)
	}
	if c.DB.RetryAttempts < 1 {
		return fmt.Errorf("DB_RETRY_ATTEMPTS must be positive, got %d", c.DB.RetryAttempts)
	}
	return nil
}
