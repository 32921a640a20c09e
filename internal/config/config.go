package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is read once at process start. There is no hot reload.
type Config struct {
	BotToken string  `env:"BOT_TOKEN,required"`
	AdminIDs []int64 `env:"ADMIN_IDS,required" envSeparator:","`

	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"ru"`

	// Operational alerts to the admin set when a handler fails unexpectedly.
	ReportErrors bool `env:"REPORT_ERRORS" envDefault:"true"`

	Database struct {
		Host     string `env:"DB_HOST" envDefault:"localhost"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		User     string `env:"DB_USER,required"`
		Password string `env:"DB_PASSWORD,required"`
		Name     string `env:"DB_NAME,required"`
		SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	}

	Messaging struct {
		SendRetries        int           `env:"SEND_RETRIES" envDefault:"2"`
		BroadcastBatchSize int           `env:"BROADCAST_BATCH_SIZE" envDefault:"20"`
		BroadcastDelay     time.Duration `env:"BROADCAST_DELAY" envDefault:"500ms"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
	}
}

func Load() (*Config, error) {
	// .env is optional; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// IsAdmin reports whether the id belongs to the configured admin set.
func (c *Config) IsAdmin(id int64) bool {
	for _, adminID := range c.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}
