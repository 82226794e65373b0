package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config process-level settings from the environment (.env is read if present).
type Config struct {
	App      App
	Browser  Browser
	Hattrick Hattrick
	Bot      Bot
	Retry    Retry
}

type App struct {
	StateDir         string `env:"STATE_DIR" envDefault:"."`
	SettingsPath     string `env:"SETTINGS_PATH" envDefault:"settings.json"`
	FiltersPath      string `env:"FILTERS_PATH" envDefault:"searchFilter.json"`
	LogLevel         string `env:"LOG_LEVEL"`
	OpsListenAddress string `env:"OPS_LISTEN_ADDRESS"`
	Name             string `env:"APP_NAME" envDefault:"transfer_scanner"`
	Version          string `env:"APP_VERSION" envDefault:"dev"`
}

type Browser struct {
	Headless bool          `env:"HEADLESS" envDefault:"false"`
	SlowMo   time.Duration `env:"BROWSER_SLOW_MO" envDefault:"0s"`
	Timeout  time.Duration `env:"BROWSER_TIMEOUT" envDefault:"30s"`
}

// Hattrick credentials from the environment take precedence over settings.json.
type Hattrick struct {
	LoginName     string `env:"HT_LOGIN_NAME"`
	LoginPassword string `env:"HT_LOGIN_PASSWORD" json:"-"`
}

// Bot уведомления о сделках; без токена бот не запускается.
type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

type Retry struct {
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"9"`
	Delay       time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
