package config

import (
	"errors"
	"strings"
	"time"

	"github.com/neolist/neolist/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	APP struct {
		Name  string `mapstructure:"NAME"`
		Port  string `mapstructure:"PORT"`
		State string `mapstructure:"STATE"`
	}

	DATABASE struct {
		Postgres struct {
			DSN     string `mapstructure:"DSN"`
			Migrate bool   `mapstructure:"MIGRATE"`
		}
		Redis struct {
			Addr      string `mapstructure:"ADDR"`
			Password  string `mapstructure:"PASSWORD"`
			DB        int    `mapstructure:"DB"`
			LimiterDB int    `mapstructure:"LIMITER_DB"`
		}
	}

	APP_SECRET struct {
		Paseto struct {
			HexKey   string        `mapstructure:"HEX_KEY"`
			TokenTTL time.Duration `mapstructure:"TOKEN_TTL"`
		}
	}

	ZIMBRA struct {
		BaseURL            string        `mapstructure:"BASE_URL"`
		PreauthKey         string        `mapstructure:"PREAUTH_KEY"`
		TasksFolder        string        `mapstructure:"TASKS_FOLDER"`
		Timeout            time.Duration `mapstructure:"TIMEOUT"`
		InsecureSkipVerify bool          `mapstructure:"INSECURE_SKIP_VERIFY"`
		SessionTTL         time.Duration `mapstructure:"SESSION_TTL"`
	}

	SYNC struct {
		BatchSize    int           `mapstructure:"BATCH_SIZE"`
		MaxAttempts  int           `mapstructure:"MAX_ATTEMPTS"`
		BaseBackoff  time.Duration `mapstructure:"BASE_BACKOFF"`
		ClaimTimeout time.Duration `mapstructure:"CLAIM_TIMEOUT"`
		DrainCron    string        `mapstructure:"DRAIN_CRON"`

		WorkerConcurrency int           `mapstructure:"WORKER_CONCURRENCY"`
		ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	}

	LOG struct {
		Level string `mapstructure:"LEVEL"`
		File  string `mapstructure:"FILE"`
	}
}

// LoadConfig liest application.yaml aus dem Arbeitsverzeichnis; Umgebungsvariablen
// mit Präfix NEOLIST_ überschreiben einzelne Werte (NEOLIST_ZIMBRA_BASE_URL, ...).
func LoadConfig() *AppConfig {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("NEOLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Error().Err(err).Msg("Fehler beim Lesen der Konfigurationsdatei")
		return nil
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		log.Error().Err(err).Msg("Fehler beim Entpacken der Konfiguration")
		return nil
	}

	if err := config.applyDefaults(); err != nil {
		log.Error().Err(err).Msg("Ungültige Konfiguration")
		return nil
	}

	log.Info().Msg("Konfiguration geladen...")
	return &config
}

func (c *AppConfig) applyDefaults() error {
	if c.APP.Name == "" {
		c.APP.Name = "neolist"
	}
	if c.APP.Port == "" {
		c.APP.Port = "8080"
	}

	if c.DATABASE.Postgres.DSN == "" {
		return errors.New("database DSN is not configured")
	}

	if c.APP_SECRET.Paseto.HexKey == "" {
		c.APP_SECRET.Paseto.HexKey = utils.GenerateSymmetricKey()
	}
	if c.APP_SECRET.Paseto.TokenTTL <= 0 {
		c.APP_SECRET.Paseto.TokenTTL = 15 * time.Minute
	}

	if c.ZIMBRA.TasksFolder == "" {
		c.ZIMBRA.TasksFolder = "Tasks"
	}
	if c.ZIMBRA.Timeout == 0 {
		c.ZIMBRA.Timeout = 15 * time.Second
	}
	if c.ZIMBRA.Timeout < 0 {
		return errors.New("zimbra timeout must be positive")
	}
	if c.ZIMBRA.SessionTTL <= 0 {
		c.ZIMBRA.SessionTTL = 10 * time.Minute
	}

	if c.SYNC.BatchSize <= 0 {
		c.SYNC.BatchSize = 25
	}
	if c.SYNC.MaxAttempts <= 0 {
		c.SYNC.MaxAttempts = 5
	}
	if c.SYNC.BaseBackoff <= 0 {
		c.SYNC.BaseBackoff = 30 * time.Second
	}
	if c.SYNC.ClaimTimeout <= 0 {
		c.SYNC.ClaimTimeout = 10 * time.Minute
	}
	if c.SYNC.DrainCron == "" {
		c.SYNC.DrainCron = "@every 1m"
	}
	if c.SYNC.WorkerConcurrency <= 0 {
		c.SYNC.WorkerConcurrency = 4
	}
	if c.SYNC.ShutdownTimeout <= 0 {
		c.SYNC.ShutdownTimeout = 30 * time.Second
	}

	if c.LOG.Level == "" {
		c.LOG.Level = "debug"
	}

	return nil
}
