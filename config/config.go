package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort string `envconfig:"PORT" default:"5000"`
	AppEnv   string `envconfig:"NODE_ENV" default:"development"`

	// Datenbank: sqlite (Standard) oder postgres
	DBDriver      string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath        string `envconfig:"DB_PATH" default:"data/ideaengine.db"`
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        int    `envconfig:"DB_PORT" default:"5432"`
	DBUser        string `envconfig:"DB_USER"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME" default:"ideaengine"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	SeedSample    bool   `envconfig:"SEED_SAMPLE_DATA" default:"false"`

	// Externer Analyse-Service (Python), erreichbar über /api/python/*
	PythonAPIURL     string        `envconfig:"PYTHON_API_URL" default:"http://localhost:5001"`
	PythonAPITimeout time.Duration `envconfig:"PYTHON_API_TIMEOUT" default:"0s"`

	StaticDir          string `envconfig:"STATIC_DIR" default:"frontend/build"`
	FrontendURL        string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	APISecretKey       string `envconfig:"API_SECRET_KEY"`

	TrendingThreshold float64 `envconfig:"TRENDING_THRESHOLD" default:"30"`

	// Collector
	EnabledProviders string `envconfig:"ENABLED_PROVIDERS" default:"sample"`
	CollectSchedule  string `envconfig:"COLLECT_SCHEDULE"`
	SampleSeed       int64  `envconfig:"SAMPLE_SEED" default:"42"`

	// Backup nach S3
	BackupSchedule string `envconfig:"BACKUP_SCHEDULE"`
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	BackupPrefix   string `envconfig:"BACKUP_PREFIX" default:"backups/"`
	BackupKeep     int    `envconfig:"BACKUP_KEEP" default:"4"`
}

// IsProduction meldet, ob das gebaute Frontend ausgeliefert werden soll.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// SQLiteDSN gibt den Data Source Name für die SQLite-Datei zurück.
func (c *Config) SQLiteDSN() string {
	return c.DBPath + "?_busy_timeout=5000"
}

// PostgresDSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// BackupConfigured meldet, ob alle S3-Parameter für Backups gesetzt sind.
func (c *Config) BackupConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// Providers gibt die Namen der aktivierten Collector-Provider zurück.
func (c *Config) Providers() []string {
	var out []string
	for _, name := range strings.Split(c.EnabledProviders, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Validate prüft Kombinationen, die envconfig nicht ausdrücken kann.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.BackupSchedule != "" && !c.BackupConfigured() {
		return fmt.Errorf("BACKUP_SCHEDULE requires S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")
	}
	return nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, c.Validate()
}
