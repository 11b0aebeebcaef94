package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"smoothie-order/config"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrIncompleteConnection bedeutet, dass Host, Benutzer oder Datenbankname fehlen.
var ErrIncompleteConnection = errors.New("connection parameters incomplete: DB_HOST, DB_USER and DB_NAME are required")

// ConfiguredSource baut eine eigene Verbindung aus Konfiguration und Secrets-Datei auf.
type ConfiguredSource struct {
	Config *config.Config
}

// NewConfiguredSource erstellt die Fallback-Quelle.
func NewConfiguredSource(cfg *config.Config) *ConfiguredSource {
	return &ConfiguredSource{Config: cfg}
}

// Name gibt den Namen der Quelle zurück.
func (c *ConfiguredSource) Name() string {
	return "configured"
}

// Open löst die Verbindungsparameter erst jetzt auf und verbindet sich.
func (c *ConfiguredSource) Open(ctx context.Context) (*gorm.DB, error) {
	cfg, err := c.resolve()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig())
	if err != nil {
		return nil, err
	}
	if err := ping(ctx, db); err != nil {
		return nil, fmt.Errorf("ping configured database: %w", err)
	}
	return db, nil
}

// resolve legt die Werte aus der Secrets-Datei über die Umgebungskonfiguration.
// Eine fehlende Datei ist kein Fehler.
func (c *ConfiguredSource) resolve() (*config.Config, error) {
	cfg := *c.Config

	if cfg.SecretsFile != "" {
		secrets, err := godotenv.Read(cfg.SecretsFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read secrets file %s: %w", cfg.SecretsFile, err)
		}
		if err := overlay(&cfg, secrets); err != nil {
			return nil, err
		}
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, ErrIncompleteConnection
	}
	return &cfg, nil
}

func overlay(cfg *config.Config, secrets map[string]string) error {
	if v, ok := secrets["DB_HOST"]; ok {
		cfg.DBHost = v
	}
	if v, ok := secrets["DB_PORT"]; ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT in secrets file: %w", err)
		}
		cfg.DBPort = port
	}
	if v, ok := secrets["DB_USER"]; ok {
		cfg.DBUser = v
	}
	if v, ok := secrets["DB_PASSWORD"]; ok {
		cfg.DBPassword = v
	}
	if v, ok := secrets["DB_NAME"]; ok {
		cfg.DBName = v
	}
	if v, ok := secrets["DB_SSLMODE"]; ok {
		cfg.DBSSLMode = v
	}
	return nil
}
