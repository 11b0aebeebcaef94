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
	// Explizite Verbindung (Fallback, wenn der Host keine Session bereitstellt)
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Lokale Secrets-Datei im dotenv-Format, überschreibt DB_* beim Verbindungsaufbau
	SecretsFile string `envconfig:"SECRETS_FILE" default:".secrets.env"`

	// Name der Variable, über die ein verwalteter Host seine Verbindung injiziert
	AmbientDSNEnv  string        `envconfig:"AMBIENT_DSN_ENV" default:"DATABASE_URL"`
	SessionSources string        `envconfig:"SESSION_SOURCES" default:"ambient,configured"`
	ConnectTimeout time.Duration `envconfig:"SESSION_CONNECT_TIMEOUT" default:"10s"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	FruitOptionsTable string `envconfig:"FRUIT_OPTIONS_TABLE" default:"fruit_options"`
	FruitNameColumn   string `envconfig:"FRUIT_NAME_COLUMN" default:"fruit_name"`
	OrdersTable       string `envconfig:"ORDERS_TABLE" default:"orders"`

	// Leer = kein Cache, jede Anfrage liest die Obstliste neu
	FruitCacheSchedule string `envconfig:"FRUIT_CACHE_SCHEDULE"`

	// Bestellbelege (optional, aktiv sobald ein Bucket gesetzt ist)
	ReceiptS3URL    string `envconfig:"RECEIPT_S3_URL"`
	ReceiptS3Region string `envconfig:"RECEIPT_S3_REGION" default:"us-east-1"`
	ReceiptS3Key    string `envconfig:"RECEIPT_S3_KEY"`
	ReceiptS3Secret string `envconfig:"RECEIPT_S3_SECRET"`
	ReceiptS3Bucket string `envconfig:"RECEIPT_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
// Alle Werte werden gequotet, Passwörter dürfen Leerzeichen und Quotes enthalten.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
		quoteDSNValue(c.DBHost), quoteDSNValue(c.DBUser), quoteDSNValue(c.DBPassword),
		quoteDSNValue(c.DBName), c.DBPort)
	if c.DBSSLMode != "" {
		dsn += " sslmode=" + quoteDSNValue(c.DBSSLMode)
	}
	return dsn
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSNValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// SessionSourceNames liefert die konfigurierte Reihenfolge der Session-Quellen.
func (c *Config) SessionSourceNames() []string {
	var names []string
	for _, name := range strings.Split(c.SessionSources, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FruitCacheEnabled meldet, ob die Obstliste zwischengespeichert werden soll.
func (c *Config) FruitCacheEnabled() bool {
	return strings.TrimSpace(c.FruitCacheSchedule) != ""
}

// ReceiptArchiveEnabled meldet, ob Bestellbelege nach S3 geschrieben werden.
func (c *Config) ReceiptArchiveEnabled() bool {
	return c.ReceiptS3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
