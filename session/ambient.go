package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrNoAmbientSession bedeutet, dass der Host keine Verbindung injiziert hat.
var ErrNoAmbientSession = errors.New("no ambient session provided by host")

// AmbientSource nutzt die Verbindung, die ein verwalteter Host über eine
// Umgebungsvariable bereitstellt (z.B. DATABASE_URL).
type AmbientSource struct {
	EnvVar string
	lookup func(string) (string, bool)
}

// NewAmbientSource erstellt eine Quelle, die envVar ausliest.
func NewAmbientSource(envVar string) *AmbientSource {
	return &AmbientSource{EnvVar: envVar, lookup: os.LookupEnv}
}

// Name gibt den Namen der Quelle zurück.
func (a *AmbientSource) Name() string {
	return "ambient"
}

// Open öffnet die vom Host bereitgestellte Verbindung.
func (a *AmbientSource) Open(ctx context.Context) (*gorm.DB, error) {
	dsn, ok := a.lookup(a.EnvVar)
	if !ok || dsn == "" {
		return nil, ErrNoAmbientSession
	}

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.EnvVar, err)
	}

	sqlDB := stdlib.OpenDB(*connCfg)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := ping(ctx, db); err != nil {
		return nil, fmt.Errorf("ping ambient database: %w", err)
	}
	return db, nil
}
