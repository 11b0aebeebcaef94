package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoSession wird zurückgegeben, wenn keine Quelle eine Session liefern konnte.
var ErrNoSession = errors.New("no database session available")

// Source ist das Interface, das jede Session-Quelle (z.B. ambient, configured) implementieren muss.
type Source interface {
	// Open baut eine geprüfte Verbindung auf oder liefert einen Fehler.
	Open(ctx context.Context) (*gorm.DB, error)

	// Name gibt den eindeutigen Namen der Quelle zurück (z.B. "ambient").
	Name() string
}

// Session ist ein lebendes Handle auf die Datenbank samt Herkunft.
type Session struct {
	DB     *gorm.DB
	Source string
}

// Close gibt den Verbindungspool frei.
func (s *Session) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Provider probiert die Quellen der Reihe nach durch, bis eine eine Session liefert.
type Provider struct {
	Sources []Source
	Logger  *zap.Logger
}

// NewProvider erstellt einen Provider mit den Quellen in Prioritätsreihenfolge.
func NewProvider(logger *zap.Logger, sources ...Source) *Provider {
	return &Provider{Sources: sources, Logger: logger}
}

// Acquire liefert die Session der ersten erfolgreichen Quelle. Es gibt keinen Retry.
func (p *Provider) Acquire(ctx context.Context) (*Session, error) {
	errs := []error{ErrNoSession}
	for _, src := range p.Sources {
		log := p.Logger.With(zap.String("source", src.Name()))
		db, err := src.Open(ctx)
		if err != nil {
			log.Info("Session source unavailable, trying next", zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		log.Info("Database session acquired")
		return &Session{DB: db, Source: src.Name()}, nil
	}
	return nil, errors.Join(errs...)
}

// gormConfig ist für alle Quellen gleich: keine SQL-Logs, kein implizites
// BEGIN/COMMIT um einzelne Inserts. Der Ping beim Öffnen läuft ohne Context,
// deshalb pingen die Quellen selbst mit dem Deadline-Context aus Acquire.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	}
}

// ping prüft, ob die frisch geöffnete Verbindung tatsächlich lebt.
func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return err
	}
	return nil
}
