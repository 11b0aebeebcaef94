package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FruitService liest die auswählbaren Obstsorten aus der Nachschlagetabelle.
type FruitService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Table  string
	Column string

	cacheEnabled bool
	mu           sync.RWMutex
	cached       []string
}

// NewFruitService erstellt einen FruitService ohne Cache: jeder Aufruf liest neu.
func NewFruitService(db *gorm.DB, logger *zap.Logger, table, column string) *FruitService {
	return &FruitService{DB: db, Logger: logger, Table: table, Column: column}
}

// WithCache schaltet den Zwischenspeicher ein. Aktualisiert wird er nur über
// Refresh (Cron) oder nach Invalidate beim nächsten Lesen.
func (s *FruitService) WithCache() *FruitService {
	s.cacheEnabled = true
	return s
}

// CacheEnabled meldet, ob der Zwischenspeicher aktiv ist.
func (s *FruitService) CacheEnabled() bool {
	return s.cacheEnabled
}

// Options liefert die Obstnamen aufsteigend sortiert.
func (s *FruitService) Options(ctx context.Context) ([]string, error) {
	if !s.cacheEnabled {
		return s.load(ctx)
	}

	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return slices.Clone(cached), nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cached), nil
}

// Refresh lädt die Liste neu in den Zwischenspeicher.
func (s *FruitService) Refresh(ctx context.Context) error {
	names, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cached = names
	s.mu.Unlock()
	s.Logger.Info("Fruit options cache refreshed", zap.Int("count", len(names)))
	return nil
}

// Invalidate verwirft den Zwischenspeicher.
func (s *FruitService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *FruitService) load(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.DB.WithContext(ctx).
		Table(s.Table).
		Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}}).
		Pluck(s.Column, &names).Error
	if err != nil {
		s.Logger.Error("Loading fruit options failed", zap.String("table", s.Table), zap.Error(err))
		return nil, fmt.Errorf("load fruit options: %w", err)
	}
	// Die Sortierung der Datenbank hängt von der Collation ab; angezeigt wird bytewise.
	slices.Sort(names)
	return names, nil
}
