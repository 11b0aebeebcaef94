package services

import (
	"context"
	"fmt"

	"smoothie-order/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReceiptArchiver legt eine Kopie jeder gespeicherten Bestellung ab.
type ReceiptArchiver interface {
	Archive(ctx context.Context, order models.Order) (string, error)
}

// OrderService validiert Bestellungen und hängt sie an die Bestelltabelle an.
type OrderService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Table    string
	Receipts ReceiptArchiver

	// OnArchiveFailure wird aufgerufen, wenn der Beleg nicht abgelegt werden konnte.
	OnArchiveFailure func(err error)
}

// NewOrderService erstellt eine neue Instanz des OrderService.
func NewOrderService(db *gorm.DB, logger *zap.Logger, table string) *OrderService {
	return &OrderService{DB: db, Logger: logger, Table: table}
}

// Submit prüft das Formular und schreibt genau eine Zeile. Validierungsfehler
// sind *ValidationError und schreiben nichts; Datenbankfehler werden
// ohne Retry zurückgegeben.
func (s *OrderService) Submit(ctx context.Context, form OrderForm) (*models.Order, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	order := models.Order{
		Ingredients: form.IngredientsString(),
		NameOnOrder: form.NameOnOrder,
	}
	if err := s.DB.WithContext(ctx).Table(s.Table).Create(&order).Error; err != nil {
		s.Logger.Error("Inserting order failed", zap.String("table", s.Table), zap.Error(err))
		return nil, fmt.Errorf("insert order: %w", err)
	}
	s.Logger.Info("Order appended",
		zap.String("name_on_order", order.NameOnOrder),
		zap.Int("ingredient_count", len(form.Ingredients)))

	s.archive(ctx, order)
	return &order, nil
}

// archive ist Best Effort: die Bestelltabelle bleibt die einzige Quelle der Wahrheit.
func (s *OrderService) archive(ctx context.Context, order models.Order) {
	if s.Receipts == nil {
		return
	}
	key, err := s.Receipts.Archive(ctx, order)
	if err != nil {
		s.Logger.Warn("Archiving order receipt failed", zap.Error(err))
		if s.OnArchiveFailure != nil {
			s.OnArchiveFailure(err)
		}
		return
	}
	s.Logger.Debug("Order receipt archived", zap.String("key", key))
}
