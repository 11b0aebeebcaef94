package main

import (
	"errors"
	"fmt"
	"net/http"

	"smoothie-order/models"
	"smoothie-order/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// submitOrder ist der gemeinsame Weg für HTML- und JSON-Bestellungen, inklusive Metriken.
func submitOrder(c *gin.Context, orders *services.OrderService, form services.OrderForm) (*models.Order, error) {
	order, err := orders.Submit(c.Request.Context(), form)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		orderRejectionsCounter.WithLabelValues(verr.Reason).Inc()
	case err != nil:
		orderRejectionsCounter.WithLabelValues("backend_error").Inc()
	default:
		ordersSubmittedCounter.Inc()
	}
	return order, err
}

func setupAPIRoutes(router *gin.Engine, db *gorm.DB, fruits *services.FruitService, orders *services.OrderService, log *zap.Logger) {
	rg := router.Group("/api")

	rg.GET("/fruit-options", func(c *gin.Context) {
		options, err := fruits.Options(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"fruit_options": options})
	})

	// Verwirft den Cache und lädt sofort neu, damit Fehler sichtbar werden
	rg.POST("/fruit-options/refresh", func(c *gin.Context) {
		if !fruits.CacheEnabled() {
			c.JSON(http.StatusOK, gin.H{"message": "Fruit option cache is disabled, every request reads the table."})
			return
		}
		fruits.Invalidate()
		if err := fruits.Refresh(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Fruit option cache refreshed."})
	})

	rg.POST("/orders", func(c *gin.Context) {
		var form services.OrderForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		order, err := submitOrder(c, orders, form)
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":       fmt.Sprintf("Your Smoothie is ordered, %s!", order.NameOnOrder),
			"name_on_order": order.NameOnOrder,
			"ingredients":   order.Ingredients,
		})
	})

	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
