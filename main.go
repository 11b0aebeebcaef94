package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"smoothie-order/config"
	"smoothie-order/services"
	"smoothie-order/session"
	"smoothie-order/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	ordersSubmittedCounter        prometheus.Counter
	orderRejectionsCounter        *prometheus.CounterVec
	receiptArchiveFailuresCounter prometheus.Counter
)

func init() {
	ordersSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smoothie_orders_submitted_total",
			Help: "Total number of smoothie orders appended to the orders table.",
		},
	)
	orderRejectionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smoothie_order_rejections_total",
			Help: "Total number of order submissions that wrote no row, by reason.",
		},
		[]string{"reason"},
	)
	receiptArchiveFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smoothie_receipt_archive_failures_total",
			Help: "Total number of order receipts that could not be archived.",
		},
	)
	prometheus.MustRegister(ordersSubmittedCounter, orderRejectionsCounter, receiptArchiveFailuresCounter)
}

// newRouter erstellt die Gin-Engine mit eingebetteten Templates.
func newRouter() *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	return router
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Session: erst die vom Host bereitgestellte, dann die konfigurierte Verbindung
	sources := session.SourcesFromConfig(cfg, logging)
	if len(sources) == 0 {
		logging.Fatal("No valid session sources enabled. Check SESSION_SOURCES in .env")
	}
	acquireCtx, cancelAcquire := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	sess, err := session.NewProvider(logging, sources...).Acquire(acquireCtx)
	cancelAcquire()
	if err != nil {
		logging.Fatal("Failed to acquire database session", zap.Error(err))
	}
	defer sess.Close()
	logging.Info("Using database session", zap.String("source", sess.Source))

	// Setup Services
	fruitService := services.NewFruitService(sess.DB, logging, cfg.FruitOptionsTable, cfg.FruitNameColumn)
	orderService := services.NewOrderService(sess.DB, logging, cfg.OrdersTable)
	orderService.OnArchiveFailure = func(error) { receiptArchiveFailuresCounter.Inc() }

	if cfg.ReceiptArchiveEnabled() {
		s3Client, err := storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		orderService.Receipts = storage.NewReceiptArchive(s3Client, cfg.ReceiptS3Bucket)
		logging.Info("Order receipts are archived", zap.String("bucket", cfg.ReceiptS3Bucket))
	}

	// Setup Cron (nur mit aktiviertem Obst-Cache)
	if cfg.FruitCacheEnabled() {
		fruitService.WithCache()
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.FruitCacheSchedule, func() {
			if err := fruitService.Refresh(context.Background()); err != nil {
				logging.Error("Scheduled fruit option refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			logging.Fatal("Invalid FRUIT_CACHE_SCHEDULE", zap.String("schedule", cfg.FruitCacheSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
		logging.Info("Fruit option cache enabled", zap.String("schedule", cfg.FruitCacheSchedule))
	}

	// Setup Router
	router := newRouter()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	setupFormRoutes(router, fruitService, orderService, logging)
	setupAPIRoutes(router, sess.DB, fruitService, orderService, logging)

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
}
