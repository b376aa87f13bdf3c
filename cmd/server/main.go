package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infection-registry-service/internal/adapters"
	"infection-registry-service/internal/api/handlers"
	"infection-registry-service/internal/audit"
	"infection-registry-service/internal/config"
	"infection-registry-service/internal/domain/entities"
	"infection-registry-service/internal/domain/repositories"
	"infection-registry-service/internal/metrics"
	"infection-registry-service/internal/notifications"
	"infection-registry-service/internal/services"
	"infection-registry-service/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.WithError(err).Fatal("configurazione non valida")
	}

	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("connessione al database fallita")
	}
	if err := db.AutoMigrate(&entities.Patient{}, &entities.ClinicalEvent{}); err != nil {
		logger.WithError(err).Fatal("migrazione dello schema fallita")
	}

	metrics.Register()

	patientRepo := repositories.NewGormPatientRepository(db)
	eventRepo := repositories.NewGormClinicalEventRepository(db)
	ledger := audit.NewTransactionLedger(logger)
	queueAdapter := adapters.NewInMemoryQueueAdapter(logger)
	notifier := notifications.NewLogNotifier(logger)

	transactionService := services.NewTransactionService(
		patientRepo,
		eventRepo,
		validation.NewValidator(),
		ledger,
		notifier,
		metrics.GaugeLoadingIndicator{},
		queueAdapter,
		logger,
	)
	if err := transactionService.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("avvio del servizio transazioni fallito")
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		http.Handle("/metrics", promhttp.Handler())
		logger.WithField("addr", addr).Info("metrics listener avviato")
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.WithError(err).Error("metrics listener terminato")
		}
	}()

	app := fiber.New()
	transactionHandler := handlers.NewTransactionHandler(transactionService, ledger, logger)
	handlers.RegisterTransactionRoutes(app, transactionHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServiceHost, cfg.ServicePort)
		if err := app.Listen(addr); err != nil {
			logger.WithError(err).Fatal("server HTTP terminato")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("arresto in corso")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.WithError(err).Error("arresto del server HTTP fallito")
	}
	if err := transactionService.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("arresto del servizio transazioni fallito")
	}
	queueAdapter.Shutdown()
	logger.Info("arresto completato")
}
