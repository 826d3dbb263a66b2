package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/ledger"
	"fintrack/internal/logger"
	"fintrack/internal/mailer"
	"fintrack/internal/scheduler"
	"fintrack/internal/server"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack records income and expenses and reports on where the money goes.

// @host      localhost:4000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	store := ledger.NewStore(db)
	userService := services.NewUserService(db, mailer.NewSMTPSender(appConfig), appConfig)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db, store)
	reportService := services.NewReportService(store, appConfig.TopExpensesMax)

	// Background jobs
	jobs := scheduler.New()
	if err := jobs.AddResetPurge(appConfig.ResetPurgeSchedule, userService); err != nil {
		return fmt.Errorf("failed to schedule reset purge: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	router := server.NewRouter(server.Services{
		Users:        userService,
		Transactions: transactionService,
		Budgets:      budgetService,
		Reports:      reportService,
	}, server.Options{
		CORSAllowedOrigin: appConfig.CORSAllowedOrigin,
		OpsAPIKey:         appConfig.OpsAPIKey,
		Swagger:           appConfig.Env != "production",
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting fintrack server on port %s", appConfig.Port)
		if appConfig.Env != "production" {
			log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
