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
	"github.com/provdelegation/portal/api/internal/config"
	"github.com/provdelegation/portal/api/internal/database"
	"github.com/provdelegation/portal/api/internal/handlers"
	"github.com/provdelegation/portal/api/internal/logger"
	"github.com/provdelegation/portal/api/internal/repository"
	"github.com/provdelegation/portal/api/internal/services"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting delegation statistics API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	if cfg.Server.AutoMigrate {
		if err := database.MigrateUp(cfg.Database); err != nil {
			log.Fatal("Failed to apply database migrations", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"name": cfg.Database.Name,
			})
		}
		log.Info("Database migrations applied", nil)
	}

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host":    cfg.Database.Host,
			"port":    cfg.Database.Port,
			"name":    cfg.Database.Name,
			"retries": cfg.Database.ConnectRetries,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Repositories -> services -> handlers
	statsRepo := repository.NewStatsRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	txManager := repository.NewTransactionManager(db)

	statsService := services.NewStatsService(statsRepo, siteRepo, txManager, log)
	projectService := services.NewProjectService(projectRepo, log)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(
		log,
		handlers.RouterOptions{
			CORSOrigins: cfg.CORS.Origins,
			AdminToken:  cfg.Admin.Token,
		},
		handlers.NewHealthHandler(db, cfg.Server.Env),
		handlers.NewStatsHandler(statsService),
		handlers.NewProjectHandler(projectService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
