// @title           Caridad Barangay Portal API
// @version         1.0
// @description     Residents, households, blotters and document requests of Barangay Caridad

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer ` prefix
package main

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/routes"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/blob"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/database"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

func main() {
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("failed to set up logger: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		Logger.Warning("could not load .env: %v", err)
	} else {
		Logger.Info(".env loaded")
	}

	cfg := config.GetConfig()
	gin.SetMode(cfg.GinMode)

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		Logger.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
		Logger.Error("migration failed: %v", err)
		os.Exit(1)
	}
	if _, err := database.EnsureAdminExists(db, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword); err != nil {
		Logger.Error("failed to ensure admin account: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := blob.Open(ctx, cfg)
	if err != nil {
		Logger.Error("failed to open blob storage: %v", err)
		os.Exit(1)
	}

	serviceContainer := container.NewServiceContainer(db, cfg, container.Infrastructure{
		Sessions: services.NewSessionStore(cfg),
		Blobs:    blobs,
		Events:   services.NewBlotterEventService(cfg),
		Metrics:  metrics.Default(),
	})
	defer serviceContainer.Close()

	r := routes.SetupRouter(serviceContainer)
	printSystemInfo(pool)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		Logger.Info("server listening on http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Error("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Logger.Error("graceful shutdown failed: %v", err)
	}
}

// printSystemInfo logs the pool settings and runtime figures
func printSystemInfo(pool *database.ConnectionPool) {
	if stats, err := pool.Stats(); err == nil {
		Logger.Info("database pool: %+v", stats)
	}
	Logger.Info("cpus=%d goroutines=%d", runtime.NumCPU(), runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	Logger.Info("memory: alloc=%v MiB sys=%v MiB", m.Alloc/1024/1024, m.Sys/1024/1024)
}
