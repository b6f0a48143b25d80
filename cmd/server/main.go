package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/jobtrack/auth"
	"github.com/diewo77/jobtrack/internal/config"
	"github.com/diewo77/jobtrack/internal/db"
	"github.com/diewo77/jobtrack/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg.App.Dev)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.App.DatabaseDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.Migrate(dbConn); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		logger.Info("migrations completed")
		return
	}

	sessions := services.NewSessionService(dbConn, logger)

	// Drop sessions that expired while the server was down. Resolve already
	// ignores them, this just keeps the table from growing unbounded.
	if purged, err := sessions.PurgeExpired(); err != nil {
		logger.Warn("session purge failed", zap.Error(err))
	} else if purged > 0 {
		logger.Info("purged expired sessions", zap.Int64("count", purged))
	}

	// The auth middleware resolves cookies through the session store.
	auth.SetSessionResolver(func(ctx context.Context, rawToken string) (uint, bool) {
		user, err := sessions.Resolve(ctx, rawToken)
		if err != nil || user == nil {
			return 0, false
		}
		return user.ID, true
	})

	appHandler := NewApp(dbConn, sessions, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(logger, appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// withLogging adds request logging middleware.
func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
