package main

import (
	"net/http"

	"github.com/diewo77/jobtrack/auth"
	"github.com/diewo77/jobtrack/internal/handlers"
	"github.com/diewo77/jobtrack/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, sessions *services.SessionService, logger *zap.Logger) *App {
	app := &App{
		mux: http.NewServeMux(),
		db:  db,
	}

	accounts := services.NewAccountService(db, logger)
	pipeline := services.NewPipelineService(db, logger)

	ah := handlers.NewAuthHandler(accounts, sessions, logger)
	ph := handlers.NewPostingHandler(pipeline, logger)

	// Public routes (no auth required)
	app.mux.HandleFunc("POST /signup", ah.Signup)
	app.mux.HandleFunc("POST /login", ah.Login)
	app.mux.HandleFunc("POST /logout", ah.Logout)

	// Authenticated routes
	app.mux.Handle("GET /me", auth.RequireAuth(http.HandlerFunc(ah.Me)))
	app.mux.Handle("GET /postings", auth.RequireAuth(http.HandlerFunc(ph.List)))
	app.mux.Handle("POST /postings", auth.RequireAuth(http.HandlerFunc(ph.Create)))
	app.mux.Handle("POST /postings/{id}", auth.RequireAuth(http.HandlerFunc(ph.Update)))
	app.mux.Handle("POST /postings/{id}/status", auth.RequireAuth(http.HandlerFunc(ph.UpdateStage)))
	app.mux.Handle("POST /postings/{id}/delete", auth.RequireAuth(http.HandlerFunc(ph.Delete)))

	// Static files
	app.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return app
}

// ServeHTTP implements http.Handler. The auth middleware resolves the session
// cookie into a user ID for every request before routing.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.mux).ServeHTTP(w, r)
}
