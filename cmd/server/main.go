package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"github.com/rgorski/brief-analyzer/internal/analysis"
	"github.com/rgorski/brief-analyzer/internal/config"
	"github.com/rgorski/brief-analyzer/internal/controllers"
	"github.com/rgorski/brief-analyzer/internal/llm"
	"github.com/rgorski/brief-analyzer/internal/logging"
	"github.com/rgorski/brief-analyzer/internal/middleware"
	"github.com/rgorski/brief-analyzer/internal/models"
	"github.com/rgorski/brief-analyzer/internal/registry"
	"github.com/rgorski/brief-analyzer/migrations"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Logging)

	if err := run(cfg, log); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	// Database ---------------
	db, err := models.NewDatabase(ctx, models.DefaultDatabaseConfig(cfg.Database.URL))
	if err != nil {
		return err
	}
	defer db.Close()

	migrateDB, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := models.MigrateFS(migrateDB, migrations.FS, "."); err != nil {
		migrateDB.Close()
		return err
	}
	migrateDB.Close()

	// Services ---------------
	userService := models.NewUserService(db.Pool)
	sessionService := models.NewSessionService(db.Pool, cfg.Security.SessionDuration)
	analysisService := models.NewAnalysisService(db.Pool)
	usageService := models.NewUsageService(db.Pool)

	catalog := registry.Default()
	orchestrator := analysis.NewOrchestrator(
		catalog,
		cfg.Providers,
		llm.NewGateway,
		analysisService,
		log,
	)

	// Controllers ---------------
	authController := controllers.NewAuthController(
		userService,
		sessionService,
		cfg.Security.SessionCookieName,
		cfg.Security.SecureCookies,
		log,
	)
	analyzeController := controllers.NewAnalyzeController(orchestrator, log)
	historyController := controllers.NewHistoryController(analysisService, log)
	usageController := controllers.NewUsageController(usageService, log)
	catalogController := controllers.NewCatalogController(catalog)

	authMiddleware := middleware.NewAuthMiddleware(sessionService, cfg.Security.SessionCookieName)

	csrfMiddleware := csrf.Protect(
		[]byte(cfg.Security.CSRFKey),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
	)

	// Router ---------------
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(csrfMiddleware)
	r.Use(authMiddleware.SetUser)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Health(req.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/signup", authController.PostSignUp)
	r.Post("/signin", authController.PostSignIn)
	r.Post("/logout", authController.PostLogout)

	r.Get("/api/models", catalogController.GetModels)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireUser)

		r.Post("/api/analyze", analyzeController.PostAnalyze)
		r.Get("/api/history", historyController.GetHistory)
		r.Get("/api/analyses/{id}", historyController.GetAnalysis)
		r.Delete("/api/analyses/{id}", historyController.DeleteAnalysis)
		r.Get("/api/usage", usageController.GetUsage)
	})

	log.WithFields(logrus.Fields{
		"address": cfg.Server.Address,
		"env":     cfg.Server.Environment,
	}).Info("starting server")

	return http.ListenAndServe(cfg.Server.Address, r)
}
