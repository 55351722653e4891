package app

import (
	"context"

	"minbar/internal/config"
	"minbar/internal/db"
	"minbar/internal/guard"
	"minbar/internal/handlers"
	"minbar/internal/logger"
	"minbar/internal/repository"
	"minbar/internal/routes"
	"minbar/internal/services"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const emailWorkers = 3

// App owns the router and the resources that must be released on shutdown.
type App struct {
	Router *mux.Router
	Pool   *pgxpool.Pool
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// InitApp connects to the database, applies migrations, starts the email
// workers (stopped when ctx ends) and builds the router.
func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Log.Info("Database ready", zap.String("dsn", cfg.GetDSNSafe()))

	// Repositories
	userRepo := repository.NewUserRepository(conn)
	taxonomyRepo := repository.NewTaxonomyRepo(conn)
	bookRepo := repository.NewBookRepository(conn)
	videoRepo := repository.NewVideoRepository(conn)

	// Services
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL)
	passwordService := services.NewPasswordService(userRepo, emailService, cfg.PasswordResetTTL, cfg.MailTimeout)
	taxonomyService := services.NewTaxonomyService(taxonomyRepo)
	catalogService := services.NewCatalogService(bookRepo, videoRepo)
	mediaService, err := services.NewMediaService(cfg.UploadDir, cfg.UploadMaxMB)
	if err != nil {
		conn.Close()
		return nil, err
	}

	services.StartEmailWorker(ctx, emailService, emailWorkers)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.SessionCookie, !cfg.IsDev())
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	uploadHandler := handlers.NewUploadHandler(mediaService)

	router := mux.NewRouter()
	routes.InitRoutes(router, routes.Options{
		SessionCookie: cfg.SessionCookie,
		PagesDir:      cfg.PagesDir,
		Guard:         guard.Options{Fallback: cfg.GuardFallback, Landing: cfg.GuardLanding},
	}, authService, authService, authHandler, passwordHandler, taxonomyHandler, catalogHandler, uploadHandler)

	return &App{Router: router, Pool: conn}, nil
}
