package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"localcooks-backend/internal/applications"
	"localcooks-backend/internal/identity"
	"localcooks-backend/internal/shared/config"
	"localcooks-backend/internal/shared/server"
	"localcooks-backend/internal/shared/storage/db"
	"localcooks-backend/internal/shared/storage/object"
	localstore "localcooks-backend/internal/shared/storage/object/local"
	s3store "localcooks-backend/internal/shared/storage/object/s3"
	"localcooks-backend/internal/uploads"
	"localcooks-backend/internal/users"
)

// App holds shared dependencies wired for the API server.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ApplicationsRepo    applications.Repo
	UsersRepo           users.Repo
	ApplicationsService *applications.Service
	UploadsService      *uploads.Service
	UsersService        *users.Service
	ApplicationsHandler *applications.Handler
	UploadsHandler      *uploads.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *identity.GoogleService
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		ApplicationsHandler: app.ApplicationsHandler,
		UploadsHandler:      app.UploadsHandler,
		UsersHandler:        app.UsersHandler,
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var appRepo applications.Repo
	var userRepo users.Repo

	if app.DB != nil {
		appRepo = &applications.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		appRepo = applications.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	fileURL := func(storageKey string) string {
		return app.Config.PublicBaseURL + "/api/files/" + storageKey
	}

	uploadSvc := &uploads.Service{
		Store:          app.Store,
		MaxUploadBytes: app.Config.MaxUploadBytes,
		FileURL:        fileURL,
	}
	appSvc := &applications.Service{
		Repo:    appRepo,
		Uploads: uploadSvc,
	}
	userSvc := users.NewService(userRepo)

	app.ApplicationsRepo = appRepo
	app.UsersRepo = userRepo
	app.ApplicationsService = appSvc
	app.UploadsService = uploadSvc
	app.UsersService = userSvc
	app.ApplicationsHandler = applications.NewHandler(appSvc, app.Config.MaxUploadBytes)
	app.UploadsHandler = uploads.NewHandler(uploadSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = identity.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
}
