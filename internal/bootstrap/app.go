package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/admin"
	"lexibox-backend/internal/documents"
	"lexibox-backend/internal/orgs"
	"lexibox-backend/internal/shared/config"
	"lexibox-backend/internal/shared/server"
	"lexibox-backend/internal/shared/storage/db"
	"lexibox-backend/internal/shared/storage/object"
	localstore "lexibox-backend/internal/shared/storage/object/local"
	"lexibox-backend/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo
	OrgsRepo      orgs.Repo

	UsersService     *users.Service
	DocumentsService *documents.Service
	OrgsService      *orgs.Service
	AdminService     *admin.Service

	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
	OrgsHandler      *orgs.Handler
	AdminHandler     *admin.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  localstore.New(cfg.UploadDir),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		UsersRepo:        app.UsersRepo,
		UsersHandler:     app.UsersHandler,
		DocumentsHandler: app.DocumentsHandler,
		OrgsHandler:      app.OrgsHandler,
		AdminHandler:     app.AdminHandler,
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

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.OrgsRepo = &orgs.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.OrgsRepo = orgs.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{
		Store: app.Store,
		Repo:  app.DocumentsRepo,
	}
	app.OrgsService = &orgs.Service{
		Repo:  app.OrgsRepo,
		Users: app.UsersRepo,
		Docs:  app.DocumentsRepo,
	}
	app.UsersService = &users.Service{
		Repo:     app.UsersRepo,
		Orgs:     app.OrgsService,
		TokenTTL: app.Config.TokenTTL,
	}
	app.AdminService = &admin.Service{
		Users: app.UsersRepo,
		Docs:  app.DocumentsRepo,
		Orgs:  app.OrgsRepo,
	}

	app.UsersHandler = users.NewHandler(app.UsersService)
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.OrgsHandler = orgs.NewHandler(app.OrgsService)
	app.AdminHandler = admin.NewHandler(app.AdminService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
