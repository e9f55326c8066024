package router

import (
	"context"
	"net/http"
	"time"

	"vinemarket-backend/internal/application/feed"
	imgsvc "vinemarket-backend/internal/application/images"
	listsvc "vinemarket-backend/internal/application/listings"
	modsvc "vinemarket-backend/internal/application/moderation"
	"vinemarket-backend/internal/config"
	"vinemarket-backend/internal/domain"
	"vinemarket-backend/internal/health"
	"vinemarket-backend/internal/infrastructure/cache"
	"vinemarket-backend/internal/infrastructure/database"
	"vinemarket-backend/internal/infrastructure/firebase"
	imghandler "vinemarket-backend/internal/interfaces/handlers/images"
	listhandler "vinemarket-backend/internal/interfaces/handlers/listings"
	modhandler "vinemarket-backend/internal/interfaces/handlers/moderation"
	"vinemarket-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the external systems the app talks to. Everything except Source is optional.
type Deps struct {
	Source   feed.Source
	Writer   feed.Writer
	Verifier middleware.TokenVerifier
	Store    health.StorePinger
	DB       *gorm.DB
	Rdb      *redis.Client
	Firebase *firebase.App
}

// Runtime owns the long-lived parts of the app: the two listing projections
// and the clients they were built on.
type Runtime struct {
	Public *listsvc.Catalog
	Admin  *listsvc.Catalog
	// Memory is set when the app runs on the in-process feed.
	Memory *feed.Memory
	deps   Deps
}

// Start subscribes both listing projections.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.Public.Start(ctx); err != nil {
		return err
	}
	return r.Admin.Start(ctx)
}

// Close stops the subscriptions and releases every client.
func (r *Runtime) Close() {
	r.Public.Stop()
	r.Admin.Stop()
	if r.deps.Firebase != nil {
		if err := r.deps.Firebase.Close(); err != nil {
			log.Warn().Err(err).Msg("Firestore close failed")
		}
	}
	if r.deps.Rdb != nil {
		_ = r.deps.Rdb.Close()
	}
	if r.deps.DB != nil {
		if sqlDB, err := r.deps.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// CreateApp connects to every configured dependency and builds the app. Without
// FIREBASE_PROJECT_ID it runs on an empty in-process feed.
func CreateApp(cfg *config.Config) (*fiber.App, *Runtime, error) {
	ctx := context.Background()
	var deps Deps

	if cfg.FirebaseProjectID != "" {
		fb, err := firebase.Init(ctx, firebase.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsPath: cfg.FirebaseCredentialsPath,
			StorageBucket:   cfg.FirebaseStorageBucket,
		})
		if err != nil {
			return nil, nil, err
		}
		fs := &firebase.Feed{Client: fb.Firestore}
		deps.Firebase = fb
		deps.Source, deps.Writer, deps.Store = fs, fs, fs
		deps.Verifier = &firebase.TokenVerifier{Client: fb.Auth}
	} else {
		log.Warn().Msg("FIREBASE_PROJECT_ID not set, using in-process listing feed")
		mem := feed.NewMemory()
		deps.Source, deps.Writer = mem, mem
	}

	if cfg.RedisURL != "" {
		rdb, err := cache.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		deps.Rdb = rdb
	}

	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
		deps.DB = db
	}

	app, rt := NewApp(cfg, deps)
	return app, rt, nil
}

// NewApp wires services, handlers and routes over deps.
func NewApp(cfg *config.Config, deps Deps) (*fiber.App, *Runtime) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             15 * time.Second,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(deps.Rdb))
	app.Use(middleware.Locale(cfg.DefaultLocale))
	app.Use(middleware.OptionalAuth(deps.Verifier))
	app.Use(middleware.RouteLogger())

	// unordered: the normalizer sorts, and an ordered query would drop listings without createdAt
	query := feed.Query{Collection: cfg.ListingsCollection}
	normalizer := listsvc.Normalizer{UnknownName: domain.Localize(cfg.DefaultLocale, domain.MsgUnknownVariety)}
	rt := &Runtime{
		Public: &listsvc.Catalog{Source: deps.Source, Query: query, Normalizer: normalizer},
		Admin:  &listsvc.Catalog{Source: deps.Source, Query: query, Normalizer: normalizer, IncludeHidden: true},
		deps:   deps,
	}
	if mem, ok := deps.Source.(*feed.Memory); ok {
		rt.Memory = mem
	}

	// Health
	checker := &health.Checker{
		Rdb:        deps.Rdb,
		Store:      deps.Store,
		Collection: cfg.ListingsCollection,
		Catalog:    rt.Public,
		ProxyURL:   cfg.ResizeProxyURL,
	}
	if deps.DB != nil {
		checker.DB = &database.Pinger{DB: deps.DB}
	}
	hh := &health.Handlers{Checker: checker, Rdb: deps.Rdb, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)
	app.Get("/health/errors", hh.Errors)

	// Listings
	ls := &listsvc.Service{
		Catalog:   rt.Public,
		Favorites: &listsvc.DocumentFavorites{Source: deps.Source},
		TTL:       time.Duration(cfg.ListingTTLDays) * 24 * time.Hour,
	}
	var loaded imgsvc.LoadedSet = imgsvc.NewMemoryLoadedSet()
	if deps.Rdb != nil {
		loaded = &imgsvc.RedisLoadedSet{Rdb: deps.Rdb, TTL: 7 * 24 * time.Hour}
	}
	is := &imgsvc.Service{
		Resolver: imgsvc.NewResolver(cfg.StorageHosts, cfg.ResizeProxyURL),
		Loaded:   loaded,
	}
	lh := &listhandler.Handlers{Service: ls, Images: is}
	lg := app.Group("/api/v1/listings")
	lg.Get("/", lh.Browse)
	lg.Get("/:id", lh.Get)

	// Images
	ih := &imghandler.Handlers{Service: is, Listings: ls}
	ig := app.Group("/api/v1/images")
	ig.Get("/loaded", ih.Loaded)
	ig.Post("/loaded", ih.MarkLoaded)
	ig.Post("/failed", ih.Failed)

	// Moderation
	ms := &modsvc.Service{Catalog: rt.Admin, Source: deps.Source}
	if deps.Writer != nil {
		ms.Writer = &modsvc.DocumentWriter{Store: deps.Writer, Collection: cfg.ListingsCollection}
	}
	if deps.DB != nil {
		ms.Audit = &modsvc.GormAuditLog{DB: deps.DB}
	}
	mh := &modhandler.Handlers{Service: ms}
	ag := app.Group("/api/v1/admin", middleware.RequireAuth(deps.Verifier), middleware.RequireAdmin())
	ag.Get("/listings", mh.Listings)
	ag.Patch("/listings/:id/hidden", mh.SetHidden)
	ag.Patch("/listings/:id/status", mh.SetStatus)
	ag.Patch("/listings/:id/featured", mh.SetFeatured)
	ag.Get("/reports", mh.Reports)
	ag.Get("/notifications", mh.Notifications)
	ag.Get("/users", mh.Users)
	ag.Get("/logs", mh.Logs)

	return app, rt
}

// Handler exposes app as a net/http handler for the serverless entry point.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
