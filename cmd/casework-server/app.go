package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/casework/casework/internal/config"
	"github.com/casework/casework/internal/domain/client"
	"github.com/casework/casework/internal/domain/contact"
	"github.com/casework/casework/internal/domain/note"
	"github.com/casework/casework/internal/domain/reminder"
	"github.com/casework/casework/internal/domain/resource"
	"github.com/casework/casework/internal/platform/auth"
	"github.com/casework/casework/internal/platform/db"
	"github.com/casework/casework/internal/platform/directory"
	"github.com/casework/casework/internal/platform/events"
	"github.com/casework/casework/internal/platform/fieldcrypt"
	"github.com/casework/casework/internal/platform/middleware"
	"github.com/casework/casework/internal/platform/websocket"
	"github.com/casework/casework/pkg/pagination"
)

const version = "0.1.0"

// exportCost is the rate-limit charge for one XLSX export, in requests.
const exportCost = 20

// app holds the wired services and every connection that must be released
// on shutdown.
type app struct {
	pool      *pgxpool.Pool
	resources *resource.Service
	notes     *note.Service
	reminders *reminder.Service
	clients   *client.Service
	contacts  *contact.Service
	stream    *websocket.Hub

	closers []func() error
	logger  zerolog.Logger
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
}

// buildApp loads the directory, opens the configured backends and wires
// the domain services. On error everything opened so far is closed.
func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *app, err error) {
	a := &app{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	loader := &directory.Loader{Region: cfg.S3Region, Endpoint: cfg.S3Endpoint}
	dir, err := loader.Load(ctx, cfg.DirectorySource)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	logger.Info().
		Int("resources", len(dir.Resources)).
		Int("contacts", len(dir.Contacts)).
		Str("source", sourceName(cfg.DirectorySource)).
		Msg("directory loaded")

	sealer, err := fieldcrypt.NewSealer(cfg.NoteEncryptionKey, logger)
	if err != nil {
		return nil, err
	}

	broker, err := newPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.stream = websocket.NewHub(logger)
	pub := events.Fanout(broker, a.stream)
	a.closers = append(a.closers, pub.Close)

	favorites, err := newFavorites(ctx, cfg, a)
	if err != nil {
		return nil, err
	}

	resourceRepo, err := resource.NewMemoryRepo(dir.Resources)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	contactRepo, err := contact.NewMemoryRepo(dir.Contacts, dir.SafetyTips)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	var (
		clientRepo   client.Repository
		noteRepo     note.Repository
		reminderRepo reminder.Repository
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		logger.Info().Msg("connected to database")
		clientRepo = client.NewRepoPG(pool)
		noteRepo = note.NewRepoPG(pool)
		reminderRepo = reminder.NewRepoPG(pool)
	default:
		clientRepo = client.NewMemoryRepo()
		noteRepo = note.NewMemoryRepo()
		reminderRepo = reminder.NewMemoryRepo()
	}

	a.resources = resource.NewService(resourceRepo, favorites, pub, logger)
	a.contacts = contact.NewService(contactRepo)
	a.notes = note.NewService(noteRepo, sealer, pub, logger)
	a.reminders = reminder.NewService(reminderRepo, pub, logger)
	a.clients = client.NewService(clientRepo, a.notes, a.reminders)

	if err := a.seed(ctx, dir); err != nil {
		return nil, err
	}
	return a, nil
}

func sourceName(s string) string {
	if s == "" {
		return "embedded"
	}
	return s
}

func newPublisher(cfg *config.Config, logger zerolog.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("url", cfg.NATSURL).Msg("publishing events to NATS")
	return pub, nil
}

func newFavorites(ctx context.Context, cfg *config.Config, a *app) (resource.FavoriteStore, error) {
	if cfg.RedisURL == "" {
		return resource.NewMemoryFavorites(), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	a.closers = append(a.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	a.logger.Info().Str("addr", opts.Addr).Msg("favorites stored in redis")
	return resource.NewRedisFavorites(rdb), nil
}

// seed imports the directory's clients, notes and reminders when the
// client store is empty, so a persistent backend is seeded only once.
func (a *app) seed(ctx context.Context, dir *directory.Directory) error {
	_, total, err := a.clients.Search(ctx, "", pagination.Params{Limit: 1})
	if err != nil {
		return fmt.Errorf("check client store: %w", err)
	}
	if total > 0 {
		a.logger.Debug().Int("clients", total).Msg("store already populated, skipping seed")
		return nil
	}

	for i := range dir.Clients {
		c := dir.Clients[i]
		if err := a.clients.Create(ctx, &c); err != nil {
			return fmt.Errorf("seed client %q: %w", c.ID, err)
		}
	}
	for _, n := range dir.Notes {
		if err := a.notes.Import(ctx, n); err != nil {
			return fmt.Errorf("seed notes: %w", err)
		}
	}
	for _, r := range dir.Reminders {
		if err := a.reminders.Import(ctx, r); err != nil {
			return fmt.Errorf("seed reminders: %w", err)
		}
	}
	a.logger.Info().
		Int("clients", len(dir.Clients)).
		Int("notes", len(dir.Notes)).
		Int("reminders", len(dir.Reminders)).
		Msg("seeded case data")
	return nil
}

// newServer builds the echo instance with global middleware, auth and the
// /api/v1 routes.
func newServer(cfg *config.Config, logger zerolog.Logger, a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if a.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.pool))
	}

	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() && cfg.AuthSigningKey == "" {
		logger.Warn().Msg("development auth enabled: requests run as X-User-ID or dev-user")
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthSigningKey),
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
		}))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	// Workbook export renders the whole filtered directory.
	rateLimitCfg.RouteCosts = map[string]float64{
		"/api/v1/resources/export": exportCost,
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	resource.NewHandler(a.resources).RegisterRoutes(apiV1)
	client.NewHandler(a.clients).RegisterRoutes(apiV1)
	note.NewHandler(a.notes).RegisterRoutes(apiV1)
	reminder.NewHandler(a.reminders).RegisterRoutes(apiV1)
	contact.NewHandler(a.contacts).RegisterRoutes(apiV1)
	websocket.NewHandler(a.stream, cfg.CORSOrigins, logger).RegisterRoutes(apiV1)

	return e
}
