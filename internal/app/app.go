package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/farellandr/goalfeed/external/footballdata"
	"github.com/farellandr/goalfeed/internal/config"
	"github.com/farellandr/goalfeed/internal/infrastructure/repository/postgres"
	"github.com/farellandr/goalfeed/internal/interfaces/httpapi"
	"github.com/farellandr/goalfeed/internal/platform/cache"
	"github.com/farellandr/goalfeed/internal/platform/logging"
	"github.com/farellandr/goalfeed/internal/platform/resilience"
	"github.com/farellandr/goalfeed/internal/scheduler"
	"github.com/farellandr/goalfeed/internal/usecase"
)

// App wires configuration, storage, the provider client, services, the HTTP
// server and the background scheduler together.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	DB        *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	matchRepo := postgres.NewMatchRepository(db)
	leagueRepo := postgres.NewLeagueRepository(db)

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.ProviderBaseURL,
		Token:      cfg.ProviderToken,
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenReq,
		},
	})

	var leagueCache *cache.Store
	if cfg.CacheEnabled {
		leagueCache = cache.NewStore(cfg.CacheTTL)
	}

	matchSvc := usecase.NewMatchService(matchRepo, logger)
	leagueSvc := usecase.NewLeagueService(leagueRepo, leagueCache, logger)
	syncSvc := usecase.NewSyncService(provider, matchRepo, leagueRepo, cfg.UpcomingTeamIDs, logger)

	handler := httpapi.NewHandler(matchSvc, leagueSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	sched := scheduler.New(syncSvc, scheduler.Config{
		LiveInterval:     cfg.SyncLiveInterval,
		UpcomingInterval: cfg.SyncUpcomingInterval,
		FinishedInterval: cfg.SyncFinishedInterval,
		StartupDelay:     cfg.SyncStartupDelay,
	}, logger)

	return &App{
		Server:    server,
		Scheduler: sched,
		DB:        db,
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
