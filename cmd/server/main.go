package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"impulsa/internal/badge"
	badgehandler "impulsa/internal/badge/handler"
	badgemetrics "impulsa/internal/badge/metrics"
	badgeservice "impulsa/internal/badge/service"
	"impulsa/internal/eligibility/cache"
	eligibilityhandler "impulsa/internal/eligibility/handler"
	eligibilitymetrics "impulsa/internal/eligibility/metrics"
	eligibilityservice "impulsa/internal/eligibility/service"
	eligibilitystore "impulsa/internal/eligibility/store"
	"impulsa/internal/events"
	missionhandler "impulsa/internal/mission/handler"
	missionmetrics "impulsa/internal/mission/metrics"
	missionservice "impulsa/internal/mission/service"
	missionstore "impulsa/internal/mission/store"
	notificationhandler "impulsa/internal/notification/handler"
	notificationservice "impulsa/internal/notification/service"
	notificationstore "impulsa/internal/notification/store"
	"impulsa/internal/platform/config"
	"impulsa/internal/platform/database"
	"impulsa/internal/platform/health"
	"impulsa/internal/platform/kafka/producer"
	"impulsa/internal/platform/logger"
	"impulsa/internal/platform/metrics"
	"impulsa/internal/platform/redis"
	"impulsa/internal/platform/tracer"
	progresshandler "impulsa/internal/progress/handler"
	progressmetrics "impulsa/internal/progress/metrics"
	progressservice "impulsa/internal/progress/service"
	progressstore "impulsa/internal/progress/store"
	"impulsa/internal/progression"
	"impulsa/internal/seeder"
	"impulsa/internal/token"
	tokenhandler "impulsa/internal/token/handler"
	tokenmetrics "impulsa/internal/token/metrics"
	httptransport "impulsa/internal/transport/http"
	"impulsa/migrations"
	"impulsa/pkg/platform/circuit"
)

const (
	eventBufferSize   = 256
	poolStatsInterval = 15 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// main wires the stores, services and handlers, then serves HTTP until
// SIGINT or SIGTERM. Business logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("impulsa stopped", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	progress      progressservice.Store
	missions      missionservice.MissionStore
	rules         eligibilityservice.RuleStore
	notifications notificationservice.Store
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	levels, err := progression.FromCatalog(catalog.Levels)
	if err != nil {
		return fmt.Errorf("catalog levels: %w", err)
	}
	badges, err := badge.FromCatalog(catalog.Badges)
	if err != nil {
		return fmt.Errorf("catalog badges: %w", err)
	}

	log.Info("initializing impulsa",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"timezone", cfg.Timezone,
		"levels", len(levels.Levels()),
		"badges", len(badges.Badges()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthHandler := health.New(cfg.Environment)

	pool, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck // shutdown path
	st := newStores(pool)
	if pool != nil {
		if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
			return err
		}
		healthHandler.RegisterCheck("postgres", pool.Health)
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var (
		eligibilityCache eligibilityservice.Cache
		ledger           token.Ledger
	)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("redis", redisClient.Health)
		go recordPoolStats(ctx, redisClient)
		if cfg.EligibilityCacheTTL > 0 {
			eligibilityCache = cache.NewGuarded(
				cache.NewRedis(redisClient, cfg.EligibilityCacheTTL),
				circuit.New("eligibility-cache", circuit.WithCooldown(15*time.Second)),
				log,
			)
		}
		ledger = token.NewRedisLedger(redisClient)
	} else {
		if cfg.EligibilityCacheTTL > 0 {
			eligibilityCache = cache.NewInMemory(cfg.EligibilityCacheTTL)
		}
		ledger = token.NewMemoryLedger()
	}

	notifications := notificationservice.New(st.notifications, notificationservice.WithLogger(log))
	sinks := []events.Sink{notifications}
	if cfg.Kafka.Brokers != "" {
		kafkaProducer, err := producer.New(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer kafkaProducer.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("kafka", kafkaProducer.Check)
		sinks = append(sinks, events.NewKafkaSink(kafkaProducer, cfg.Kafka.Topic))
	}
	publisher := events.NewPublisher(sinks,
		events.WithAsyncBuffer(eventBufferSize),
		events.WithLogger(log),
	)
	defer publisher.Close()

	trc := tracer.NewOTel(tracer.WithBaseAttributes(tracer.String(tracer.AttrEnv, cfg.Environment)))

	eligibilityOpts := []eligibilityservice.Option{
		eligibilityservice.WithLogger(log),
		eligibilityservice.WithMetrics(eligibilitymetrics.New()),
		eligibilityservice.WithTracer(trc),
	}
	if eligibilityCache != nil {
		eligibilityOpts = append(eligibilityOpts, eligibilityservice.WithCache(eligibilityCache))
	}
	eligibility := eligibilityservice.New(st.rules, st.progress, missionAreas{store: st.missions}, eligibilityOpts...)

	engine := badge.NewEngine(badges)
	missions := missionservice.New(st.missions, st.progress, engine,
		missionservice.WithLogger(log),
		missionservice.WithMetrics(missionmetrics.New()),
		missionservice.WithTracer(trc),
		missionservice.WithLevelTable(levels),
		missionservice.WithEligibility(eligibility),
		missionservice.WithEmitter(publisher),
		missionservice.WithLocation(cfg.Location()),
	)
	progress := progressservice.New(st.progress,
		progressservice.WithLogger(log),
		progressservice.WithMetrics(progressmetrics.New()),
		progressservice.WithLevelTable(levels),
		progressservice.WithEligibility(eligibility),
	)
	badgeSvc := badgeservice.New(st.progress, missions, engine,
		badgeservice.WithLogger(log),
		badgeservice.WithMetrics(badgemetrics.New()),
		badgeservice.WithTracer(trc),
		badgeservice.WithEmitter(publisher),
	)
	issuer := token.New(cfg.Tokens.SigningKey, eligibility, ledger,
		token.WithTTL(cfg.Tokens.TTL),
		token.WithIssuerName(cfg.Tokens.Issuer),
		token.WithLogger(log),
		token.WithMetrics(tokenmetrics.New()),
		token.WithTracer(trc),
	)

	seed := seeder.New(st.missions, eligibility, log)
	if _, err := seed.SeedCatalog(ctx, catalog, time.Now()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if cfg.Environment == "dev" {
		if _, err := seed.SeedDemoUsers(ctx, progress); err != nil {
			return err
		}
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        metrics.New(),
		Health:         healthHandler,
		AdminToken:     cfg.AdminToken,
		RequestTimeout: cfg.RequestTimeout,
	},
		progresshandler.New(progress, log),
		missionhandler.New(missions, log),
		eligibilityhandler.New(eligibility, log),
		tokenhandler.New(issuer, log),
		badgehandler.New(badgeSvc, log),
		notificationhandler.New(notifications, log),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newStores picks Postgres when a pool is configured, memory otherwise.
func newStores(pool *database.Pool) stores {
	if pool != nil {
		db := pool.DB()
		return stores{
			progress:      progressstore.NewPostgres(db),
			missions:      missionstore.NewPostgres(db),
			rules:         eligibilitystore.NewPostgres(db),
			notifications: notificationstore.NewPostgres(db),
		}
	}
	return stores{
		progress:      progressstore.New(),
		missions:      missionstore.New(),
		rules:         eligibilitystore.New(),
		notifications: notificationstore.New(),
	}
}

func recordPoolStats(ctx context.Context, client *redis.Client) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.RecordPoolStats()
		}
	}
}
