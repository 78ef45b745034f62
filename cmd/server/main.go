package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	complaintservice "nammasev/internal/complaint/service"
	complaintmemory "nammasev/internal/complaint/store/memory"
	complaintpg "nammasev/internal/complaint/store/postgres"
	feedbackservice "nammasev/internal/feedback/service"
	feedbackmemory "nammasev/internal/feedback/store/memory"
	feedbackpg "nammasev/internal/feedback/store/postgres"
	"nammasev/internal/jwttoken"
	"nammasev/internal/listing/cache"
	listingservice "nammasev/internal/listing/service"
	listingmemory "nammasev/internal/listing/store/memory"
	listingpg "nammasev/internal/listing/store/postgres"
	"nammasev/internal/platform/config"
	"nammasev/internal/platform/httpserver"
	"nammasev/internal/platform/logger"
	"nammasev/internal/platform/metrics"
	"nammasev/internal/platform/postgres"
	"nammasev/internal/platform/redis"
	httptransport "nammasev/internal/transport/http"
	"nammasev/pkg/platform/audit"
	"nammasev/pkg/platform/audit/relay"
	auditmemory "nammasev/pkg/platform/audit/store/memory"
	auditpg "nammasev/pkg/platform/audit/store/postgres"
	"nammasev/pkg/platform/tx"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
//
// Without a Postgres DSN the service runs fully in memory, which is how
// local demos and handler tests operate. With one, complaints, feedback
// and the audit outbox go to Postgres, and the outbox relay ships audit
// events to Kafka when brokers are configured.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)

	var (
		complaintStore complaintservice.Store
		feedbackStore  feedbackservice.Store
		listingStore   listingservice.ComplaintQueries
		feedbackReader listingservice.FeedbackReader
		auditStore     audit.Store
		txRunner       tx.Runner = tx.Passthrough{}
		health         []httptransport.HealthChecker
	)

	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}

		complaintStore = complaintpg.New(db)
		feedbackStore = feedbackpg.New(db)
		listingStore = listingpg.New(db)
		feedbackReader = feedbackpg.New(db)
		auditStore = auditpg.New(db)
		txRunner = tx.SQLRunner{DB: db}
		health = append(health, dbHealth{db: db})

		if len(cfg.Kafka.Brokers) > 0 {
			producer, err := relay.NewKafkaProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
			if err != nil {
				log.Error("kafka connection failed", "error", err)
				os.Exit(1)
			}
			defer producer.Close()

			outboxRelay := relay.New(db, producer, cfg.Kafka.RelayPeriod, cfg.Kafka.RelayBatch, log)
			go func() {
				if err := outboxRelay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("outbox relay stopped", "error", err)
				}
			}()
		}
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		complaintMem := complaintmemory.New()
		feedbackMem := feedbackmemory.New()
		complaintStore = complaintMem
		feedbackStore = feedbackMem
		listingStore = listingmemory.New(complaintMem, feedbackMem)
		feedbackReader = feedbackMem
		auditStore = auditmemory.NewInMemoryStore()
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		health = append(health, redisClient)
	}
	statsCache := cache.New(redisClient, cfg.StatsCacheTTL,
		cache.WithLogger(log),
		cache.WithMetrics(m),
	)

	auditPublisher := audit.NewPublisher(auditStore, audit.WithLogger(log))

	complaints := complaintservice.New(
		complaintStore,
		complaintservice.NewTrackingGenerator(cfg.TrackingPrefix),
		complaintservice.WithLogger(log),
		complaintservice.WithAuditPublisher(auditPublisher),
		complaintservice.WithMetrics(m),
		complaintservice.WithCacheInvalidator(statsCache),
		complaintservice.WithTxRunner(txRunner),
	)
	feedback := feedbackservice.New(
		feedbackStore,
		complaintStore,
		feedbackservice.WithLogger(log),
		feedbackservice.WithAuditPublisher(auditPublisher),
		feedbackservice.WithMetrics(m),
		feedbackservice.WithTxRunner(txRunner),
	)
	listing := listingservice.New(
		listingStore,
		feedbackReader,
		listingservice.WithLogger(log),
		listingservice.WithStatsCache(statsCache),
		listingservice.WithMaxPageSize(cfg.MaxPageSize),
	)

	validator := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	handler := httptransport.NewHandler(complaints, feedback, listing, log, health...)
	router := httptransport.NewRouter(handler, validator, m)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting nammasev", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
