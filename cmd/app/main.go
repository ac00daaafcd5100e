package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/offercheck/config"
	"github.com/Domenick1991/offercheck/internal/bootstrap"
	"github.com/Domenick1991/offercheck/internal/cache"
	"github.com/Domenick1991/offercheck/internal/engine"
	"github.com/Domenick1991/offercheck/internal/kafka"
	"github.com/Domenick1991/offercheck/internal/logging"
	"github.com/Domenick1991/offercheck/internal/repository"
	"github.com/Domenick1991/offercheck/internal/service/offers"
	"github.com/Domenick1991/offercheck/internal/validation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.Init(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rules, err := validation.RulesByID(cfg.Engine.Rules, validation.Settings{PriceTolerance: cfg.Engine.PriceToleranceMinorUnits})
	if err != nil {
		log.Fatalf("configure rules: %v", err)
	}
	eng := engine.New(validation.NewValidator(rules...))
	log.WithField("rules", eng.RuleIDs()).Info("validation engine ready")

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.TTL())
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable, results will not be cached until it recovers")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	offerService := offers.NewOfferService(
		eng,
		repository.NewReportRepository(pool),
		offers.WithCache(redisCache),
		offers.WithProducer(producer, cfg.Kafka.ReportsTopic),
		offers.WithPublishRetries(cfg.Kafka.PublishRetries, cfg.Kafka.PublishBackoff()),
		offers.WithConcurrency(cfg.Engine.MaxBatchConcurrency),
	)

	if err := bootstrap.Run(ctx, cfg, offerService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
