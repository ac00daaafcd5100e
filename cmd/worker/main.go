package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/offercheck/config"
	"github.com/Domenick1991/offercheck/internal/cache"
	"github.com/Domenick1991/offercheck/internal/engine"
	"github.com/Domenick1991/offercheck/internal/kafka"
	"github.com/Domenick1991/offercheck/internal/logging"
	"github.com/Domenick1991/offercheck/internal/repository"
	"github.com/Domenick1991/offercheck/internal/schema"
	"github.com/Domenick1991/offercheck/internal/service/offers"
	"github.com/Domenick1991/offercheck/internal/validation"
)

// The worker validates search responses arriving on the raw offers topic
// and purges expired reports on a schedule.
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.WithError(err).Warn("kafka check failed")
	}

	offerService := offers.NewOfferService(
		engine.New(validation.NewValidator(rules...)),
		repository.NewReportRepository(pool),
		offers.WithCache(redisCache),
		offers.WithProducer(producer, cfg.Kafka.ReportsTopic),
		offers.WithPublishRetries(cfg.Kafka.PublishRetries, cfg.Kafka.PublishBackoff()),
		offers.WithSource("kafka"),
	)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Worker.RetentionCron, func() {
		cutoff := time.Now().Add(-cfg.Worker.Retention())
		if _, err := offerService.PurgeReports(ctx, cutoff); err != nil {
			log.WithError(err).Error("purge reports")
		}
	}); err != nil {
		log.Fatalf("schedule retention %q: %v", cfg.Worker.RetentionCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.RawOffersTopic)
	defer consumer.Close()

	log.WithField("topic", cfg.Kafka.RawOffersTopic).Info("worker started")

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		entry := log.WithFields(logrus.Fields{"partition": msg.Partition, "offset": msg.Offset})
		if _, err := offerService.Validate(ctx, msg.Value); err != nil {
			if errors.Is(err, schema.ErrMalformedDocument) {
				entry.WithError(err).Warn("skipping malformed message")
				return nil
			}
			entry.WithError(err).Error("validate message")
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("consumer stopped")
	}
	log.Info("worker stopped")
}
