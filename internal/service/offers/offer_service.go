package offers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/engine"
	"github.com/Domenick1991/offercheck/internal/kafka"
	"github.com/Domenick1991/offercheck/internal/metrics"
	"github.com/Domenick1991/offercheck/internal/repository"
)

var ErrNoReportStore = errors.New("report store is not configured")

type OfferUseCase interface {
	Validate(ctx context.Context, raw []byte) (*domain.Outcome, error)
	ValidateBatch(ctx context.Context, payloads [][]byte) ([]BatchItem, error)
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	PurgeReports(ctx context.Context, before time.Time) (int64, error)
}

// Runner is the validation pipeline; *engine.Engine implements it.
type Runner interface {
	Run(raw []byte) (*engine.Result, error)
}

type Cache interface {
	GetOutcome(ctx context.Context, digest string) (*domain.Outcome, error)
	SetOutcome(ctx context.Context, digest string, outcome *domain.Outcome) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BatchItem is the result for one payload of a batch. Exactly one of
// Outcome and Error is set.
type BatchItem struct {
	Outcome *domain.Outcome `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type OfferService struct {
	engine       Runner
	reports      repository.ReportRepository
	cache        Cache
	producer     Producer
	reportsTopic string
	publishTries int
	publishWait  time.Duration
	concurrency  int
	source       string
	now          func() time.Time
	newID        func() string
}

type OfferServiceOption func(*OfferService)

func WithCache(cache Cache) OfferServiceOption {
	return func(s *OfferService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) OfferServiceOption {
	return func(s *OfferService) {
		s.producer = producer
		s.reportsTopic = topic
	}
}

// WithPublishRetries makes up to attempts tries per report event,
// backing off linearly from backoff between them.
func WithPublishRetries(attempts int, backoff time.Duration) OfferServiceOption {
	return func(s *OfferService) {
		if attempts > 0 {
			s.publishTries = attempts
		}
		s.publishWait = backoff
	}
}

func WithConcurrency(n int) OfferServiceOption {
	return func(s *OfferService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithSource labels metrics and logs with where payloads come from.
func WithSource(source string) OfferServiceOption {
	return func(s *OfferService) {
		s.source = source
	}
}

// NewOfferService wires the pipeline. reports may be nil, in which case
// reports are not stored and GetReport fails with ErrNoReportStore.
func NewOfferService(runner Runner, reports repository.ReportRepository, opts ...OfferServiceOption) *OfferService {
	service := &OfferService{
		engine:       runner,
		reports:      reports,
		concurrency:  8,
		publishTries: 1,
		publishWait:  500 * time.Millisecond,
		source:       "http",
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Validate runs one payload through the engine. Storing, publishing and
// caching are best effort: their failures are logged and counted, the
// outcome is still returned.
func (s *OfferService) Validate(ctx context.Context, raw []byte) (*domain.Outcome, error) {
	digest := Digest(raw)
	log := logrus.WithFields(logrus.Fields{"digest": digest, "source": s.source})

	if s.cache != nil {
		cached, err := s.cache.GetOutcome(ctx, digest)
		switch {
		case err != nil:
			metrics.InfraFailures.WithLabelValues("cache_get").Inc()
			log.WithError(err).Warn("result cache lookup failed")
		case cached != nil:
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			log.WithField("report_id", cached.Report.ID).Debug("served from cache")
			return cached, nil
		default:
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
	}

	started := time.Now()
	result, err := s.engine.Run(raw)
	metrics.ValidationDuration.WithLabelValues(s.source).Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, fmt.Errorf("validate payload: %w", err)
	}

	outcome := &domain.Outcome{Report: result.Report, Canonical: result.Canonical}
	report := &outcome.Report
	report.ID = s.newID()
	report.Digest = digest
	report.CreatedAt = s.now().UTC()

	metrics.ValidationsTotal.WithLabelValues(string(report.Status), s.source).Inc()
	for _, v := range report.Violations {
		metrics.ViolationsTotal.WithLabelValues(v.RuleID, string(v.Severity)).Inc()
	}

	log = log.WithFields(logrus.Fields{
		"report_id":  report.ID,
		"status":     report.Status,
		"violations": len(report.Violations),
	})

	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			metrics.InfraFailures.WithLabelValues("store").Inc()
			log.WithError(err).Error("failed to store report")
		}
	}
	if err := s.publish(ctx, report); err != nil {
		metrics.InfraFailures.WithLabelValues("publish").Inc()
		log.WithError(err).Error("failed to publish report event")
	}
	if s.cache != nil {
		if err := s.cache.SetOutcome(ctx, digest, outcome); err != nil {
			metrics.InfraFailures.WithLabelValues("cache_set").Inc()
			log.WithError(err).Warn("failed to cache result")
		}
	}

	log.Info("payload validated")
	return outcome, nil
}

// ValidateBatch validates payloads in parallel, at most concurrency at a
// time. Items keep the input order; a bad payload fails only its item.
func (s *OfferService) ValidateBatch(ctx context.Context, payloads [][]byte) ([]BatchItem, error) {
	items := make([]BatchItem, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, raw := range payloads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i] = BatchItem{Error: err.Error()}
				return nil
			}
			outcome, err := s.Validate(gctx, raw)
			if err != nil {
				items[i] = BatchItem{Error: err.Error()}
				return nil
			}
			items[i] = BatchItem{Outcome: outcome}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *OfferService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	if s.reports == nil {
		return nil, ErrNoReportStore
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", repository.ErrReportNotFound, id)
	}
	return s.reports.GetByID(ctx, id)
}

// PurgeReports deletes stored reports created before the cutoff.
func (s *OfferService) PurgeReports(ctx context.Context, before time.Time) (int64, error) {
	if s.reports == nil {
		return 0, ErrNoReportStore
	}
	n, err := s.reports.DeleteBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge reports: %w", err)
	}
	logrus.WithFields(logrus.Fields{"before": before, "deleted": n}).Info("purged reports")
	return n, nil
}

func (s *OfferService) publish(ctx context.Context, report *domain.Report) error {
	if s.producer == nil || s.reportsTopic == "" {
		return nil
	}
	return kafka.PublishWithRetry(ctx, s.producer, s.reportsTopic, report.ID, kafka.NewReportEvent(report), s.publishTries, s.publishWait)
}

// Digest identifies a raw payload for caching and auditing.
func Digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

var _ OfferUseCase = (*OfferService)(nil)
