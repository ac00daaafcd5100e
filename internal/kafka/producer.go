package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/offercheck/internal/domain"
)

// ReportEvent is published for every produced validation report.
type ReportEvent struct {
	Type       string         `json:"type"`
	ReportID   string         `json:"report_id"`
	Digest     string         `json:"digest"`
	Status     string         `json:"status"`
	Violations int            `json:"violations"`
	ByRule     map[string]int `json:"by_rule,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

const EventReportCreated = "report_created"

func NewReportEvent(report *domain.Report) ReportEvent {
	byRule := make(map[string]int)
	for _, v := range report.Violations {
		byRule[v.RuleID]++
	}
	return ReportEvent{
		Type:       EventReportCreated,
		ReportID:   report.ID,
		Digest:     report.Digest,
		Status:     string(report.Status),
		Violations: len(report.Violations),
		ByRule:     byRule,
		CreatedAt:  report.CreatedAt,
	}
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

// Publish writes payload as JSON. Raw byte payloads are written as is.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := encode(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	logrus.WithFields(logrus.Fields{"topic": topic, "key": key, "bytes": len(data)}).Debug("published to kafka")
	return nil
}

func encode(payload interface{}) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(payload)
	}
}

// Publisher writes one message; *Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// PublishWithRetry makes up to attempts calls to pub.Publish, waiting
// backoff, then twice backoff and so on between them.
func PublishWithRetry(ctx context.Context, pub Publisher, topic, key string, payload interface{}, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := pub.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		logrus.WithError(err).WithFields(logrus.Fields{"topic": topic, "attempt": i + 1}).Warn("kafka publish failed")

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * backoff):
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	logrus.WithField("partitions", len(partitions)).Info("connected to kafka")
	return nil
}

var _ Publisher = (*Producer)(nil)
