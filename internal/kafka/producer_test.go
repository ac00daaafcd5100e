package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/offercheck/internal/domain"
)

func TestNewReportEvent(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	report := &domain.Report{
		ID:     "4a7c",
		Digest: "d1",
		Status: domain.StatusInvalid,
		Violations: []domain.Violation{
			domain.Errorf(domain.RuleDanglingReference, "a", "x"),
			domain.Errorf(domain.RuleDanglingReference, "b", "y"),
			domain.Warnf(domain.RuleCurrencyMismatch, "c", "z"),
		},
		CreatedAt: created,
	}

	event := NewReportEvent(report)

	assert.Equal(t, EventReportCreated, event.Type)
	assert.Equal(t, "4a7c", event.ReportID)
	assert.Equal(t, "Invalid", event.Status)
	assert.Equal(t, 3, event.Violations)
	assert.Equal(t, map[string]int{domain.RuleDanglingReference: 2, domain.RuleCurrencyMismatch: 1}, event.ByRule)
	assert.Equal(t, created, event.CreatedAt)
}

func TestEncode(t *testing.T) {
	raw := []byte(`{"flightOffers":[]}`)
	data, err := encode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = encode(ReportEvent{Type: EventReportCreated, ReportID: "1"})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1", decoded["report_id"])
	assert.NotContains(t, decoded, "by_rule")
}

func TestConsumer_CloseNil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func TestPublishWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after failures", func(t *testing.T) {
		pub := &MockPublisher{}
		pub.On("Publish", ctx, "reports", "k", "v").Return(errors.New("broker down")).Once()
		pub.On("Publish", ctx, "reports", "k", "v").Return(nil).Once()

		require.NoError(t, PublishWithRetry(ctx, pub, "reports", "k", "v", 3, time.Millisecond))
		pub.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("gives up", func(t *testing.T) {
		pub := &MockPublisher{}
		cause := errors.New("broker down")
		pub.On("Publish", ctx, "reports", "k", "v").Return(cause)

		err := PublishWithRetry(ctx, pub, "reports", "k", "v", 3, time.Millisecond)

		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed after 3 attempts")
		pub.AssertNumberOfCalls(t, "Publish", 3)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		pub := &MockPublisher{}
		pub.On("Publish", ctx, "reports", "k", "v").Return(nil).Once()

		require.NoError(t, PublishWithRetry(ctx, pub, "reports", "k", "v", 0, time.Millisecond))
		pub.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("stops on cancel", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		pub := &MockPublisher{}
		pub.On("Publish", cctx, "reports", "k", "v").Return(errors.New("broker down"))

		err := PublishWithRetry(cctx, pub, "reports", "k", "v", 5, time.Hour)

		require.ErrorIs(t, err, context.Canceled)
		pub.AssertNumberOfCalls(t, "Publish", 1)
	})
}
