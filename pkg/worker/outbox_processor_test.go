package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/pkg/logger"
	"github.com/petminded/petcare-api/pkg/metrics"
)

// promauto registers globally, so the metrics instance is shared across
// tests in this package.
var testMetrics = metrics.NewMetrics("petcare_worker_test")

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOutboxRepo struct {
	events    []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
}

func (r *fakeOutboxRepo) Append(ctx context.Context, e *model.OutboxEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	var out []*model.OutboxEvent
	for _, e := range r.events {
		if e.Status != model.OutboxStatusPending {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	for _, e := range r.events {
		if e.ID == id {
			e.Status = model.OutboxStatusProcessed
		}
	}
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	if r.failed == nil {
		r.failed = map[uuid.UUID]string{}
	}
	r.failed[id] = errMsg
	return nil
}

type fakeBroker struct {
	published []string
	failOn    string
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	event := message.(*model.OutboxEvent)
	if event.EventType == b.failOn {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, event.EventType)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Status:    model.OutboxStatusPending,
	}
}

func newProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, fakeTx{}, broker, OutboxProcessorConfig{BatchSize: 10}, logger.NewLogger(nil), testMetrics)
}

func TestProcessEvents(t *testing.T) {
	repo := &fakeOutboxRepo{events: []*model.OutboxEvent{
		pendingEvent("booking.pending"),
		pendingEvent("booking.accepted"),
	}}
	broker := &fakeBroker{}
	p := newProcessor(repo, broker)

	fetches := testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_fetch", "success"))
	marks := testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_mark", "success"))

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{"booking.pending", "booking.accepted"}, broker.published)
	assert.Len(t, repo.processed, 2)
	assert.Empty(t, repo.failed)

	assert.Equal(t, fetches+1, testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_fetch", "success")))
	assert.Equal(t, marks+2, testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_mark", "success")))
}

// A publish failure marks that event failed and keeps draining the batch.
func TestProcessEventsPublishFailure(t *testing.T) {
	bad := pendingEvent("booking.accepted")
	repo := &fakeOutboxRepo{events: []*model.OutboxEvent{
		pendingEvent("booking.pending"),
		bad,
		pendingEvent("booking.completed"),
	}}
	broker := &fakeBroker{failOn: "booking.accepted"}
	p := newProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{"booking.pending", "booking.completed"}, broker.published)
	assert.Len(t, repo.processed, 2)
	assert.Contains(t, repo.failed, bad.ID)
}

func TestProcessEventsEmptyBatch(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := &fakeBroker{}
	p := newProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published)
}

func TestProcessEventsRespectsBatchSize(t *testing.T) {
	repo := &fakeOutboxRepo{}
	for i := 0; i < 5; i++ {
		repo.events = append(repo.events, pendingEvent("booking.pending"))
	}
	broker := &fakeBroker{}
	p := NewOutboxProcessor(repo, fakeTx{}, broker, OutboxProcessorConfig{BatchSize: 2}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Len(t, broker.published, 2)
}
