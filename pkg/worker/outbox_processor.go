package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository"
	"github.com/petminded/petcare-api/pkg/logger"
	"github.com/petminded/petcare-api/pkg/messaging"
	"github.com/petminded/petcare-api/pkg/metrics"
)

// Channel is the broker channel booking lifecycle events are published on.
const Channel = "booking.events"

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// OutboxProcessor drains pending outbox events and publishes them to the
// broker. Events are appended transactionally with the booking transition
// they record, so the stream never mentions a transition that rolled back.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	tx      repository.TxRunner
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	tx repository.TxRunner,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}

	return &OutboxProcessor{
		repo:    repo,
		tx:      tx,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	// The row locks from FOR UPDATE SKIP LOCKED have to live in one
	// transaction with the status updates, so competing workers skip
	// batches already being drained.
	return p.tx.WithinTx(ctx, func(ctx context.Context) error {
		events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
		if err != nil {
			p.countDB("outbox_fetch", "error")
			return fmt.Errorf("failed to get pending events: %w", err)
		}
		p.countDB("outbox_fetch", "success")

		for _, event := range events {
			if err := p.publishEvent(ctx, event); err != nil {
				p.metrics.OutboxEventsFailed.Inc()
				p.logger.Error(err, "failed to publish event", "event_id", event.ID)
				if err := p.repo.MarkFailed(ctx, event.ID, err.Error()); err != nil {
					p.countDB("outbox_mark", "error")
					return fmt.Errorf("failed to mark event failed: %w", err)
				}
				p.countDB("outbox_mark", "success")
				continue
			}

			if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
				p.countDB("outbox_mark", "error")
				return fmt.Errorf("failed to mark event processed: %w", err)
			}
			p.countDB("outbox_mark", "success")
			p.metrics.OutboxEventsProcessed.Inc()
		}
		return nil
	})
}

func (p *OutboxProcessor) publishEvent(ctx context.Context, event *model.OutboxEvent) error {
	return p.broker.Publish(ctx, Channel, event)
}

func (p *OutboxProcessor) countDB(operation, status string) {
	p.metrics.DatabaseOperations.WithLabelValues(operation, status).Inc()
}
