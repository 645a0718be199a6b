package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"esklenchen/server/config"
	"esklenchen/server/internal/leads"
	"esklenchen/server/internal/metrics"
	"esklenchen/server/internal/models"
	"esklenchen/server/internal/queue"
)

// LeadProcessor persists the lead batches published on a LeadQueue
type LeadProcessor struct {
	store   leads.Store
	logger  *logrus.Logger
	config  *config.Config
	queue   *queue.LeadQueue
	metrics *metrics.Metrics
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewLeadProcessor creates a new lead processor instance
func NewLeadProcessor(store leads.Store, queue *queue.LeadQueue, config *config.Config, m *metrics.Metrics, logger *logrus.Logger) *LeadProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &LeadProcessor{
		store:   store,
		queue:   queue,
		config:  config,
		metrics: m,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start subscribes the processor to the queue
func (p *LeadProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
}

// Stop aborts any retry in progress
func (p *LeadProcessor) Stop() {
	p.cancel()
}

// processBatch saves a single batch of leads with retry logic
func (p *LeadProcessor) processBatch(batch []models.Lead) error {
	retryDelay := time.Duration(p.config.Leads.RetryDelayMs) * time.Millisecond

	var err error
	for attempt := 0; attempt <= p.config.Leads.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying lead batch, attempt %d of %d", attempt, p.config.Leads.MaxRetries)
			select {
			case <-p.ctx.Done():
				p.metrics.ObserveLeadFailures(len(batch))
				return fmt.Errorf("lead batch abandoned: %w", p.ctx.Err())
			case <-time.After(retryDelay):
			}
		}

		if err = p.store.Save(p.ctx, batch); err == nil {
			p.logger.Infof("Successfully stored batch of %d leads", len(batch))
			for _, lead := range batch {
				p.metrics.ObserveLead(string(lead.Kind))
			}
			return nil
		}

		p.logger.WithError(err).Error("Lead batch processing failed")
	}

	p.metrics.ObserveLeadFailures(len(batch))
	return fmt.Errorf("failed to store lead batch after %d attempts: %w", p.config.Leads.MaxRetries+1, err)
}
