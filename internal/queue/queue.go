package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"esklenchen/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// LeadQueue is an in-memory queue of lead batches awaiting persistence.
type LeadQueue struct {
	items    chan []models.Lead
	done     chan struct{}
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]models.Lead) error
}

// NewLeadQueue creates a new lead queue with the specified buffer size
func NewLeadQueue(bufferSize int, logger *logrus.Logger) *LeadQueue {
	return &LeadQueue{
		items:    make(chan []models.Lead, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]models.Lead) error, 0),
	}
}

// Push adds a batch of leads to the queue without blocking.
func (q *LeadQueue) Push(leads []models.Lead) error {
	// Held across the send so Close cannot close the channel underneath us.
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- leads:
		q.logger.WithField("batch_size", len(leads)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *LeadQueue) Subscribe(handler func([]models.Lead) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *LeadQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.process()
}

// process runs until the queue is closed and every pending batch is handled
func (q *LeadQueue) process() {
	defer close(q.done)
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *LeadQueue) processBatch(batch []models.Lead) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops accepting new batches. Batches already queued are still handed
// to the subscribers; use Wait to block until they are.
func (q *LeadQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.items)
	if !q.started {
		close(q.done)
	}
	return nil
}

// Wait blocks until a closed queue has drained.
func (q *LeadQueue) Wait() {
	<-q.done
}

// Len returns the current number of batches in the queue
func (q *LeadQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *LeadQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
