package events

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Handler consumes a single prediction event.
type Handler func(models.PredictionEvent) error

// Queue is an in-memory buffer of prediction events. Producers never block;
// subscribers run on a single background goroutine.
type Queue struct {
	items    chan models.PredictionEvent
	done     chan struct{}
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []Handler
}

// NewQueue creates a new event queue with the specified buffer size
func NewQueue(bufferSize int, logger *logrus.Logger) *Queue {
	if logger == nil {
		logger = logrus.New()
	}
	return &Queue{
		items:    make(chan models.PredictionEvent, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]Handler, 0),
	}
}

// Push adds an event to the queue
func (q *Queue) Push(event models.PredictionEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send so the request path never waits on subscribers
	select {
	case q.items <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each event
func (q *Queue) Subscribe(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing events in the queue
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	q.wg.Add(1)
	go q.process()
}

func (q *Queue) process() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			q.drain()
			return
		case event := <-q.items:
			q.dispatch(event)
		}
	}
}

// drain delivers whatever was buffered before Close.
func (q *Queue) drain() {
	for {
		select {
		case event := <-q.items:
			q.dispatch(event)
		default:
			return
		}
	}
}

func (q *Queue) dispatch(event models.PredictionEvent) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			q.logger.WithError(err).Error("Handler failed to process event")
		}
	}
}

// Close stops the queue, delivers buffered events and rejects new ones
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len returns the current number of buffered events
func (q *Queue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
