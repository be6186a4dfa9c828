package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/services/queue"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	queuePkg "github.com/jwebster45206/realm-engine/pkg/queue"
)

const (
	workerTimeout = 5 * time.Second
)

// Worker processes portrait jobs from the shared Redis queue
type Worker struct {
	id        string
	queue     *queue.AvatarQueue
	processor *AvatarProcessor
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new worker instance
func New(q *queue.AvatarQueue, processor *AvatarProcessor, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:        workerID,
		queue:     q,
		processor: processor,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next job from the queue and processes it
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeueJob(w.ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}

	if req == nil {
		// Timeout; loop to check for shutdown
		return nil
	}

	return w.processRequest(req)
}

func (w *Worker) processRequest(req *queuePkg.AvatarRequest) error {
	w.log.Info("Processing avatar request",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"session_id", req.SessionID.String(),
		"npc", req.Job.Name,
		"queued_ms", time.Since(req.EnqueuedAt).Milliseconds(),
	)

	ctx, cancel := context.WithTimeout(w.ctx, DefaultJobTimeout)
	defer cancel()

	if err := w.processor.Process(ctx, req.SessionID, req.Job); err != nil {
		return fmt.Errorf("request %s: %w", req.RequestID, err)
	}
	return nil
}

// QueueScheduler hands jobs to out-of-process workers through Redis.
type QueueScheduler struct {
	queue  *queue.AvatarQueue
	logger *slog.Logger
}

var _ Scheduler = (*QueueScheduler)(nil)

func NewQueueScheduler(q *queue.AvatarQueue, logger *slog.Logger) *QueueScheduler {
	return &QueueScheduler{queue: q, logger: logger}
}

func (s *QueueScheduler) Schedule(ctx context.Context, sessionID uuid.UUID, jobs []engine.AvatarJob) {
	for _, job := range jobs {
		if err := s.queue.EnqueueJob(ctx, queuePkg.NewAvatarRequest(sessionID, job)); err != nil && s.logger != nil {
			s.logger.Warn("Failed to enqueue avatar job",
				"session_id", sessionID.String(),
				"npc", job.Name,
				"error", err)
		}
	}
}
