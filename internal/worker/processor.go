package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/services"
	"github.com/jwebster45206/realm-engine/pkg/engine"
)

// DefaultJobTimeout bounds one portrait generation.
const DefaultJobTimeout = 2 * time.Minute

// AvatarProcessor turns one portrait job into a stored image and an avatar
// event for the owning session.
type AvatarProcessor struct {
	images services.ImageService
	store  services.AvatarStore
	events engine.AvatarQueue
	logger *slog.Logger
}

func NewAvatarProcessor(images services.ImageService, store services.AvatarStore, events engine.AvatarQueue, logger *slog.Logger) *AvatarProcessor {
	return &AvatarProcessor{
		images: images,
		store:  store,
		events: events,
		logger: logger,
	}
}

// Process generates, stores and announces one portrait.
func (p *AvatarProcessor) Process(ctx context.Context, sessionID uuid.UUID, job engine.AvatarJob) error {
	start := time.Now()

	data, contentType, err := p.images.GenerateImage(ctx, job.Prompt)
	if err != nil {
		return fmt.Errorf("failed to generate avatar for %s: %w", job.Name, err)
	}

	ref, err := p.store.PutAvatar(ctx, data, contentType)
	if err != nil {
		return fmt.Errorf("failed to store avatar for %s: %w", job.Name, err)
	}

	ev := engine.AvatarEvent{NPCID: job.NPCID, Seed: job.Seed, URL: ref}
	if err := p.events.Push(ctx, sessionID, ev); err != nil {
		return fmt.Errorf("failed to publish avatar for %s: %w", job.Name, err)
	}

	if p.logger != nil {
		p.logger.Info("Avatar generated",
			"session_id", sessionID.String(),
			"npc", job.Name,
			"ref", ref,
			"duration_ms", time.Since(start).Milliseconds())
	}
	return nil
}

// Scheduler hands portrait jobs off without blocking the turn.
type Scheduler interface {
	Schedule(ctx context.Context, sessionID uuid.UUID, jobs []engine.AvatarJob)
}

// AsyncScheduler runs each job on its own goroutine in this process.
// Failures are logged; the NPC keeps its placeholder.
type AsyncScheduler struct {
	processor *AvatarProcessor
	timeout   time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

var _ Scheduler = (*AsyncScheduler)(nil)

func NewAsyncScheduler(processor *AvatarProcessor, logger *slog.Logger) *AsyncScheduler {
	return &AsyncScheduler{
		processor: processor,
		timeout:   DefaultJobTimeout,
		logger:    logger,
	}
}

func (a *AsyncScheduler) Schedule(ctx context.Context, sessionID uuid.UUID, jobs []engine.AvatarJob) {
	for _, job := range jobs {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			// The turn that scheduled the job may finish first.
			jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
			defer cancel()
			if err := a.processor.Process(jobCtx, sessionID, job); err != nil && a.logger != nil {
				a.logger.Warn("Avatar job failed",
					"session_id", sessionID.String(),
					"npc", job.Name,
					"error", err)
			}
		}()
	}
}

// Wait blocks until every scheduled job has finished.
func (a *AsyncScheduler) Wait() {
	a.wg.Wait()
}
