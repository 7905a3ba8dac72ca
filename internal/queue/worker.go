package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// EnrichProcessor researches one campaign contact.
type EnrichProcessor interface {
	Enrich(ctx context.Context, campaignContactID, campaignID uuid.UUID) pipeline.Result
}

// DraftProcessor writes one email draft.
type DraftProcessor interface {
	Draft(ctx context.Context, campaignContactID, campaignID uuid.UUID) pipeline.Result
}

// SendProcessor delivers one approved email.
type SendProcessor interface {
	Send(ctx context.Context, campaignContactID uuid.UUID) pipeline.Result
}

// ReplyChecker reconciles sent threads against the mailbox.
type ReplyChecker interface {
	Run(ctx context.Context) pipeline.Result
}

// WorkerConfig is the configuration the queue worker needs.
type WorkerConfig interface {
	config.RedisConfig
	config.QueueConfig
}

// Worker consumes pipeline tasks and dispatches them to the processors.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates a worker serving the pipeline queue.
func NewWorker(cfg WorkerConfig, log *logger.Logger, enrich EnrichProcessor, draft DraftProcessor, send SendProcessor, replies ReplyChecker) (*Worker, error) {
	opt, err := redisConnOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetQueueConcurrency(),
		Queues:      map[string]int{cfg.GetQueueName(): 1},
	})

	w := &Worker{server: server, mux: asynq.NewServeMux(), log: log}

	w.mux.HandleFunc(TaskEnrich, func(ctx context.Context, t *asynq.Task) error {
		payload, err := ParseEnrichPayload(t)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return w.finish(TaskEnrich, payload.CampaignContactID.String(),
			enrich.Enrich(ctx, payload.CampaignContactID, payload.CampaignID))
	})
	w.mux.HandleFunc(TaskDraft, func(ctx context.Context, t *asynq.Task) error {
		payload, err := ParseDraftPayload(t)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return w.finish(TaskDraft, payload.CampaignContactID.String(),
			draft.Draft(ctx, payload.CampaignContactID, payload.CampaignID))
	})
	w.mux.HandleFunc(TaskSend, func(ctx context.Context, t *asynq.Task) error {
		payload, err := ParseSendPayload(t)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return w.finish(TaskSend, payload.CampaignContactID.String(),
			send.Send(ctx, payload.CampaignContactID))
	})
	w.mux.HandleFunc(TaskCheckReplies, func(ctx context.Context, t *asynq.Task) error {
		return w.finish(TaskCheckReplies, "", replies.Run(ctx))
	})

	return w, nil
}

// finish translates a processor result into the worker's retry contract:
// nil means done, a plain error gets redelivered, and SkipRetry drops the
// task after this attempt.
func (w *Worker) finish(task, campaignContactID string, r pipeline.Result) error {
	if r.Success {
		w.log.JobEvent(task, campaignContactID, "completed")
		return nil
	}
	w.log.JobError(task, campaignContactID, r.Err, r.Retryable)
	if r.Retryable {
		return r.Err
	}
	return fmt.Errorf("%v: %w", r.Err, asynq.SkipRetry)
}

// Run serves tasks until the context is cancelled, then drains in-flight
// handlers before returning.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()
	return w.server.Run(w.mux)
}
