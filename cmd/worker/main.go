package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	campaignrepo "outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/drafting"
	"outreach_backend/internal/enrichment"
	"outreach_backend/internal/gmail"
	gmailrepo "outreach_backend/internal/gmail/repository"
	productrepo "outreach_backend/internal/products/repository"
	"outreach_backend/internal/queue"
	"outreach_backend/internal/sending"
	"outreach_backend/platform/config"
	"outreach_backend/platform/db"
	"outreach_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.QueueName, "concurrency", cfg.QueueConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	campaignRepo := campaignrepo.New(pool)
	productRepo := productrepo.New(pool)

	// Tasks for an unconfigured API fail with provider errors, so make the
	// misconfiguration visible up front.
	if !cfg.IsEnrichmentEnabled() {
		log.Warn("enrichment not configured", "reason", "EXA_API_KEY not set")
	}
	if !cfg.IsDraftingEnabled() {
		log.Warn("drafting not configured", "reason", "ANTHROPIC_API_KEY not set")
	}

	exa := enrichment.NewExaClient(cfg, log)
	enrichProcessor := enrichment.NewProcessor(campaignRepo, exa, productRepo, log)

	draftGen := drafting.NewClient(cfg)
	draftProcessor := drafting.NewProcessor(campaignRepo, productRepo, draftGen, log)

	oauth := gmail.NewOAuth(cfg)
	resolver := gmail.NewResolver(gmailrepo.New(pool), oauth)
	mailer := gmail.NewClient()
	sendProcessor := sending.NewProcessor(campaignRepo, resolver, mailer, log)
	reconciler := sending.NewReconciler(campaignRepo, resolver, mailer, log)

	worker, err := queue.NewWorker(cfg, log, enrichProcessor, draftProcessor, sendProcessor, reconciler)
	if err != nil {
		log.Error("failed to initialize queue worker", "error", err)
		panic("failed to initialize queue worker: " + err.Error())
	}

	queueClient, err := queue.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize queue client", "error", err)
		panic("failed to initialize queue client: " + err.Error())
	}
	defer queueClient.Close()

	// Periodically schedule a reply sweep so replies land without a manual
	// trigger. The sweep itself runs as a regular queue task. Without Gmail
	// credentials the sweep could never read a thread, so skip the ticker.
	if cfg.IsGmailEnabled() {
		go func() {
			ticker := time.NewTicker(cfg.GetReplyCheckInterval())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := queueClient.EnqueueReplyCheck(ctx); err != nil {
						log.Error("failed to enqueue reply check", "error", err)
					}
				}
			}
		}()
	} else {
		log.Warn("reply sweep disabled", "reason", "GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET not set")
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("worker stopped", "error", err)
		panic("worker stopped: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
