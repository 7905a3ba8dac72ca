package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"outreach_backend/platform/config"
)

const maxRetry = 5

// ClientConfig is the configuration the queue client needs.
type ClientConfig interface {
	config.RedisConfig
	config.QueueConfig
}

// Client enqueues pipeline tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates a queue client from the Redis URL.
func NewClient(cfg ClientConfig) (*Client, error) {
	opt, err := redisConnOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetQueueName(),
	}, nil
}

func redisConnOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// EnqueueEnrich queues research for a campaign contact.
func (c *Client) EnqueueEnrich(ctx context.Context, campaignContactID, campaignID uuid.UUID) error {
	task, err := NewEnrichTask(EnrichPayload{CampaignContactID: campaignContactID, CampaignID: campaignID})
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(maxRetry)); err != nil {
		return fmt.Errorf("enqueue enrich: %w", err)
	}
	return nil
}

// EnqueueDraft queues email drafting for a campaign contact.
func (c *Client) EnqueueDraft(ctx context.Context, campaignContactID, campaignID uuid.UUID) error {
	task, err := NewDraftTask(DraftPayload{CampaignContactID: campaignContactID, CampaignID: campaignID})
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(maxRetry)); err != nil {
		return fmt.Errorf("enqueue draft: %w", err)
	}
	return nil
}

// EnqueueSend queues the approved email for delivery after the given delay.
// The delay staggers a batch so the mailbox does not burst.
func (c *Client) EnqueueSend(ctx context.Context, campaignContactID uuid.UUID, delay time.Duration) error {
	task, err := NewSendTask(SendPayload{CampaignContactID: campaignContactID})
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(c.queue), asynq.MaxRetry(maxRetry)}
	if delay > 0 {
		opts = append(opts, asynq.ProcessIn(delay))
	}
	if _, err := c.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue send: %w", err)
	}
	return nil
}

// EnqueueReplyCheck queues one reconciliation sweep of sent threads.
func (c *Client) EnqueueReplyCheck(ctx context.Context) error {
	if _, err := c.client.EnqueueContext(ctx, NewCheckRepliesTask(), asynq.Queue(c.queue), asynq.MaxRetry(maxRetry)); err != nil {
		return fmt.Errorf("enqueue reply check: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
