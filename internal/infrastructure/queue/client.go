package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer là contract domain services dùng để đẩy background job.
// Chỉ dùng cho side effect idempotent (xóa asset, tạo thumbnail), không cho write nghiệp vụ.
type Enqueuer interface {
	DeleteAssetPrefix(ctx context.Context, prefix, reason string) error
	DeleteAssetKeys(ctx context.Context, keys []string, reason string) error
	GenerateThumbnails(ctx context.Context, outfitID uuid.UUID, keys []string) error
}

// Options cho task enqueue
type Options struct {
	MaxRetry          int
	ThumbnailMaxRetry int
	CleanupDelay      time.Duration // delay trước khi xóa asset (0 = ngay)
}

// TaskClient enqueue task vào asynq (Redis)
type TaskClient struct {
	client *asynq.Client
	opts   Options
}

var _ Enqueuer = (*TaskClient)(nil)

func NewTaskClient(client *asynq.Client, opts Options) *TaskClient {
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 5
	}
	if opts.ThumbnailMaxRetry <= 0 {
		opts.ThumbnailMaxRetry = 3
	}
	return &TaskClient{client: client, opts: opts}
}

func (c *TaskClient) DeleteAssetPrefix(ctx context.Context, prefix, reason string) error {
	if prefix == "" {
		return fmt.Errorf("enqueue %s: empty prefix", TypeDeleteAssetPrefix)
	}
	return c.enqueue(ctx, TypeDeleteAssetPrefix, DeleteAssetPrefixPayload{Prefix: prefix, Reason: reason},
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(c.opts.MaxRetry),
		asynq.ProcessIn(c.opts.CleanupDelay),
	)
}

func (c *TaskClient) DeleteAssetKeys(ctx context.Context, keys []string, reason string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.enqueue(ctx, TypeDeleteAssetKeys, DeleteAssetKeysPayload{Keys: keys, Reason: reason},
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(c.opts.MaxRetry),
		asynq.ProcessIn(c.opts.CleanupDelay),
	)
}

func (c *TaskClient) GenerateThumbnails(ctx context.Context, outfitID uuid.UUID, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.enqueue(ctx, TypeGenerateOutfitThumbs, GenerateThumbnailsPayload{OutfitID: outfitID, Keys: keys},
		asynq.Queue(QueueMedia),
		asynq.MaxRetry(c.opts.ThumbnailMaxRetry),
		asynq.Timeout(2*time.Minute),
	)
}

// SendWelcomeEmail: TaskID theo email để trùng lặp trong lúc task còn pending bị asynq bỏ qua
func (c *TaskClient) SendWelcomeEmail(ctx context.Context, email, source string) error {
	if email == "" {
		return fmt.Errorf("enqueue %s: empty email", TypeSendWelcomeEmail)
	}
	err := c.enqueue(ctx, TypeSendWelcomeEmail, SendWelcomeEmailPayload{Email: email, Source: source},
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(c.opts.MaxRetry),
		asynq.TaskID(TypeSendWelcomeEmail+":"+email),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (c *TaskClient) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		log.Error().Err(err).Str("task", taskType).Msg("Failed to enqueue task")
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().
		Str("task", taskType).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("Task enqueued")
	return nil
}
