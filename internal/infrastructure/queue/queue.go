package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeOTPDeliver is the asynq task type carrying a domain.OTPMessage.
const TypeOTPDeliver = "otp:deliver"

const (
	maxRetry    = 5
	taskTimeout = 30 * time.Second
)

// NewOTPTask wraps msg in a delivery task.
func NewOTPTask(msg domain.OTPMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal otp task: %w", err)
	}
	return asynq.NewTask(TypeOTPDeliver, payload, asynq.MaxRetry(maxRetry), asynq.Timeout(taskTimeout)), nil
}

// Enqueuer hands codes to the worker instead of delivering them in the request.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(opt asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(opt)}
}

func (e *Enqueuer) Deliver(ctx context.Context, msg domain.OTPMessage) error {
	task, err := NewOTPTask(msg)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue otp: %w", err)
	}
	return nil
}

func (e *Enqueuer) Close() error { return e.client.Close() }

type deliverer interface {
	Deliver(ctx context.Context, msg domain.OTPMessage) error
}

// HandleOTPDeliver decodes a delivery task and sends it through d.
// Malformed payloads are not retried.
func HandleOTPDeliver(d deliverer, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg domain.OTPMessage
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			log.Error("invalid otp task payload", zap.Error(err))
			return fmt.Errorf("decode otp task: %v: %w", err, asynq.SkipRetry)
		}
		if err := d.Deliver(ctx, msg); err != nil {
			log.Warn("otp delivery failed",
				zap.String("channel", string(msg.Channel)),
				zap.String("address", msg.Address),
				zap.Error(err))
			return err
		}
		log.Info("otp delivered", zap.String("channel", string(msg.Channel)), zap.String("address", msg.Address))
		return nil
	}
}
