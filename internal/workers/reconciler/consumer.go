// Package reconciler consumes booking.written events and recomputes the needs they touch.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donorlink/config"
	"donorlink/infras/kafka"
	"donorlink/infras/otel"
	"donorlink/internal/domains/booking/event"
	"donorlink/internal/domains/need/reconciler"
	"donorlink/shared/constant"
	"donorlink/shared/failure"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const maxElapsed = 2 * time.Minute

type Option func(*Consumer)

// WithBackOff replaces the retry policy applied to each message.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Consumer) {
		c.newBackOff = fn
	}
}

type Consumer struct {
	client     kafka.Client
	reconciler reconciler.Reconciler
	cfg        *config.Config
	otel       otel.Otel
	newBackOff func() backoff.BackOff
}

func New(client kafka.Client, reconciler reconciler.Reconciler, cfg *config.Config, otel otel.Otel, opts ...Option) *Consumer {
	c := &Consumer{
		client:     client,
		reconciler: reconciler,
		cfg:        cfg,
		otel:       otel,
	}

	c.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = maxElapsed

		return backoff.WithMaxRetries(b, uint64(max(cfg.Scheduling.ReconcileMaxRetries, 0)))
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("topic", c.cfg.Kafka.Topics.BookingWritten).Str("group", c.cfg.Kafka.ConsumerGroup).Msg("reconciler consumer started")

	return c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topics.BookingWritten, c.Handle) //nolint:wrapcheck
}

// permanent reports errors a retry cannot fix: cancellation, or a domain failure
// other than an unavailable store. Unclassified errors stay retryable.
func permanent(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}

	var fail *failure.Failure

	return errors.As(err, &fail) && !failure.IsRetryable(err)
}

// Handle reconciles one event, retrying with exponential backoff. Undecodable
// messages are dropped; an error is returned only when retries run out.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".reconciler.Handle")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("key", string(message.Key))
	scope.SetAttribute("offset", message.Offset)

	written, err := kafka.Decode[event.Written](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping undecodable booking event")

		return nil
	}

	if written.Before == nil && written.After == nil {
		log.Warn().Str("key", string(message.Key)).Msg("dropping empty booking event")

		return nil
	}

	operation := func() error {
		if err := c.reconciler.OnBookingWritten(ctx, written.Before, written.After); err != nil {
			if permanent(err) {
				return backoff.Permanent(err)
			}

			return err //nolint:wrapcheck
		}

		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("key", string(message.Key)).Dur("retry_in", wait).Msg("reconcile failed, retrying")
	}

	if err = backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return fmt.Errorf("failed to reconcile booking event: %w", err)
	}

	return nil
}
