// Package notifier delivers persisted notifications that have come due.
package notifier

import (
	"context"
	"fmt"
	"time"

	"donorlink/config"
	"donorlink/infras/expo"
	"donorlink/infras/otel"
	donorModel "donorlink/internal/domains/donor/model"
	donorRepo "donorlink/internal/domains/donor/repository"
	"donorlink/internal/domains/notification/model"
	"donorlink/internal/domains/notification/repository"
	"donorlink/shared"
	"donorlink/shared/constant"
	"donorlink/shared/timezone"

	"github.com/rs/zerolog/log"
)

const reasonUnreachable = "donor has no push token or opted out"

type Dispatcher struct {
	repo      repository.Notification
	donorRepo donorRepo.Donor
	push      expo.Client
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Notification, donorRepo donorRepo.Donor, push expo.Client, cfg *config.Config, otel otel.Otel) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		donorRepo: donorRepo,
		push:      push,
		cfg:       cfg,
		otel:      otel,
	}
}

// Run dispatches on every interval tick until ctx is cancelled.
// Only one dispatcher should run at a time.
func (d *Dispatcher) Run(ctx context.Context) error {
	interval := time.Duration(d.cfg.Notification.DispatchIntervalSecond) * time.Second

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("notification dispatcher started")

	for {
		if _, err := d.DispatchOnce(ctx); err != nil {
			log.Error().Err(err).Msg("notification dispatch failed")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("notification dispatcher stopped")

			return nil
		case <-ticker.C:
		}
	}
}

// DispatchOnce sends one batch of due notifications and returns how many were delivered.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (sent int, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".notifier.DispatchOnce")
	defer scope.End()
	defer scope.TraceIfError(err)

	due, err := d.repo.Due(ctx, timezone.Now(), d.cfg.Notification.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load due notifications: %w", err)
	}

	if len(due) == 0 {
		return 0, nil
	}

	tokens := map[string]string{}
	batch := make([]model.Notification, 0, len(due))
	messages := make([]expo.Message, 0, len(due))

	for _, notification := range due {
		token, err := d.token(ctx, tokens, notification.DonorID)
		if err != nil {
			log.Error().Err(err).Str("donor_id", notification.DonorID).Msg("failed to load donor for notification")

			continue
		}

		if token == constant.Empty {
			d.fail(ctx, notification, reasonUnreachable, 1)

			continue
		}

		batch = append(batch, notification)
		messages = append(messages, toMessage(notification, token))
	}

	if len(messages) == 0 {
		return 0, nil
	}

	tickets, err := d.push.Send(ctx, messages)
	if err != nil {
		for _, notification := range batch {
			d.fail(ctx, notification, err.Error(), d.cfg.Notification.MaxAttempts)
		}

		return 0, fmt.Errorf("failed to send push batch: %w", err)
	}

	for i, ticket := range tickets {
		notification := batch[i]

		switch {
		case ticket.Status == expo.TicketStatusOK:
			if err := d.repo.MarkSent(ctx, notification.ID); err != nil {
				log.Error().Err(err).Str("notification_id", notification.ID).Msg("failed to mark notification sent")

				continue
			}

			sent++
		case ticket.Permanent():
			d.fail(ctx, notification, ticket.Message, 1)
		default:
			d.fail(ctx, notification, ticket.Message, d.cfg.Notification.MaxAttempts)
		}
	}

	log.Info().Int("due", len(due)).Int("sent", sent).Msg("notification batch dispatched")

	return sent, nil
}

// token memoizes push tokens per batch. Unreachable donors map to an empty token.
func (d *Dispatcher) token(ctx context.Context, tokens map[string]string, donorID string) (string, error) {
	if token, ok := tokens[donorID]; ok {
		return token, nil
	}

	donor, err := d.donorRepo.Get(ctx, shared.FilterByID(donorID, donorModel.FieldID, donorModel.TableName))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to get donor: %w", err)
	}

	token := constant.Empty
	if donor.Reachable() {
		token = *donor.PushToken
	}

	tokens[donorID] = token

	return token, nil
}

func (d *Dispatcher) fail(ctx context.Context, notification model.Notification, reason string, maxAttempts int) {
	if err := d.repo.MarkFailed(ctx, notification.ID, reason, maxAttempts); err != nil {
		log.Error().Err(err).Str("notification_id", notification.ID).Msg("failed to mark notification failed")
	}
}

func toMessage(notification model.Notification, token string) expo.Message {
	data := map[string]any{"kind": string(notification.Kind)}
	if notification.BookingID != nil {
		data["booking_id"] = *notification.BookingID
	}

	priority := "default"
	if notification.Kind == model.KindUrgentNeed {
		priority = "high"
	}

	return expo.Message{
		To:       token,
		Title:    notification.Title,
		Body:     notification.Body,
		Data:     data,
		Sound:    "default",
		Priority: priority,
	}
}
