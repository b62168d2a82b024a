// Package event publishes booking writes to the booking.written topic.
package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"

	"donorlink/config"
	"donorlink/infras/kafka"
	"donorlink/infras/otel"
	"donorlink/internal/domains/booking/model"
	"donorlink/shared/constant"

	"github.com/rs/zerolog/log"
)

// Written describes one booking mutation. Before is nil on create, After is nil on delete.
type Written struct {
	Before *model.Booking `json:"before"`
	After  *model.Booking `json:"after"`
}

// Key partitions events by need so a consumer sees one need's history in order.
func (w Written) Key() string {
	if w.After != nil && w.After.BloodNeedID != constant.Empty {
		return w.After.BloodNeedID
	}

	if w.Before != nil {
		return w.Before.BloodNeedID
	}

	return constant.Empty
}

type Publisher interface {
	Publish(ctx context.Context, event Written) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

// New returns a Kafka publisher, or one that drops events when Kafka is disabled.
func New(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	if !cfg.Kafka.Enable || client == nil {
		log.Warn().Msg("Kafka disabled, booking events will not be published")

		return noopPublisher{}
	}

	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topics.BookingWritten,
		otel:   otel,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Written) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Publish")
	defer scope.End()

	scope.SetAttribute("topic", p.topic)
	scope.SetAttribute("key", event.Key())

	if err = p.client.SendMessages(ctx, p.topic, kafka.Message{Key: event.Key(), Value: event}); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Written) error {
	return nil
}
