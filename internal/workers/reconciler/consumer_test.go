package reconciler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/cenkalti/backoff/v4"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"donorlink/config"
	kafkaMocks "donorlink/infras/kafka/mocks"
	"donorlink/infras/otel/mocks"
	"donorlink/internal/domains/booking/event"
	"donorlink/internal/domains/booking/model"
	needMocks "donorlink/internal/domains/need/mocks"
	"donorlink/internal/workers/reconciler"
	"donorlink/shared/failure"
)

func newConsumer(t *testing.T) (*reconciler.Consumer, *needMocks.MockReconciler, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	rec := needMocks.NewMockReconciler(ctrl)
	client := kafkaMocks.NewMockClient(ctrl)

	consumer := reconciler.New(client, rec, cfg, mocks.NewOtel(), reconciler.WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}))

	return consumer, rec, client
}

func message(t *testing.T, written event.Written) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(written)
	assert.NoError(t, err)

	return kafkaGo.Message{Key: []byte(written.Key()), Value: value}
}

func TestConsumer_Handle(t *testing.T) {
	completed := event.Written{After: &model.Booking{ID: "b-1", BloodNeedID: "need-1", Status: model.StatusCompleted}}

	t.Run("reconciles the decoded pair", func(t *testing.T) {
		consumer, rec, _ := newConsumer(t)

		rec.EXPECT().OnBookingWritten(gomock.Any(), nil, gomock.Any()).DoAndReturn(func(_ context.Context, _, after *model.Booking) error {
			assert.Equal(t, "need-1", after.BloodNeedID)
			assert.Equal(t, model.StatusCompleted, after.Status)

			return nil
		})

		assert.NoError(t, consumer.Handle(context.Background(), message(t, completed)))
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		consumer, rec, _ := newConsumer(t)

		gomock.InOrder(
			rec.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure.StoreUnavailable(errors.New("connection reset"))),
			rec.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)

		assert.NoError(t, consumer.Handle(context.Background(), message(t, completed)))
	})

	t.Run("gives up after retries", func(t *testing.T) {
		consumer, rec, _ := newConsumer(t)

		rec.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("down")).Times(3)

		assert.Error(t, consumer.Handle(context.Background(), message(t, completed)))
	})

	t.Run("domain failure is not retried", func(t *testing.T) {
		consumer, rec, _ := newConsumer(t)

		rec.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure.NotFound("blood need not found")).Times(1)

		err := consumer.Handle(context.Background(), message(t, completed))
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("cancelled context is not retried", func(t *testing.T) {
		consumer, rec, _ := newConsumer(t)

		rec.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(context.Canceled).Times(1)

		assert.ErrorIs(t, consumer.Handle(context.Background(), message(t, completed)), context.Canceled)
	})

	t.Run("undecodable message is dropped", func(t *testing.T) {
		consumer, _, _ := newConsumer(t)

		assert.NoError(t, consumer.Handle(context.Background(), kafkaGo.Message{Value: []byte("{")}))
	})

	t.Run("empty event is dropped", func(t *testing.T) {
		consumer, _, _ := newConsumer(t)

		assert.NoError(t, consumer.Handle(context.Background(), message(t, event.Written{})))
	})
}

func TestConsumer_Run(t *testing.T) {
	consumer, _, client := newConsumer(t)

	client.EXPECT().Consume(gomock.Any(), "reconciler", "booking.written", gomock.Any()).Return(nil)

	assert.NoError(t, consumer.Run(context.Background()))
}
