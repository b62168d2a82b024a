package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"donorlink/config"
	"donorlink/infras/expo"
	expoMocks "donorlink/infras/expo/mocks"
	"donorlink/infras/otel/mocks"
	donorMocks "donorlink/internal/domains/donor/mocks"
	donorModel "donorlink/internal/domains/donor/model"
	notificationMocks "donorlink/internal/domains/notification/mocks"
	"donorlink/internal/domains/notification/model"
	"donorlink/internal/workers/notifier"
)

type fixture struct {
	repo       *notificationMocks.MockNotification
	donors     *donorMocks.MockDonor
	push       *expoMocks.MockClient
	dispatcher *notifier.Dispatcher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	f := fixture{
		repo:   notificationMocks.NewMockNotification(ctrl),
		donors: donorMocks.NewMockDonor(ctrl),
		push:   expoMocks.NewMockClient(ctrl),
	}
	f.dispatcher = notifier.New(f.repo, f.donors, f.push, cfg, mocks.NewOtel())

	return f
}

func ptr[T any](v T) *T {
	return &v
}

func reachable(id string) donorModel.Donor {
	return donorModel.Donor{ID: id, PushToken: ptr("ExponentPushToken[" + id + "]"), NotificationsEnabled: true}
}

func due(id, donorID string, kind model.Kind) model.Notification {
	return model.Notification{ID: id, DonorID: donorID, Kind: kind, Title: "t", Body: "b", Status: model.StatusScheduled}
}

func TestDispatcher_DispatchOnce(t *testing.T) {
	t.Run("marks each ticket", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Due(gomock.Any(), gomock.Any(), 100).Return([]model.Notification{
			due("n-1", "d-1", model.KindConfirmation),
			due("n-2", "d-1", model.KindDayBefore),
			due("n-3", "d-2", model.KindUrgentNeed),
		}, nil)
		f.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reachable("d-1"), nil)
		f.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reachable("d-2"), nil)
		f.push.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, messages []expo.Message) ([]expo.Ticket, error) {
			assert.Len(t, messages, 3)
			assert.Equal(t, "high", messages[2].Priority)

			tickets := make([]expo.Ticket, 3)
			tickets[0].Status = expo.TicketStatusOK
			tickets[1].Status = expo.TicketStatusError
			tickets[1].Message = "rate limited"
			tickets[2].Status = expo.TicketStatusError
			tickets[2].Message = "gone"
			tickets[2].Details.Error = expo.ErrorDeviceNotRegistered

			return tickets, nil
		})
		f.repo.EXPECT().MarkSent(gomock.Any(), "n-1").Return(nil)
		f.repo.EXPECT().MarkFailed(gomock.Any(), "n-2", "rate limited", 5).Return(nil)
		f.repo.EXPECT().MarkFailed(gomock.Any(), "n-3", "gone", 1).Return(nil)

		sent, err := f.dispatcher.DispatchOnce(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("unreachable donor fails without sending", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Due(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Notification{due("n-1", "d-1", model.KindUrgentNeed)}, nil)
		f.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorModel.Donor{ID: "d-1"}, nil)
		f.repo.EXPECT().MarkFailed(gomock.Any(), "n-1", gomock.Any(), 1).Return(nil)

		sent, err := f.dispatcher.DispatchOnce(context.Background())
		assert.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("transport error counts an attempt for the batch", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Due(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Notification{
			due("n-1", "d-1", model.KindConfirmation),
			due("n-2", "d-2", model.KindConfirmation),
		}, nil)
		f.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reachable("d-1"), nil)
		f.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reachable("d-2"), nil)
		f.push.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
		f.repo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), "timeout", 5).Return(nil).Times(2)

		_, err := f.dispatcher.DispatchOnce(context.Background())
		assert.Error(t, err)
	})

	t.Run("nothing due", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Due(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		sent, err := f.dispatcher.DispatchOnce(context.Background())
		assert.NoError(t, err)
		assert.Zero(t, sent)
	})
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())

	f.repo.EXPECT().Due(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, time.Time, int) ([]model.Notification, error) {
		cancel()

		return nil, nil
	})

	assert.NoError(t, f.dispatcher.Run(ctx))
}
