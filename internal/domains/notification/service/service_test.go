package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"donorlink/config"
	"donorlink/infras/otel/mocks"
	"donorlink/internal/domains/bloodtype"
	bookingModel "donorlink/internal/domains/booking/model"
	donorMocks "donorlink/internal/domains/donor/mocks"
	donorModel "donorlink/internal/domains/donor/model"
	needModel "donorlink/internal/domains/need/model"
	notificationMocks "donorlink/internal/domains/notification/mocks"
	"donorlink/internal/domains/notification/model"
	"donorlink/internal/domains/notification/service"
	"donorlink/shared/timezone"
)

func newService(t *testing.T) (service.Notification, *notificationMocks.MockNotification, *donorMocks.MockDonor) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := notificationMocks.NewMockNotification(ctrl)
	donors := donorMocks.NewMockDonor(ctrl)

	cfg := &config.Config{}
	cfg.Scheduling.ReminderHour = 9
	cfg.Scheduling.ReminderLeadHours = 2

	return service.New(repo, donors, cfg, mocks.NewOtel()), repo, donors
}

func token(v string) *string {
	return &v
}

func TestNotificationService_ScheduleBooking(t *testing.T) {
	svc, repo, _ := newService(t)

	booking := bookingModel.Booking{
		ID:          "b-1",
		DonorID:     "d-1",
		BookingDate: timezone.Today().AddDate(0, 0, 7),
		BookingTime: "10:00",
		Status:      bookingModel.StatusPending,
	}

	repo.EXPECT().InsertBulk(gomock.Any(), gomock.Len(3)).Return(nil)

	assert.NoError(t, svc.ScheduleBooking(context.Background(), booking, "City Center"))

	repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

	assert.Error(t, svc.ScheduleBooking(context.Background(), booking, "City Center"))
}

func TestNotificationService_NotifyStatusChange(t *testing.T) {
	svc, repo, _ := newService(t)

	completed := bookingModel.Booking{ID: "b-1", DonorID: "d-1", Status: bookingModel.StatusCompleted}

	gomock.InOrder(
		repo.EXPECT().CancelForBooking(gomock.Any(), "b-1").Return(nil),
		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, got []model.Notification) error {
				assert.Equal(t, model.KindBookingUpdated, got[0].Kind)

				return nil
			}),
	)

	assert.NoError(t, svc.NotifyStatusChange(context.Background(), completed))

	inProcess := bookingModel.Booking{ID: "b-2", DonorID: "d-1", Status: bookingModel.StatusInProcess}
	repo.EXPECT().InsertBulk(gomock.Any(), gomock.Len(1)).Return(nil)

	assert.NoError(t, svc.NotifyStatusChange(context.Background(), inProcess))
}

func TestNotificationService_NotifyUrgentNeed(t *testing.T) {
	need := needModel.Need{ID: "n-1", BloodType: bloodtype.FourPos, Urgent: true, RequestedAt: time.Now()}

	t.Run("fans out to reachable compatible donors", func(t *testing.T) {
		svc, repo, donors := newService(t)

		donors.EXPECT().Reachable(gomock.Any(), bloodtype.Donors(bloodtype.FourPos)).Return([]donorModel.Donor{
			{ID: "d-1", NotificationsEnabled: true, PushToken: token("ExponentPushToken[a]")},
			{ID: "d-2", NotificationsEnabled: true, PushToken: token("")},
			{ID: "d-3", NotificationsEnabled: true, PushToken: token("ExponentPushToken[c]")},
		}, nil)
		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Len(2)).Return(nil)

		count, err := svc.NotifyUrgentNeed(context.Background(), need, "North Hospital")

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("nobody to notify", func(t *testing.T) {
		svc, _, donors := newService(t)

		donors.EXPECT().Reachable(gomock.Any(), gomock.Any()).Return([]donorModel.Donor{}, nil)

		count, err := svc.NotifyUrgentNeed(context.Background(), need, "North Hospital")

		assert.NoError(t, err)
		assert.Zero(t, count)
	})
}
