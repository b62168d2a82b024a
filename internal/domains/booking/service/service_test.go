package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"donorlink/config"
	"donorlink/infras/otel/mocks"
	"donorlink/internal/domains/bloodtype"
	"donorlink/internal/domains/booking/eligibility"
	"donorlink/internal/domains/booking/event"
	bookingMocks "donorlink/internal/domains/booking/mocks"
	"donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/booking/model/dto"
	"donorlink/internal/domains/booking/repository"
	"donorlink/internal/domains/booking/service"
	centerMocks "donorlink/internal/domains/center/mocks"
	centerModel "donorlink/internal/domains/center/model"
	donorMocks "donorlink/internal/domains/donor/mocks"
	donorModel "donorlink/internal/domains/donor/model"
	needMocks "donorlink/internal/domains/need/mocks"
	needModel "donorlink/internal/domains/need/model"
	notificationMocks "donorlink/internal/domains/notification/mocks"
	cacheMocks "donorlink/shared/cache/mocks"
	"donorlink/shared/constant"
	"donorlink/shared/failure"
	"donorlink/shared/timezone"
)

type deps struct {
	repo          *bookingMocks.MockBooking
	donors        *donorMocks.MockDonor
	centers       *centerMocks.MockCenter
	needs         *needMocks.MockNeed
	notifications *notificationMocks.MockNotificationService
	reconciler    *needMocks.MockReconciler
	publisher     *bookingMocks.MockPublisher
	redis         *cacheMocks.MockRedisCache
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.ApplyDefaults()

	return cfg
}

func newDeps(t *testing.T) deps {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		repo:          bookingMocks.NewMockBooking(ctrl),
		donors:        donorMocks.NewMockDonor(ctrl),
		centers:       centerMocks.NewMockCenter(ctrl),
		needs:         needMocks.NewMockNeed(ctrl),
		notifications: notificationMocks.NewMockNotificationService(ctrl),
		reconciler:    needMocks.NewMockReconciler(ctrl),
		publisher:     bookingMocks.NewMockPublisher(ctrl),
		redis:         cacheMocks.NewMockRedisCache(ctrl),
	}

	d.redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.redis.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return d
}

func (d deps) service(repo repository.Booking) service.Booking {
	cfg := testConfig()

	return service.New(
		repo, d.donors, d.centers, d.needs, d.notifications, d.reconciler, d.publisher,
		eligibility.NewCalculator(cfg), cfg, d.redis, mocks.NewOtel(),
	)
}

func donorCtx(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleDonor)
}

func staffCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStaff)
}

func openEveryDay() centerModel.Center {
	hours := centerModel.WorkingHours{}
	for day := time.Sunday; day <= time.Saturday; day++ {
		hours[day.String()] = "09:00-17:00"
	}

	return centerModel.Center{ID: "center-1", Name: "Kyiv Regional Blood Center", WorkingHours: hours}
}

func donorOf(bt bloodtype.Type) donorModel.Donor {
	return donorModel.Donor{ID: "donor-1", BloodType: &bt}
}

func openNeed(bt bloodtype.Type) needModel.Need {
	return needModel.Need{
		ID:              "need-1",
		MedicalCenterID: "center-1",
		BloodType:       bt,
		TargetAmountML:  1350,
		Status:          needModel.StatusActive,
	}
}

var nextWeek = timezone.Today().AddDate(0, 0, 7)

func request() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		MedicalCenterID: "center-1",
		BloodNeedID:     "need-1",
		BookingDate:     nextWeek.Format(constant.DateOnlyFormat),
		BookingTime:     "10:00",
	}
}

func completedOn(date time.Time) model.Booking {
	return model.Booking{ID: "old", DonorID: "donor-1", BookingDate: date, BookingTime: "09:00", Status: model.StatusCompleted}
}

func TestBookingService_Submit(t *testing.T) {
	recent := []model.Booking{completedOn(timezone.Today().AddDate(0, -1, 0))}
	longAgo := []model.Booking{completedOn(timezone.Today().AddDate(-1, 0, 0))}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(d deps)
		wantCode  int
		wantKind  string
		warnings  int
	}{
		{
			name: "incompatible blood type is reported before eligibility and slot",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.FourPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.OneNeg), nil)
			},
			wantCode: 422,
			wantKind: failure.KindIncompatibleBloodType,
		},
		{
			name: "malformed need blood type",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.OneNeg), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.Type("5+")), nil)
			},
			wantCode: 400,
			wantKind: failure.KindInvalidBloodType,
		},
		{
			name: "too early is reported before slot availability",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.OneNeg), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
				d.repo.EXPECT().History(gomock.Any(), "donor-1", model.StatusCompleted).Return(recent, nil)
			},
			wantCode: 422,
			wantKind: failure.KindTooEarlyToDonate,
		},
		{
			name: "booked slot",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
				d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(longAgo, nil)
				d.repo.EXPECT().BookedTimes(gomock.Any(), "center-1", gomock.Any()).Return([]string{"10:00"}, nil)
			},
			wantCode: 409,
			wantKind: failure.KindSlotUnavailable,
		},
		{
			name: "hour outside working hours",
			req: func() dto.CreateBookingRequest {
				req := request()
				req.BookingTime = "18:00"

				return req
			}(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
				d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				d.repo.EXPECT().BookedTimes(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantCode: 409,
			wantKind: failure.KindSlotUnavailable,
		},
		{
			name: "date in the past",
			req: func() dto.CreateBookingRequest {
				req := request()
				req.BookingDate = timezone.Today().AddDate(0, 0, -1).Format(constant.DateOnlyFormat)

				return req
			}(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
				d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantCode: 409,
			wantKind: failure.KindSlotUnavailable,
		},
		{
			name: "store rejects a concurrent booking",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
				d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				d.repo.EXPECT().BookedTimes(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrSlotTaken)
			},
			wantCode: 409,
			wantKind: failure.KindSlotUnavailable,
		},
		{
			name: "missing blood type",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorModel.Donor{ID: "donor-1"}, nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
			},
			wantCode: 422,
			wantKind: failure.KindInvalidBloodType,
		},
		{
			name: "unknown center",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(centerModel.Center{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "unknown need",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(needModel.Need{}, nil)
			},
			wantCode: 404,
			wantKind: failure.KindNeedNotFound,
		},
		{
			name: "fulfilled need",
			req:  request(),
			setupMock: func(d deps) {
				need := openNeed(bloodtype.TwoPos)
				need.Status = needModel.StatusFulfilled

				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(need, nil)
			},
			wantCode: 409,
		},
		{
			name: "need of another center",
			req:  request(),
			setupMock: func(d deps) {
				need := openNeed(bloodtype.TwoPos)
				need.MedicalCenterID = "center-2"

				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(need, nil)
			},
			wantCode: 400,
		},
		{
			name: "success",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.OneNeg), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.FourPos), nil)
				d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(longAgo, nil)
				d.repo.EXPECT().BookedTimes(gomock.Any(), gomock.Any(), gomock.Any()).Return([]string{"09:00", "11:00"}, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
					assert.Equal(t, model.StatusPending, b.Status)
					assert.Equal(t, "donor-1", b.DonorID)
					assert.Equal(t, "10:00", b.BookingTime)

					return nil
				})
				d.notifications.EXPECT().ScheduleBooking(gomock.Any(), gomock.Any(), "Kyiv Regional Blood Center").Return(nil)
				d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), nil, gomock.Any()).Return(nil)
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "notification failure does not fail the booking",
			req:  request(),
			setupMock: func(d deps) {
				d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.OneNeg), nil)
				d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
				d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.OnePos), nil)
				d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				d.repo.EXPECT().BookedTimes(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				d.notifications.EXPECT().ScheduleBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("store down"))
				d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
			warnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setupMock(d)

			res, err := d.service(d.repo).Submit(donorCtx("donor-1"), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusPending), res.Booking.Status)
			assert.Len(t, res.Warnings, tt.warnings)
		})
	}
}

func TestBookingService_Submit_TooEarlyCarriesNextDate(t *testing.T) {
	d := newDeps(t)

	last := timezone.Today().AddDate(0, -1, 0)

	d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.TwoPos), nil)
	d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
	d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.TwoPos), nil)
	d.repo.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{completedOn(last)}, nil)

	_, err := d.service(d.repo).Submit(donorCtx("donor-1"), request())

	var fail *failure.Failure
	require.ErrorAs(t, err, &fail)
	assert.Equal(t, last.AddDate(0, 3, 0).Format(constant.DateOnlyFormat), fail.Details["next_eligible_date"])
}

func TestBookingService_Submit_OnNextEligibleDate(t *testing.T) {
	last := timezone.Today().AddDate(0, -3, 7)
	eligibleOn := last.AddDate(0, 3, 0)

	tests := []struct {
		name     string
		date     time.Time
		wantKind string
	}{
		{name: "exactly on the next eligible date", date: eligibleOn},
		{name: "one day earlier", date: eligibleOn.AddDate(0, 0, -1), wantKind: failure.KindTooEarlyToDonate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)

			req := request()
			req.BookingDate = tt.date.Format(constant.DateOnlyFormat)

			d.donors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(donorOf(bloodtype.OneNeg), nil)
			d.centers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openEveryDay(), nil)
			d.needs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openNeed(bloodtype.ThreePos), nil)
			d.repo.EXPECT().History(gomock.Any(), "donor-1", model.StatusCompleted).Return([]model.Booking{completedOn(last)}, nil)

			if tt.wantKind == "" {
				d.repo.EXPECT().BookedTimes(gomock.Any(), "center-1", gomock.Any()).Return([]string{}, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				d.notifications.EXPECT().ScheduleBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), nil, gomock.Any()).Return(nil)
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := d.service(d.repo).Submit(donorCtx("donor-1"), req)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusPending), res.Booking.Status)
			assert.Equal(t, tt.date.Format(constant.DateOnlyFormat), res.Booking.BookingDate)
		})
	}
}

func TestBookingService_Submit_Unauthenticated(t *testing.T) {
	d := newDeps(t)

	_, err := d.service(d.repo).Submit(context.Background(), request())
	assert.Equal(t, 401, failure.GetCode(err))
}

func booking(status model.Status) model.Booking {
	return model.Booking{
		ID:              "b-1",
		DonorID:         "donor-1",
		MedicalCenterID: "center-1",
		BloodNeedID:     "need-1",
		BookingDate:     nextWeek,
		BookingTime:     "10:00",
		Status:          status,
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	volume := 500

	tests := []struct {
		name      string
		current   model.Status
		req       dto.UpdateStatusRequest
		setupMock func(d deps)
		want      model.Status
		wantCode  int
	}{
		{
			name:    "pending to in process",
			current: model.StatusPending,
			req:     dto.UpdateStatusRequest{Status: "in_process"},
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateStatus(gomock.Any(), "b-1", model.StatusPending, model.StatusInProcess, nil, "staff-1").Return(true, nil)
				d.notifications.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any()).Return(nil)
				d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: model.StatusInProcess,
		},
		{
			name:    "legacy done completes with volume",
			current: model.StatusInProcess,
			req:     dto.UpdateStatusRequest{Status: "done", QuantityML: &volume},
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateStatus(gomock.Any(), "b-1", model.StatusInProcess, model.StatusCompleted, &volume, gomock.Any()).Return(true, nil)
				d.notifications.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any()).Return(nil)
				d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, before, after *model.Booking) error {
						assert.Equal(t, model.StatusInProcess, before.Status)
						assert.Equal(t, model.StatusCompleted, after.Status)
						assert.Equal(t, 500, after.Contribution(450))

						return nil
					})
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Written) error {
					assert.Equal(t, "need-1", e.Key())

					return nil
				})
			},
			want: model.StatusCompleted,
		},
		{
			name:      "skipping in process is rejected",
			current:   model.StatusPending,
			req:       dto.UpdateStatusRequest{Status: "completed"},
			setupMock: func(_ deps) {},
			wantCode:  409,
		},
		{
			name:      "terminal status is final",
			current:   model.StatusCompleted,
			req:       dto.UpdateStatusRequest{Status: "cancelled"},
			setupMock: func(_ deps) {},
			wantCode:  409,
		},
		{
			name:    "concurrent change loses",
			current: model.StatusPending,
			req:     dto.UpdateStatusRequest{Status: "cancelled"},
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 409,
		},
		{
			name:    "reconcile failure is a warning",
			current: model.StatusInProcess,
			req:     dto.UpdateStatusRequest{Status: "completed"},
			setupMock: func(d deps) {
				d.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				d.notifications.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any()).Return(nil)
				d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("lock timeout"))
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: model.StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)

			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(tt.current), nil)
			tt.setupMock(d)

			res, err := d.service(d.repo).UpdateStatus(staffCtx(), "b-1", tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Equal(t, failure.KindInvalidStatusTransition, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tt.want), res.Booking.Status)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("owner cancels", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
		d.repo.EXPECT().UpdateStatus(gomock.Any(), "b-1", model.StatusPending, model.StatusCancelled, nil, "donor-1").Return(true, nil)
		d.notifications.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any()).Return(nil)
		d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		res, err := d.service(d.repo).Cancel(donorCtx("donor-1"), "b-1")
		require.NoError(t, err)
		assert.Equal(t, string(model.StatusCancelled), res.Booking.Status)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)

		_, err := d.service(d.repo).Cancel(donorCtx("donor-2"), "b-1")
		assert.Equal(t, 403, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	d := newDeps(t)

	completed := booking(model.StatusCompleted)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
	d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	d.notifications.EXPECT().CancelBooking(gomock.Any(), "b-1").Return(nil)
	d.reconciler.EXPECT().OnBookingWritten(gomock.Any(), &completed, nil).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), event.Written{Before: &completed}).Return(nil)

	assert.NoError(t, d.service(d.repo).Delete(staffCtx(), "b-1"))
}

func TestBookingService_Get(t *testing.T) {
	t.Run("donor reads own booking", func(t *testing.T) {
		d := newDeps(t)

		d.redis.EXPECT().Get(gomock.Any(), "booking:get:b-1", gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)

		res, err := d.service(d.repo).Get(donorCtx("donor-1"), "b-1")
		require.NoError(t, err)
		assert.Equal(t, "b-1", res.ID)
	})

	t.Run("donor cannot read another donor's booking", func(t *testing.T) {
		d := newDeps(t)

		d.redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)

		_, err := d.service(d.repo).Get(donorCtx("donor-2"), "b-1")
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		d := newDeps(t)

		d.redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := d.service(d.repo).Get(staffCtx(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_Eligibility(t *testing.T) {
	d := newDeps(t)

	last := timezone.Today().AddDate(0, -4, 0)

	d.repo.EXPECT().History(gomock.Any(), "donor-1", model.StatusCompleted).Return([]model.Booking{completedOn(last)}, nil)

	res, err := d.service(d.repo).Eligibility(context.Background(), "donor-1")
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.Equal(t, last.Format(constant.DateOnlyFormat), res.LastDonationDate)
	assert.Equal(t, last.AddDate(0, 3, 0).Format(constant.DateOnlyFormat), res.NextEligibleDate)
	assert.Equal(t, 1, res.CompletedCount)
}

func TestBookingService_History(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().History(gomock.Any(), "donor-1").Return([]model.Booking{booking(model.StatusPending), completedOn(timezone.Today())}, nil)

	res, err := d.service(d.repo).History(context.Background(), "donor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Len(t, res.Bookings, 2)
}

