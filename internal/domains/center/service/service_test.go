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
	bookingMocks "donorlink/internal/domains/booking/mocks"
	centerMocks "donorlink/internal/domains/center/mocks"
	"donorlink/internal/domains/center/model"
	"donorlink/internal/domains/center/service"
	"donorlink/internal/domains/center/slot"
	cacheMocks "donorlink/shared/cache/mocks"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	"donorlink/shared/timezone"
)

func newService(t *testing.T) (service.Center, *centerMocks.MockCenter, *bookingMocks.MockBooking, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := centerMocks.NewMockCenter(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	return service.New(repo, bookings, cfg, redis, mocks.NewOtel()), repo, bookings, redis
}

func weekdayCenter() model.Center {
	return model.Center{
		ID:   "center-1",
		Name: "Kyiv Regional Blood Center",
		WorkingHours: model.WorkingHours{
			"Monday": "09:00-12:00", "Tuesday": "09:00-12:00", "Wednesday": "09:00-12:00",
			"Thursday": "09:00-12:00", "Friday": "09:00-12:00", "Saturday": "closed", "Sunday": "closed",
		},
	}
}

// nextWeekday returns the first date after today falling on wd.
func nextWeekday(wd time.Weekday) time.Time {
	day := timezone.Today().AddDate(0, 0, 1)
	for day.Weekday() != wd {
		day = day.AddDate(0, 0, 1)
	}

	return day
}

func TestCenterService_Slots(t *testing.T) {
	monday := nextWeekday(time.Monday)
	saturday := nextWeekday(time.Saturday)

	tests := []struct {
		name      string
		id        string
		date      string
		setupMock func(repo *centerMocks.MockCenter, bookings *bookingMocks.MockBooking)
		want      []string
		wantCode  int
	}{
		{
			name: "booked hours are removed",
			id:   "center-1",
			date: monday.Format(constant.DateOnlyFormat),
			setupMock: func(repo *centerMocks.MockCenter, bookings *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(weekdayCenter(), nil)
				bookings.EXPECT().BookedTimes(gomock.Any(), "center-1", gomock.Any()).Return([]string{"10:00"}, nil)
			},
			want: []string{"09:00", "11:00"},
		},
		{
			name: "closed day",
			id:   "center-1",
			date: saturday.Format(constant.DateOnlyFormat),
			setupMock: func(repo *centerMocks.MockCenter, bookings *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(weekdayCenter(), nil)
				bookings.EXPECT().BookedTimes(gomock.Any(), "center-1", gomock.Any()).Return([]string{}, nil)
			},
			want: []string{},
		},
		{
			name: "past date has no slots",
			id:   "center-1",
			date: timezone.Today().AddDate(0, 0, -7).Format(constant.DateOnlyFormat),
			setupMock: func(repo *centerMocks.MockCenter, _ *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(weekdayCenter(), nil)
			},
			want: []string{},
		},
		{
			name:      "malformed date",
			id:        "center-1",
			date:      "13/01/2025",
			setupMock: func(_ *centerMocks.MockCenter, _ *bookingMocks.MockBooking) {},
			wantCode:  400,
		},
		{
			name: "unknown center",
			id:   "missing",
			date: monday.Format(constant.DateOnlyFormat),
			setupMock: func(repo *centerMocks.MockCenter, _ *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Center{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, bookings, _ := newService(t)
			tt.setupMock(repo, bookings)

			res, err := svc.Slots(context.Background(), tt.id, tt.date)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res.Slots)
			assert.Equal(t, tt.date, res.Date)
		})
	}
}

func TestCenterService_SlotsToday(t *testing.T) {
	svc, repo, bookings, _ := newService(t)

	allDay := model.WorkingHours{}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		allDay[day] = "24/7"
	}

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Center{ID: "center-1", WorkingHours: allDay}, nil)
	bookings.EXPECT().BookedTimes(gomock.Any(), "center-1", gomock.Any()).Return([]string{}, nil)

	today := timezone.Today()
	before := timezone.Now()

	res, err := svc.Slots(context.Background(), "center-1", today.Format(constant.DateOnlyFormat))
	assert.NoError(t, err)

	assert.NotContains(t, res.Slots, "00:00")
	assert.LessOrEqual(t, len(res.Slots), 23-before.Hour())

	for _, candidate := range res.Slots {
		starts, err := slot.StartsAt(today, candidate)
		if assert.NoError(t, err) {
			assert.True(t, starts.After(before), "slot %s has already started", candidate)
		}
	}
}

func TestCenterService_Get(t *testing.T) {
	t.Run("cache hit skips the store", func(t *testing.T) {
		svc, _, _, redis := newService(t)

		redis.EXPECT().Get(gomock.Any(), "center:get:center-1", gomock.Any()).Return(nil)

		_, err := svc.Get(context.Background(), "center-1")
		assert.NoError(t, err)
	})

	t.Run("cache miss loads and caches", func(t *testing.T) {
		svc, repo, _, redis := newService(t)

		redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(weekdayCenter(), nil)
		redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "center-1")
		assert.NoError(t, err)
		assert.Equal(t, "Kyiv Regional Blood Center", res.Name)
		assert.Equal(t, "closed", res.WorkingHours["Sunday"])
	})

	t.Run("store error", func(t *testing.T) {
		svc, repo, _, redis := newService(t)

		redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Center{}, errors.New("database error"))

		_, err := svc.Get(context.Background(), "center-1")
		assert.Error(t, err)
	})
}

func TestCenterService_GetAll(t *testing.T) {
	svc, repo, _, redis := newService(t)

	params := gDto.QueryParams{Page: 1, Limit: 1}

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Center{weekdayCenter()}, nil)
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	assert.NoError(t, err)
	assert.Len(t, res.Centers, 1)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}
