package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Notification=MockNotificationService

import (
	"context"
	"fmt"

	"donorlink/config"
	"donorlink/infras/otel"
	"donorlink/internal/domains/bloodtype"
	bookingModel "donorlink/internal/domains/booking/model"
	donorRepo "donorlink/internal/domains/donor/repository"
	needModel "donorlink/internal/domains/need/model"
	"donorlink/internal/domains/notification/model"
	"donorlink/internal/domains/notification/planner"
	"donorlink/internal/domains/notification/repository"
	"donorlink/shared/constant"
	"donorlink/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Notification interface {
	// ScheduleBooking persists the confirmation and reminders of a new booking.
	ScheduleBooking(ctx context.Context, booking bookingModel.Booking, centerName string) error
	// NotifyStatusChange queues an immediate message about a staff status change.
	NotifyStatusChange(ctx context.Context, booking bookingModel.Booking) error
	CancelBooking(ctx context.Context, bookingID string) error
	// NotifyUrgentNeed queues a message for every reachable donor able to give to the need.
	NotifyUrgentNeed(ctx context.Context, need needModel.Need, centerName string) (int, error)
}

type serviceImpl struct {
	repo      repository.Notification
	donorRepo donorRepo.Donor
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Notification, donorRepo donorRepo.Donor, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:      repo,
		donorRepo: donorRepo,
		cfg:       cfg,
		otel:      otel,
	}
}

func (s *serviceImpl) schedule() planner.Schedule {
	return planner.Schedule{
		ReminderHour: s.cfg.Scheduling.ReminderHour,
		LeadHours:    s.cfg.Scheduling.ReminderLeadHours,
		Location:     timezone.GetLocation(),
	}
}

func (s *serviceImpl) ScheduleBooking(ctx context.Context, booking bookingModel.Booking, centerName string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.ScheduleBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	notifications, err := planner.ForBooking(booking, centerName, timezone.Now(), s.schedule())
	if err != nil {
		return fmt.Errorf("failed to plan booking notifications: %w", err)
	}

	if err = s.repo.InsertBulk(ctx, notifications); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to schedule booking notifications")

		return fmt.Errorf("failed to schedule booking notifications: %w", err)
	}

	log.Info().Str("booking_id", booking.ID).Int("count", len(notifications)).Msg("booking notifications scheduled")

	return nil
}

func (s *serviceImpl) NotifyStatusChange(ctx context.Context, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.NotifyStatusChange")
	defer scope.End()
	defer scope.TraceIfError(err)

	if booking.Status.Terminal() {
		if err = s.repo.CancelForBooking(ctx, booking.ID); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to drop pending reminders")
		}
	}

	if err = s.repo.InsertBulk(ctx, []model.Notification{planner.ForStatusChange(booking)}); err != nil {
		return fmt.Errorf("failed to queue status notification: %w", err)
	}

	return nil
}

func (s *serviceImpl) CancelBooking(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.CancelForBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("failed to cancel booking notifications: %w", err)
	}

	return nil
}

func (s *serviceImpl) NotifyUrgentNeed(ctx context.Context, need needModel.Need, centerName string) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.NotifyUrgentNeed")
	defer scope.End()
	defer scope.TraceIfError(err)

	donors, err := s.donorRepo.Reachable(ctx, bloodtype.Donors(need.BloodType))
	if err != nil {
		return 0, fmt.Errorf("failed to find donors for urgent need: %w", err)
	}

	ids := make([]string, 0, len(donors))
	for _, donor := range donors {
		if donor.Reachable() {
			ids = append(ids, donor.ID)
		}
	}

	if len(ids) == 0 {
		log.Info().Str("need_id", need.ID).Msg("no reachable donors for urgent need")

		return 0, nil
	}

	if err = s.repo.InsertBulk(ctx, planner.ForUrgentNeed(need, centerName, ids)); err != nil {
		return 0, fmt.Errorf("failed to queue urgent need notifications: %w", err)
	}

	log.Info().Str("need_id", need.ID).Int("donors", len(ids)).Msg("urgent need fan-out queued")

	return len(ids), nil
}
