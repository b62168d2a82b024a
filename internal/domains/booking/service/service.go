package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"donorlink/config"
	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	"donorlink/internal/domains/bloodtype"
	"donorlink/internal/domains/booking/eligibility"
	"donorlink/internal/domains/booking/event"
	"donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/booking/model/dto"
	"donorlink/internal/domains/booking/repository"
	centerModel "donorlink/internal/domains/center/model"
	centerRepo "donorlink/internal/domains/center/repository"
	"donorlink/internal/domains/center/slot"
	donorModel "donorlink/internal/domains/donor/model"
	donorRepo "donorlink/internal/domains/donor/repository"
	needModel "donorlink/internal/domains/need/model"
	"donorlink/internal/domains/need/reconciler"
	needRepo "donorlink/internal/domains/need/repository"
	notificationService "donorlink/internal/domains/notification/service"
	"donorlink/shared"
	"donorlink/shared/cache"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	"donorlink/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	warningNotifications = "notifications could not be scheduled for this booking"
	warningReconcile     = "blood need totals will be updated shortly"
)

// ErrSlotUnavailable is returned when the requested hour is outside working hours or already held.
var ErrSlotUnavailable = &failure.Failure{
	Code:    409,
	Kind:    failure.KindSlotUnavailable,
	Message: "this time slot is not available, please pick another",
}

type Booking interface {
	// Submit validates and stores a pending booking for the calling donor.
	// Checks run in order: blood type compatibility, eligibility date, slot availability.
	Submit(ctx context.Context, req dto.CreateBookingRequest) (dto.WriteResponse, error)
	// UpdateStatus moves a booking along pending, in_process, completed or to cancelled.
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.WriteResponse, error)
	// Cancel cancels a booking owned by the caller.
	Cancel(ctx context.Context, id string) (dto.WriteResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	History(ctx context.Context, donorID string) (dto.GetBookingsResponse, error)
	Eligibility(ctx context.Context, donorID string) (dto.EligibilityResponse, error)
}

type serviceImpl struct {
	repo          repository.Booking
	donorRepo     donorRepo.Donor
	centerRepo    centerRepo.Center
	needRepo      needRepo.Need
	notifications notificationService.Notification
	reconciler    reconciler.Reconciler
	publisher     event.Publisher
	calculator    *eligibility.Calculator
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Booking,
	donorRepo donorRepo.Donor,
	centerRepo centerRepo.Center,
	needRepo needRepo.Need,
	notifications notificationService.Notification,
	reconciler reconciler.Reconciler,
	publisher event.Publisher,
	calculator *eligibility.Calculator,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:          repo,
		donorRepo:     donorRepo,
		centerRepo:    centerRepo,
		needRepo:      needRepo,
		notifications: notifications,
		reconciler:    reconciler,
		publisher:     publisher,
		calculator:    calculator,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.CreateBookingRequest) (res dto.WriteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	donorID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if donorID == constant.Empty {
		return res, failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	booking, err := req.ToModel(donorID)
	if err != nil {
		return res, failure.BadRequestFromString("booking_date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	donor, center, need, err := s.loadSubmission(ctx, donorID, req)
	if err != nil {
		return res, err
	}

	donorType, ok := donor.Type()
	if !ok {
		return res, failure.Unprocessable(failure.KindInvalidBloodType, "set your blood type before booking a donation") // nolint:wrapcheck
	}

	if !need.BloodType.Valid() {
		log.Error().Str("need_id", need.ID).Str("blood_type", string(need.BloodType)).Msg("blood need carries a malformed blood type")

		fail := failure.Unprocessable(failure.KindInvalidBloodType, fmt.Sprintf("blood need has an invalid blood type %q", need.BloodType))
		fail.Code = http.StatusBadRequest

		return res, fail
	}

	if !bloodtype.IsCompatible(donorType, need.BloodType) {
		return res, failure.Unprocessable( // nolint:wrapcheck
			failure.KindIncompatibleBloodType,
			fmt.Sprintf("your blood type %s is not compatible with this request for %s", donorType, need.BloodType),
		)
	}

	history, err := s.repo.History(ctx, donorID, model.StatusCompleted)
	if err != nil {
		log.Error().Err(err).Str("donor_id", donorID).Msg("failed to get donation history")

		return res, s.storeError("failed to get donation history", err)
	}

	if !s.calculator.IsEligibleOn(history, booking.BookingDate) {
		next := s.calculator.NextEligibleDate(history).Format(constant.DateOnlyFormat)

		fail := failure.Unprocessable(failure.KindTooEarlyToDonate, "you can donate again from "+next)
		fail.Details = map[string]any{"next_eligible_date": next}

		return res, fail
	}

	if err = s.checkSlot(ctx, center, booking); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			log.Warn().Str("center_id", center.ID).Str("time", booking.BookingTime).Msg("slot taken by a concurrent booking")

			return res, err
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, s.storeError("failed to create booking", err)
	}

	res.Booking.FromModel(booking)

	if err := s.notifications.ScheduleBooking(ctx, booking, center.Name); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to schedule booking notifications")

		res.Warnings = append(res.Warnings, warningNotifications)
	}

	res.Warnings = append(res.Warnings, s.written(ctx, nil, &booking)...)

	return res, nil
}

func (s *serviceImpl) loadSubmission(
	ctx context.Context,
	donorID string,
	req dto.CreateBookingRequest,
) (donor donorModel.Donor, center centerModel.Center, need needModel.Need, err error) {
	donor, err = s.donorRepo.Get(ctx, shared.FilterByID(donorID, donorModel.FieldID, donorModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("donor_id", donorID).Msg("failed to get donor")

		return donor, center, need, s.storeError("failed to get donor", err)
	}

	if donor.ID == constant.Empty {
		return donor, center, need, failure.NotFound("donor profile not found") // nolint:wrapcheck
	}

	center, err = s.centerRepo.Get(ctx, shared.FilterByID(req.MedicalCenterID, centerModel.FieldID, centerModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("center_id", req.MedicalCenterID).Msg("failed to get medical center")

		return donor, center, need, s.storeError("failed to get medical center", err)
	}

	if center.ID == constant.Empty {
		return donor, center, need, failure.NotFound("medical center not found") // nolint:wrapcheck
	}

	need, err = s.needRepo.Get(ctx, shared.FilterByID(req.BloodNeedID, needModel.FieldID, needModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("need_id", req.BloodNeedID).Msg("failed to get blood need")

		return donor, center, need, s.storeError("failed to get blood need", err)
	}

	if need.ID == constant.Empty {
		return donor, center, need, needRepo.ErrNotFound
	}

	if need.MedicalCenterID != center.ID {
		return donor, center, need, failure.BadRequestFromString("blood need belongs to another medical center") // nolint:wrapcheck
	}

	if !need.Open() {
		return donor, center, need, failure.Conflict("this blood need is no longer accepting donations") // nolint:wrapcheck
	}

	return donor, center, need, nil
}

// checkSlot re-derives availability at submission time. The store's unique index still decides races.
func (s *serviceImpl) checkSlot(ctx context.Context, center centerModel.Center, booking model.Booking) error {
	if booking.BookingDate.Before(timezone.Today()) {
		return ErrSlotUnavailable
	}

	booked, err := s.repo.BookedTimes(ctx, center.ID, booking.BookingDate)
	if err != nil {
		log.Error().Err(err).Str("center_id", center.ID).Msg("failed to get booked times")

		return s.storeError("failed to get booked times", err)
	}

	if !slot.IsBookable(center.Schedule(), booking.BookingDate, slot.NewSet(booked...), timezone.Now(), booking.BookingTime) {
		return ErrSlotUnavailable
	}

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.WriteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	next, err := model.ParseStatus(req.Status)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	return s.transition(ctx, current, next, req.QuantityML)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.WriteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if current.DonorID != user {
		return res, failure.ResourceRestrictedError
	}

	return s.transition(ctx, current, model.StatusCancelled, nil)
}

func (s *serviceImpl) transition(ctx context.Context, current model.Booking, next model.Status, quantityML *int) (res dto.WriteResponse, err error) {
	if !current.Status.CanTransitionTo(next) {
		return res, invalidTransition(current.Status, next)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if next != model.StatusCompleted {
		quantityML = nil
	}

	updated, err := s.repo.UpdateStatus(ctx, current.ID, current.Status, next, quantityML, user)
	if err != nil {
		log.Error().Err(err).Str("booking_id", current.ID).Msg("failed to update booking status")

		return res, s.storeError("failed to update booking status", err)
	}

	if !updated {
		log.Warn().Str("booking_id", current.ID).Str("from", string(current.Status)).Msg("booking status changed concurrently")

		return res, invalidTransition(current.Status, next)
	}

	after := current
	after.Status = next
	after.ModifiedAt = timezone.Now()
	after.ModifiedBy = user

	if quantityML != nil {
		after.QuantityML = quantityML
	}

	res.Booking.FromModel(after)

	if err := s.notifications.NotifyStatusChange(ctx, after); err != nil {
		log.Warn().Err(err).Str("booking_id", after.ID).Msg("failed to notify booking status change")

		res.Warnings = append(res.Warnings, warningNotifications)
	}

	res.Warnings = append(res.Warnings, s.written(ctx, &current, &after)...)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return s.storeError("failed to delete booking", err)
	}

	if err := s.notifications.CancelBooking(ctx, id); err != nil {
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to cancel booking notifications")
	}

	s.written(ctx, &current, nil)

	return nil
}

// written runs the follow-ups every booking mutation shares. They never undo the write.
func (s *serviceImpl) written(ctx context.Context, before, after *model.Booking) (warnings []string) {
	if err := s.reconciler.OnBookingWritten(ctx, before, after); err != nil {
		log.Warn().Err(err).Msg("failed to reconcile blood need after booking write")

		warnings = append(warnings, warningReconcile)
	}

	if err := s.publisher.Publish(ctx, event.Written{Before: before, After: after}); err != nil {
		log.Warn().Err(err).Msg("failed to publish booking event")
	}

	id := constant.Empty
	if after != nil {
		id = after.ID
	} else if before != nil {
		id = before.ID
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheBookingGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return warnings
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Get hides other donors' bookings from donors. Staff see every booking.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(constant.CacheBookingGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.load(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(booking)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleDonor && res.DonorID != user {
		return dto.BookingResponse{}, failure.ResourceRestrictedError
	}

	return res, nil
}

func (s *serviceImpl) History(ctx context.Context, donorID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.History")
	defer scope.End()
	defer scope.TraceIfError(err)

	history, err := s.repo.History(ctx, donorID)
	if err != nil {
		log.Error().Err(err).Str("donor_id", donorID).Msg("failed to get booking history")

		return res, s.storeError("failed to get booking history", err)
	}

	res.FromModels(history, len(history), 0)

	return res, nil
}

func (s *serviceImpl) Eligibility(ctx context.Context, donorID string) (res dto.EligibilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Eligibility")
	defer scope.End()
	defer scope.TraceIfError(err)

	history, err := s.repo.History(ctx, donorID, model.StatusCompleted)
	if err != nil {
		log.Error().Err(err).Str("donor_id", donorID).Msg("failed to get donation history")

		return res, s.storeError("failed to get donation history", err)
	}

	res.Eligible = s.calculator.IsEligibleNow(history)
	res.NextEligibleDate = s.calculator.NextEligibleDate(history).Format(constant.DateOnlyFormat)
	res.CompletedCount = len(history)

	if last, ok := eligibility.LastCompleted(history); ok {
		res.LastDonationDate = last.Format(constant.DateOnlyFormat)
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, s.storeError("failed to get booking", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// storeError marks connection failures as retryable and wraps everything else.
func (s *serviceImpl) storeError(msg string, err error) error {
	if postgres.IsConnectionError(err) {
		return failure.StoreUnavailable(err) // nolint:wrapcheck
	}

	return fmt.Errorf("%s: %w", msg, err)
}

func invalidTransition(from, to model.Status) error {
	fail := failure.Unprocessable(failure.KindInvalidStatusTransition, fmt.Sprintf("cannot move a %s booking to %s", from, to))
	fail.Code = http.StatusConflict
	fail.Details = map[string]any{"from": string(from), "to": string(to)}

	return fail
}
