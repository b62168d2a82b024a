package service

import (
	"context"
	"fmt"

	"donorlink/config"
	"donorlink/infras/otel"
	bookingRepo "donorlink/internal/domains/booking/repository"
	"donorlink/internal/domains/center/model"
	"donorlink/internal/domains/center/model/dto"
	"donorlink/internal/domains/center/repository"
	"donorlink/internal/domains/center/slot"
	"donorlink/shared"
	"donorlink/shared/cache"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	"donorlink/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCenter    = "center:get"
	cacheGetAllCenter = "center:gets"
	cacheCountCenter  = "center:count"
)

type Center interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCentersResponse, error)
	Get(ctx context.Context, id string) (dto.CenterResponse, error)
	// Slots lists the bookable HH:00 slots of a center on a YYYY-MM-DD date.
	Slots(ctx context.Context, id, date string) (dto.SlotsResponse, error)
}

type serviceImpl struct {
	repo        repository.Center
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Center, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Center {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCentersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".center.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCenter, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for centers")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get centers")

		return res, fmt.Errorf("failed to get centers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save centers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCenter, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count centers")

		return res, fmt.Errorf("failed to count centers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save center count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CenterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".center.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCenter, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for center")

		return res, nil
	}

	center, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(center)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save center to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Slots(ctx context.Context, id, date string) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".center.Slots")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	center, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.CenterID = center.ID
	res.Date = day.Format(constant.DateOnlyFormat)
	res.Slots = []string{}

	if day.Before(timezone.Today()) {
		return res, nil
	}

	booked, err := s.bookingRepo.BookedTimes(ctx, center.ID, day)
	if err != nil {
		log.Error().Err(err).Str("center_id", center.ID).Msg("failed to get booked times")

		return res, fmt.Errorf("failed to get booked times: %w", err)
	}

	res.Slots = slot.Bookable(center.Schedule(), day, slot.NewSet(booked...), timezone.Now())

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Center, error) {
	center, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("center_id", id).Msg("failed to get center")

		return center, fmt.Errorf("failed to get center: %w", err)
	}

	if center.ID == constant.Empty {
		return center, failure.NotFound("medical center not found") // nolint:wrapcheck
	}

	return center, nil
}
