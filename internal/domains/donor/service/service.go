package service

import (
	"context"
	"fmt"

	"donorlink/config"
	"donorlink/infras/otel"
	"donorlink/internal/domains/bloodtype"
	"donorlink/internal/domains/donor/model"
	"donorlink/internal/domains/donor/model/dto"
	"donorlink/internal/domains/donor/repository"
	"donorlink/shared"
	"donorlink/shared/cache"
	"donorlink/shared/constant"
	"donorlink/shared/failure"

	"github.com/rs/zerolog/log"
)

type Donor interface {
	// Me returns the caller's profile, creating it on first access.
	Me(ctx context.Context) (dto.DonorResponse, error)
	Update(ctx context.Context, req dto.UpdateDonorRequest) error
}

type serviceImpl struct {
	repo  repository.Donor
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Donor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Donor {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Me(ctx context.Context) (res dto.DonorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".donor.Me")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("missing donor identity") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheDonorGet, userID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for donor")

		return res, nil
	}

	filter := shared.FilterByID(userID, model.FieldID, model.TableName)

	donor, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("donor_id", userID).Msg("failed to get donor")

		return res, fmt.Errorf("failed to get donor: %w", err)
	}

	if donor.ID == constant.Empty {
		email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

		if err = s.repo.Ensure(ctx, model.Donor{ID: userID, Email: email}); err != nil {
			log.Error().Err(err).Str("donor_id", userID).Msg("failed to create donor")

			return res, fmt.Errorf("failed to create donor: %w", err)
		}

		if donor, err = s.repo.Get(ctx, filter); err != nil {
			return res, fmt.Errorf("failed to get donor: %w", err)
		}
	}

	res.FromModel(donor)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save donor to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateDonorRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".donor.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Empty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return failure.Unauthorized("missing donor identity") // nolint:wrapcheck
	}

	if req.BloodType != nil {
		bt, err := bloodtype.Parse(*req.BloodType)
		if err != nil {
			return err //nolint:wrapcheck
		}

		normalized := bt.String()
		req.BloodType = &normalized
	}

	if _, err = s.Me(ctx); err != nil {
		return err
	}

	filter := shared.FilterByID(userID, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, shared.TransformFields(req, userID), filter); err != nil {
		log.Error().Err(err).Str("donor_id", userID).Msg("failed to update donor")

		return fmt.Errorf("failed to update donor: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheDonorGet, userID)); err != nil {
			log.Error().Err(err).Msg("failed to delete donor from cache")
		}
	}()

	return nil
}
