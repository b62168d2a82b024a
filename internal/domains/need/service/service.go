package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Need=MockNeedService

import (
	"context"
	"fmt"
	"slices"

	"donorlink/config"
	"donorlink/infras/otel"
	centerModel "donorlink/internal/domains/center/model"
	centerRepo "donorlink/internal/domains/center/repository"
	donorModel "donorlink/internal/domains/donor/model"
	donorRepo "donorlink/internal/domains/donor/repository"
	"donorlink/internal/domains/need/matcher"
	"donorlink/internal/domains/need/model"
	"donorlink/internal/domains/need/model/dto"
	"donorlink/internal/domains/need/repository"
	notificationService "donorlink/internal/domains/notification/service"
	"donorlink/shared"
	"donorlink/shared/cache"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	"donorlink/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Need interface {
	// GetAll lists open needs, urgent first and newest first. A nil urgent keeps both kinds.
	GetAll(ctx context.Context, req gDto.QueryParams, centerID string, urgent *bool) (dto.GetNeedsResponse, error)
	Get(ctx context.Context, id string) (dto.NeedResponse, error)
	// Matching lists the open needs the caller can give to, oldest first.
	Matching(ctx context.Context, donorID, centerID string) (dto.GetNeedsResponse, error)
	Create(ctx context.Context, req dto.CreateNeedRequest) (dto.CreateNeedResponse, error)
	// Close takes a need out of circulation regardless of its collected amount.
	Close(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo          repository.Need
	centerRepo    centerRepo.Center
	donorRepo     donorRepo.Donor
	notifications notificationService.Notification
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Need,
	centerRepo centerRepo.Center,
	donorRepo donorRepo.Donor,
	notifications notificationService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Need {
	return &serviceImpl{
		repo:          repo,
		centerRepo:    centerRepo,
		donorRepo:     donorRepo,
		notifications: notifications,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, centerID string, urgent *bool) (res dto.GetNeedsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".need.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	keyFilters := []any{shared.FilterEq(model.FieldMedicalCenterID, centerID, model.TableName)}
	if urgent != nil {
		keyFilters = append(keyFilters, shared.FilterEq(model.FieldUrgent, *urgent, model.TableName))
	}

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheNeedGetAll, req, gDto.And(keyFilters...))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for needs")

		return res, nil
	}

	needs, err := s.repo.Open(ctx, centerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get open needs")

		return res, fmt.Errorf("failed to get open needs: %w", err)
	}

	if urgent != nil {
		needs = slices.DeleteFunc(needs, func(n model.Need) bool { return n.Urgent != *urgent })
	}

	matcher.Sort(needs, matcher.OrderPriority)
	res.FromModels(needs, req.Page, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save needs to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.NeedResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".need.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(constant.CacheNeedGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for need")

		return res, nil
	}

	need, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(need)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save need to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Matching(ctx context.Context, donorID, centerID string) (res dto.GetNeedsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".need.Matching")
	defer scope.End()
	defer scope.TraceIfError(err)

	donor, err := s.donorRepo.Get(ctx, shared.FilterByID(donorID, donorModel.FieldID, donorModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("donor_id", donorID).Msg("failed to get donor")

		return res, fmt.Errorf("failed to get donor: %w", err)
	}

	if donor.ID == constant.Empty {
		return res, failure.NotFound("donor not found") // nolint:wrapcheck
	}

	bt, ok := donor.Type()
	if !ok {
		return res, failure.Unprocessable(failure.KindInvalidBloodType, "set your blood type to see matching needs") // nolint:wrapcheck
	}

	needs, err := s.repo.Open(ctx, centerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get open needs")

		return res, fmt.Errorf("failed to get open needs: %w", err)
	}

	res.FromModels(matcher.MatchingNeeds(bt, needs, matcher.OrderChronological), 0, 0)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateNeedRequest) (res dto.CreateNeedResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".need.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	center, err := s.centerRepo.Get(ctx, shared.FilterByID(req.MedicalCenterID, centerModel.FieldID, centerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get medical center")

		return res, fmt.Errorf("failed to get medical center: %w", err)
	}

	if center.ID == constant.Empty {
		return res, failure.NotFound("medical center not found") // nolint:wrapcheck
	}

	need, err := req.ToModel(user)
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, need); err != nil {
		log.Error().Err(err).Msg("failed to create need")

		return res, fmt.Errorf("failed to create need: %w", err)
	}

	res.NeedResponse.FromModel(need)

	if need.Urgent {
		notified, err := s.notifications.NotifyUrgentNeed(ctx, need, center.Name)
		if err != nil {
			log.Warn().Err(err).Str("need_id", need.ID).Msg("urgent need fan-out failed")

			res.Warnings = append(res.Warnings, "donors could not be notified about this urgent need")
		}

		res.NotifiedDonors = notified
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, constant.CacheNeedGetAll)
	}()

	return res, nil
}

func (s *serviceImpl) Close(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".need.Close")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	need, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if need.Status == model.StatusClosed {
		return nil
	}

	fields := map[string]any{
		model.FieldStatus:        string(model.StatusClosed),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("need_id", id).Msg("failed to close need")

		return fmt.Errorf("failed to close need: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheNeedGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete need from cache")
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheNeedGetAll)
	}()

	return nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Need, error) {
	need, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("need_id", id).Msg("failed to get need")

		return need, fmt.Errorf("failed to get need: %w", err)
	}

	if need.ID == constant.Empty {
		return need, failure.NotFound("blood need not found") // nolint:wrapcheck
	}

	return need, nil
}
