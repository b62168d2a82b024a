// Package reconciler keeps each blood need's collected amount consistent with
// its completed bookings. Every entry point recomputes from the store, so it is
// safe to run for duplicated or reordered booking events.
package reconciler

//go:generate go run go.uber.org/mock/mockgen -source=./reconciler.go -destination=../mocks/reconciler_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"donorlink/config"
	"donorlink/infras/otel"
	bookingModel "donorlink/internal/domains/booking/model"
	donorRepo "donorlink/internal/domains/donor/repository"
	"donorlink/internal/domains/need/model"
	"donorlink/internal/domains/need/repository"
	"donorlink/shared"
	"donorlink/shared/cache"
	"donorlink/shared/constant"

	"github.com/rs/zerolog/log"
)

type Reconciler interface {
	// Reconcile recomputes one need under its row lock.
	Reconcile(ctx context.Context, needID string) (model.Need, error)
	// OnBookingWritten reconciles the needs touched by a booking write. Missing needs are skipped.
	OnBookingWritten(ctx context.Context, before, after *bookingModel.Booking) error
	// ReconcileAll recomputes every need and returns how many succeeded.
	ReconcileAll(ctx context.Context) (int, error)
}

type reconcilerImpl struct {
	repo      repository.Need
	donorRepo donorRepo.Donor
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Need, donorRepo donorRepo.Donor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Reconciler {
	return &reconcilerImpl{
		repo:      repo,
		donorRepo: donorRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (r *reconcilerImpl) Reconcile(ctx context.Context, needID string) (res model.Need, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reconciler.Reconcile")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = r.repo.Reconcile(ctx, needID, Tally(r.cfg.Scheduling.DefaultVolumeML))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Str("need_id", needID).Msg("failed to reconcile need")
		}

		return res, fmt.Errorf("failed to reconcile need %s: %w", needID, err)
	}

	log.Info().
		Str("need_id", needID).
		Int("collected_ml", res.CollectedAmountML).
		Str("status", string(res.Status)).
		Msg("need reconciled")

	go func() {
		c := context.WithoutCancel(ctx)

		if err := r.cache.Delete(c, shared.BuildCacheKey(constant.CacheNeedGet, needID)); err != nil {
			log.Error().Err(err).Msg("failed to delete need from cache")
		}

		shared.InvalidateCaches(c, r.cache, constant.CacheNeedGetAll)
	}()

	return res, nil
}

func (r *reconcilerImpl) OnBookingWritten(ctx context.Context, before, after *bookingModel.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reconciler.OnBookingWritten")
	defer scope.End()
	defer scope.TraceIfError(err)

	var errs []error

	for _, needID := range Affected(before, after) {
		if _, err := r.Reconcile(ctx, needID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Warn().Str("need_id", needID).Msg("booking references a missing need, skipping")

				continue
			}

			errs = append(errs, err)
		}
	}

	if touchesCompleted(before, after) {
		for _, donorID := range Donors(before, after) {
			if err := r.refreshDonor(ctx, donorID); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (r *reconcilerImpl) ReconcileAll(ctx context.Context) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reconciler.ReconcileAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	ids, err := r.repo.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list needs: %w", err)
	}

	var errs []error

	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())

			break
		}

		if _, err := r.Reconcile(ctx, id); err != nil {
			errs = append(errs, err)

			continue
		}

		count++
	}

	return count, errors.Join(errs...)
}

func (r *reconcilerImpl) refreshDonor(ctx context.Context, donorID string) error {
	if err := r.donorRepo.RefreshStats(ctx, donorID, r.cfg.Scheduling.DefaultVolumeML); err != nil {
		log.Error().Err(err).Str("donor_id", donorID).Msg("failed to refresh donor stats")

		return fmt.Errorf("failed to refresh donor stats: %w", err)
	}

	go func() {
		if err := r.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(constant.CacheDonorGet, donorID)); err != nil {
			log.Error().Err(err).Msg("failed to delete donor from cache")
		}
	}()

	return nil
}

func touchesCompleted(before, after *bookingModel.Booking) bool {
	return (before != nil && before.Status == bookingModel.StatusCompleted) ||
		(after != nil && after.Status == bookingModel.StatusCompleted)
}
