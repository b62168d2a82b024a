//go:build wireinject
// +build wireinject

package di

import (
	"donorlink/config"
	"donorlink/infras/expo"
	"donorlink/infras/jwt"
	"donorlink/infras/kafka"
	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	"donorlink/infras/redis"
	"donorlink/permissions"
	"donorlink/shared/cache"
	"donorlink/transport/http"
	"donorlink/transport/http/middleware"
	"donorlink/transport/http/router"

	bookingEligibility "donorlink/internal/domains/booking/eligibility"
	bookingEvent "donorlink/internal/domains/booking/event"
	bookingRepository "donorlink/internal/domains/booking/repository"
	bookingService "donorlink/internal/domains/booking/service"
	centerRepository "donorlink/internal/domains/center/repository"
	centerService "donorlink/internal/domains/center/service"
	donorRepository "donorlink/internal/domains/donor/repository"
	donorService "donorlink/internal/domains/donor/service"
	needReconciler "donorlink/internal/domains/need/reconciler"
	needRepository "donorlink/internal/domains/need/repository"
	needService "donorlink/internal/domains/need/service"
	notificationRepository "donorlink/internal/domains/notification/repository"
	notificationService "donorlink/internal/domains/notification/service"

	bookingHandler "donorlink/internal/handlers/booking"
	centerHandler "donorlink/internal/handlers/center"
	donorHandler "donorlink/internal/handlers/donor"
	needHandler "donorlink/internal/handlers/need"
	triggerHandler "donorlink/internal/handlers/trigger"

	"donorlink/internal/workers/notifier"
	reconcilerWorker "donorlink/internal/workers/reconciler"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	centerRepository.New,
	donorRepository.New,
	needRepository.New,
	bookingRepository.New,
	notificationRepository.New,
)

var domains = wire.NewSet(
	centerService.New,
	donorService.New,
	notificationService.New,
	needReconciler.New,
	needService.New,
	bookingEligibility.NewCalculator,
	bookingEvent.New,
	bookingService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	centerHandler.New,
	needHandler.New,
	bookingHandler.New,
	donorHandler.New,
	triggerHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeReconciler() needReconciler.Reconciler {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		redis.New,
		sharedHelpers,
		needRepository.New,
		donorRepository.New,
		needReconciler.New,
	)

	return nil
}

func InitializeConsumer() *reconcilerWorker.Consumer {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		sharedHelpers,
		needRepository.New,
		donorRepository.New,
		needReconciler.New,
		reconcilerWorker.New,
	)

	return &reconcilerWorker.Consumer{}
}

func InitializeDispatcher() *notifier.Dispatcher {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		notificationRepository.New,
		donorRepository.New,
		expo.New,
		notifier.New,
	)

	return &notifier.Dispatcher{}
}
