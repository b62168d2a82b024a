package router

import (
	"donorlink/internal/handlers/booking"
	"donorlink/internal/handlers/center"
	"donorlink/internal/handlers/donor"
	"donorlink/internal/handlers/need"
	"donorlink/internal/handlers/trigger"
	"donorlink/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Center  center.Handler
	Need    need.Handler
	Booking booking.Handler
	Donor   donor.Handler
	Trigger trigger.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Center.Router(routerGroup)
		r.DomainHandlers.Need.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Donor.Router(routerGroup)
		r.DomainHandlers.Trigger.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
