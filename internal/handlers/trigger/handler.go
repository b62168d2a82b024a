// Package trigger exposes the entry points called by the database and by operators
// to keep blood need totals in line with completed bookings.
package trigger

import (
	"net/http"

	"donorlink/infras/otel"
	"donorlink/internal/domains/booking/model/dto"
	"donorlink/internal/domains/need/reconciler"
	needDto "donorlink/internal/domains/need/model/dto"
	"donorlink/shared/constant"
	"donorlink/shared/validator"
	"donorlink/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	reconciler reconciler.Reconciler
	otel       otel.Otel
}

func New(reconciler reconciler.Reconciler, otel otel.Otel) Handler {
	return Handler{
		reconciler: reconciler,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/internal", func(routerGroup chi.Router) {
		routerGroup.Post("/triggers/booking-written", handler.BookingWritten)
		routerGroup.Post("/needs/{id}/reconcile", handler.ReconcileNeed)
	})
}

// BookingWritten recomputes the needs touched by one booking row change.
// @Summary Booking write trigger
// @Description Called by the store on every booking insert, update or delete.
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body dto.BookingWrittenRequest true "Old and new booking row"
// @Success 202 {object} response.Message "Reconciled"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/internal/triggers/booking-written [post]
// @Security ApiKeyAuth
func (handler *Handler) BookingWritten(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BookingWritten")
	defer scope.End()

	req := dto.BookingWrittenRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate trigger payload")

		response.WithError(w, err)

		return
	}

	if err := handler.reconciler.OnBookingWritten(ctx, req.Before.ToModel(), req.After.ToModel()); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reconcile after booking write")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusAccepted, "Reconciled")
}

// ReconcileNeed recomputes one need from its completed bookings.
// @Summary Reconcile a blood need
// @Tags Internal
// @Produce json
// @Param id path string true "Need ID"
// @Success 200 {object} response.Data[needDto.NeedResponse] "Reconciled need"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/internal/needs/{id}/reconcile [post]
// @Security ApiKeyAuth
func (handler *Handler) ReconcileNeed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReconcileNeed")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	need, err := handler.reconciler.Reconcile(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("need_id", id).Msg("failed to reconcile need")

		response.WithError(w, err)

		return
	}

	res := needDto.NeedResponse{}
	res.FromModel(need)

	response.WithJSON(w, http.StatusOK, res)
}
