package center

import (
	"net/http"

	"donorlink/infras/otel"
	"donorlink/internal/domains/center/model"
	"donorlink/internal/domains/center/service"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Center
	otel    otel.Otel
}

func New(service service.Center, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/centers", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetCenters)
		routerGroup.Get("/{id}", handler.GetCenterByID)
		routerGroup.Get("/{id}/slots", handler.GetSlots)
	})
}

// GetCenters lists medical centers.
// @Summary Get all medical centers
// @Tags Center
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetCentersResponse] "List of centers"
// @Failure 500 {object} response.Error
// @Router /v1/centers [get]
// @Security BearerAuth
func (handler *Handler) GetCenters(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCenters")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	centers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get centers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, centers)
}

// GetCenterByID returns a medical center with its working hours.
// @Summary Get a medical center by ID
// @Tags Center
// @Produce json
// @Param id path string true "Center ID"
// @Success 200 {object} response.Data[dto.CenterResponse] "Center details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/centers/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCenterByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCenterByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	center, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("center_id", id).Msg("failed to get center")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, center)
}

// GetSlots lists the hours still bookable at a center on a date.
// @Summary Get available slots
// @Description Whole-hour slots inside the center's working hours that are not yet booked.
// @Tags Center
// @Produce json
// @Param id path string true "Center ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.SlotsResponse] "Available slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/centers/{id}/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	slots, err := handler.service.Slots(ctx, id, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("center_id", id).Str("date", date).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}
