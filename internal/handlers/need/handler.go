package need

import (
	"net/http"

	"donorlink/infras/otel"
	"donorlink/internal/domains/need/model/dto"
	"donorlink/internal/domains/need/service"
	"donorlink/shared"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	"donorlink/shared/validator"
	"donorlink/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Need
	otel    otel.Otel
}

func New(service service.Need, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/needs", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetNeeds)
		routerGroup.Post("/", handler.CreateNeed)
		routerGroup.Get("/matching", handler.GetMatchingNeeds)
		routerGroup.Get("/{id}", handler.GetNeedByID)
		routerGroup.Patch("/{id}/close", handler.CloseNeed)
	})
}

// GetNeeds lists open blood needs, urgent first.
// @Summary Get open blood needs
// @Tags Need
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param center_id query string false "Filter by medical center"
// @Param urgent query bool false "Only urgent (true) or only routine (false) needs"
// @Success 200 {object} response.Data[dto.GetNeedsResponse] "Open needs"
// @Failure 500 {object} response.Error
// @Router /v1/needs [get]
// @Security BearerAuth
func (handler *Handler) GetNeeds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNeeds")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	centerID := r.URL.Query().Get(constant.RequestParamCenterID)
	urgent := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamUrgent))

	needs, err := handler.service.GetAll(ctx, queryParams, centerID, urgent)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get needs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, needs)
}

// GetMatchingNeeds lists the open needs the caller's blood type can serve, oldest first.
// @Summary Get needs matching my blood type
// @Tags Need
// @Produce json
// @Param center_id query string false "Filter by medical center"
// @Success 200 {object} response.Data[dto.GetNeedsResponse] "Matching needs"
// @Failure 401 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/needs/matching [get]
// @Security BearerAuth
func (handler *Handler) GetMatchingNeeds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMatchingNeeds")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	centerID := r.URL.Query().Get(constant.RequestParamCenterID)

	needs, err := handler.service.Matching(ctx, userID, centerID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("donor_id", userID).Msg("failed to get matching needs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, needs)
}

// GetNeedByID returns one blood need.
// @Summary Get a blood need by ID
// @Tags Need
// @Produce json
// @Param id path string true "Need ID"
// @Success 200 {object} response.Data[dto.NeedResponse] "Need details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/needs/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetNeedByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNeedByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	need, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("need_id", id).Msg("failed to get need")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, need)
}

// CreateNeed registers a blood need. Urgent needs are pushed to every compatible donor.
// @Summary Create a blood need
// @Tags Need
// @Accept json
// @Produce json
// @Param request body dto.CreateNeedRequest true "Create Need Request"
// @Success 201 {object} response.Data[dto.CreateNeedResponse] "Need created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/needs [post]
// @Security BearerAuth
func (handler *Handler) CreateNeed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateNeed")
	defer scope.End()

	req := dto.CreateNeedRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	need, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create need")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Need created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, need)
}

// CloseNeed closes a need before its target is reached.
// @Summary Close a blood need
// @Tags Need
// @Produce json
// @Param id path string true "Need ID"
// @Success 200 {object} response.Message "Need closed successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/needs/{id}/close [patch]
// @Security BearerAuth
func (handler *Handler) CloseNeed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CloseNeed")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Close(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("need_id", id).Msg("failed to close need")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Need closed by user " + user)

	response.WithMessage(w, http.StatusOK, "Need closed successfully")
}
