package donor

import (
	"net/http"

	"donorlink/infras/otel"
	bookingService "donorlink/internal/domains/booking/service"
	"donorlink/internal/domains/donor/model/dto"
	"donorlink/internal/domains/donor/service"
	"donorlink/shared/constant"
	"donorlink/shared/failure"
	"donorlink/shared/validator"
	"donorlink/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Donor
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.Donor, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/donors", func(routerGroup chi.Router) {
		routerGroup.Get("/me", handler.GetMe)
		routerGroup.Patch("/me", handler.UpdateMe)
		routerGroup.Get("/me/eligibility", handler.GetEligibility)
	})
}

// GetMe returns the caller's donor profile, creating it on first access.
// @Summary Get my donor profile
// @Tags Donor
// @Produce json
// @Success 200 {object} response.Data[dto.DonorResponse] "Donor profile"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/donors/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	donor, err := handler.service.Me(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get donor profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, donor)
}

// UpdateMe updates the caller's blood type, push token or notification opt-in.
// @Summary Update my donor profile
// @Tags Donor
// @Accept json
// @Produce json
// @Param request body dto.UpdateDonorRequest true "Update Donor Request"
// @Success 200 {object} response.Message "Profile updated successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/donors/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMe")
	defer scope.End()

	req := dto.UpdateDonorRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update donor profile")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Profile updated successfully")
}

// GetEligibility tells the caller when they may donate again.
// @Summary Get my donation eligibility
// @Tags Donor
// @Produce json
// @Success 200 {object} response.Data[bookingDto.EligibilityResponse] "Eligibility"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/donors/me/eligibility [get]
// @Security BearerAuth
func (handler *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEligibility")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	eligibility, err := handler.bookings.Eligibility(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("donor_id", userID).Msg("failed to get eligibility")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, eligibility)
}
