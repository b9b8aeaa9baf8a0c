package adaptor

import (
	"net/http"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatHandler struct {
	service usecase.SeatService
	log     *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat")),
	}
}

// GetSeatMap handles GET /api/seats?showtime_id=
// Authentication is optional; a signed in caller sees their own holds as selected.
func (h *SeatHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID := r.URL.Query().Get("showtime_id")
	if showtimeID == "" {
		utils.ResponseBadRequest(w, "showtime_id is required", nil)
		return
	}

	callerID := uuid.Nil
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		callerID = userID
	}

	seatMap, err := h.service.GetSeatMap(r.Context(), showtimeID, callerID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "Seats retrieved successfully", seatMap)
}

// HoldSeats handles POST /api/seats/hold
func (h *SeatHandler) HoldSeats(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.HoldSeatsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hold, err := h.service.HoldSeats(r.Context(), caller.ID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "hold seats")
		return
	}

	utils.ResponseSuccess(w, "Seats held successfully", hold)
}

// ReleaseHold handles DELETE /api/seats/hold
func (h *SeatHandler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.ReleaseHoldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ReleaseHold(r.Context(), caller.ID, &req); err != nil {
		handleServiceError(w, h.log, err, "release seats")
		return
	}

	utils.ResponseSuccess(w, "Seats released successfully", nil)
}

// UpdateSeatStatus handles PUT /api/seats/{id}
func (h *SeatHandler) UpdateSeatStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSeatStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	seat, err := h.service.UpdateSeatStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update seat")
		return
	}

	utils.ResponseSuccess(w, "Seat updated successfully", seat)
}
