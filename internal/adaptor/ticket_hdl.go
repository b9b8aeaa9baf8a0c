package adaptor

import (
	"net/http"
	"strconv"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// PurchaseTickets handles POST /api/tickets
func (h *TicketHandler) PurchaseTickets(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.PurchaseTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := h.service.PurchaseTickets(r.Context(), caller.ID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "purchase tickets")
		return
	}

	utils.ResponseCreated(w, "Tickets purchased successfully", ticket)
}

// GetMyTickets handles GET /api/tickets
func (h *TicketHandler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	req := request.PaginationFromQuery(r.URL.Query())
	tickets, err := h.service.GetMyTickets(r.Context(), caller.ID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets")
		return
	}

	utils.ResponseSuccess(w, "Tickets retrieved successfully", tickets)
}

// GetTicket handles GET /api/tickets/{id}
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	ticket, err := h.service.GetTicket(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket retrieved successfully", ticket)
}

// GetTicketQR handles GET /api/tickets/{id}/qr and writes a PNG.
func (h *TicketHandler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	png, err := h.service.GetTicketQR(r.Context(), caller.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Warn("Failed to write QR code", zap.Error(err))
	}
}

// CancelTicket handles PUT /api/tickets/{id}/cancel
func (h *TicketHandler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	ticket, err := h.service.CancelTicket(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket cancelled successfully", ticket)
}

// GetAllTickets handles GET /api/admin/tickets?showtime_id=
func (h *TicketHandler) GetAllTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaginationFromQuery(query)

	tickets, err := h.service.GetAllTickets(r.Context(), &req, query.Get("showtime_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets")
		return
	}

	utils.ResponseSuccess(w, "Tickets retrieved successfully", tickets)
}

// RedeemTicket handles PUT /api/admin/tickets/{id}/redeem
func (h *TicketHandler) RedeemTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.RedeemTicket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "redeem ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket redeemed successfully", ticket)
}
