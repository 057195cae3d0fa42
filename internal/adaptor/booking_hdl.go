package adaptor

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"venue-bot/internal/dto/request"
	"venue-bot/internal/dto/response"
	"venue-bot/internal/usecase"
	"venue-bot/pkg/utils"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	booking usecase.BookingService
	notify  usecase.NotifyService
	log     *zap.Logger
}

func NewBookingHandler(booking usecase.BookingService, notify usecase.NotifyService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		booking: booking,
		notify:  notify,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListPending handles GET /api/admin/bookings
func (h *BookingHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))

	bookings, err := h.booking.ListPending(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list pending bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/admin/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.booking.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/admin/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.booking.Cancel(r.Context(), id, nil)
	if err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking))
}

// TestNotify handles POST /api/admin/notify/test
func (h *BookingHandler) TestNotify(w http.ResponseWriter, r *http.Request) {
	var req request.TestNotifyRequest
	if r.ContentLength != 0 {
		if err := sonic.ConfigStd.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result := h.notify.Test(r.Context(), req.Text)
	resp := response.BroadcastResponse{
		Attempted: result.Attempted,
		Delivered: result.Delivered,
		Errors:    make([]string, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}

	if !result.OK() {
		utils.ResponseBadGateway(w, h.notify.Report(result), resp)
		return
	}
	utils.ResponseSuccess(w, h.notify.Report(result), resp)
}

func bookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return 0, false
	}
	return id, true
}

// handleServiceError maps booking errors to responses
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrAlreadyCanceled):
		h.log.Warn(operation+" failed - already canceled",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
