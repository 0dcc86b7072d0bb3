package booking

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/petminded/petcare-api/internal/middleware"
	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/service/booking"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
	"github.com/petminded/petcare-api/pkg/httputil"
	"github.com/petminded/petcare-api/pkg/validator"
)

type Handler struct {
	service   *booking.Service
	validator *validator.Validator
}

func NewHandler(service *booking.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.GetBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/accept", h.AcceptBooking)
		bookings.POST("/:id/decline", h.DeclineBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/completeservice", h.CompleteService)
		bookings.POST("/:id/pay", h.PayBooking)
	}
}

func (h *Handler) GetBookings(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	bookings, err := h.service.GetBookingsByCallerID(c.Request.Context(), callerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bookings)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), nil))
		return
	}

	bookingID, err := h.service.CreateBooking(c.Request.Context(), callerID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, gin.H{"booking_id": bookingID})
}

func (h *Handler) GetBooking(c *gin.Context) {
	callerID, bookingID, ok := callerAndBookingID(c)
	if !ok {
		return
	}

	booked, err := h.service.GetBooking(c.Request.Context(), callerID, bookingID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, booked)
}

func (h *Handler) AcceptBooking(c *gin.Context) {
	doTransition(c, h.service.AcceptBooking)
}

func (h *Handler) DeclineBooking(c *gin.Context) {
	doTransition(c, h.service.DeclineBooking)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	doTransition(c, h.service.CancelBooking)
}

// CompleteService marks the service rendered and cuts the invoice.
func (h *Handler) CompleteService(c *gin.Context) {
	doTransition(c, h.service.PendingPaymentBooking)
}

// PayBooking settles the invoice and completes the booking.
func (h *Handler) PayBooking(c *gin.Context) {
	doTransition(c, h.service.PayBookingBill)
}

func doTransition(c *gin.Context, fn func(ctx context.Context, callerID uuid.UUID, bookingID int64) error) {
	callerID, bookingID, ok := callerAndBookingID(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), callerID, bookingID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nil)
}

func callerAndBookingID(c *gin.Context) (uuid.UUID, int64, bool) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return uuid.Nil, 0, false
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return uuid.Nil, 0, false
	}
	return callerID, bookingID, true
}
