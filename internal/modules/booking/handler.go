package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mentorhub/internal/domain"
	"mentorhub/internal/modules/payment"
	"mentorhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.POST("/bookings/verify-payment", h.VerifyPayment)
	rg.GET("/bookings", h.ListMine)
	rg.GET("/bookings/mentor", h.ListForMentor)
	rg.GET("/bookings/payments", h.PaymentHistory)
	rg.POST("/bookings/:id/cancel", h.Cancel)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrServiceInactive):
			response.Validation(c, err.Error())
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Service not found")
		case errors.Is(err, ErrSlotTaken):
			response.Conflict(c, "Slot is no longer available")
		case errors.Is(err, payment.ErrNotConfigured):
			response.Error(c, http.StatusInternalServerError, "GATEWAY_NOT_CONFIGURED", err.Error())
		case errors.Is(err, payment.ErrGateway):
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway unavailable, please retry")
		default:
			response.Internal(c, "Error creating booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req payment.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Missing payment details")
		return
	}

	result, err := h.service.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrValidation):
			response.Validation(c, "Missing payment details")
		case errors.Is(err, payment.ErrNotFound):
			response.NotFound(c, "Booking not found")
		case errors.Is(err, payment.ErrConflict):
			response.Conflict(c, "Booking is already in a terminal state")
		case errors.Is(err, payment.ErrNotConfigured):
			response.Error(c, http.StatusInternalServerError, "GATEWAY_NOT_CONFIGURED", err.Error())
		case errors.Is(err, payment.ErrGateway):
			// Booking is still PENDING: the caller may retry with the same
			// identifiers, verification is idempotent.
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway unavailable, please retry")
		case errors.Is(err, payment.ErrInvalidSignature), errors.Is(err, payment.ErrNotCaptured):
			response.Error(c, http.StatusBadRequest, "PAYMENT_FAILED", "Payment verification failed")
		default:
			response.Internal(c, "Error verifying payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"booking":           result.Booking,
		"notification_sent": result.NotificationSent,
		"already_verified":  result.AlreadyVerified,
	})
}

func (h *Handler) ListMine(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Internal(c, "Error fetching bookings")
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) ListForMentor(c *gin.Context) {
	if domain.Role(c.GetString("role")) != domain.RoleMentor {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Mentor role required")
		return
	}

	bookings, err := h.service.ListForMentor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Internal(c, "Error fetching bookings")
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	payments, err := h.service.PaymentHistory(c.Request.Context(), c.GetInt64("user_id"), domain.Role(c.GetString("role")))
	if err != nil {
		response.Internal(c, "Error fetching payment history")
		return
	}
	response.Success(c, http.StatusOK, payments)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Validation(c, "Invalid booking ID")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Booking not found")
		case errors.Is(err, ErrAlreadyFinal):
			response.Conflict(c, "Booking is already in a terminal state")
		default:
			response.Internal(c, "Error cancelling booking")
		}
		return
	}
	response.Success(c, http.StatusOK, b)
}
