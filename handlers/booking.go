package handlers

import (
	"net/http"

	"homeserve/models"
	"homeserve/services/booking"
	"homeserve/services/provider"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves client bookings and the admin booking views.
type BookingHandler struct {
	BookingService  booking.BookingService
	ProviderService provider.ProviderService
}

func NewBookingHandler(bs booking.BookingService, ps provider.ProviderService) *BookingHandler {
	return &BookingHandler{BookingService: bs, ProviderService: ps}
}

type assignProviderRequest struct {
	ServiceProviderID string `json:"serviceProviderId" binding:"required"`
}

func statusQuery(c *gin.Context) models.BookingStatus {
	return models.BookingStatus(c.Query("status"))
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var in booking.CreateBookingInput
	if !bindJSON(c, &in) {
		return
	}
	userID := principal(c).ID
	b, err := h.BookingService.Create(c.Request.Context(), userID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("booking created", zap.String("bookingID", b.ID), zap.String("userID", userID))
	c.JSON(http.StatusCreated, b)
}

// MyBookings handles GET /api/bookings/my-bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	page, err := h.BookingService.ListForUser(c.Request.Context(), principal(c).ID, statusQuery(c), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// MyBooking handles GET /api/bookings/my-bookings/:bookingId.
func (h *BookingHandler) MyBooking(c *gin.Context) {
	b, err := h.BookingService.GetForUser(c.Request.Context(), c.Param("bookingId"), principal(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBooking handles PUT /api/bookings/:bookingId for both owners and admins.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var patch booking.AdminBookingPatch
	if !bindJSON(c, &patch) {
		return
	}
	b, err := h.BookingService.Update(c.Request.Context(), c.Param("bookingId"), principal(c), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var in booking.RescheduleInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.BookingService.Reschedule(c.Request.Context(), c.Param("bookingId"), principal(c).ID, in.Date, in.Time)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Cancel accepts an empty body.
func (h *BookingHandler) Cancel(c *gin.Context) {
	var in booking.CancelInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	b, err := h.BookingService.Cancel(c.Request.Context(), c.Param("bookingId"), principal(c).ID, in.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("booking cancelled", zap.String("bookingID", b.ID))
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.BookingService.Delete(c.Request.Context(), c.Param("bookingId"), principal(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

// ListAll handles GET /api/bookings/admin/all.
func (h *BookingHandler) ListAll(c *gin.Context) {
	page, err := h.BookingService.ListAll(c.Request.Context(), statusQuery(c), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BookingHandler) AdminGetBooking(c *gin.Context) {
	b, err := h.BookingService.GetByID(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ListByService(c *gin.Context) {
	page, err := h.BookingService.ListByService(c.Request.Context(), c.Param("serviceId"), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BookingHandler) ListBySubservice(c *gin.Context) {
	page, err := h.BookingService.ListBySubservice(c.Request.Context(), c.Param("subserviceId"), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AssignProvider handles PATCH /api/bookings/admin/:bookingId/assign-provider.
func (h *BookingHandler) AssignProvider(c *gin.Context) {
	var req assignProviderRequest
	if !bindJSON(c, &req) {
		return
	}
	bookingID := c.Param("bookingId")
	b, err := h.ProviderService.AssignToBooking(c.Request.Context(), req.ServiceProviderID, bookingID, principal(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("provider assigned",
		zap.String("bookingID", bookingID),
		zap.String("providerID", req.ServiceProviderID))
	c.JSON(http.StatusOK, b)
}
