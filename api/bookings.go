package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     zerolog.Logger
}

func NewBookingHandler(service booking.BookingUseCase, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	// The admin routes must be registered before the :id routes so that
	// "admin" is not captured as a booking id.
	admin := router.Group("/admin", RequireAdmin())
	admin.GET("/all", h.adminList)
	admin.GET("/stats", h.adminStats)

	router.POST("", RequireAuth(), h.create)
	router.GET("", RequireAuth(), h.list)
	router.GET("/:id", RequireAuth(), h.get)
	router.PUT("/:id", RequireAuth(), h.update)
	router.DELETE("/:id", RequireAuth(), h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid booking id")
		return
	}

	b, err := h.service.Get(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) list(c *gin.Context) {
	page := pageFromQuery(c)
	status := domain.BookingStatus(c.Query("status"))

	bookings, pagination, err := h.service.List(c.Request.Context(), principalFrom(c), status, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"bookings": bookings, "pagination": pagination})
}

func (h *BookingHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid booking id")
		return
	}

	// The payload shape is chosen by role: admins may send the full staff
	// field set, travelers only the traveler one. Unknown fields in a
	// traveler payload are rejected rather than dropped.
	p := principalFrom(c)
	var req booking.UpdateRequest
	if p.IsAdmin() {
		var upd booking.StaffUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}
		req = upd
	} else {
		var upd booking.TravelerUpdate
		if err := bindStrict(c, &upd); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}
		req = upd
	}

	b, err := h.service.Update(c.Request.Context(), p, id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid booking id")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"booking": b, "message": "Booking cancelled"})
}

func (h *BookingHandler) adminList(c *gin.Context) {
	filter := repository.BookingFilter{
		Status:        domain.BookingStatus(c.Query("status")),
		PaymentStatus: domain.PaymentStatus(c.Query("paymentStatus")),
		Destination:   c.Query("destination"),
	}

	bookings, pagination, err := h.service.AdminList(c.Request.Context(), principalFrom(c), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"bookings": bookings, "pagination": pagination})
}

func (h *BookingHandler) adminStats(c *gin.Context) {
	stats, err := h.service.AdminStats(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"stats": stats})
}

func pageFromQuery(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return repository.Page{Page: page, Limit: limit}
}
