package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/contact"
)

type ContactHandler struct {
	service contact.ContactUseCase
	log     zerolog.Logger
}

func NewContactHandler(service contact.ContactUseCase, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

func (h *ContactHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.submit)
	router.GET("", RequireAdmin(), h.list)
	router.GET("/:id", RequireAdmin(), h.get)
	router.PUT("/:id/status", RequireAdmin(), h.updateStatus)
}

func (h *ContactHandler) submit(c *gin.Context) {
	var input contact.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	input.IPAddress = c.ClientIP()
	input.UserAgent = c.Request.UserAgent()

	msg, err := h.service.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{
		"message": "Thank you for contacting us. We will get back to you soon.",
		"contact": msg,
	})
}

func (h *ContactHandler) list(c *gin.Context) {
	filter := repository.ContactFilter{
		Status:   domain.ContactStatus(c.Query("status")),
		Subject:  domain.ContactSubject(c.Query("subject")),
		Priority: domain.ContactPriority(c.Query("priority")),
		Search:   c.Query("search"),
	}

	messages, pagination, counts, err := h.service.List(c.Request.Context(), principalFrom(c), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"contacts":     messages,
		"pagination":   pagination,
		"statusCounts": counts,
	})
}

func (h *ContactHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid contact id")
		return
	}

	msg, err := h.service.Get(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"contact": msg})
}

func (h *ContactHandler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid contact id")
		return
	}

	var body struct {
		Status domain.ContactStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	msg, err := h.service.UpdateStatus(c.Request.Context(), principalFrom(c), id, body.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"contact": msg})
}
