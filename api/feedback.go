package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/feedback"
)

type FeedbackHandler struct {
	service feedback.FeedbackUseCase
	log     zerolog.Logger
}

func NewFeedbackHandler(service feedback.FeedbackUseCase, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: service, log: log}
}

func (h *FeedbackHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.submit)
	router.GET("", h.listPublished)
	router.GET("/summary/:destinationId", h.ratingSummary)
	router.GET("/admin/all", RequireAdmin(), h.listAll)
	router.PUT("/:id/moderate", RequireAdmin(), h.moderate)
}

func (h *FeedbackHandler) submit(c *gin.Context) {
	var input feedback.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	fb, err := h.service.Submit(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{
		"message":  "Thank you for your feedback. It will appear once approved.",
		"feedback": fb,
	})
}

func (h *FeedbackHandler) listPublished(c *gin.Context) {
	filter, sort := feedbackQuery(c)

	list, pagination, err := h.service.ListPublished(c.Request.Context(), filter, sort, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"feedback": list, "pagination": pagination})
}

func (h *FeedbackHandler) listAll(c *gin.Context) {
	filter, sort := feedbackQuery(c)

	list, pagination, err := h.service.ListAll(c.Request.Context(), principalFrom(c), filter, sort, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"feedback": list, "pagination": pagination})
}

func (h *FeedbackHandler) moderate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid feedback id")
		return
	}

	var body struct {
		ModerationStatus domain.ModerationStatus `json:"moderationStatus"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	fb, err := h.service.Moderate(c.Request.Context(), principalFrom(c), id, body.ModerationStatus)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"feedback": fb})
}

func (h *FeedbackHandler) ratingSummary(c *gin.Context) {
	summary, err := h.service.RatingSummary(c.Request.Context(), c.Param("destinationId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"summary": summary})
}

func feedbackQuery(c *gin.Context) (repository.FeedbackFilter, repository.FeedbackSort) {
	minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)
	filter := repository.FeedbackFilter{
		DestinationID: c.Query("destination"),
		MinRating:     minRating,
	}
	return filter, repository.FeedbackSort(c.Query("sort"))
}
