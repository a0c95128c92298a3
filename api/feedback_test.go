package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/feedback"
)

// MockFeedbackUseCase is a mock implementation of feedback.FeedbackUseCase
type MockFeedbackUseCase struct {
	mock.Mock
}

func (m *MockFeedbackUseCase) Submit(ctx context.Context, p domain.Principal, input feedback.SubmitInput) (*domain.Feedback, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackUseCase) ListPublished(ctx context.Context, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, feedback.Pagination, error) {
	args := m.Called(ctx, filter, sort, page)
	if args.Get(0) == nil {
		return nil, feedback.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]domain.Feedback), args.Get(1).(feedback.Pagination), args.Error(2)
}

func (m *MockFeedbackUseCase) ListAll(ctx context.Context, p domain.Principal, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, feedback.Pagination, error) {
	args := m.Called(ctx, p, filter, sort, page)
	if args.Get(0) == nil {
		return nil, feedback.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]domain.Feedback), args.Get(1).(feedback.Pagination), args.Error(2)
}

func (m *MockFeedbackUseCase) Moderate(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.ModerationStatus) (*domain.Feedback, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackUseCase) RatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, destinationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func TestFeedbackHandler_submit(t *testing.T) {
	mockService := &MockFeedbackUseCase{}
	handler := NewFeedbackHandler(mockService, zerolog.Nop())

	input := feedback.SubmitInput{
		Destination: domain.DestinationSnapshot{ID: "dest-goa", Name: "Goa"},
		Ratings:     domain.Ratings{Accommodation: 4, Guide: 5},
		Review:      domain.Review{Description: "Wonderful beaches and a very helpful guide."},
		TravelType:  domain.TravelCouple,
		TravelDate:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	c, w := newBookingContext(t, traveler, "POST", "/api/feedback", input)

	saved := &domain.Feedback{
		ID:               uuid.New(),
		UserID:           traveler.ID,
		Ratings:          domain.Ratings{Overall: 4.5, Accommodation: 4, Guide: 5},
		ModerationStatus: domain.ModerationPending,
	}
	mockService.On("Submit", mock.Anything, traveler,
		mock.MatchedBy(func(in feedback.SubmitInput) bool { return in.Destination.ID == "dest-goa" })).
		Return(saved, nil)

	handler.submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		envelope
		Feedback domain.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, domain.ModerationPending, response.Feedback.ModerationStatus)
	mockService.AssertExpectations(t)
}

func TestFeedbackHandler_submit_guestValidationEnvelope(t *testing.T) {
	mockService := &MockFeedbackUseCase{}
	handler := NewFeedbackHandler(mockService, zerolog.Nop())

	c, w := newBookingContext(t, domain.Principal{}, "POST", "/api/feedback", feedback.SubmitInput{})

	ve := &domain.ValidationError{}
	ve.Add("guestInfo", "guest submissions require name and email")
	mockService.On("Submit", mock.Anything, domain.Principal{}, mock.Anything).Return(nil, ve)

	handler.submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "guestInfo", response.Errors[0].Field)
}

func TestFeedbackHandler_listPublished_passesQuery(t *testing.T) {
	mockService := &MockFeedbackUseCase{}
	handler := NewFeedbackHandler(mockService, zerolog.Nop())

	c, w := newBookingContext(t, domain.Principal{}, "GET",
		"/api/feedback?destination=dest-goa&minRating=4&sort=rating", nil)

	expected := repository.FeedbackFilter{DestinationID: "dest-goa", MinRating: 4}
	mockService.On("ListPublished", mock.Anything, expected, repository.FeedbackSortRating, repository.Page{Page: 1}).
		Return([]domain.Feedback{{ID: uuid.New()}}, feedback.Pagination{Page: 1, Limit: 10, Total: 1, Pages: 1}, nil)

	handler.listPublished(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		envelope
		Feedback []domain.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Feedback, 1)
	mockService.AssertExpectations(t)
}

func TestFeedbackHandler_moderate(t *testing.T) {
	mockService := &MockFeedbackUseCase{}
	handler := NewFeedbackHandler(mockService, zerolog.Nop())

	id := uuid.New()
	c, w := newBookingContext(t, admin, "PUT", "/api/feedback/"+id.String()+"/moderate",
		map[string]string{"moderationStatus": "approved"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	approved := &domain.Feedback{ID: id, ModerationStatus: domain.ModerationApproved, IsPublished: true}
	mockService.On("Moderate", mock.Anything, admin, id, domain.ModerationApproved).Return(approved, nil)

	handler.moderate(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		envelope
		Feedback domain.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Feedback.IsPublished)
	mockService.AssertExpectations(t)
}

func TestFeedbackHandler_moderate_forbiddenForTraveler(t *testing.T) {
	mockService := &MockFeedbackUseCase{}
	handler := NewFeedbackHandler(mockService, zerolog.Nop())

	id := uuid.New()
	c, w := newBookingContext(t, traveler, "PUT", "/api/feedback/"+id.String()+"/moderate",
		map[string]string{"moderationStatus": "approved"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.On("Moderate", mock.Anything, traveler, id, domain.ModerationApproved).
		Return(nil, domain.ErrForbidden)

	handler.moderate(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeedbackHandler_ratingSummary(t *testing.T) {
	mockService := &MockFeedbackUseCase{}
	handler := NewFeedbackHandler(mockService, zerolog.Nop())

	c, w := newBookingContext(t, domain.Principal{}, "GET", "/api/feedback/summary/dest-goa", nil)
	c.Params = gin.Params{{Key: "destinationId", Value: "dest-goa"}}

	summary := &domain.RatingSummary{DestinationID: "dest-goa", AvgOverall: 4.4, TotalReviews: 17}
	mockService.On("RatingSummary", mock.Anything, "dest-goa").Return(summary, nil)

	handler.ratingSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		envelope
		Summary domain.RatingSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 17, response.Summary.TotalReviews)
	mockService.AssertExpectations(t)
}
