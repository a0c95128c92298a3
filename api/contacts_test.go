package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/contact"
)

// MockContactUseCase is a mock implementation of contact.ContactUseCase
type MockContactUseCase struct {
	mock.Mock
}

func (m *MockContactUseCase) Submit(ctx context.Context, input contact.SubmitInput) (*domain.ContactMessage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func (m *MockContactUseCase) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.ContactMessage, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func (m *MockContactUseCase) List(ctx context.Context, p domain.Principal, filter repository.ContactFilter, page repository.Page) ([]domain.ContactMessage, contact.Pagination, map[domain.ContactStatus]int, error) {
	args := m.Called(ctx, p, filter, page)
	if args.Get(0) == nil {
		return nil, contact.Pagination{}, nil, args.Error(3)
	}
	return args.Get(0).([]domain.ContactMessage), args.Get(1).(contact.Pagination),
		args.Get(2).(map[domain.ContactStatus]int), args.Error(3)
}

func (m *MockContactUseCase) UpdateStatus(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.ContactStatus) (*domain.ContactMessage, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func TestContactHandler_submit(t *testing.T) {
	mockService := &MockContactUseCase{}
	handler := NewContactHandler(mockService, zerolog.Nop())

	input := contact.SubmitInput{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Subject: domain.SubjectComplaint,
		Message: "My booking confirmation never arrived.",
	}
	c, w := newBookingContext(t, domain.Principal{}, "POST", "/api/contact", input)

	saved := &domain.ContactMessage{
		ID:       uuid.New(),
		Subject:  domain.SubjectComplaint,
		Status:   domain.ContactStatusNew,
		Priority: domain.PriorityHigh,
	}
	mockService.On("Submit", mock.Anything,
		mock.MatchedBy(func(in contact.SubmitInput) bool { return in.Subject == domain.SubjectComplaint })).
		Return(saved, nil)

	handler.submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		envelope
		Contact domain.ContactMessage `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, domain.PriorityHigh, response.Contact.Priority)
	mockService.AssertExpectations(t)
}

func TestContactHandler_submit_validationEnvelope(t *testing.T) {
	mockService := &MockContactUseCase{}
	handler := NewContactHandler(mockService, zerolog.Nop())

	c, w := newBookingContext(t, domain.Principal{}, "POST", "/api/contact", contact.SubmitInput{})

	ve := &domain.ValidationError{}
	ve.Add("email", "valid email is required")
	ve.Add("message", "message must be between 10 and 2000 characters")
	mockService.On("Submit", mock.Anything, mock.Anything).Return(nil, ve)

	handler.submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Len(t, response.Errors, 2)
}

func TestContactHandler_list(t *testing.T) {
	mockService := &MockContactUseCase{}
	handler := NewContactHandler(mockService, zerolog.Nop())

	c, w := newBookingContext(t, admin, "GET", "/api/contact?status=new&search=refund", nil)

	expected := repository.ContactFilter{Status: domain.ContactStatusNew, Search: "refund"}
	counts := map[domain.ContactStatus]int{domain.ContactStatusNew: 2}
	mockService.On("List", mock.Anything, admin, expected, repository.Page{Page: 1}).
		Return([]domain.ContactMessage{{ID: uuid.New()}}, contact.Pagination{Page: 1, Limit: 20, Total: 2, Pages: 1}, counts, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		envelope
		Contacts     []domain.ContactMessage      `json:"contacts"`
		StatusCounts map[domain.ContactStatus]int `json:"statusCounts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Contacts, 1)
	assert.Equal(t, 2, response.StatusCounts[domain.ContactStatusNew])
	mockService.AssertExpectations(t)
}

func TestContactHandler_get_forbiddenForTraveler(t *testing.T) {
	mockService := &MockContactUseCase{}
	handler := NewContactHandler(mockService, zerolog.Nop())

	id := uuid.New()
	c, w := newBookingContext(t, traveler, "GET", "/api/contact/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.On("Get", mock.Anything, traveler, id).Return(nil, domain.ErrForbidden)

	handler.get(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestContactHandler_updateStatus(t *testing.T) {
	mockService := &MockContactUseCase{}
	handler := NewContactHandler(mockService, zerolog.Nop())

	id := uuid.New()
	c, w := newBookingContext(t, admin, "PUT", "/api/contact/"+id.String()+"/status",
		map[string]string{"status": "resolved"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	updated := &domain.ContactMessage{ID: id, Status: domain.ContactStatusResolved}
	mockService.On("UpdateStatus", mock.Anything, admin, id, domain.ContactStatusResolved).Return(updated, nil)

	handler.updateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestContactHandler_updateStatus_invalidID(t *testing.T) {
	mockService := &MockContactUseCase{}
	handler := NewContactHandler(mockService, zerolog.Nop())

	c, w := newBookingContext(t, admin, "PUT", "/api/contact/not-a-uuid/status",
		map[string]string{"status": "resolved"})
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	handler.updateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
