package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Insert(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, filter repository.ContactFilter, page repository.Page) ([]domain.ContactMessage, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ContactMessage), args.Int(1), args.Error(2)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func (m *MockContactRepository) StatusCounts(ctx context.Context) (map[domain.ContactStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ContactStatus]int), args.Error(1)
}

var (
	admin    = domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	traveler = domain.Principal{ID: "user-1", Role: domain.RoleUser}
)

func validSubmit() SubmitInput {
	return SubmitInput{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Subject: domain.SubjectGeneral,
		Message: "I would like to know more about your Himalayan packages.",
	}
}

func TestContactService_Submit_Success(t *testing.T) {
	repo := new(MockContactRepository)
	service := NewContactService(repo, zerolog.Nop())

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).Return(nil).Once()

	msg, err := service.Submit(context.Background(), validSubmit())

	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusNew, msg.Status)
	assert.Equal(t, domain.PriorityMedium, msg.Priority)
	assert.NotEqual(t, uuid.Nil, msg.ID)
	repo.AssertExpectations(t)
}

func TestContactService_Submit_PriorityEscalation(t *testing.T) {
	tests := []struct {
		subject  domain.ContactSubject
		priority domain.ContactPriority
	}{
		{domain.SubjectComplaint, domain.PriorityHigh},
		{domain.SubjectSupport, domain.PriorityHigh},
		{domain.SubjectGeneral, domain.PriorityMedium},
		{domain.SubjectPartnership, domain.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.subject), func(t *testing.T) {
			repo := new(MockContactRepository)
			service := NewContactService(repo, zerolog.Nop())
			repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

			input := validSubmit()
			input.Subject = tt.subject
			msg, err := service.Submit(context.Background(), input)

			require.NoError(t, err)
			assert.Equal(t, tt.priority, msg.Priority)
		})
	}
}

func TestContactService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitInput)
		field  string
	}{
		{"short name", func(in *SubmitInput) { in.Name = "A" }, "name"},
		{"bad email", func(in *SubmitInput) { in.Email = "not-an-email" }, "email"},
		{"unknown subject", func(in *SubmitInput) { in.Subject = "billing" }, "subject"},
		{"short message", func(in *SubmitInput) { in.Message = "hi" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockContactRepository)
			service := NewContactService(repo, zerolog.Nop())

			input := validSubmit()
			tt.mutate(&input)
			_, err := service.Submit(context.Background(), input)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			fields := make([]string, 0, len(ve.Fields))
			for _, f := range ve.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestContactService_List_AdminOnly(t *testing.T) {
	repo := new(MockContactRepository)
	service := NewContactService(repo, zerolog.Nop())

	_, _, _, err := service.List(context.Background(), traveler, repository.ContactFilter{}, repository.Page{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, _, err = service.List(context.Background(), domain.Principal{}, repository.ContactFilter{}, repository.Page{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestContactService_List_WithCounts(t *testing.T) {
	repo := new(MockContactRepository)
	service := NewContactService(repo, zerolog.Nop())

	messages := []domain.ContactMessage{{ID: uuid.New(), Subject: domain.SubjectComplaint}}
	counts := map[domain.ContactStatus]int{domain.ContactStatusNew: 3, domain.ContactStatusResolved: 7}

	repo.On("List", mock.Anything, repository.ContactFilter{}, repository.Page{Page: 1, Limit: 20}).
		Return(messages, 10, nil).Once()
	repo.On("StatusCounts", mock.Anything).Return(counts, nil).Once()

	got, pagination, gotCounts, err := service.List(context.Background(), admin, repository.ContactFilter{}, repository.Page{})

	require.NoError(t, err)
	assert.Equal(t, messages, got)
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 10, Pages: 1}, pagination)
	assert.Equal(t, counts, gotCounts)
	repo.AssertExpectations(t)
}

func TestContactService_UpdateStatus(t *testing.T) {
	repo := new(MockContactRepository)
	service := NewContactService(repo, zerolog.Nop())

	id := uuid.New()
	updated := &domain.ContactMessage{ID: id, Status: domain.ContactStatusResolved}
	repo.On("UpdateStatus", mock.Anything, id, domain.ContactStatusResolved).Return(updated, nil).Once()

	msg, err := service.UpdateStatus(context.Background(), admin, id, domain.ContactStatusResolved)

	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusResolved, msg.Status)
	repo.AssertExpectations(t)
}

func TestContactService_UpdateStatus_Invalid(t *testing.T) {
	repo := new(MockContactRepository)
	service := NewContactService(repo, zerolog.Nop())

	_, err := service.UpdateStatus(context.Background(), admin, uuid.New(), "archived")

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = service.UpdateStatus(context.Background(), traveler, uuid.New(), domain.ContactStatusClosed)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestContactService_Submit_RepositoryError(t *testing.T) {
	repo := new(MockContactRepository)
	service := NewContactService(repo, zerolog.Nop())

	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := service.Submit(context.Background(), validSubmit())
	assert.Error(t, err)
}
