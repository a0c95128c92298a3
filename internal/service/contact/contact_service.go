package contact

import (
	"context"
	"fmt"
	"math"
	"net/mail"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
)

const (
	minMessageLen = 10
	maxMessageLen = 2000
)

type ContactUseCase interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.ContactMessage, error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.ContactMessage, error)
	List(ctx context.Context, p domain.Principal, filter repository.ContactFilter, page repository.Page) ([]domain.ContactMessage, Pagination, map[domain.ContactStatus]int, error)
	UpdateStatus(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.ContactStatus) (*domain.ContactMessage, error)
}

// Pagination mirrors the booking service's listing metadata.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type SubmitInput struct {
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	Phone     string                `json:"phone"`
	Subject   domain.ContactSubject `json:"subject"`
	Message   string                `json:"message"`
	IPAddress string                `json:"-"`
	UserAgent string                `json:"-"`
}

type ContactService struct {
	contacts repository.ContactRepository
	log      zerolog.Logger
}

func NewContactService(contacts repository.ContactRepository, log zerolog.Logger) *ContactService {
	return &ContactService{contacts: contacts, log: log}
}

// Submit is public; no principal is required.
func (s *ContactService) Submit(ctx context.Context, input SubmitInput) (*domain.ContactMessage, error) {
	if err := validateSubmit(input); err != nil {
		return nil, err
	}

	msg := &domain.ContactMessage{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Subject:   input.Subject,
		Message:   input.Message,
		Status:    domain.ContactStatusNew,
		Priority:  domain.PriorityFor(input.Subject),
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if err := s.contacts.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	return msg, nil
}

func (s *ContactService) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.ContactMessage, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.contacts.GetByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context, p domain.Principal, filter repository.ContactFilter, page repository.Page) ([]domain.ContactMessage, Pagination, map[domain.ContactStatus]int, error) {
	if p.ID == "" {
		return nil, Pagination{}, nil, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, Pagination{}, nil, domain.ErrForbidden
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = 20
	}

	messages, total, err := s.contacts.List(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, nil, err
	}
	counts, err := s.contacts.StatusCounts(ctx)
	if err != nil {
		return nil, Pagination{}, nil, err
	}

	pagination := Pagination{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(page.Limit))),
	}
	return messages, pagination, counts, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.ContactStatus) (*domain.ContactMessage, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("status", "must be a valid contact status")
		return nil, ve
	}
	return s.contacts.UpdateStatus(ctx, id, status)
}

func validateSubmit(input SubmitInput) error {
	ve := &domain.ValidationError{}

	if len(input.Name) < 2 || len(input.Name) > 100 {
		ve.Add("name", "name must be between 2 and 100 characters")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		ve.Add("email", "valid email is required")
	}
	if !input.Subject.Valid() {
		ve.Add("subject", "must be a valid subject")
	}
	if len(input.Message) < minMessageLen || len(input.Message) > maxMessageLen {
		ve.Add("message", fmt.Sprintf("message must be between %d and %d characters", minMessageLen, maxMessageLen))
	}

	return ve.OrNil()
}

var _ ContactUseCase = (*ContactService)(nil)
