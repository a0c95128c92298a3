package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/kafka"
	"github.com/yatraworks/yatra/internal/policy"
	"github.com/yatraworks/yatra/internal/pricing"
	"github.com/yatraworks/yatra/internal/reference"
	"github.com/yatraworks/yatra/internal/repository"
)

// referenceRetries bounds how often a colliding booking reference is
// regenerated before giving up.
const referenceRetries = 3

const (
	maxAdults          = 20
	maxChildren        = 10
	maxSpecialRequests = 500
	maxNotes           = 1000
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

type BookingUseCase interface {
	Create(ctx context.Context, p domain.Principal, input CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, p domain.Principal, status domain.BookingStatus, page repository.Page) ([]domain.Booking, Pagination, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, req UpdateRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Booking, error)
	AdminList(ctx context.Context, p domain.Principal, filter repository.BookingFilter, page repository.Page) ([]domain.Booking, Pagination, error)
	AdminStats(ctx context.Context, p domain.Principal) ([]domain.StatusStat, error)
	ApplyPaymentResult(ctx context.Context, event kafka.PaymentEvent) (*domain.Booking, error)
}

type Cache interface {
	GetBookingStats(ctx context.Context) ([]domain.StatusStat, error)
	SetBookingStats(ctx context.Context, stats []domain.StatusStat) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// DestinationInput is the catalog snapshot submitted with a create request.
// Discount is the destination's discount percentage at booking time.
type DestinationInput struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Region   string  `json:"region"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

type CreateBookingInput struct {
	Destination             DestinationInput               `json:"destination"`
	TravelDates             domain.TravelDates             `json:"travelDates"`
	Guests                  domain.Guests                  `json:"guests"`
	ContactInfo             domain.ContactInfo             `json:"contactInfo"`
	SpecialRequests         string                         `json:"specialRequests"`
	AccommodationPreference domain.AccommodationPreference `json:"accommodationPreference"`
	MealPreference          domain.MealPreference          `json:"mealPreference"`
}

// UpdateRequest has exactly two shapes, selected by role at the boundary.
// There is no silent field-dropping inside the service: a traveler payload
// can only carry traveler fields by construction.
type UpdateRequest interface {
	isUpdateRequest()
}

// TravelerUpdate is the field set the owning traveler may change.
type TravelerUpdate struct {
	ContactInfo             *domain.ContactInfo             `json:"contactInfo"`
	SpecialRequests         *string                         `json:"specialRequests"`
	AccommodationPreference *domain.AccommodationPreference `json:"accommodationPreference"`
	MealPreference          *domain.MealPreference          `json:"mealPreference"`
}

func (TravelerUpdate) isUpdateRequest() {}

// StaffUpdate may touch any mutable field, including direct status and
// payment-status writes. Static invariants are still validated.
type StaffUpdate struct {
	TravelerUpdate
	TravelDates    *domain.TravelDates    `json:"travelDates"`
	Guests         *domain.Guests         `json:"guests"`
	Status         *domain.BookingStatus  `json:"status"`
	PaymentStatus  *domain.PaymentStatus  `json:"paymentStatus"`
	PaymentDetails *domain.PaymentDetails `json:"paymentDetails"`
	Notes          *string                `json:"notes"`
}

func (StaffUpdate) isUpdateRequest() {}

// Pagination is the listing metadata returned alongside every page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func paginate(page repository.Page, total int) Pagination {
	return Pagination{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(page.Limit))),
	}
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	newReference       func() string
	now                func() time.Time
	log                zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithReferenceGenerator overrides reference minting, used in tests to force
// collisions.
func WithReferenceGenerator(gen func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newReference = gen
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	log zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		cache:        cache,
		producer:     producer,
		eventsTopic:  eventsTopic,
		newReference: reference.New,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, p domain.Principal, input CreateBookingInput) (*domain.Booking, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	quote, err := pricing.Quote(input.Destination.Price, input.Guests.Adults, input.Guests.Children, input.Destination.Discount)
	if err != nil {
		ve := &domain.ValidationError{}
		ve.Add("destination.discount", "discount produces a negative amount")
		return nil, ve
	}

	booking := &domain.Booking{
		ID:     uuid.New(),
		UserID: p.ID,
		Destination: domain.DestinationSnapshot{
			ID:     input.Destination.ID,
			Name:   input.Destination.Name,
			Region: input.Destination.Region,
			Price:  input.Destination.Price,
		},
		TravelDates:             input.TravelDates,
		Guests:                  input.Guests,
		Pricing:                 quote,
		ContactInfo:             input.ContactInfo,
		SpecialRequests:         input.SpecialRequests,
		AccommodationPreference: input.AccommodationPreference,
		MealPreference:          input.MealPreference,
		Status:                  domain.BookingStatusPending,
		PaymentStatus:           domain.PaymentStatusPending,
	}
	if booking.AccommodationPreference == "" {
		booking.AccommodationPreference = domain.AccommodationStandard
	}
	if booking.MealPreference == "" {
		booking.MealPreference = domain.MealVegetarian
	}
	booking.Normalize()

	// Reference uniqueness is enforced by the storage layer; on a collision
	// we mint a fresh one and reinsert, bounded.
	for attempt := 0; ; attempt++ {
		booking.Reference = s.newReference()
		err = s.bookings.Insert(ctx, booking)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return nil, fmt.Errorf("insert booking: %w", err)
		}
		if attempt+1 >= referenceRetries {
			return nil, fmt.Errorf("insert booking: reference collision persisted after %d attempts", referenceRetries)
		}
		s.log.Warn().Str("reference", booking.Reference).Msg("booking reference collision, regenerating")
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Booking, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanRead(p, booking) {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, p domain.Principal, status domain.BookingStatus, page repository.Page) ([]domain.Booking, Pagination, error) {
	if p.ID == "" {
		return nil, Pagination{}, domain.ErrAuthRequired
	}
	page = clampPage(page, 10)

	// non-admin listing is always scoped to the caller's own bookings
	filter := repository.BookingFilter{UserID: p.ID, Status: status}
	bookings, total, err := s.bookings.List(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, err
	}
	return bookings, paginate(page, total), nil
}

func (s *BookingService) Update(ctx context.Context, p domain.Principal, id uuid.UUID, req UpdateRequest) (*domain.Booking, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(p, booking) {
		return nil, domain.ErrForbidden
	}

	switch upd := req.(type) {
	case TravelerUpdate:
		if err := s.applyTravelerUpdate(booking, upd); err != nil {
			return nil, err
		}
	case StaffUpdate:
		if !p.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		if err := s.applyStaffUpdate(booking, upd); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown update request %T", req)
	}
	booking.Normalize()

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusCompleted && booking.PaymentStatus == domain.PaymentStatusPending {
		// operationally meaningless combination, flagged but not rejected
		s.log.Warn().Str("booking_id", booking.ID.String()).Msg("booking completed with payment still pending")
	}

	s.publish(ctx, kafka.EventBookingUpdated, booking)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Booking, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(p, booking) {
		return nil, domain.ErrForbidden
	}
	if !booking.CanCancel() {
		return nil, domain.ErrInvalidTransition
	}

	// cancellation never touches paymentStatus; refunds arrive as separate
	// staff-driven payment updates
	booking.Status = domain.BookingStatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCancelled, booking)
	return booking, nil
}

func (s *BookingService) AdminList(ctx context.Context, p domain.Principal, filter repository.BookingFilter, page repository.Page) ([]domain.Booking, Pagination, error) {
	if p.ID == "" {
		return nil, Pagination{}, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, Pagination{}, domain.ErrForbidden
	}
	page = clampPage(page, 20)

	bookings, total, err := s.bookings.List(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, err
	}
	return bookings, paginate(page, total), nil
}

func (s *BookingService) AdminStats(ctx context.Context, p domain.Principal) ([]domain.StatusStat, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if s.cache != nil {
		if cached, err := s.cache.GetBookingStats(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := s.bookings.StatusStats(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetBookingStats(ctx, stats); err != nil {
			s.log.Warn().Err(err).Msg("cache booking stats")
		}
	}
	return stats, nil
}

// ApplyPaymentResult records an asynchronous payment outcome as an ordinary
// staff update under the system principal.
func (s *BookingService) ApplyPaymentResult(ctx context.Context, event kafka.PaymentEvent) (*domain.Booking, error) {
	id, err := uuid.Parse(event.BookingID)
	if err != nil {
		ve := &domain.ValidationError{}
		ve.Add("booking_id", "must be a valid booking id")
		return nil, ve
	}
	status := domain.PaymentStatus(event.Status)
	if !status.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("status", "must be a valid payment status")
		return nil, ve
	}

	paidAt := event.OccurredAt
	return s.Update(ctx, domain.SystemPrincipal(), id, StaffUpdate{
		PaymentStatus: &status,
		PaymentDetails: &domain.PaymentDetails{
			TransactionID: event.TransactionID,
			PaymentMethod: event.PaymentMethod,
			PaidAmount:    event.PaidAmount,
			PaymentDate:   &paidAt,
		},
	})
}

func (s *BookingService) validateCreate(input CreateBookingInput) error {
	ve := &domain.ValidationError{}

	if input.Destination.ID == "" {
		ve.Add("destination.id", "destination ID is required")
	}
	if input.Destination.Name == "" {
		ve.Add("destination.name", "destination name is required")
	}
	if input.Destination.Price < 0 {
		ve.Add("destination.price", "price cannot be negative")
	}

	now := s.now()
	if input.TravelDates.StartDate.IsZero() {
		ve.Add("travelDates.startDate", "valid start date is required")
	} else if !input.TravelDates.StartDate.After(now) {
		ve.Add("travelDates.startDate", "start date must be in the future")
	}
	if input.TravelDates.EndDate.IsZero() {
		ve.Add("travelDates.endDate", "valid end date is required")
	} else if !input.TravelDates.EndDate.After(input.TravelDates.StartDate) {
		ve.Add("travelDates.endDate", "end date must be after start date")
	}

	validateGuests(ve, input.Guests)
	validateContactInfo(ve, input.ContactInfo)

	if len(input.SpecialRequests) > maxSpecialRequests {
		ve.Add("specialRequests", fmt.Sprintf("cannot exceed %d characters", maxSpecialRequests))
	}
	if input.AccommodationPreference != "" && !input.AccommodationPreference.Valid() {
		ve.Add("accommodationPreference", "must be one of standard, deluxe, luxury")
	}
	if input.MealPreference != "" && !input.MealPreference.Valid() {
		ve.Add("mealPreference", "must be one of vegetarian, non-vegetarian, vegan, jain")
	}

	return ve.OrNil()
}

func (s *BookingService) applyTravelerUpdate(b *domain.Booking, upd TravelerUpdate) error {
	ve := &domain.ValidationError{}

	if upd.ContactInfo != nil {
		validateContactInfo(ve, *upd.ContactInfo)
	}
	if upd.SpecialRequests != nil && len(*upd.SpecialRequests) > maxSpecialRequests {
		ve.Add("specialRequests", fmt.Sprintf("cannot exceed %d characters", maxSpecialRequests))
	}
	if upd.AccommodationPreference != nil && !upd.AccommodationPreference.Valid() {
		ve.Add("accommodationPreference", "must be one of standard, deluxe, luxury")
	}
	if upd.MealPreference != nil && !upd.MealPreference.Valid() {
		ve.Add("mealPreference", "must be one of vegetarian, non-vegetarian, vegan, jain")
	}
	if ve.HasErrors() {
		return ve
	}

	if upd.ContactInfo != nil {
		b.ContactInfo = *upd.ContactInfo
	}
	if upd.SpecialRequests != nil {
		b.SpecialRequests = *upd.SpecialRequests
	}
	if upd.AccommodationPreference != nil {
		b.AccommodationPreference = *upd.AccommodationPreference
	}
	if upd.MealPreference != nil {
		b.MealPreference = *upd.MealPreference
	}
	return nil
}

func (s *BookingService) applyStaffUpdate(b *domain.Booking, upd StaffUpdate) error {
	ve := &domain.ValidationError{}

	if upd.Guests != nil {
		validateGuests(ve, *upd.Guests)
	}
	if upd.TravelDates != nil {
		if upd.TravelDates.StartDate.IsZero() || upd.TravelDates.EndDate.IsZero() {
			ve.Add("travelDates", "both start and end dates are required")
		} else if !upd.TravelDates.EndDate.After(upd.TravelDates.StartDate) {
			ve.Add("travelDates.endDate", "end date must be after start date")
		}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		ve.Add("status", "must be a valid booking status")
	}
	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		ve.Add("paymentStatus", "must be a valid payment status")
	}
	if upd.Notes != nil && len(*upd.Notes) > maxNotes {
		ve.Add("notes", fmt.Sprintf("cannot exceed %d characters", maxNotes))
	}
	if ve.HasErrors() {
		return ve
	}

	if err := s.applyTravelerUpdate(b, upd.TravelerUpdate); err != nil {
		return err
	}
	if upd.TravelDates != nil {
		b.TravelDates = *upd.TravelDates
	}
	if upd.Guests != nil {
		b.Guests = *upd.Guests
	}
	if upd.Status != nil {
		b.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		b.PaymentStatus = *upd.PaymentStatus
	}
	if upd.PaymentDetails != nil {
		b.PaymentDetails = *upd.PaymentDetails
	}
	if upd.Notes != nil {
		b.Notes = *upd.Notes
	}
	return nil
}

func validateGuests(ve *domain.ValidationError, g domain.Guests) {
	if g.Adults < 1 || g.Adults > maxAdults {
		ve.Add("guests.adults", fmt.Sprintf("number of adults must be between 1 and %d", maxAdults))
	}
	if g.Children < 0 || g.Children > maxChildren {
		ve.Add("guests.children", fmt.Sprintf("number of children must be between 0 and %d", maxChildren))
	}
}

func validateContactInfo(ve *domain.ValidationError, ci domain.ContactInfo) {
	if ci.Phone == "" || !phonePattern.MatchString(ci.Phone) {
		ve.Add("contactInfo.phone", "valid phone number is required")
	}
	if ci.AlternatePhone != "" && !phonePattern.MatchString(ci.AlternatePhone) {
		ve.Add("contactInfo.alternatePhone", "must be a valid phone number")
	}
}

func clampPage(page repository.Page, defaultLimit int) repository.Page {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = defaultLimit
	}
	if page.Limit > 100 {
		page.Limit = 100
	}
	return page
}

// publish is best-effort: event delivery never fails the operation.
func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     b.ID.String(),
		Reference:     b.Reference,
		UserID:        b.UserID,
		Destination:   b.Destination.Name,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		TotalAmount:   b.Pricing.TotalAmount,
		OccurredAt:    s.now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.BookingID, event); err != nil {
		s.log.Warn().Err(err).Str("type", eventType).Str("booking_id", event.BookingID).Msg("publish booking event")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingID, event); err != nil {
			s.log.Warn().Err(err).Str("type", eventType).Str("booking_id", event.BookingID).Msg("publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
