package feedback

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
	"github.com/yatraworks/yatra/internal/repository"
)

const maxDescriptionLen = 2000

type FeedbackUseCase interface {
	Submit(ctx context.Context, p domain.Principal, input SubmitInput) (*domain.Feedback, error)
	// ListPublished serves the public review listing. Only approved and
	// published reviews are returned regardless of the incoming filter.
	ListPublished(ctx context.Context, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, Pagination, error)
	ListAll(ctx context.Context, p domain.Principal, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, Pagination, error)
	Moderate(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.ModerationStatus) (*domain.Feedback, error)
	RatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error)
}

// Cache keeps per-destination rating aggregates warm between writes.
type Cache interface {
	GetRatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error)
	SetRatingSummary(ctx context.Context, summary *domain.RatingSummary) error
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type SubmitInput struct {
	GuestInfo   *domain.GuestInfo          `json:"guestInfo,omitempty"`
	BookingID   *uuid.UUID                 `json:"bookingId,omitempty"`
	Destination domain.DestinationSnapshot `json:"destination"`
	Ratings     domain.Ratings             `json:"ratings"`
	Review      domain.Review              `json:"review"`

	WouldRecommend bool              `json:"wouldRecommend"`
	TravelType     domain.TravelType `json:"travelType"`
	TravelDate     time.Time         `json:"travelDate"`
}

type FeedbackService struct {
	feedback repository.FeedbackRepository
	bookings repository.BookingRepository
	cache    Cache
	log      zerolog.Logger
}

func NewFeedbackService(feedback repository.FeedbackRepository, bookings repository.BookingRepository, cache Cache, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, bookings: bookings, cache: cache, log: log}
}

// Submit accepts reviews from signed-in travelers and from guests. Guest
// submissions must carry contact details. All submissions start unpublished
// and pending moderation; reviews tied to a completed booking of the same
// destination are marked verified.
func (s *FeedbackService) Submit(ctx context.Context, p domain.Principal, input SubmitInput) (*domain.Feedback, error) {
	if err := validateSubmit(p, input); err != nil {
		return nil, err
	}

	input.Ratings.DeriveOverall()

	fb := &domain.Feedback{
		ID:               uuid.New(),
		UserID:           p.ID,
		BookingID:        input.BookingID,
		Destination:      input.Destination,
		Ratings:          input.Ratings,
		Review:           input.Review,
		WouldRecommend:   input.WouldRecommend,
		TravelType:       input.TravelType,
		TravelDate:       input.TravelDate,
		ModerationStatus: domain.ModerationPending,
	}
	if p.ID == "" {
		fb.GuestInfo = input.GuestInfo
	}
	if input.BookingID != nil && p.ID != "" {
		fb.IsVerified = s.verifyBooking(ctx, p, *input.BookingID, input.Destination.ID)
	}

	if err := s.feedback.Insert(ctx, fb); err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return fb, nil
}

func (s *FeedbackService) ListPublished(ctx context.Context, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, Pagination, error) {
	filter.PublishedOnly = true
	return s.list(ctx, filter, sort, page)
}

func (s *FeedbackService) ListAll(ctx context.Context, p domain.Principal, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, Pagination, error) {
	if p.ID == "" {
		return nil, Pagination{}, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, Pagination{}, domain.ErrForbidden
	}
	return s.list(ctx, filter, sort, page)
}

func (s *FeedbackService) Moderate(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.ModerationStatus) (*domain.Feedback, error) {
	if p.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("moderationStatus", "must be pending, approved or rejected")
		return nil, ve
	}

	fb, err := s.feedback.SetModeration(ctx, id, status, status == domain.ModerationApproved)
	if err != nil {
		return nil, err
	}

	// The published set changed; refresh the destination aggregate so the
	// public summary does not serve a stale score for a full TTL.
	if s.cache != nil {
		if summary, err := s.feedback.RatingSummary(ctx, fb.Destination.ID); err == nil {
			if err := s.cache.SetRatingSummary(ctx, summary); err != nil {
				s.log.Warn().Err(err).Str("destination_id", fb.Destination.ID).Msg("refresh rating summary cache")
			}
		}
	}
	return fb, nil
}

func (s *FeedbackService) RatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error) {
	if s.cache != nil {
		if summary, err := s.cache.GetRatingSummary(ctx, destinationID); err != nil {
			s.log.Warn().Err(err).Msg("read rating summary cache")
		} else if summary != nil {
			return summary, nil
		}
	}

	summary, err := s.feedback.RatingSummary(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRatingSummary(ctx, summary); err != nil {
			s.log.Warn().Err(err).Msg("write rating summary cache")
		}
	}
	return summary, nil
}

func (s *FeedbackService) list(ctx context.Context, filter repository.FeedbackFilter, sort repository.FeedbackSort, page repository.Page) ([]domain.Feedback, Pagination, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = 10
	}
	if sort != repository.FeedbackSortRating {
		sort = repository.FeedbackSortNewest
	}

	list, total, err := s.feedback.List(ctx, filter, sort, page)
	if err != nil {
		return nil, Pagination{}, err
	}
	pagination := Pagination{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(page.Limit))),
	}
	return list, pagination, nil
}

func (s *FeedbackService) verifyBooking(ctx context.Context, p domain.Principal, bookingID uuid.UUID, destinationID string) bool {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return false
	}
	return b.UserID == p.ID &&
		b.Status == domain.BookingStatusCompleted &&
		b.Destination.ID == destinationID
}

func validateSubmit(p domain.Principal, input SubmitInput) error {
	ve := &domain.ValidationError{}

	if p.ID == "" {
		if input.GuestInfo == nil {
			ve.Add("guestInfo", "guest submissions require name and email")
		} else {
			if len(input.GuestInfo.Name) < 2 {
				ve.Add("guestInfo.name", "name is required")
			}
			if _, err := mail.ParseAddress(input.GuestInfo.Email); err != nil {
				ve.Add("guestInfo.email", "valid email is required")
			}
		}
	}
	if input.Destination.ID == "" || input.Destination.Name == "" {
		ve.Add("destination", "destination id and name are required")
	}
	if !input.TravelType.Valid() {
		ve.Add("travelType", "must be solo, couple, family, friends or business")
	}
	if input.TravelDate.IsZero() || input.TravelDate.After(time.Now()) {
		ve.Add("travelDate", "travel date must be in the past")
	}
	if input.Review.Description == "" || len(input.Review.Description) > maxDescriptionLen {
		ve.Add("review.description", fmt.Sprintf("description must be between 1 and %d characters", maxDescriptionLen))
	}
	validateRatings(ve, input.Ratings)

	return ve.OrNil()
}

func validateRatings(ve *domain.ValidationError, r domain.Ratings) {
	if r.Overall != 0 && (r.Overall < 1 || r.Overall > 5) {
		ve.Add("ratings.overall", "must be between 1 and 5")
	}
	components := map[string]int{
		"ratings.accommodation":  r.Accommodation,
		"ratings.transportation": r.Transportation,
		"ratings.guide":          r.Guide,
		"ratings.valueForMoney":  r.ValueForMoney,
	}
	set := r.Overall != 0
	for field, v := range components {
		if v != 0 {
			set = true
			if v < 1 || v > 5 {
				ve.Add(field, "must be between 1 and 5")
			}
		}
	}
	if !set {
		ve.Add("ratings", "at least one rating is required")
	}
}

var _ FeedbackUseCase = (*FeedbackService)(nil)
