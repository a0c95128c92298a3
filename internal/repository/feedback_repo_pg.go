package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yatraworks/yatra/internal/domain"
)

// FeedbackFilter narrows the public review listing. Published-only scoping
// is applied by the caller, not here.
type FeedbackFilter struct {
	DestinationID string
	MinRating     float64
	PublishedOnly bool
}

// FeedbackSort selects the listing order.
type FeedbackSort string

const (
	FeedbackSortNewest FeedbackSort = "newest"
	FeedbackSortRating FeedbackSort = "rating"
)

type FeedbackRepository interface {
	Insert(ctx context.Context, f *domain.Feedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Feedback, error)
	List(ctx context.Context, filter FeedbackFilter, sort FeedbackSort, page Page) ([]domain.Feedback, int, error)
	// SetModeration applies the moderation decision and the resulting
	// publish flag in one write.
	SetModeration(ctx context.Context, id uuid.UUID, status domain.ModerationStatus, published bool) (*domain.Feedback, error)
	// RatingSummary averages published overall scores for one destination.
	RatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error)
}

type PGFeedbackRepository struct {
	db *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) FeedbackRepository {
	return &PGFeedbackRepository{db: db}
}

const feedbackColumns = `id, user_id, guest_name, guest_email, booking_id,
	destination_id, destination_name,
	rating_overall, rating_accommodation, rating_transportation, rating_guide, rating_value,
	review_title, review_description, would_recommend, travel_type, travel_date,
	is_verified, is_published, moderation_status, created_at, updated_at`

func (r *PGFeedbackRepository) Insert(ctx context.Context, f *domain.Feedback) error {
	var guestName, guestEmail string
	if f.GuestInfo != nil {
		guestName, guestEmail = f.GuestInfo.Name, f.GuestInfo.Email
	}
	return r.db.QueryRow(ctx, `INSERT INTO feedback
			(id, user_id, guest_name, guest_email, booking_id,
			destination_id, destination_name,
			rating_overall, rating_accommodation, rating_transportation, rating_guide, rating_value,
			review_title, review_description, would_recommend, travel_type, travel_date,
			is_verified, is_published, moderation_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING created_at, updated_at`,
		f.ID, f.UserID, guestName, guestEmail, f.BookingID,
		f.Destination.ID, f.Destination.Name,
		f.Ratings.Overall, f.Ratings.Accommodation, f.Ratings.Transportation, f.Ratings.Guide, f.Ratings.ValueForMoney,
		f.Review.Title, f.Review.Description, f.WouldRecommend, f.TravelType, f.TravelDate,
		f.IsVerified, f.IsPublished, f.ModerationStatus).
		Scan(&f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFeedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feedback, error) {
	row := r.db.QueryRow(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id=$1`, id)
	f, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFeedbackRepository) List(ctx context.Context, filter FeedbackFilter, sort FeedbackSort, page Page) ([]domain.Feedback, int, error) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.PublishedOnly {
		conds = append(conds, "is_published AND moderation_status='approved'")
	}
	if filter.DestinationID != "" {
		add("destination_id=$%d", filter.DestinationID)
	}
	if filter.MinRating > 0 {
		add("rating_overall >= $%d", filter.MinRating)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	order := "created_at DESC"
	if sort == FeedbackSortRating {
		order = "rating_overall DESC, created_at DESC"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM feedback`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, page.offset())
	query := fmt.Sprintf(`SELECT %s FROM feedback%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		feedbackColumns, where, order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]domain.Feedback, 0)
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *f)
	}
	return list, total, rows.Err()
}

func (r *PGFeedbackRepository) SetModeration(ctx context.Context, id uuid.UUID, status domain.ModerationStatus, published bool) (*domain.Feedback, error) {
	row := r.db.QueryRow(ctx, `UPDATE feedback SET moderation_status=$2, is_published=$3, updated_at=now()
		WHERE id=$1 RETURNING `+feedbackColumns, id, status, published)
	f, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFeedbackRepository) RatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error) {
	var s domain.RatingSummary
	s.DestinationID = destinationID
	err := r.db.QueryRow(ctx, `SELECT coalesce(avg(rating_overall), 0), count(*)
		FROM feedback
		WHERE destination_id=$1 AND is_published AND moderation_status='approved'`, destinationID).
		Scan(&s.AvgOverall, &s.TotalReviews)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var f domain.Feedback
	var guestName, guestEmail string
	if err := row.Scan(
		&f.ID, &f.UserID, &guestName, &guestEmail, &f.BookingID,
		&f.Destination.ID, &f.Destination.Name,
		&f.Ratings.Overall, &f.Ratings.Accommodation, &f.Ratings.Transportation, &f.Ratings.Guide, &f.Ratings.ValueForMoney,
		&f.Review.Title, &f.Review.Description, &f.WouldRecommend, &f.TravelType, &f.TravelDate,
		&f.IsVerified, &f.IsPublished, &f.ModerationStatus, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if guestName != "" || guestEmail != "" {
		f.GuestInfo = &domain.GuestInfo{Name: guestName, Email: guestEmail}
	}
	return &f, nil
}

var _ FeedbackRepository = (*PGFeedbackRepository)(nil)
