package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yatraworks/yatra/internal/domain"
)

// BookingFilter narrows a listing. Zero values mean "no filter".
// Destination matches the destination name as a case-insensitive substring.
type BookingFilter struct {
	UserID        string
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
	Destination   string
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

type BookingRepository interface {
	// Insert persists a new booking. A booking_reference collision surfaces
	// as domain.ErrDuplicateReference so the caller can regenerate and retry.
	Insert(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// List returns the requested slice, newest-created-first, plus the total
	// matching count.
	List(ctx context.Context, filter BookingFilter, page Page) ([]domain.Booking, int, error)
	// Update overwrites the mutable fields. Last write wins; there is no
	// version column.
	Update(ctx context.Context, b *domain.Booking) error
	// StatusStats returns count and summed totalAmount grouped by status.
	StatusStats(ctx context.Context) ([]domain.StatusStat, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id,
	destination_id, destination_name, destination_region, destination_price,
	start_date, end_date, adults, children, total_guests,
	base_price, discount, taxes, total_amount,
	phone, alternate_phone, emergency_name, emergency_phone, emergency_relationship,
	special_requests, accommodation_preference, meal_preference,
	status, payment_status, transaction_id, payment_method, paid_amount, payment_date,
	booking_reference, notes, created_at, updated_at`

func (r *PGBookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	b.Normalize()
	var emName, emPhone, emRel string
	if ec := b.ContactInfo.EmergencyContact; ec != nil {
		emName, emPhone, emRel = ec.Name, ec.Phone, ec.Relationship
	}

	err := r.db.QueryRow(ctx, `INSERT INTO bookings (
			id, user_id,
			destination_id, destination_name, destination_region, destination_price,
			start_date, end_date, adults, children, total_guests,
			base_price, discount, taxes, total_amount,
			phone, alternate_phone, emergency_name, emergency_phone, emergency_relationship,
			special_requests, accommodation_preference, meal_preference,
			status, payment_status, booking_reference, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID,
		b.Destination.ID, b.Destination.Name, b.Destination.Region, b.Destination.Price,
		b.TravelDates.StartDate, b.TravelDates.EndDate, b.Guests.Adults, b.Guests.Children, b.TotalGuests,
		b.Pricing.BasePrice, b.Pricing.Discount, b.Pricing.Taxes, b.Pricing.TotalAmount,
		b.ContactInfo.Phone, b.ContactInfo.AlternatePhone, emName, emPhone, emRel,
		b.SpecialRequests, b.AccommodationPreference, b.MealPreference,
		b.Status, b.PaymentStatus, b.Reference, b.Notes).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "reference") {
			return domain.ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter, page Page) ([]domain.Booking, int, error) {
	where, args := buildBookingWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, page.offset())
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	b.Normalize()
	var emName, emPhone, emRel string
	if ec := b.ContactInfo.EmergencyContact; ec != nil {
		emName, emPhone, emRel = ec.Name, ec.Phone, ec.Relationship
	}

	err := r.db.QueryRow(ctx, `UPDATE bookings SET
			start_date=$2, end_date=$3, adults=$4, children=$5, total_guests=$6,
			phone=$7, alternate_phone=$8, emergency_name=$9, emergency_phone=$10, emergency_relationship=$11,
			special_requests=$12, accommodation_preference=$13, meal_preference=$14,
			status=$15, payment_status=$16,
			transaction_id=$17, payment_method=$18, paid_amount=$19, payment_date=$20,
			notes=$21, updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		b.ID,
		b.TravelDates.StartDate, b.TravelDates.EndDate, b.Guests.Adults, b.Guests.Children, b.TotalGuests,
		b.ContactInfo.Phone, b.ContactInfo.AlternatePhone, emName, emPhone, emRel,
		b.SpecialRequests, b.AccommodationPreference, b.MealPreference,
		b.Status, b.PaymentStatus,
		b.PaymentDetails.TransactionID, b.PaymentDetails.PaymentMethod, b.PaymentDetails.PaidAmount, b.PaymentDetails.PaymentDate,
		b.Notes).
		Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *PGBookingRepository) StatusStats(ctx context.Context) ([]domain.StatusStat, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*), coalesce(sum(total_amount), 0)
		FROM bookings GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]domain.StatusStat, 0)
	for rows.Next() {
		var s domain.StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalAmount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func buildBookingWhere(filter BookingFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != "" {
		add("user_id=$%d", filter.UserID)
	}
	if filter.Status != "" {
		add("status=$%d", filter.Status)
	}
	if filter.PaymentStatus != "" {
		add("payment_status=$%d", filter.PaymentStatus)
	}
	if filter.Destination != "" {
		add("destination_name ILIKE $%d", "%"+filter.Destination+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var emName, emPhone, emRel string
	if err := row.Scan(
		&b.ID, &b.UserID,
		&b.Destination.ID, &b.Destination.Name, &b.Destination.Region, &b.Destination.Price,
		&b.TravelDates.StartDate, &b.TravelDates.EndDate, &b.Guests.Adults, &b.Guests.Children, &b.TotalGuests,
		&b.Pricing.BasePrice, &b.Pricing.Discount, &b.Pricing.Taxes, &b.Pricing.TotalAmount,
		&b.ContactInfo.Phone, &b.ContactInfo.AlternatePhone, &emName, &emPhone, &emRel,
		&b.SpecialRequests, &b.AccommodationPreference, &b.MealPreference,
		&b.Status, &b.PaymentStatus,
		&b.PaymentDetails.TransactionID, &b.PaymentDetails.PaymentMethod, &b.PaymentDetails.PaidAmount, &b.PaymentDetails.PaymentDate,
		&b.Reference, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if emName != "" || emPhone != "" || emRel != "" {
		b.ContactInfo.EmergencyContact = &domain.EmergencyContact{Name: emName, Phone: emPhone, Relationship: emRel}
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
