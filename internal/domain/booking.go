package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type AccommodationPreference string

const (
	AccommodationStandard AccommodationPreference = "standard"
	AccommodationDeluxe   AccommodationPreference = "deluxe"
	AccommodationLuxury   AccommodationPreference = "luxury"
)

func (p AccommodationPreference) Valid() bool {
	switch p {
	case AccommodationStandard, AccommodationDeluxe, AccommodationLuxury:
		return true
	}
	return false
}

type MealPreference string

const (
	MealVegetarian    MealPreference = "vegetarian"
	MealNonVegetarian MealPreference = "non-vegetarian"
	MealVegan         MealPreference = "vegan"
	MealJain          MealPreference = "jain"
)

func (p MealPreference) Valid() bool {
	switch p {
	case MealVegetarian, MealNonVegetarian, MealVegan, MealJain:
		return true
	}
	return false
}

// DestinationSnapshot is copied onto the booking at creation time so that
// later catalog price changes never alter an existing booking.
type DestinationSnapshot struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Region string  `json:"region,omitempty"`
	Price  float64 `json:"price"`
}

type TravelDates struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// Total is the only source of totalGuests; callers never set it directly.
func (g Guests) Total() int {
	return g.Adults + g.Children
}

// Pricing is computed once at creation and never recomputed on update.
// Discount holds the discounted amount, not the percentage.
type Pricing struct {
	BasePrice   float64 `json:"basePrice"`
	Discount    float64 `json:"discount"`
	Taxes       float64 `json:"taxes"`
	TotalAmount float64 `json:"totalAmount"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type ContactInfo struct {
	Phone            string            `json:"phone"`
	AlternatePhone   string            `json:"alternatePhone,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

// PaymentDetails records the outcome of an external payment event. It is
// never written by the traveler.
type PaymentDetails struct {
	TransactionID string     `json:"transactionId,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaidAmount    float64    `json:"paidAmount,omitempty"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
}

// Booking is the aggregate root. ID, UserID, Pricing and Reference are
// immutable after creation.
type Booking struct {
	ID                      uuid.UUID               `json:"id"`
	UserID                  string                  `json:"userId"`
	Destination             DestinationSnapshot     `json:"destination"`
	TravelDates             TravelDates             `json:"travelDates"`
	Guests                  Guests                  `json:"guests"`
	TotalGuests             int                     `json:"totalGuests"`
	Pricing                 Pricing                 `json:"pricing"`
	ContactInfo             ContactInfo             `json:"contactInfo"`
	SpecialRequests         string                  `json:"specialRequests,omitempty"`
	AccommodationPreference AccommodationPreference `json:"accommodationPreference"`
	MealPreference          MealPreference          `json:"mealPreference"`
	Status                  BookingStatus           `json:"status"`
	PaymentStatus           PaymentStatus           `json:"paymentStatus"`
	PaymentDetails          PaymentDetails          `json:"paymentDetails"`
	Reference               string                  `json:"bookingReference"`
	Notes                   string                  `json:"notes,omitempty"`
	CreatedAt               time.Time               `json:"createdAt"`
	UpdatedAt               time.Time               `json:"updatedAt"`
}

// StatusStat is one row of the per-status reporting aggregate.
type StatusStat struct {
	Status      BookingStatus `json:"status"`
	Count       int           `json:"count"`
	TotalAmount float64       `json:"totalAmount"`
}

// CanCancel reports whether the booking may still transition to cancelled.
// Completed and already-cancelled bookings are terminal for cancellation.
func (b *Booking) CanCancel() bool {
	return b.Status != BookingStatusCompleted && b.Status != BookingStatusCancelled
}

// Normalize recomputes derived state before any persistence write.
func (b *Booking) Normalize() {
	b.TotalGuests = b.Guests.Total()
}
