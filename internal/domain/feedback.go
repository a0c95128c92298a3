package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type TravelType string

const (
	TravelSolo     TravelType = "solo"
	TravelCouple   TravelType = "couple"
	TravelFamily   TravelType = "family"
	TravelFriends  TravelType = "friends"
	TravelBusiness TravelType = "business"
)

func (t TravelType) Valid() bool {
	switch t {
	case TravelSolo, TravelCouple, TravelFamily, TravelFriends, TravelBusiness:
		return true
	}
	return false
}

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// Ratings holds component scores on a 1..5 scale. Overall may be derived.
type Ratings struct {
	Overall        float64 `json:"overall"`
	Accommodation  int     `json:"accommodation,omitempty"`
	Transportation int     `json:"transportation,omitempty"`
	Guide          int     `json:"guide,omitempty"`
	ValueForMoney  int     `json:"valueForMoney,omitempty"`
}

// DeriveOverall fills the overall score from the average of the component
// scores that are set, rounded to one decimal place. An explicitly supplied
// overall wins.
func (r *Ratings) DeriveOverall() {
	if r.Overall != 0 {
		return
	}
	components := []int{r.Accommodation, r.Transportation, r.Guide, r.ValueForMoney}
	sum, n := 0, 0
	for _, c := range components {
		if c > 0 {
			sum += c
			n++
		}
	}
	if n > 0 {
		r.Overall = math.Round(float64(sum)/float64(n)*10) / 10
	}
}

type Review struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Feedback is a traveler review. Publishing is gated on moderation.
type Feedback struct {
	ID               uuid.UUID           `json:"id"`
	UserID           string              `json:"userId,omitempty"`
	GuestInfo        *GuestInfo          `json:"guestInfo,omitempty"`
	BookingID        *uuid.UUID          `json:"bookingId,omitempty"`
	Destination      DestinationSnapshot `json:"destination"`
	Ratings          Ratings             `json:"ratings"`
	Review           Review              `json:"review"`
	WouldRecommend   bool                `json:"wouldRecommend"`
	TravelType       TravelType          `json:"travelType"`
	TravelDate       time.Time           `json:"travelDate"`
	IsVerified       bool                `json:"isVerified"`
	IsPublished      bool                `json:"isPublished"`
	ModerationStatus ModerationStatus    `json:"moderationStatus"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// RatingSummary aggregates published review scores for one destination.
type RatingSummary struct {
	DestinationID string  `json:"destinationId"`
	AvgOverall    float64 `json:"avgOverall"`
	TotalReviews  int     `json:"totalReviews"`
}
