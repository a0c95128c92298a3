package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContactSubject string

const (
	SubjectGeneral     ContactSubject = "general"
	SubjectBooking     ContactSubject = "booking"
	SubjectSupport     ContactSubject = "support"
	SubjectFeedback    ContactSubject = "feedback"
	SubjectPartnership ContactSubject = "partnership"
	SubjectComplaint   ContactSubject = "complaint"
	SubjectOther       ContactSubject = "other"
)

func (s ContactSubject) Valid() bool {
	switch s {
	case SubjectGeneral, SubjectBooking, SubjectSupport, SubjectFeedback,
		SubjectPartnership, SubjectComplaint, SubjectOther:
		return true
	}
	return false
}

type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

type ContactPriority string

const (
	PriorityMedium ContactPriority = "medium"
	PriorityHigh   ContactPriority = "high"
)

// ContactMessage is a plain inbound message from the contact form. No
// computed state beyond the subject-derived priority.
type ContactMessage struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Subject   ContactSubject  `json:"subject"`
	Message   string          `json:"message"`
	Status    ContactStatus   `json:"status"`
	Priority  ContactPriority `json:"priority"`
	IPAddress string          `json:"-"`
	UserAgent string          `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PriorityFor marks complaints and support requests for faster handling.
func PriorityFor(subject ContactSubject) ContactPriority {
	if subject == SubjectComplaint || subject == SubjectSupport {
		return PriorityHigh
	}
	return PriorityMedium
}
