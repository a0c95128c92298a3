// Package policy holds the owner-or-admin access rule applied uniformly
// before every single-booking read or mutation.
package policy

import "github.com/yatraworks/yatra/internal/domain"

// CanRead reports whether the principal may read the booking.
func CanRead(p domain.Principal, b *domain.Booking) bool {
	return p.IsAdmin() || p.ID == b.UserID
}

// CanMutate reports whether the principal may update or cancel the booking.
// The rule is identical to CanRead today; callers use the mutation form so
// the two can diverge without touching call sites.
func CanMutate(p domain.Principal, b *domain.Booking) bool {
	return CanRead(p, b)
}
