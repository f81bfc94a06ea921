package booking

import (
	"time"

	"hotel-booking/internal/domain/stay"
)

// Status transitions are enforced where rows change hands: every write past
// PENDING is a conditional UPDATE guarded on the current status, so a lost
// race is a no-op instead of an illegal transition.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusConfirmed   Status = "CONFIRMED"
	StatusCancelled   Status = "CANCELLED"
	StatusCompensated Status = "COMPENSATED"
)

// Terminal reports whether no further transition is allowed out of s.
// CONFIRMED is not terminal: it can still be cancelled.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompensated
}

type Booking struct {
	ID                 int64
	RequestID          string
	UserID             int64
	HotelID            *int64
	RoomID             *int64
	Stay               stay.Stay
	Status             Status
	CreatedAt          time.Time
	ExpiresAt          *time.Time
	CompensationReason *string
	Version            int32
}

// NewPending builds the booking row that is committed before any remote call,
// so a row exists once the caller has been acknowledged.
func NewPending(requestID string, userID int64, hotelID *int64, s stay.Stay, now time.Time, pendingTimeout time.Duration) *Booking {
	expiresAt := now.Add(pendingTimeout)
	return &Booking{
		RequestID: requestID,
		UserID:    userID,
		HotelID:   hotelID,
		Stay:      s,
		Status:    StatusPending,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
}

func (b *Booking) ExpiredAt(now time.Time) bool {
	return b.Status == StatusPending && b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}
