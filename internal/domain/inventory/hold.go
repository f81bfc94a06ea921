package inventory

import (
	"time"

	"hotel-booking/internal/domain/stay"
)

type HoldStatus string

const (
	HoldStatusPending   HoldStatus = "PENDING"
	HoldStatusConfirmed HoldStatus = "CONFIRMED"
	HoldStatusReleased  HoldStatus = "RELEASED"
	HoldStatusExpired   HoldStatus = "EXPIRED"
)

// Active holds block the room for their date range. PENDING does not occur
// while confirmation is synchronous, but the state is kept so abandoned
// two-step holds would still be swept.
func (s HoldStatus) Active() bool {
	return s == HoldStatusPending || s == HoldStatusConfirmed
}

// Hold is a room reservation owned by the inventory service. RequestID is the
// idempotency key of the confirm call that created it.
type Hold struct {
	ID        int64
	RequestID string
	BookingID int64
	RoomID    int64
	Stay      stay.Stay
	Status    HoldStatus
	CreatedAt time.Time
	ExpiresAt time.Time
	Version   int32
}

// NewConfirmedHold folds the tentative and confirmed states into one because
// the confirm call is synchronous end to end.
func NewConfirmedHold(requestID string, bookingID, roomID int64, s stay.Stay, now time.Time, holdTimeout time.Duration) *Hold {
	return &Hold{
		RequestID: requestID,
		BookingID: bookingID,
		RoomID:    roomID,
		Stay:      s,
		Status:    HoldStatusConfirmed,
		CreatedAt: now,
		ExpiresAt: now.Add(holdTimeout),
	}
}
