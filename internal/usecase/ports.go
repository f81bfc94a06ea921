package usecase

import (
	"context"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/inventory"
	"hotel-booking/internal/domain/stay"
)

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (int64, error)
	FindByID(ctx context.Context, id int64) (*booking.Booking, error)
	FindByRequestID(ctx context.Context, requestID string) (*booking.Booking, error)
	FindByUserID(ctx context.Context, userID int64) ([]*booking.Booking, error)
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]*booking.Booking, error)
	ClaimConfirmed(ctx context.Context, id, roomID int64, hotelID *int64) (bool, error)
	ClaimCompensated(ctx context.Context, id int64, reason string) (bool, error)
	ClaimCancelled(ctx context.Context, id int64) (*int64, bool, error)
}

type RoomRepository interface {
	FindByID(ctx context.Context, id int64) (*inventory.Room, error)
	FindAll(ctx context.Context) ([]*inventory.Room, error)
	FindAvailable(ctx context.Context, s stay.Stay) ([]*inventory.Room, error)
	FindRecommendedByType(ctx context.Context, roomType inventory.RoomType, s stay.Stay) ([]*inventory.Room, error)
	FindRecommendedByHotel(ctx context.Context, hotelID int64, s stay.Stay) ([]*inventory.Room, error)
	IncrementTimesBooked(ctx context.Context, roomID int64) error
	DecrementTimesBooked(ctx context.Context, roomID int64) error
}

type HoldRepository interface {
	Create(ctx context.Context, h *inventory.Hold) (int64, error)
	FindByRequestID(ctx context.Context, requestID string) (*inventory.Hold, error)
	HasActiveOverlap(ctx context.Context, roomID int64, s stay.Stay) (bool, error)
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*inventory.Hold, error)
	ClaimReleased(ctx context.Context, requestID string) (int64, bool, error)
	ClaimExpired(ctx context.Context, id int64) (bool, error)
}

// RoomCandidate is a room as the inventory service advertises it to the
// orchestrator, already ranked for auto-select.
type RoomCandidate struct {
	ID          int64  `json:"id"`
	HotelID     int64  `json:"hotelId"`
	RoomNumber  string `json:"roomNumber"`
	Type        string `json:"type"`
	TimesBooked int32  `json:"timesBooked"`
}

// AvailabilityResult is a business outcome, never a transport error: the
// client folds exhausted retries into Available=false so the saga can always
// resolve a step.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	RoomID    int64  `json:"roomId,omitempty"`
}

// InventoryClient is the orchestrator's only path to inventory state.
type InventoryClient interface {
	GetRecommendedRooms(ctx context.Context, hotelID *int64, roomType *string, s stay.Stay) ([]RoomCandidate, error)
	ConfirmAvailability(ctx context.Context, roomID int64, requestID string, bookingID int64, s stay.Stay) AvailabilityResult
	ReleaseReservation(ctx context.Context, roomID int64, requestID string) error
}
