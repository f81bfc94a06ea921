package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hotel-booking/internal/domain/inventory"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
)

type ConfirmAvailabilityParams struct {
	RequestID string
	BookingID int64
	Stay      stay.Stay
}

type RoomUseCase interface {
	ConfirmAvailability(ctx context.Context, roomID int64, params ConfirmAvailabilityParams) (AvailabilityResult, error)
	ReleaseReservation(ctx context.Context, roomID int64, requestID string) error
	GetRecommendedRooms(ctx context.Context, hotelID *int64, roomType *string, s stay.Stay) ([]*RoomView, error)
	GetAvailableRooms(ctx context.Context, s stay.Stay) ([]*RoomView, error)
	ListRooms(ctx context.Context) ([]*RoomView, error)
	SweepExpired(ctx context.Context) (int, error)
}

type roomUseCaseImpl struct {
	rooms          RoomRepository
	holds          HoldRepository
	clock          clock.Clock
	holdTimeout    time.Duration
	sweepBatchSize int
}

func NewRoomUseCase(
	rooms RoomRepository,
	holds HoldRepository,
	clk clock.Clock,
	holdTimeout time.Duration,
	sweepBatchSize int,
) RoomUseCase {
	return &roomUseCaseImpl{
		rooms:          rooms,
		holds:          holds,
		clock:          clk,
		holdTimeout:    holdTimeout,
		sweepBatchSize: sweepBatchSize,
	}
}

func available(roomID int64) AvailabilityResult {
	return AvailabilityResult{Available: true, RoomID: roomID}
}

func notAvailable(message string) AvailabilityResult {
	return AvailabilityResult{Available: false, Message: message}
}

// ConfirmAvailability answers with a business result for everything short of
// a broken store: unknown rooms, overlaps and lost insert races are all
// "not available", never errors.
func (u *roomUseCaseImpl) ConfirmAvailability(ctx context.Context, roomID int64, params ConfirmAvailabilityParams) (AvailabilityResult, error) {
	log := slog.With("room_id", roomID, "request_id", params.RequestID, "booking_id", params.BookingID)

	// Idempotency: a request_id already holding a window answers success
	// without a second hold or counter bump. A released or expired hold means
	// the window was relinquished; the caller must pick a new candidate.
	existing, err := u.holds.FindByRequestID(ctx, params.RequestID)
	if err == nil {
		log.Info("confirm request already processed", "status", existing.Status)
		if existing.Status.Active() {
			return available(roomID), nil
		}
		return notAvailable("Reservation was already released or expired"), nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	room, err := u.rooms.FindByID(ctx, roomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return notAvailable("Room not found"), nil
		}
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !room.Available {
		return notAvailable("Room is not available (maintenance)"), nil
	}

	overlaps, err := u.holds.HasActiveOverlap(ctx, roomID, params.Stay)
	if err != nil {
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if overlaps {
		return notAvailable("Room is not available for the requested dates"), nil
	}

	hold := inventory.NewConfirmedHold(params.RequestID, params.BookingID, roomID, params.Stay, u.clock.Now(), u.holdTimeout)
	hold.ID, err = u.holds.Create(ctx, hold)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Lost a race with a concurrent confirm for an overlapping window.
			log.Warn("hold insert lost uniqueness race")
			return notAvailable("Room is already reserved for this period"), nil
		}
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := u.rooms.IncrementTimesBooked(ctx, roomID); err != nil {
		// Undo the hold without a decrement: the counter was never bumped.
		log.Error("failed to increment times_booked, undoing hold", "error", err)
		if _, _, relErr := u.holds.ClaimReleased(ctx, params.RequestID); relErr != nil {
			log.Error("failed to undo hold", "error", relErr)
		}
		return notAvailable("Room is temporarily unavailable"), nil
	}

	log.Info("room reserved", "hold_id", hold.ID)
	return available(roomID), nil
}

// ReleaseReservation is an idempotent no-op when the hold is missing or
// already inactive. The counter decrement happens only for the caller that
// wins the claim.
func (u *roomUseCaseImpl) ReleaseReservation(ctx context.Context, roomID int64, requestID string) error {
	heldRoomID, claimed, err := u.holds.ClaimReleased(ctx, requestID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !claimed {
		slog.Info("reservation already released or unknown", "request_id", requestID)
		return nil
	}

	// Trust the hold row over the path parameter for the counter owner.
	if err := u.rooms.DecrementTimesBooked(ctx, heldRoomID); err != nil {
		slog.Error("failed to decrement times_booked on release",
			"room_id", heldRoomID, "request_id", requestID, "error", err)
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slog.Info("reservation released", "room_id", heldRoomID, "request_id", requestID)
	return nil
}

// GetRecommendedRooms ranks candidates by times_booked then id. The type
// filter wins over the hotel filter when both are present; with neither it
// degrades to the plain availability listing.
func (u *roomUseCaseImpl) GetRecommendedRooms(ctx context.Context, hotelID *int64, roomType *string, s stay.Stay) ([]*RoomView, error) {
	switch {
	case roomType != nil && *roomType != "":
		parsed, err := inventory.ParseRoomType(strings.ToUpper(*roomType))
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidRoomType)
		}
		rooms, err := u.rooms.FindRecommendedByType(ctx, parsed, s)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return toRoomViews(rooms), nil

	case hotelID != nil:
		rooms, err := u.rooms.FindRecommendedByHotel(ctx, *hotelID, s)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return toRoomViews(rooms), nil

	default:
		return u.GetAvailableRooms(ctx, s)
	}
}

func (u *roomUseCaseImpl) GetAvailableRooms(ctx context.Context, s stay.Stay) ([]*RoomView, error) {
	rooms, err := u.rooms.FindAvailable(ctx, s)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return toRoomViews(rooms), nil
}

func (u *roomUseCaseImpl) ListRooms(ctx context.Context) ([]*RoomView, error) {
	rooms, err := u.rooms.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return toRoomViews(rooms), nil
}

// SweepExpired reaps active holds past their expiry, including those left by
// crashed orchestrators. The claim transition guards the decrement against
// concurrent sweeper instances and in-flight releases.
func (u *roomUseCaseImpl) SweepExpired(ctx context.Context) (int, error) {
	expired, err := u.holds.FindExpiredActive(ctx, u.clock.Now(), u.sweepBatchSize)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	swept := 0
	for _, h := range expired {
		claimed, err := u.holds.ClaimExpired(ctx, h.ID)
		if err != nil {
			slog.Error("failed to expire hold", "hold_id", h.ID, "error", err)
			continue
		}
		if !claimed {
			continue
		}
		if err := u.rooms.DecrementTimesBooked(ctx, h.RoomID); err != nil {
			slog.Error("failed to decrement times_booked for expired hold",
				"hold_id", h.ID, "room_id", h.RoomID, "error", err)
		}
		swept++
	}
	return swept, nil
}
