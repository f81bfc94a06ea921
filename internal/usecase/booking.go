package usecase

import (
	"context"
	"log/slog"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	reasonNoRooms = "No available rooms"
	reasonExpired = "Booking expired"
)

type CreateBookingParams struct {
	RequestID  *string
	UserID     int64
	HotelID    *int64
	RoomID     *int64
	RoomType   *string
	AutoSelect bool
	StartDate  time.Time
	EndDate    time.Time
}

type BookingUseCase interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*BookingView, error)
	CancelBooking(ctx context.Context, id int64) error
	GetBooking(ctx context.Context, id int64) (*BookingView, error)
	GetUserBookings(ctx context.Context, userID int64) ([]*BookingView, error)
	SweepExpired(ctx context.Context) (int, error)
}

type bookingUseCaseImpl struct {
	repo           BookingRepository
	inventory      InventoryClient
	clock          clock.Clock
	pendingTimeout time.Duration
	sweepBatchSize int
}

func NewBookingUseCase(
	repo BookingRepository,
	inventory InventoryClient,
	clk clock.Clock,
	pendingTimeout time.Duration,
	sweepBatchSize int,
) BookingUseCase {
	return &bookingUseCaseImpl{
		repo:           repo,
		inventory:      inventory,
		clock:          clk,
		pendingTimeout: pendingTimeout,
		sweepBatchSize: sweepBatchSize,
	}
}

// CreateBooking drives the whole saga synchronously: commit a PENDING row,
// confirm a room through the inventory service, resolve to CONFIRMED or
// COMPENSATED. All saga-internal failures end in a terminal booking status
// rather than an error to the caller.
func (u *bookingUseCaseImpl) CreateBooking(ctx context.Context, params CreateBookingParams) (*BookingView, error) {
	s, err := stay.New(params.StartDate, params.EndDate)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStayRange)
	}
	if !params.AutoSelect && params.RoomID == nil {
		return nil, errs.ErrRoomSelectionMissing
	}

	requestID := uuid.NewString()
	if params.RequestID != nil && *params.RequestID != "" {
		requestID = *params.RequestID
	}
	log := slog.With("request_id", requestID, "user_id", params.UserID)

	// Idempotency: an existing booking for this requestId is returned
	// unchanged, with no new writes and no remote calls.
	existing, err := u.repo.FindByRequestID(ctx, requestID)
	if err == nil {
		log.Info("booking already exists for request")
		return toBookingView(existing), nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	b := booking.NewPending(requestID, params.UserID, params.HotelID, s, u.clock.Now(), u.pendingTimeout)
	b.ID, err = u.repo.Create(ctx, b)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Lost the insert race; the winner's row is the booking.
			winner, findErr := u.repo.FindByRequestID(ctx, requestID)
			if findErr != nil {
				return nil, errs.Mark(findErr, errs.ErrDatabaseOperationFailed)
			}
			log.Info("concurrent create won by another request")
			return toBookingView(winner), nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	log.Info("created PENDING booking", "booking_id", b.ID)

	roomID, hotelID, confirmed, failReason := u.reserveRoom(ctx, b, params)
	if !confirmed {
		u.compensate(ctx, b, nil, failReason)
		return u.currentView(ctx, b)
	}

	claimed, err := u.repo.ClaimConfirmed(ctx, b.ID, roomID, hotelID)
	if err != nil || !claimed {
		// The sweeper got there first or the store failed after the hold was
		// taken; the hold must not outlive the booking. A store failure is
		// not a room shortage and keeps the error in the reason.
		reason := reasonNoRooms
		if err != nil {
			log.Error("failed to persist confirmation", "booking_id", b.ID, "error", err)
			reason = "Error: " + err.Error()
		}
		u.compensate(ctx, b, &roomID, reason)
		return u.currentView(ctx, b)
	}
	log.Info("booking CONFIRMED", "booking_id", b.ID, "room_id", roomID)

	return u.currentView(ctx, b)
}

// reserveRoom resolves a room and confirms it with inventory. It returns the
// confirmed room (and, for auto-select, its hotel), or confirmed=false with
// the compensation reason.
func (u *bookingUseCaseImpl) reserveRoom(ctx context.Context, b *booking.Booking, params CreateBookingParams) (int64, *int64, bool, string) {
	if params.AutoSelect {
		return u.autoSelectRoom(ctx, b, params)
	}

	roomID := *params.RoomID
	res := u.inventory.ConfirmAvailability(ctx, roomID, b.RequestID, b.ID, b.Stay)
	if !res.Available {
		slog.Warn("room not available", "booking_id", b.ID, "room_id", roomID, "message", res.Message)
		return 0, nil, false, reasonNoRooms
	}
	return roomID, nil, true, ""
}

// autoSelectRoom walks the ranked candidate list (times_booked ascending, id
// as tie-break) and takes the first room inventory confirms.
func (u *bookingUseCaseImpl) autoSelectRoom(ctx context.Context, b *booking.Booking, params CreateBookingParams) (int64, *int64, bool, string) {
	candidates, err := u.inventory.GetRecommendedRooms(ctx, params.HotelID, params.RoomType, b.Stay)
	if err != nil {
		slog.Error("failed to fetch recommended rooms", "booking_id", b.ID, "error", err)
		return 0, nil, false, "Error: " + err.Error()
	}
	if len(candidates) == 0 {
		slog.Warn("no candidate rooms for booking", "booking_id", b.ID)
		return 0, nil, false, reasonNoRooms
	}

	for _, candidate := range candidates {
		res := u.inventory.ConfirmAvailability(ctx, candidate.ID, b.RequestID, b.ID, b.Stay)
		if res.Available {
			hotelID := candidate.HotelID
			return candidate.ID, &hotelID, true, ""
		}
		slog.Warn("candidate room not available",
			"booking_id", b.ID, "room_id", candidate.ID, "message", res.Message)
	}
	return 0, nil, false, reasonNoRooms
}

// compensate is best-effort local cleanup: it never fails the parent
// operation, and the booking transitions to COMPENSATED even when the release
// call misbehaves.
func (u *bookingUseCaseImpl) compensate(ctx context.Context, b *booking.Booking, roomID *int64, reason string) {
	slog.Info("compensating booking", "booking_id", b.ID, "reason", reason)

	if roomID != nil {
		if err := u.inventory.ReleaseReservation(ctx, *roomID, b.RequestID); err != nil {
			slog.Error("failed to release reservation during compensation",
				"booking_id", b.ID, "room_id", *roomID, "error", err)
		}
	}

	claimed, err := u.repo.ClaimCompensated(ctx, b.ID, reason)
	if err != nil {
		slog.Error("failed to persist compensation", "booking_id", b.ID, "error", err)
		return
	}
	if !claimed {
		slog.Info("booking already resolved elsewhere", "booking_id", b.ID)
	}
}

func (u *bookingUseCaseImpl) currentView(ctx context.Context, b *booking.Booking) (*BookingView, error) {
	fresh, err := u.repo.FindByID(ctx, b.ID)
	if err != nil {
		// The row exists; at worst return the last state we held.
		slog.Error("failed to re-read booking", "booking_id", b.ID, "error", err)
		return toBookingView(b), nil
	}
	return toBookingView(fresh), nil
}

// CancelBooking is the only way to undo a booking after the fact. Release
// failures are logged, not fatal: the inventory sweeper is the backstop.
func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, id int64) error {
	b, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrBookingNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if b.Status.Terminal() {
		slog.Info("booking already cancelled or compensated", "booking_id", id)
		return nil
	}

	// Claim first: the room to release comes from the claimed row, since a
	// concurrent confirm may have attached one after the read above.
	roomID, claimed, err := u.repo.ClaimCancelled(ctx, id)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !claimed {
		// Someone else resolved the booking between the read and the claim;
		// cancel stays idempotent.
		slog.Info("cancel lost the status race", "booking_id", id)
		return nil
	}

	if roomID != nil {
		if err := u.inventory.ReleaseReservation(ctx, *roomID, b.RequestID); err != nil {
			slog.Error("failed to release reservation during cancel",
				"booking_id", id, "room_id", *roomID, "error", err)
		}
	}

	slog.Info("booking cancelled", "booking_id", id)
	return nil
}

func (u *bookingUseCaseImpl) GetBooking(ctx context.Context, id int64) (*BookingView, error) {
	b, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return toBookingView(b), nil
}

func (u *bookingUseCaseImpl) GetUserBookings(ctx context.Context, userID int64) ([]*BookingView, error) {
	bookings, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return toBookingViews(bookings), nil
}

// SweepExpired compensates PENDING bookings whose expiry has passed. Each row
// is claimed through a conditional status transition first, so concurrent
// sweeper instances never double-compensate.
func (u *bookingUseCaseImpl) SweepExpired(ctx context.Context) (int, error) {
	expired, err := u.repo.FindExpiredPending(ctx, u.clock.Now(), u.sweepBatchSize)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	swept := 0
	for _, b := range expired {
		claimed, err := u.repo.ClaimCompensated(ctx, b.ID, reasonExpired)
		if err != nil {
			slog.Error("failed to compensate expired booking", "booking_id", b.ID, "error", err)
			continue
		}
		if !claimed {
			continue
		}
		if b.RoomID != nil {
			if err := u.inventory.ReleaseReservation(ctx, *b.RoomID, b.RequestID); err != nil {
				slog.Error("failed to release hold of expired booking",
					"booking_id", b.ID, "room_id", *b.RoomID, "error", err)
			}
		}
		swept++
	}
	return swept, nil
}
