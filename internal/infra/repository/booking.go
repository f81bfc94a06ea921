package repository

import (
	"context"
	"errors"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, request_id, user_id, hotel_id, room_id, start_date, end_date,
	status, created_at, expires_at, compensation_reason, version`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (int64, error) {
	const stmt = `
INSERT INTO bookings (request_id, user_id, hotel_id, room_id, start_date, end_date,
	status, created_at, expires_at, compensation_reason, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)
RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, stmt,
		b.RequestID,
		b.UserID,
		b.HotelID,
		b.RoomID,
		b.Stay.Start(),
		b.Stay.End(),
		b.Status,
		b.CreatedAt,
		b.ExpiresAt,
		b.CompensationReason,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, infra.WrapRepoErr("booking request_id already exists", err, infra.KindDuplicateKey)
		}
		return 0, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*booking.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "failed to find booking by id")
}

func (r *BookingRepository) FindByRequestID(ctx context.Context, requestID string) (*booking.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE request_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, requestID), "failed to find booking by request_id")
}

func (r *BookingRepository) FindByUserID(ctx context.Context, userID int64) ([]*booking.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings
WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by user", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *BookingRepository) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]*booking.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings
WHERE status = $1 AND expires_at < $2 ORDER BY expires_at LIMIT $3`

	rows, err := r.pool.Query(ctx, query, booking.StatusPending, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired pending bookings", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ClaimConfirmed finalizes the saga happy path. The status guard makes the
// transition lose cleanly if the sweeper compensated the row first.
func (r *BookingRepository) ClaimConfirmed(ctx context.Context, id, roomID int64, hotelID *int64) (bool, error) {
	const stmt = `
UPDATE bookings
SET status = $1, room_id = $2, hotel_id = COALESCE($3, hotel_id),
	expires_at = NULL, version = version + 1
WHERE id = $4 AND status = $5`

	tag, err := r.pool.Exec(ctx, stmt, booking.StatusConfirmed, roomID, hotelID, id, booking.StatusPending)
	if err != nil {
		return false, infra.WrapRepoErr("failed to confirm booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) ClaimCompensated(ctx context.Context, id int64, reason string) (bool, error) {
	const stmt = `
UPDATE bookings
SET status = $1, compensation_reason = $2, expires_at = NULL, version = version + 1
WHERE id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, stmt, booking.StatusCompensated, reason, id, booking.StatusPending)
	if err != nil {
		return false, infra.WrapRepoErr("failed to compensate booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimCancelled returns the claimed row's room_id so the caller releases
// based on the state at claim time, not a possibly stale earlier read.
func (r *BookingRepository) ClaimCancelled(ctx context.Context, id int64) (*int64, bool, error) {
	const stmt = `
UPDATE bookings
SET status = $1, expires_at = NULL, version = version + 1
WHERE id = $2 AND status IN ($3, $4)
RETURNING room_id`

	var roomID *int64
	err := r.pool.QueryRow(ctx, stmt,
		booking.StatusCancelled, id, booking.StatusPending, booking.StatusConfirmed,
	).Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to cancel booking", err)
	}
	return roomID, true, nil
}

func (r *BookingRepository) scanOne(row pgx.Row, msg string) (*booking.Booking, error) {
	var (
		b          booking.Booking
		start, end time.Time
	)
	err := row.Scan(
		&b.ID, &b.RequestID, &b.UserID, &b.HotelID, &b.RoomID, &start, &end,
		&b.Status, &b.CreatedAt, &b.ExpiresAt, &b.CompensationReason, &b.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}

	b.Stay, err = stay.New(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("booking has invalid stay range", err)
	}
	return &b, nil
}

func (r *BookingRepository) scanAll(rows pgx.Rows) ([]*booking.Booking, error) {
	var result []*booking.Booking
	for rows.Next() {
		b, err := r.scanOne(rows, "failed to scan booking row")
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}
