package repository

import (
	"context"
	"errors"
	"time"

	"hotel-booking/internal/domain/inventory"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HoldRepository struct {
	pool *pgxpool.Pool
}

func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{pool: pool}
}

const holdColumns = `id, request_id, booking_id, room_id, start_date, end_date,
	status, created_at, expires_at, version`

func (r *HoldRepository) Create(ctx context.Context, h *inventory.Hold) (int64, error) {
	const stmt = `
INSERT INTO room_reservations (request_id, booking_id, room_id, start_date, end_date,
	status, created_at, expires_at, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, stmt,
		h.RequestID,
		h.BookingID,
		h.RoomID,
		h.Stay.Start(),
		h.Stay.End(),
		h.Status,
		h.CreatedAt,
		h.ExpiresAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, infra.WrapRepoErr("hold request_id already exists", err, infra.KindDuplicateKey)
		}
		// Exclusion constraint: another active hold took an intersecting
		// window between the overlap check and this insert.
		if isExclusionViolation(err) {
			return 0, infra.WrapRepoErr("hold window overlaps an active reservation", err, infra.KindDuplicateKey)
		}
		return 0, infra.WrapRepoErr("failed to create hold", err)
	}
	return id, nil
}

func (r *HoldRepository) FindByRequestID(ctx context.Context, requestID string) (*inventory.Hold, error) {
	const query = `SELECT ` + holdColumns + ` FROM room_reservations WHERE request_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, requestID), "failed to find hold by request_id")
}

// HasActiveOverlap reports whether any PENDING/CONFIRMED hold on the room
// intersects the half-open [start, end) range.
func (r *HoldRepository) HasActiveOverlap(ctx context.Context, roomID int64, s stay.Stay) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM room_reservations
	WHERE room_id = $1 AND status IN ($2, $3)
	AND start_date < $5 AND end_date > $4
)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, roomID,
		inventory.HoldStatusPending, inventory.HoldStatusConfirmed,
		s.Start(), s.End(),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check hold overlap", err)
	}
	return exists, nil
}

func (r *HoldRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*inventory.Hold, error) {
	const query = `SELECT ` + holdColumns + ` FROM room_reservations
WHERE status IN ($1, $2) AND expires_at < $3 ORDER BY expires_at LIMIT $4`

	rows, err := r.pool.Query(ctx, query,
		inventory.HoldStatusPending, inventory.HoldStatusConfirmed, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired holds", err)
	}
	defer rows.Close()

	var result []*inventory.Hold
	for rows.Next() {
		h, err := r.scanOne(rows, "failed to scan hold row")
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold rows", err)
	}
	return result, nil
}

// ClaimReleased transitions an active hold to RELEASED and reports whether
// this caller won the claim. Only the winner may decrement the room counter.
func (r *HoldRepository) ClaimReleased(ctx context.Context, requestID string) (int64, bool, error) {
	const stmt = `
UPDATE room_reservations
SET status = $1, version = version + 1
WHERE request_id = $2 AND status IN ($3, $4)
RETURNING room_id`

	var roomID int64
	err := r.pool.QueryRow(ctx, stmt,
		inventory.HoldStatusReleased, requestID,
		inventory.HoldStatusPending, inventory.HoldStatusConfirmed,
	).Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, infra.WrapRepoErr("failed to release hold", err)
	}
	return roomID, true, nil
}

// ClaimExpired is the sweeper's claim-then-process step: it wins only if the
// hold is still active, so two sweeper instances never double-decrement.
func (r *HoldRepository) ClaimExpired(ctx context.Context, id int64) (bool, error) {
	const stmt = `
UPDATE room_reservations
SET status = $1, version = version + 1
WHERE id = $2 AND status IN ($3, $4)`

	tag, err := r.pool.Exec(ctx, stmt,
		inventory.HoldStatusExpired, id,
		inventory.HoldStatusPending, inventory.HoldStatusConfirmed,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to expire hold", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *HoldRepository) scanOne(row pgx.Row, msg string) (*inventory.Hold, error) {
	var (
		h          inventory.Hold
		start, end time.Time
	)
	err := row.Scan(
		&h.ID, &h.RequestID, &h.BookingID, &h.RoomID, &start, &end,
		&h.Status, &h.CreatedAt, &h.ExpiresAt, &h.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("hold not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}

	h.Stay, err = stay.New(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("hold has invalid stay range", err)
	}
	return &h, nil
}
