package repository

import (
	"context"
	"errors"

	"hotel-booking/internal/domain/inventory"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// counterRetries bounds the optimistic retry loop on times_booked updates.
const counterRetries = 3

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const roomColumns = `id, hotel_id, room_number, type, price_cents, times_booked, available, version`

// activeHoldFilter excludes rooms with any PENDING/CONFIRMED hold overlapping
// the half-open [start, end) range.
const activeHoldFilter = `
	AND r.id NOT IN (
		SELECT rr.room_id FROM room_reservations rr
		WHERE rr.status IN ('PENDING', 'CONFIRMED')
		AND rr.start_date < $2 AND rr.end_date > $1
	)`

func (r *RoomRepository) FindByID(ctx context.Context, id int64) (*inventory.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room by id", err)
	}
	return room, nil
}

func (r *RoomRepository) FindAll(ctx context.Context) ([]*inventory.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (r *RoomRepository) FindAvailable(ctx context.Context, s stay.Stay) ([]*inventory.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms r
WHERE r.available = true` + activeHoldFilter + `
ORDER BY r.id`

	rows, err := r.pool.Query(ctx, query, s.Start(), s.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find available rooms", err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

// FindRecommendedByType ranks candidates for auto-select: least-booked first,
// id as the deterministic tie-break.
func (r *RoomRepository) FindRecommendedByType(ctx context.Context, roomType inventory.RoomType, s stay.Stay) ([]*inventory.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms r
WHERE r.available = true AND r.type = $3` + activeHoldFilter + `
ORDER BY r.times_booked ASC, r.id ASC`

	rows, err := r.pool.Query(ctx, query, s.Start(), s.End(), roomType)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find recommended rooms by type", err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (r *RoomRepository) FindRecommendedByHotel(ctx context.Context, hotelID int64, s stay.Stay) ([]*inventory.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms r
WHERE r.available = true AND r.hotel_id = $3` + activeHoldFilter + `
ORDER BY r.times_booked ASC, r.id ASC`

	rows, err := r.pool.Query(ctx, query, s.Start(), s.End(), hotelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find recommended rooms by hotel", err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

// IncrementTimesBooked bumps the counter with an optimistic version check:
// read version v, commit only if the row is still at v, re-read and retry on
// conflict, bounded.
func (r *RoomRepository) IncrementTimesBooked(ctx context.Context, roomID int64) error {
	const stmt = `
UPDATE rooms SET times_booked = times_booked + 1, version = version + 1
WHERE id = $1 AND version = $2`

	for attempt := 0; attempt < counterRetries; attempt++ {
		room, err := r.FindByID(ctx, roomID)
		if err != nil {
			return err
		}

		tag, err := r.pool.Exec(ctx, stmt, roomID, room.Version)
		if err != nil {
			return infra.WrapRepoErr("failed to increment times_booked", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return infra.WrapRepoErr("times_booked increment lost the version race", nil, infra.KindVersionConflict)
}

// DecrementTimesBooked floors at zero in a single conditional statement so
// concurrent release/expiry can never drive the counter negative.
func (r *RoomRepository) DecrementTimesBooked(ctx context.Context, roomID int64) error {
	const stmt = `
UPDATE rooms SET times_booked = times_booked - 1, version = version + 1
WHERE id = $1 AND times_booked > 0`

	if _, err := r.pool.Exec(ctx, stmt, roomID); err != nil {
		return infra.WrapRepoErr("failed to decrement times_booked", err)
	}
	return nil
}

func scanRoom(row pgx.Row) (*inventory.Room, error) {
	var room inventory.Room
	err := row.Scan(
		&room.ID, &room.HotelID, &room.RoomNumber, &room.Type,
		&room.PriceCents, &room.TimesBooked, &room.Available, &room.Version,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func scanRooms(rows pgx.Rows) ([]*inventory.Room, error) {
	var result []*inventory.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan room row", err)
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate room rows", err)
	}
	return result, nil
}
