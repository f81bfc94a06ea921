//go:build unit

package usecase_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/inventory"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/usecase"
)

// In-memory stores mirroring the conditional-update semantics of the SQL
// repositories, with hooks for fault injection.

func mustStay(t *testing.T, startDay, endDay int) stay.Stay {
	t.Helper()
	s, err := stay.New(
		time.Date(2025, 6, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, endDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("invalid stay: %v", err)
	}
	return s
}

type fakeBookingRepo struct {
	nextID    int64
	byID      map[int64]*booking.Booking
	byRequest map[string]int64

	createErr error
	findErr   error
	// runs after validation but before the insert lands, to stage races
	onCreate func()
	claimConfirmedErr error
	// runs before ClaimConfirmed evaluates the status guard
	beforeClaimConfirmed func(b *booking.Booking)
	// runs before ClaimCancelled evaluates the status guard
	beforeClaimCancelled func(b *booking.Booking)
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		byID:      make(map[int64]*booking.Booking),
		byRequest: make(map[string]int64),
	}
}

func (r *fakeBookingRepo) insert(b *booking.Booking) *booking.Booking {
	r.nextID++
	cp := *b
	cp.ID = r.nextID
	r.byID[cp.ID] = &cp
	r.byRequest[cp.RequestID] = cp.ID
	return &cp
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) (int64, error) {
	if r.onCreate != nil {
		r.onCreate()
		r.onCreate = nil
	}
	if r.createErr != nil {
		return 0, r.createErr
	}
	if _, ok := r.byRequest[b.RequestID]; ok {
		return 0, infra.WrapRepoErr("booking request_id already exists", nil, infra.KindDuplicateKey)
	}
	return r.insert(b).ID, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*booking.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindByRequestID(_ context.Context, requestID string) (*booking.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	id, ok := r.byRequest[requestID]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID int64) ([]*booking.Booking, error) {
	var result []*booking.Booking
	for _, b := range r.byID {
		if b.UserID == userID {
			cp := *b
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeBookingRepo) FindExpiredPending(_ context.Context, now time.Time, limit int) ([]*booking.Booking, error) {
	var result []*booking.Booking
	for _, b := range r.byID {
		if b.ExpiredAt(now) {
			cp := *b
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeBookingRepo) ClaimConfirmed(_ context.Context, id, roomID int64, hotelID *int64) (bool, error) {
	if r.claimConfirmedErr != nil {
		return false, r.claimConfirmedErr
	}
	b, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if r.beforeClaimConfirmed != nil {
		r.beforeClaimConfirmed(b)
		r.beforeClaimConfirmed = nil
	}
	if b.Status != booking.StatusPending {
		return false, nil
	}
	b.Status = booking.StatusConfirmed
	b.RoomID = &roomID
	if hotelID != nil {
		b.HotelID = hotelID
	}
	b.ExpiresAt = nil
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) ClaimCompensated(_ context.Context, id int64, reason string) (bool, error) {
	b, ok := r.byID[id]
	if !ok || b.Status != booking.StatusPending {
		return false, nil
	}
	b.Status = booking.StatusCompensated
	b.CompensationReason = &reason
	b.ExpiresAt = nil
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) ClaimCancelled(_ context.Context, id int64) (*int64, bool, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, false, nil
	}
	if r.beforeClaimCancelled != nil {
		r.beforeClaimCancelled(b)
		r.beforeClaimCancelled = nil
	}
	if b.Status.Terminal() {
		return nil, false, nil
	}
	b.Status = booking.StatusCancelled
	b.ExpiresAt = nil
	b.Version++
	if b.RoomID == nil {
		return nil, true, nil
	}
	roomID := *b.RoomID
	return &roomID, true, nil
}

type releaseCall struct {
	roomID    int64
	requestID string
}

type fakeInventoryClient struct {
	candidates   []usecase.RoomCandidate
	recommendErr error
	// confirmFn decides per room; nil means every confirm succeeds
	confirmFn    func(roomID int64) usecase.AvailabilityResult
	confirmCalls []int64
	releaseCalls []releaseCall
	releaseErr   error
}

func (c *fakeInventoryClient) GetRecommendedRooms(_ context.Context, _ *int64, _ *string, _ stay.Stay) ([]usecase.RoomCandidate, error) {
	if c.recommendErr != nil {
		return nil, c.recommendErr
	}
	return c.candidates, nil
}

func (c *fakeInventoryClient) ConfirmAvailability(_ context.Context, roomID int64, _ string, _ int64, _ stay.Stay) usecase.AvailabilityResult {
	c.confirmCalls = append(c.confirmCalls, roomID)
	if c.confirmFn != nil {
		return c.confirmFn(roomID)
	}
	return usecase.AvailabilityResult{Available: true, RoomID: roomID}
}

func (c *fakeInventoryClient) ReleaseReservation(_ context.Context, roomID int64, requestID string) error {
	c.releaseCalls = append(c.releaseCalls, releaseCall{roomID: roomID, requestID: requestID})
	return c.releaseErr
}

type fakeRoomRepo struct {
	rooms map[int64]*inventory.Room

	incErr   error
	incCalls []int64
	decCalls []int64
}

func newFakeRoomRepo(rooms ...*inventory.Room) *fakeRoomRepo {
	r := &fakeRoomRepo{rooms: make(map[int64]*inventory.Room)}
	for _, room := range rooms {
		cp := *room
		r.rooms[cp.ID] = &cp
	}
	return r
}

func (r *fakeRoomRepo) FindByID(_ context.Context, id int64) (*inventory.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) FindAll(_ context.Context) ([]*inventory.Room, error) {
	return r.sorted(func(*inventory.Room) bool { return true }, false), nil
}

func (r *fakeRoomRepo) FindAvailable(_ context.Context, _ stay.Stay) ([]*inventory.Room, error) {
	return r.sorted(func(room *inventory.Room) bool { return room.Available }, false), nil
}

func (r *fakeRoomRepo) FindRecommendedByType(_ context.Context, roomType inventory.RoomType, _ stay.Stay) ([]*inventory.Room, error) {
	return r.sorted(func(room *inventory.Room) bool {
		return room.Available && room.Type == roomType
	}, true), nil
}

func (r *fakeRoomRepo) FindRecommendedByHotel(_ context.Context, hotelID int64, _ stay.Stay) ([]*inventory.Room, error) {
	return r.sorted(func(room *inventory.Room) bool {
		return room.Available && room.HotelID == hotelID
	}, true), nil
}

func (r *fakeRoomRepo) sorted(keep func(*inventory.Room) bool, ranked bool) []*inventory.Room {
	var result []*inventory.Room
	for _, room := range r.rooms {
		if keep(room) {
			cp := *room
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if ranked && result[i].TimesBooked != result[j].TimesBooked {
			return result[i].TimesBooked < result[j].TimesBooked
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *fakeRoomRepo) IncrementTimesBooked(_ context.Context, roomID int64) error {
	r.incCalls = append(r.incCalls, roomID)
	if r.incErr != nil {
		return r.incErr
	}
	room, ok := r.rooms[roomID]
	if !ok {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	room.TimesBooked++
	room.Version++
	return nil
}

func (r *fakeRoomRepo) DecrementTimesBooked(_ context.Context, roomID int64) error {
	r.decCalls = append(r.decCalls, roomID)
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	// Same floor as the SQL: a zero counter stays at zero.
	if room.TimesBooked > 0 {
		room.TimesBooked--
		room.Version++
	}
	return nil
}

type fakeHoldRepo struct {
	nextID int64
	byID   map[int64]*inventory.Hold

	createErr error
	// runs after the overlap check but before the insert guards, once
	onCreate func()
	// runs before ClaimExpired evaluates the status guard
	beforeClaimExpired func(h *inventory.Hold)
}

func newFakeHoldRepo() *fakeHoldRepo {
	return &fakeHoldRepo{byID: make(map[int64]*inventory.Hold)}
}

func (r *fakeHoldRepo) insert(h *inventory.Hold) *inventory.Hold {
	r.nextID++
	cp := *h
	cp.ID = r.nextID
	r.byID[cp.ID] = &cp
	return &cp
}

func (r *fakeHoldRepo) findByRequest(requestID string) *inventory.Hold {
	for _, h := range r.byID {
		if h.RequestID == requestID {
			return h
		}
	}
	return nil
}

func (r *fakeHoldRepo) Create(_ context.Context, h *inventory.Hold) (int64, error) {
	if r.onCreate != nil {
		hook := r.onCreate
		r.onCreate = nil
		hook()
	}
	if r.createErr != nil {
		return 0, r.createErr
	}
	if r.findByRequest(h.RequestID) != nil {
		return 0, infra.WrapRepoErr("hold request_id already exists", nil, infra.KindDuplicateKey)
	}
	// Same arbiter as the exclusion constraint: active holds on one room
	// never cover intersecting windows, regardless of request_id.
	for _, existing := range r.byID {
		if existing.RoomID == h.RoomID && existing.Status.Active() && existing.Stay.Overlaps(h.Stay) {
			return 0, infra.WrapRepoErr("hold window overlaps an active reservation", nil, infra.KindDuplicateKey)
		}
	}
	return r.insert(h).ID, nil
}

func (r *fakeHoldRepo) FindByRequestID(_ context.Context, requestID string) (*inventory.Hold, error) {
	h := r.findByRequest(requestID)
	if h == nil {
		return nil, infra.WrapRepoErr("hold not found", nil, infra.KindNotFound)
	}
	cp := *h
	return &cp, nil
}

func (r *fakeHoldRepo) HasActiveOverlap(_ context.Context, roomID int64, s stay.Stay) (bool, error) {
	for _, h := range r.byID {
		if h.RoomID == roomID && h.Status.Active() && h.Stay.Overlaps(s) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeHoldRepo) FindExpiredActive(_ context.Context, now time.Time, limit int) ([]*inventory.Hold, error) {
	var result []*inventory.Hold
	for _, h := range r.byID {
		if h.Status.Active() && h.ExpiresAt.Before(now) {
			cp := *h
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeHoldRepo) ClaimReleased(_ context.Context, requestID string) (int64, bool, error) {
	h := r.findByRequest(requestID)
	if h == nil || !h.Status.Active() {
		return 0, false, nil
	}
	h.Status = inventory.HoldStatusReleased
	h.Version++
	return h.RoomID, true, nil
}

func (r *fakeHoldRepo) ClaimExpired(_ context.Context, id int64) (bool, error) {
	h, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if r.beforeClaimExpired != nil {
		r.beforeClaimExpired(h)
		r.beforeClaimExpired = nil
	}
	if !h.Status.Active() {
		return false, nil
	}
	h.Status = inventory.HoldStatusExpired
	h.Version++
	return true, nil
}
