package usecase

import (
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/inventory"
	"hotel-booking/internal/domain/stay"
)

type BookingView struct {
	ID                 int64
	RequestID          string
	UserID             int64
	HotelID            *int64
	RoomID             *int64
	StartDate          string
	EndDate            string
	Status             string
	CreatedAt          time.Time
	ExpiresAt          *time.Time
	CompensationReason *string
}

func toBookingView(b *booking.Booking) *BookingView {
	return &BookingView{
		ID:                 b.ID,
		RequestID:          b.RequestID,
		UserID:             b.UserID,
		HotelID:            b.HotelID,
		RoomID:             b.RoomID,
		StartDate:          b.Stay.Start().Format(stay.DateLayout),
		EndDate:            b.Stay.End().Format(stay.DateLayout),
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt,
		ExpiresAt:          b.ExpiresAt,
		CompensationReason: b.CompensationReason,
	}
}

func toBookingViews(bs []*booking.Booking) []*BookingView {
	views := make([]*BookingView, len(bs))
	for i, b := range bs {
		views[i] = toBookingView(b)
	}
	return views
}

type RoomView struct {
	ID          int64
	HotelID     int64
	RoomNumber  string
	Type        string
	PriceCents  int64
	TimesBooked int32
	Available   bool
}

func toRoomView(r *inventory.Room) *RoomView {
	return &RoomView{
		ID:          r.ID,
		HotelID:     r.HotelID,
		RoomNumber:  r.RoomNumber,
		Type:        string(r.Type),
		PriceCents:  r.PriceCents,
		TimesBooked: r.TimesBooked,
		Available:   r.Available,
	}
}

func toRoomViews(rooms []*inventory.Room) []*RoomView {
	views := make([]*RoomView, len(rooms))
	for i, r := range rooms {
		views[i] = toRoomView(r)
	}
	return views
}
