package request

import (
	"hotel-booking/internal/domain/stay"
)

type ConfirmAvailabilityRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	BookingID int64  `json:"bookingId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

func (r ConfirmAvailabilityRequest) ParseStay() (stay.Stay, error) {
	return stay.Parse(r.StartDate, r.EndDate)
}

// StayQuery is the date window shared by the room listing endpoints.
type StayQuery struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}

func (q StayQuery) ParseStay() (stay.Stay, error) {
	return stay.Parse(q.StartDate, q.EndDate)
}

type RecommendQuery struct {
	StayQuery
	HotelID  *int64  `form:"hotelId"`
	RoomType *string `form:"roomType"`
}
