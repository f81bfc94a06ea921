package response

import (
	"time"

	"hotel-booking/internal/usecase"

	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                 int64      `json:"id"`
	RequestID          string     `json:"requestId"`
	UserID             int64      `json:"userId"`
	HotelID            *int64     `json:"hotelId,omitempty"`
	RoomID             *int64     `json:"roomId,omitempty"`
	StartDate          string     `json:"startDate"`
	EndDate            string     `json:"endDate"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	CompensationReason *string    `json:"compensationReason,omitempty"`
}

func FromBookingView(v *usecase.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromBookingViews(vs []*usecase.BookingView) []*BookingResponse {
	resps := make([]*BookingResponse, len(vs))
	for i, v := range vs {
		resps[i] = FromBookingView(v)
	}
	return resps
}
