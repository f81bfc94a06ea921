package request

import (
	"strings"
	"time"

	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/usecase"
)

type CreateBookingRequest struct {
	RequestID  *string `json:"requestId,omitempty"`
	HotelID    *int64  `json:"hotelId,omitempty"`
	RoomID     *int64  `json:"roomId,omitempty"`
	RoomType   *string `json:"roomType,omitempty"`
	AutoSelect bool    `json:"autoSelect"`
	StartDate  string  `json:"startDate" binding:"required"`
	EndDate    string  `json:"endDate" binding:"required"`
}

// ParseDates validates the wire format only; range checks live in the domain.
func (r CreateBookingRequest) ParseDates() (start, end time.Time, err error) {
	start, err = time.Parse(stay.DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(stay.DateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (r CreateBookingRequest) GetRequestID() *string {
	if r.RequestID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.RequestID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateBookingRequest) ToParams(userID int64, start, end time.Time) usecase.CreateBookingParams {
	return usecase.CreateBookingParams{
		RequestID:  r.GetRequestID(),
		UserID:     userID,
		HotelID:    r.HotelID,
		RoomID:     r.RoomID,
		RoomType:   r.RoomType,
		AutoSelect: r.AutoSelect,
		StartDate:  start,
		EndDate:    end,
	}
}
