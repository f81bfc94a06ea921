package response

import (
	"hotel-booking/internal/usecase"

	"github.com/jinzhu/copier"
)

type RoomResponse struct {
	ID          int64  `json:"id"`
	HotelID     int64  `json:"hotelId"`
	RoomNumber  string `json:"roomNumber"`
	Type        string `json:"type"`
	PriceCents  int64  `json:"priceCents"`
	TimesBooked int32  `json:"timesBooked"`
	Available   bool   `json:"available"`
}

func FromRoomView(v *usecase.RoomView) *RoomResponse {
	var resp RoomResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromRoomViews(vs []*usecase.RoomView) []*RoomResponse {
	resps := make([]*RoomResponse, len(vs))
	for i, v := range vs {
		resps[i] = FromRoomView(v)
	}
	return resps
}
