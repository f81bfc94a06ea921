package inventory

import "errors"

var ErrUnknownRoomType = errors.New("unknown room type")

type RoomType string

const (
	RoomTypeSingle RoomType = "SINGLE"
	RoomTypeDouble RoomType = "DOUBLE"
	RoomTypeSuite  RoomType = "SUITE"
	RoomTypeDeluxe RoomType = "DELUXE"
)

func ParseRoomType(s string) (RoomType, error) {
	switch RoomType(s) {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe:
		return RoomType(s), nil
	}
	return "", ErrUnknownRoomType
}

type Room struct {
	ID            int64
	HotelID       int64
	RoomNumber    string
	Type          RoomType
	PriceCents    int64
	// TimesBooked counts active holds; it ranks auto-select candidates and
	// never goes below zero.
	TimesBooked int32
	// Available is the administrative flag (maintenance etc.), independent
	// of holds.
	Available bool
	Version   int32
}
