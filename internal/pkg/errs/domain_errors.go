package errs

import "errors"

// Sentinel errors shared across usecase layers
var (
	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidStayRange     = errors.New("invalid stay range")
	ErrRoomSelectionMissing = errors.New("either roomId or autoSelect must be specified")

	// Inventory errors
	ErrInvalidRoomType = errors.New("invalid room type")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
