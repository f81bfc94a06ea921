//go:build unit

package booking_test

import (
	"testing"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/stay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending(t *testing.T) *booking.Booking {
	t.Helper()
	s, err := stay.Parse("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	return booking.NewPending("req-1", 42, nil, s, now, 5*time.Minute)
}

func TestNewPending(t *testing.T) {
	b := newPending(t)

	assert.Equal(t, booking.StatusPending, b.Status)
	require.NotNil(t, b.ExpiresAt)
	assert.Equal(t, b.CreatedAt.Add(5*time.Minute), *b.ExpiresAt)
	assert.Nil(t, b.RoomID)
	assert.Nil(t, b.CompensationReason)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, booking.StatusPending.Terminal())
	assert.False(t, booking.StatusConfirmed.Terminal())
	assert.True(t, booking.StatusCancelled.Terminal())
	assert.True(t, booking.StatusCompensated.Terminal())
}

func TestExpiredAt(t *testing.T) {
	b := newPending(t)
	before := b.ExpiresAt.Add(-time.Second)
	after := b.ExpiresAt.Add(time.Second)

	assert.False(t, b.ExpiredAt(before))
	assert.True(t, b.ExpiredAt(after))

	// Only PENDING rows expire.
	b.Status = booking.StatusConfirmed
	b.ExpiresAt = nil
	assert.False(t, b.ExpiredAt(after))
}
