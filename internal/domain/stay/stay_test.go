//go:build unit

package stay_test

import (
	"testing"
	"time"

	"hotel-booking/internal/domain/stay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, startDay, endDay int) stay.Stay {
	t.Helper()
	s, err := stay.New(day(startDay), day(endDay))
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		s, err := stay.New(day(1), day(5))
		require.NoError(t, err)
		assert.Equal(t, 4, s.Nights())
	})

	t.Run("start equal to end", func(t *testing.T) {
		_, err := stay.New(day(1), day(1))
		assert.ErrorIs(t, err, stay.ErrInvalidRange)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := stay.New(day(5), day(1))
		assert.ErrorIs(t, err, stay.ErrInvalidRange)
	})
}

func TestParse(t *testing.T) {
	s, err := stay.Parse("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, day(1), s.Start())
	assert.Equal(t, day(5), s.End())

	_, err = stay.Parse("2025/06/01", "2025-06-05")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		a, b     stay.Stay
		overlaps bool
	}{
		{"adjacent intervals do not overlap", mustStay(t, 1, 5), mustStay(t, 5, 9), false},
		{"one day shared", mustStay(t, 1, 5), mustStay(t, 4, 9), true},
		{"contained", mustStay(t, 1, 9), mustStay(t, 3, 4), true},
		{"identical", mustStay(t, 1, 5), mustStay(t, 1, 5), true},
		{"disjoint", mustStay(t, 1, 3), mustStay(t, 7, 9), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a))
		})
	}
}
