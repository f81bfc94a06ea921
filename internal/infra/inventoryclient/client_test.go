//go:build unit

package inventoryclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra/inventoryclient"
	"hotel-booking/internal/pkg/authtoken"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *inventoryclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.NewTestConfig().Hotel
	cfg.BaseURL = srv.URL
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return inventoryclient.New(cfg)
}

func testStay(t *testing.T) stay.Stay {
	t.Helper()
	s, err := stay.Parse("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	return s
}

func TestGetRecommendedRooms_SendsFilters(t *testing.T) {
	var gotQuery string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/api/rooms/recommend", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 7, "hotelId": 1, "roomNumber": "101", "type": "SINGLE", "timesBooked": 0},
		})
	}))

	hotelID := int64(1)
	roomType := "SINGLE"
	rooms, err := client.GetRecommendedRooms(context.Background(), &hotelID, &roomType, testStay(t))
	require.NoError(t, err)
	want := []usecase.RoomCandidate{
		{ID: 7, HotelID: 1, RoomNumber: "101", Type: "SINGLE", TimesBooked: 0},
	}
	if diff := cmp.Diff(want, rooms); diff != "" {
		t.Errorf("unexpected candidates (-want +got):\n%s", diff)
	}
	assert.Contains(t, gotQuery, "startDate=2025-06-01")
	assert.Contains(t, gotQuery, "endDate=2025-06-05")
	assert.Contains(t, gotQuery, "hotelId=1")
	assert.Contains(t, gotQuery, "roomType=SINGLE")
}

func TestCall_RetriesOn5xxThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"available": true, "roomId": 7})
	}))

	result := client.ConfirmAvailability(context.Background(), 7, "req-1", 42, testStay(t))
	assert.True(t, result.Available)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCall_DoesNotRetry4xx(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))

	result := client.ConfirmAvailability(context.Background(), 7, "req-1", 42, testStay(t))
	assert.False(t, result.Available)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConfirmAvailability_ExhaustionFoldsToNotAvailable(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	result := client.ConfirmAvailability(context.Background(), 7, "req-1", 42, testStay(t))
	assert.False(t, result.Available)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetRecommendedRooms_ExhaustionReturnsError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rooms, err := client.GetRecommendedRooms(context.Background(), nil, nil, testStay(t))
	require.Error(t, err)
	assert.Nil(t, rooms)
}

func TestConfirmAvailability_SendsBodyAndBearerToken(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"available": true, "roomId": 7})
	}))

	ctx := authtoken.WithToken(context.Background(), "user-token")
	result := client.ConfirmAvailability(ctx, 7, "req-1", 42, testStay(t))
	require.True(t, result.Available)
	assert.Equal(t, "Bearer user-token", gotAuth)
	assert.Equal(t, "req-1", gotBody["requestId"])
	assert.Equal(t, float64(42), gotBody["bookingId"])
	assert.Equal(t, "2025-06-01", gotBody["startDate"])
	assert.Equal(t, "2025-06-05", gotBody["endDate"])
}

func TestReleaseReservation_SendsRequestID(t *testing.T) {
	var gotPath, gotQuery string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))

	err := client.ReleaseReservation(context.Background(), 7, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "/api/rooms/7/release", gotPath)
	assert.Contains(t, gotQuery, "requestId=req-1")
}
