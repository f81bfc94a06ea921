// Package inventoryclient is the booking service's HTTP bridge to the
// inventory service. Every call carries a per-attempt timeout and a bounded,
// jittered exponential retry; transport failures are folded into business
// outcomes so the saga never has to special-case them.
package inventoryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/pkg/authtoken"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase"

	"github.com/cenkalti/backoff/v4"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.HotelClientConfig
}

func New(cfg config.HotelClientConfig) *Client {
	// No client-level timeout: each attempt gets its own context deadline.
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		cfg:        cfg,
	}
}

var _ usecase.InventoryClient = (*Client)(nil)

func (c *Client) GetRecommendedRooms(ctx context.Context, hotelID *int64, roomType *string, s stay.Stay) ([]usecase.RoomCandidate, error) {
	query := url.Values{}
	query.Set("startDate", s.Start().Format(stay.DateLayout))
	query.Set("endDate", s.End().Format(stay.DateLayout))
	if hotelID != nil {
		query.Set("hotelId", strconv.FormatInt(*hotelID, 10))
	}
	if roomType != nil && *roomType != "" {
		query.Set("roomType", *roomType)
	}

	var candidates []usecase.RoomCandidate
	if err := c.call(ctx, http.MethodGet, "/api/rooms/recommend", query, nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

type confirmRequest struct {
	RequestID string `json:"requestId"`
	BookingID int64  `json:"bookingId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ConfirmAvailability never returns an error: on retry exhaustion the result
// is an ordinary "not available" outcome, which drives compensation.
func (c *Client) ConfirmAvailability(ctx context.Context, roomID int64, requestID string, bookingID int64, s stay.Stay) usecase.AvailabilityResult {
	body := confirmRequest{
		RequestID: requestID,
		BookingID: bookingID,
		StartDate: s.Start().Format(stay.DateLayout),
		EndDate:   s.End().Format(stay.DateLayout),
	}

	var result usecase.AvailabilityResult
	path := fmt.Sprintf("/api/rooms/%d/confirm-availability", roomID)
	if err := c.call(ctx, http.MethodPost, path, nil, body, &result); err != nil {
		slog.Error("confirm availability call failed", "room_id", roomID, "request_id", requestID, "error", err)
		return usecase.AvailabilityResult{Available: false, Message: err.Error()}
	}
	return result
}

func (c *Client) ReleaseReservation(ctx context.Context, roomID int64, requestID string) error {
	query := url.Values{}
	query.Set("requestId", requestID)

	path := fmt.Sprintf("/api/rooms/%d/release", roomID)
	return c.call(ctx, http.MethodPost, path, query, nil, nil)
}

// call runs one logical request under the retry policy: exponential backoff
// with jitter, capped interval, bounded attempts. 4xx responses are
// definitive business answers and are never retried.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	operation := func() error {
		return c.attempt(ctx, method, path, query, body, out)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.InitialBackoff
	policy.MaxInterval = c.cfg.MaxBackoff
	policy.Multiplier = 2

	retries := c.cfg.MaxAttempts
	if retries > 0 {
		retries--
	}
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
}

func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, body, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, reqURL, reqBody)
	if err != nil {
		return backoff.Permanent(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Forward the caller's credential unchanged; this service mints nothing.
	if token, ok := authtoken.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err // network failure: retryable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("inventory service returned %s", resp.Status)
	}
	if resp.StatusCode >= 400 {
		// Definitive business decision, not a transient condition.
		return backoff.Permanent(fmt.Errorf("inventory service returned %s", resp.Status))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode inventory response: %w", err)
		}
	}
	return nil
}
