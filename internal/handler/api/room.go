package api

import (
	"errors"
	"net/http"

	reqdto "hotel-booking/internal/handler/dto/request"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomUseCase usecase.RoomUseCase
}

func NewRoomHandler(roomUseCase usecase.RoomUseCase) *RoomHandler {
	return &RoomHandler{
		roomUseCase: roomUseCase,
	}
}

// @Summary List rooms
// @Description List every room in the inventory
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.RoomResponse
// @Failure 401 {object} httperr.Response
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	views, err := h.roomUseCase.ListRooms(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list rooms", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRoomViews(views))
}

// @Summary Get available rooms
// @Description List rooms free for the whole date window
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "Check-in date (YYYY-MM-DD)"
// @Param endDate query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {array} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /rooms/available [get]
func (h *RoomHandler) GetAvailableRooms(c *gin.Context) {
	var q reqdto.StayQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "startDate and endDate are required", nil)
		return
	}

	s, err := q.ParseStay()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
		return
	}

	views, err := h.roomUseCase.GetAvailableRooms(c.Request.Context(), s)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load rooms", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRoomViews(views))
}

// @Summary Recommend rooms
// @Description Rank available rooms for auto-select; roomType wins over hotelId when both are set
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "Check-in date (YYYY-MM-DD)"
// @Param endDate query string true "Check-out date (YYYY-MM-DD)"
// @Param hotelId query int false "Hotel filter"
// @Param roomType query string false "Room type filter"
// @Success 200 {array} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /rooms/recommend [get]
func (h *RoomHandler) GetRecommendedRooms(c *gin.Context) {
	var q reqdto.RecommendQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "startDate and endDate are required", nil)
		return
	}

	s, err := q.ParseStay()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
		return
	}

	views, err := h.roomUseCase.GetRecommendedRooms(c.Request.Context(), q.HotelID, q.RoomType, s)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRoomType) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room type", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load rooms", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRoomViews(views))
}

// @Summary Confirm availability
// @Description Reserve a room for a booking; replays with the same requestId return the original outcome
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param request body reqdto.ConfirmAvailabilityRequest true "Reservation request"
// @Success 200 {object} usecase.AvailabilityResult
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /rooms/{id}/confirm-availability [post]
func (h *RoomHandler) ConfirmAvailability(c *gin.Context) {
	roomID, err := parseID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}

	var req reqdto.ConfirmAvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	s, err := req.ParseStay()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
		return
	}

	result, err := h.roomUseCase.ConfirmAvailability(c.Request.Context(), roomID, usecase.ConfirmAvailabilityParams{
		RequestID: req.RequestID,
		BookingID: req.BookingID,
		Stay:      s,
	})
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to confirm availability", nil)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Release reservation
// @Description Release a room hold; unknown or already released holds are no-ops
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param requestId query string true "Reservation request ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /rooms/{id}/release [post]
func (h *RoomHandler) ReleaseReservation(c *gin.Context) {
	roomID, err := parseID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}

	requestID := c.Query("requestId")
	if requestID == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("missing requestId"), "requestId is required", nil)
		return
	}

	if err := h.roomUseCase.ReleaseReservation(c.Request.Context(), roomID, requestID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to release reservation", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
