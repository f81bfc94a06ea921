package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/handler/api"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// NewBookingRouter wires the booking service surface.
func NewBookingRouter(engine *gin.Engine, cfg config.Config, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)

	engine.GET("/health", healthCheck)

	bookings := engine.Group("/api/bookings")
	bookings.Use(authMiddleware.RequireAuth())
	{
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
			{Method: http.MethodGet, Path: "", Handler: bookingHandler.GetUserBookings},
			{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
			{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.CancelBooking},
		})
	}
}

// NewInventoryRouter wires the inventory service surface.
func NewInventoryRouter(engine *gin.Engine, cfg config.Config, roomHandler *api.RoomHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)

	engine.GET("/health", healthCheck)

	rooms := engine.Group("/api/rooms")
	rooms.Use(authMiddleware.RequireAuth())
	{
		addRoutes(rooms, []route{
			{Method: http.MethodGet, Path: "", Handler: roomHandler.ListRooms},
			{Method: http.MethodGet, Path: "/available", Handler: roomHandler.GetAvailableRooms},
			{Method: http.MethodGet, Path: "/recommend", Handler: roomHandler.GetRecommendedRooms},
			{Method: http.MethodPost, Path: "/:id/confirm-availability", Handler: roomHandler.ConfirmAvailability},
			{Method: http.MethodPost, Path: "/:id/release", Handler: roomHandler.ReleaseReservation},
		})
	}
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
