package bootstrap

import (
	"context"

	"hotel-booking/internal/handler"
	"hotel-booking/internal/handler/api"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/infra/inventoryclient"
	"hotel-booking/internal/infra/repository"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/sweeper"
	"hotel-booking/internal/usecase"
	"hotel-booking/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// BookingModule assembles the orchestrator service: saga use case, inventory
// client, HTTP surface and the expiry sweeper.
var BookingModule = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			newInventoryClient,
			fx.As(new(usecase.InventoryClient)),
		),
		newBookingUseCase,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(
		migrateBooking,
		handler.NewBookingRouter,
		runBookingSweeper,
	),
)

func newInventoryClient(cfg config.Config) *inventoryclient.Client {
	return inventoryclient.New(cfg.Hotel)
}

func newBookingUseCase(
	cfg config.Config,
	repo usecase.BookingRepository,
	client usecase.InventoryClient,
	clk clock.Clock,
) usecase.BookingUseCase {
	return usecase.NewBookingUseCase(repo, client, clk, cfg.Booking.PendingTimeout, cfg.Booking.SweepBatchSize)
}

func migrateBooking(pool *pgxpool.Pool) error {
	return migrations.Apply(context.Background(), pool, "booking")
}

func runBookingSweeper(lc fx.Lifecycle, cfg config.Config, uc usecase.BookingUseCase) {
	s := sweeper.New("booking-expiry", cfg.Booking.SweepInterval, uc.SweepExpired)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
