package bootstrap

import (
	"context"

	"hotel-booking/internal/handler"
	"hotel-booking/internal/handler/api"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/infra/repository"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/sweeper"
	"hotel-booking/internal/usecase"
	"hotel-booking/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// InventoryModule assembles the inventory service: room and hold stores, the
// availability use case, HTTP surface and the hold-expiry sweeper.
var InventoryModule = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			repository.NewRoomRepository,
			fx.As(new(usecase.RoomRepository)),
		),
		fx.Annotate(
			repository.NewHoldRepository,
			fx.As(new(usecase.HoldRepository)),
		),
		newRoomUseCase,
		api.NewRoomHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(
		migrateInventory,
		handler.NewInventoryRouter,
		runInventorySweeper,
	),
)

func newRoomUseCase(
	cfg config.Config,
	rooms usecase.RoomRepository,
	holds usecase.HoldRepository,
	clk clock.Clock,
) usecase.RoomUseCase {
	return usecase.NewRoomUseCase(rooms, holds, clk, cfg.Inventory.HoldTimeout, cfg.Inventory.SweepBatchSize)
}

func migrateInventory(pool *pgxpool.Pool) error {
	return migrations.Apply(context.Background(), pool, "inventory")
}

func runInventorySweeper(lc fx.Lifecycle, cfg config.Config, uc usecase.RoomUseCase) {
	s := sweeper.New("hold-expiry", cfg.Inventory.SweepInterval, uc.SweepExpired)
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
