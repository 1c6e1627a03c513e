package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"thalassist/config"
	"thalassist/internal/delivery"
	"thalassist/internal/delivery/http"
	"thalassist/internal/delivery/http/middleware"
	"thalassist/internal/delivery/http/router/handler"
	"thalassist/internal/domain/repository"
	"thalassist/internal/infra/auth"
	"thalassist/internal/infra/export"
	logs "thalassist/internal/infra/log"
	"thalassist/internal/infra/metrics"
	"thalassist/internal/infra/notification"
	"thalassist/internal/infra/persistence"
	"thalassist/internal/infra/persistence/memory"
	"thalassist/internal/infra/pubsub"
	"thalassist/internal/infra/qrcode"
	"thalassist/internal/infra/revocation"
	"thalassist/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type seedDonorsParams struct {
	fx.In

	Config    *config.Config
	DonorRepo repository.DonorRepository
	Logger    *slog.Logger
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedDonors,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			memory.NewDonorRepository,
			memory.NewRequestRepository,
			persistence.NewAccountRepository,
			revocation.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewPasswordHasher,
			auth.NewJWTService,
			qrcode.New,
			export.NewExcelExporter,
			pubsub.NewEventPublisher,
			notification.New,
		),
		fx.Decorate(metrics.InstrumentNotifier),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewDonorService,
			impl.NewMatchService,
			impl.NewRequestService,
			impl.NewStatisticsService,
			impl.NewAccountService,
		),
		fx.Decorate(metrics.InstrumentDonors),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewDonorHandler,
			handler.NewMatchHandler,
			handler.NewRequestHandler,
			handler.NewAccountHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedDonors loads the demo registry when enabled.
func seedDonors(ctx context.Context, params seedDonorsParams) error {
	if !params.Config.Donors.SeedSampleData {
		return nil
	}

	count, err := memory.SeedSampleDonors(ctx, params.DonorRepo, time.Now())
	if err != nil {
		return err
	}
	params.Logger.Info("Seeded sample donors", slog.Int("count", count))

	return nil
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
