package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/erp-conciliacion/internal/application/inventory"
	"github.com/jhoicas/erp-conciliacion/internal/application/order"
	"github.com/jhoicas/erp-conciliacion/internal/application/payment"
	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/application/usecase"
	"github.com/jhoicas/erp-conciliacion/internal/infrastructure/kafka"
	"github.com/jhoicas/erp-conciliacion/internal/infrastructure/memory"
	"github.com/jhoicas/erp-conciliacion/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/erp-conciliacion/internal/interfaces/http"
	"github.com/jhoicas/erp-conciliacion/pkg/config"
	"github.com/jhoicas/erp-conciliacion/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner ports.TxRunner
		repos    ports.Repositories
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		repos = ports.Repositories{
			Materials: postgres.NewMaterialRepository(pool),
			Accounts:  postgres.NewAccountRepository(pool),
			BOMs:      postgres.NewBillOfMaterialRepository(pool),
			Orders:    postgres.NewOrderRepository(pool),
		}
	} else {
		log.Warn().Msg("sin base de datos configurada: se usa el almacén en memoria")
		store := memory.NewStore()
		txRunner = store
		repos = store.Repositories()
	}

	var publisher ports.PostingPublisher = ports.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp := kafka.NewPostingPublisher(cfg.Kafka.Brokers, cfg.Kafka.PostingsTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador Kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.PostingsTopic).
			Msg("publicación de asientos habilitada")
	}

	inventoryRec := inventory.NewReconciler(txRunner, inventory.Options{StrictBOM: cfg.Reconcile.StrictBOM}, log)
	paymentRec := payment.NewReconciler(txRunner, publisher, log)
	orderUC := order.NewUseCase(txRunner, inventoryRec, paymentRec, log)
	materialUC := usecase.NewMaterialUseCase(repos.Materials)
	accountUC := usecase.NewAccountUseCase(repos.Accounts)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: API sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:    orderUC,
		MaterialUC: materialUC,
		AccountUC:  accountUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
