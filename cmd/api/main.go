package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appbanqueo "github.com/lanave/agencias-api/internal/application/banqueo"
	"github.com/lanave/agencias-api/internal/application/configuracion"
	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/reports"
	domaincuadre "github.com/lanave/agencias-api/internal/domain/cuadre"
	"github.com/lanave/agencias-api/internal/infrastructure/postgres"
	"github.com/lanave/agencias-api/internal/infrastructure/redisstore"
	httpRouter "github.com/lanave/agencias-api/internal/interfaces/http"
	"github.com/lanave/agencias-api/pkg/config"
	"github.com/lanave/agencias-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redisstore.NewClient(cfg.Redis)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}

	// Parámetros del motor de cuadre desde configuración.
	tol := tolerancias(cfg.Cuadre, log)
	if tasa, err := decimal.NewFromString(cfg.Cuadre.TasaPorDefecto); err == nil && tasa.IsPositive() {
		domaincuadre.TasaPlaceholder = tasa
	}

	transRepo := postgres.NewTransaccionRepository(pool)
	cierreRepo := postgres.NewCierreRepository(pool)
	cuadreRepo := postgres.NewCuadreRepository(pool)
	sistemaRepo := postgres.NewSistemaRepository(pool)
	comisionRepo := postgres.NewComisionRepository(pool)
	banqueoRepo := postgres.NewBanqueoRepository(pool)
	agenciaRepo := postgres.NewAgenciaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	drafts := redisstore.NewDraftStore(redisClient)
	notifier := redisstore.NewNotifier(redisClient, log)

	agg := appcuadre.NewAggregator(transRepo, cierreRepo, sistemaRepo)
	reconciler := appcuadre.NewReconciler(agg, cuadreRepo, transRepo, drafts, tol)
	guardarUC := appcuadre.NewGuardarCuadreUseCase(txRunner, drafts, notifier, log)
	vigilante := appcuadre.NewVigilante(notifier, reconciler, log)
	semanaUC := reports.NewSemanaUseCase(reconciler)
	banqueoUC := appbanqueo.NewSettlementUseCase(agg, comisionRepo, sistemaRepo, banqueoRepo, agenciaRepo)
	configUC := configuracion.NewUseCase(comisionRepo, sistemaRepo, agenciaRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reconciler: reconciler,
		Guardar:    guardarUC,
		Drafts:     drafts,
		Semana:     semanaUC,
		Vigilante:  vigilante,
		Banqueo:    banqueoUC,
		Config:     configUC,
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

// tolerancias lee las bandas configuradas; valores ilegibles caen al defecto con un warn.
func tolerancias(cfg config.CuadreConfig, log *logger.Logger) domaincuadre.Tolerancias {
	tol := domaincuadre.ToleranciasDefecto()
	if v, err := decimal.NewFromString(cfg.ToleranciaBs); err == nil {
		tol.Bs = v
	} else {
		log.Warn().Str("valor", cfg.ToleranciaBs).Msg("CUADRE_TOLERANCIA_BS ilegible, usando defecto")
	}
	if v, err := decimal.NewFromString(cfg.ToleranciaUSD); err == nil {
		tol.USD = v
	} else {
		log.Warn().Str("valor", cfg.ToleranciaUSD).Msg("CUADRE_TOLERANCIA_USD ilegible, usando defecto")
	}
	return tol
}
