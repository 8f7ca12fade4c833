package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lanave/agencias-api/internal/application/banqueo"
	"github.com/lanave/agencias-api/internal/application/configuracion"
	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/reports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reconciler *appcuadre.Reconciler
	Guardar    *appcuadre.GuardarCuadreUseCase
	Drafts     appcuadre.DraftStore
	Semana     *reports.SemanaUseCase
	Vigilante  *appcuadre.Vigilante
	Banqueo    *banqueo.SettlementUseCase
	Config     *configuracion.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Cuadre diario y reporte semanal
	cuadreHandler := NewCuadreHandler(deps.Reconciler, deps.Guardar, deps.Drafts, deps.Semana, deps.Vigilante)
	cuadreGroup := api.Group("/cuadre")
	cuadreGroup.Get("/:agenciaID", cuadreHandler.EstadoTrabajo)
	cuadreGroup.Post("/:agenciaID", cuadreHandler.Guardar)
	cuadreGroup.Get("/:agenciaID/cambios", cuadreHandler.Cambios)
	cuadreGroup.Post("/:agenciaID/pagos", RequireRole(RolEncargada, RolAdmin), cuadreHandler.MarcarPago)
	cuadreGroup.Get("/:agenciaID/semana", cuadreHandler.Semana)

	// Borradores locales (por actor)
	borradores := api.Group("/borradores")
	borradores.Get("/:agenciaID", cuadreHandler.Borrador)
	borradores.Put("/:agenciaID", cuadreHandler.GuardarBorrador)
	borradores.Delete("/:agenciaID", cuadreHandler.DescartarBorrador)

	// Liquidación banqueo (encargada o admin)
	banqueoHandler := NewBanqueoHandler(deps.Banqueo)
	banqueoGroup := api.Group("/banqueo", RequireRole(RolEncargada, RolAdmin))
	banqueoGroup.Get("/:clienteID/semana", banqueoHandler.Previsualizar)
	banqueoGroup.Post("/:clienteID/semana", banqueoHandler.Guardar)
	banqueoGroup.Post("/:clienteID/pagos", banqueoHandler.MarcarPago)

	// Configuración de comisiones (solo admin)
	configHandler := NewConfigHandler(deps.Config)
	configGroup := api.Group("/config", RequireRole(RolAdmin))
	configGroup.Get("/sistemas/:sistemaID/comision", configHandler.TasasEfectivas)
	configGroup.Put("/sistemas/:sistemaID/comision", configHandler.GuardarTasaSistema)
	configGroup.Get("/clientes/:clienteID/participacion", configHandler.ListarParticipaciones)
	configGroup.Put("/clientes/:clienteID/participacion", configHandler.GuardarParticipacion)
	configGroup.Put("/clientes/:clienteID/banqueo", configHandler.GuardarComisionBanqueo)
}
