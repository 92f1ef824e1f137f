package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductoUC   *usecase.ProductoUseCase
	ReporteUC    *usecase.ReporteUseCase
	ImportUC     *usecase.ImportUseCase
	DocumentosUC *usecase.DocumentosUseCase
	StockUC      *stock.UseCase
	UploadsDir   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Productos (catálogo)
	productos := api.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC, deps.ImportUC)
	productos.Post("/", productoHandler.Crear)
	productos.Get("/", productoHandler.Listar)
	productos.Get("/buscar", productoHandler.Buscar)
	productos.Post("/importar", productoHandler.Importar)
	productos.Get("/codigo/:codigo", productoHandler.GetByCodigo)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Put("/:id", productoHandler.Actualizar)
	productos.Delete("/:id", productoHandler.Eliminar)
	productos.Get("/:id/codigo-barras", productoHandler.CodigoBarras)
	productos.Get("/:id/qr-code", productoHandler.QRCode)

	// Escaneo de códigos (lector de barras o entrada manual)
	api.Post("/escanear", productoHandler.Escanear)

	// Movimientos (ledger)
	movimientos := api.Group("/movimientos")
	movimientoHandler := NewMovimientoHandler(deps.StockUC, deps.ReporteUC, deps.DocumentosUC, deps.UploadsDir)
	movimientos.Post("/", movimientoHandler.Crear)
	movimientos.Get("/", movimientoHandler.Listar)
	movimientos.Post("/salida-multiple", movimientoHandler.SalidaMultiple)
	movimientos.Post("/entrada-multiple", movimientoHandler.EntradaMultiple)
	movimientos.Post("/comprobante-firmado", movimientoHandler.SubirComprobanteFirmado)
	movimientos.Get("/producto/:id", movimientoHandler.PorProducto)
	movimientos.Get("/grupo/:grupoId/comprobante", movimientoHandler.Comprobante)

	// Inventario (reportes y verificación)
	inventario := api.Group("/inventario")
	inventarioHandler := NewInventarioHandler(deps.ReporteUC, deps.ProductoUC, deps.StockUC)
	inventario.Get("/reporte", inventarioHandler.Reporte)
	inventario.Get("/bajo-stock", inventarioHandler.BajoStock)
	inventario.Get("/producto/:id/historial", movimientoHandler.PorProducto)
	inventario.Get("/producto/:id/conciliar", inventarioHandler.Conciliar)
}
