package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
)

// InventarioHandler endpoints de reportes y verificación del inventario.
type InventarioHandler struct {
	reporteUC  *usecase.ReporteUseCase
	productoUC *usecase.ProductoUseCase
	stockUC    *stock.UseCase
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(reporteUC *usecase.ReporteUseCase, productoUC *usecase.ProductoUseCase, stockUC *stock.UseCase) *InventarioHandler {
	return &InventarioHandler{reporteUC: reporteUC, productoUC: productoUC, stockUC: stockUC}
}

// Reporte godoc
// @Summary      Reporte general del inventario
// @Description  Total de productos, productos con stock bajo el mínimo y los
//               últimos movimientos del ledger.
// @Tags         inventario
// @Produce      json
// @Param        ultimos  query  int  false  "Cantidad de movimientos recientes"  default(10)
// @Success      200  {object}  dto.ReporteInventarioResponse
// @Router       /api/inventario/reporte [get]
func (h *InventarioHandler) Reporte(c *fiber.Ctx) error {
	out, err := h.reporteUC.ReporteInventario(c.QueryInt("ultimos", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BajoStock godoc
// @Summary      Productos con stock bajo el mínimo
// @Tags         inventario
// @Produce      json
// @Success      200  {array}  dto.ProductoResponse
// @Router       /api/inventario/bajo-stock [get]
func (h *InventarioHandler) BajoStock(c *fiber.Ctx) error {
	out, err := h.productoUC.BajoStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Conciliar godoc
// @Summary      Conciliar el stock de un producto contra su ledger
// @Description  Recalcula el stock sumando entradas y restando salidas, y lo
//               contrasta con el contador cacheado del producto.
// @Tags         inventario
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ConciliacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/producto/{id}/conciliar [get]
func (h *InventarioHandler) Conciliar(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	res, err := h.stockUC.Conciliar(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ConciliacionResponse{
		ProductoID:     res.ProductoID,
		StockActual:    res.StockActual,
		Entradas:       res.Entradas,
		Salidas:        res.Salidas,
		StockCalculado: res.StockCalculado,
		Consistente:    res.Consistente,
		Diferencia:     res.StockActual - res.StockCalculado,
	})
}
