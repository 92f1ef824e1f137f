package http

import (
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

// MovimientoHandler maneja las peticiones HTTP del ledger de movimientos.
type MovimientoHandler struct {
	stockUC      *stock.UseCase
	reporteUC    *usecase.ReporteUseCase
	documentosUC *usecase.DocumentosUseCase
	uploadsDir   string
}

// NewMovimientoHandler construye el handler.
func NewMovimientoHandler(
	stockUC *stock.UseCase,
	reporteUC *usecase.ReporteUseCase,
	documentosUC *usecase.DocumentosUseCase,
	uploadsDir string,
) *MovimientoHandler {
	return &MovimientoHandler{
		stockUC:      stockUC,
		reporteUC:    reporteUC,
		documentosUC: documentosUC,
		uploadsDir:   uploadsDir,
	}
}

// Crear godoc
// @Summary      Registrar un movimiento de entrada o salida
// @Description  Actualiza el stock del producto y crea el registro del ledger
//               en una sola transacción. Las salidas fallan con 409 si el
//               stock disponible no alcanza.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearMovimientoRequest  true  "producto_id, tipo (entrada|salida), cantidad y metadatos"
// @Success      201  {object}  dto.MovimientoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovimientoHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.stockUC.RegistrarMovimiento(c.Context(), stock.MovimientoInput{
		ProductoID:     in.ProductoID,
		Tipo:           in.Tipo,
		Cantidad:       in.Cantidad,
		Motivo:         in.Motivo,
		TipoOrigen:     in.TipoOrigen,
		OrigenNombre:   in.OrigenNombre,
		Ubicacion:      in.Ubicacion,
		Notas:          in.Notas,
		ClienteDestino: in.ClienteDestino,
		Usuario:        in.Usuario,
		PDFFirmado:     in.PDFFirmado,
		PDFNombre:      in.PDFNombre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovimientoResponse(mov))
}

// Listar godoc
// @Summary      Listar movimientos del ledger
// @Description  Más recientes primero. Con exportar=xlsx descarga el
//               historial filtrado como hoja de cálculo.
// @Tags         movimientos
// @Produce      json
// @Param        producto_id  query  int     false  "Filtrar por producto"
// @Param        tipo         query  string  false  "entrada | salida"
// @Param        desde        query  string  false  "Fecha inicial (RFC 3339)"
// @Param        hasta        query  string  false  "Fecha final (RFC 3339)"
// @Param        limit        query  int     false  "Límite"  default(100)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Param        exportar     query  string  false  "xlsx para descargar"
// @Success      200  {object}  dto.MovimientoListResponse
// @Router       /api/movimientos [get]
func (h *MovimientoHandler) Listar(c *fiber.Ctx) error {
	f, err := filtroDesdeQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if c.Query("exportar") == "xlsx" {
		// Sin límite explícito la exportación usa su propio tope, no el
		// default de paginación.
		f.Limit = c.QueryInt("limit", 0)
		data, nombre, err := h.documentosUC.ExportarMovimientos(f)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nombre+`"`)
		return c.Send(data)
	}
	out, err := h.reporteUC.ListarMovimientos(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PorProducto godoc
// @Summary      Historial de movimientos de un producto
// @Tags         movimientos
// @Produce      json
// @Param        id      path   int  true   "ID del producto"
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.HistorialProductoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/producto/{id} [get]
func (h *MovimientoHandler) PorProducto(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	out, err := h.reporteUC.HistorialProducto(id, page)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// SalidaMultiple godoc
// @Summary      Salida atómica de varios productos
// @Description  Todo-o-nada: si algún renglón no existe o no tiene stock
//               suficiente, ningún renglón se aplica y el error identifica
//               el producto fallido.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalidaMultipleRequest  true  "Renglones, destino y razón"
// @Success      201  {object}  dto.MovimientoListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos/salida-multiple [post]
func (h *MovimientoHandler) SalidaMultiple(c *fiber.Ctx) error {
	var in dto.SalidaMultipleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movs, err := h.stockUC.RegistrarSalidaMultiple(c.Context(), stock.SalidaMultipleInput{
		Items:         itemsLote(in.Productos),
		Destino:       in.Destino,
		Razon:         in.Razon,
		Observaciones: in.Observaciones,
		Usuario:       in.Usuario,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovimientoListResponse{Items: dto.ToMovimientoResponses(movs)})
}

// EntradaMultiple godoc
// @Summary      Entrada atómica de varios productos
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntradaMultipleRequest  true  "Renglones, tipo de origen y origen"
// @Success      201  {object}  dto.MovimientoListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/entrada-multiple [post]
func (h *MovimientoHandler) EntradaMultiple(c *fiber.Ctx) error {
	var in dto.EntradaMultipleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movs, err := h.stockUC.RegistrarEntradaMultiple(c.Context(), stock.EntradaMultipleInput{
		Items:         itemsLote(in.Productos),
		TipoOrigen:    in.TipoOrigen,
		OrigenNombre:  in.OrigenNombre,
		Ubicacion:     in.Ubicacion,
		Observaciones: in.Observaciones,
		Usuario:       in.Usuario,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovimientoListResponse{Items: dto.ToMovimientoResponses(movs)})
}

// Comprobante godoc
// @Summary      Comprobante PDF de una operación múltiple
// @Tags         movimientos
// @Produce      application/pdf
// @Param        grupoId  path  string  true  "Grupo (uuid) devuelto por salida-multiple"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/grupo/{grupoId}/comprobante [get]
func (h *MovimientoHandler) Comprobante(c *fiber.Ctx) error {
	grupoID := c.Params("grupoId")
	if _, err := uuid.Parse(grupoID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "grupoId inválido"})
	}
	data, err := h.documentosUC.ComprobantePorGrupo(grupoID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="comprobante_`+grupoID[:8]+`.pdf"`)
	return c.Send(data)
}

// SubirComprobanteFirmado godoc
// @Summary      Subir un comprobante firmado escaneado
// @Description  Guarda el archivo y devuelve pdf_firmado/pdf_nombre para
//               adjuntarlos al crear el movimiento. Los movimientos son
//               inmutables: el adjunto solo puede fijarse en la creación.
// @Tags         movimientos
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "PDF firmado"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos/comprobante-firmado [post]
func (h *MovimientoHandler) SubirComprobanteFirmado(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo es requerido"})
	}
	nombre := uuid.New().String() + filepath.Ext(fh.Filename)
	destino := filepath.Join(h.uploadsDir, nombre)
	if err := c.SaveFile(fh, destino); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"pdf_firmado": destino,
		"pdf_nombre":  fh.Filename,
	})
}

func itemsLote(items []dto.ItemLote) []stock.ItemLote {
	out := make([]stock.ItemLote, 0, len(items))
	for _, it := range items {
		out = append(out, stock.ItemLote{ProductoID: it.ProductoID, Cantidad: it.Cantidad})
	}
	return out
}

func filtroDesdeQuery(c *fiber.Ctx) (repository.MovimientoFilter, error) {
	f := repository.MovimientoFilter{
		Tipo:   c.Query("tipo"),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.QueryInt("producto_id", 0); v > 0 {
		id := int64(v)
		f.ProductoID = &id
	}
	if v := c.Query("desde"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.Desde = &t
	}
	if v := c.Query("hasta"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.Hasta = &t
	}
	return f, nil
}
