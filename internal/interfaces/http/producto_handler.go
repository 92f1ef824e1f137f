package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/pkg/codigo"
)

// ProductoHandler maneja las peticiones HTTP del catálogo de productos.
type ProductoHandler struct {
	uc       *usecase.ProductoUseCase
	importUC *usecase.ImportUseCase
}

// NewProductoHandler construye el handler.
func NewProductoHandler(uc *usecase.ProductoUseCase, importUC *usecase.ImportUseCase) *ProductoHandler {
	return &ProductoHandler{uc: uc, importUC: importUC}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearProductoRequest  true  "Datos del producto (codigo opcional, stock siempre inicia en 0)"
// @Success      201   {object}  dto.ProductoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *ProductoHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Crear(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Listar godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductoListResponse
// @Router       /api/productos [get]
func (h *ProductoHandler) Listar(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.Listar(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Buscar godoc
// @Summary      Buscar productos por nombre, código o descripción
// @Tags         productos
// @Produce      json
// @Param        q  query  string  true  "Término de búsqueda"
// @Success      200  {array}  dto.ProductoResponse
// @Router       /api/productos/buscar [get]
func (h *ProductoHandler) Buscar(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "q es requerido"})
	}
	out, err := h.uc.Buscar(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [get]
func (h *ProductoHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// GetByCodigo godoc
// @Summary      Obtener producto por código
// @Tags         productos
// @Produce      json
// @Param        codigo  path  string  true  "Código del producto"
// @Success      200  {object}  dto.ProductoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/codigo/{codigo} [get]
func (h *ProductoHandler) GetByCodigo(c *fiber.Ctx) error {
	out, err := h.uc.GetByCodigo(c.Params("codigo"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// Actualizar godoc
// @Summary      Actualizar atributos de un producto (nunca codigo ni stock)
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.ActualizarProductoRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.ProductoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [put]
func (h *ProductoHandler) Actualizar(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	var in dto.ActualizarProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Actualizar(id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// Eliminar godoc
// @Summary      Eliminar un producto y todo su historial de movimientos
// @Tags         productos
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [delete]
func (h *ProductoHandler) Eliminar(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	encontrado, err := h.uc.Eliminar(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !encontrado {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(fiber.Map{"message": "producto eliminado"})
}

// CodigoBarras godoc
// @Summary      Imagen Code128 del código del producto
// @Tags         productos
// @Produce      png
// @Param        id       path   int     true   "ID del producto"
// @Param        formato  query  string  false  "png (default) o data_url"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/codigo-barras [get]
func (h *ProductoHandler) CodigoBarras(c *fiber.Ctx) error {
	return h.imagenCodigo(c, codigo.CodigoBarrasPNG)
}

// QRCode godoc
// @Summary      Imagen QR del código del producto
// @Tags         productos
// @Produce      png
// @Param        id       path   int     true   "ID del producto"
// @Param        formato  query  string  false  "png (default) o data_url"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/qr-code [get]
func (h *ProductoHandler) QRCode(c *fiber.Ctx) error {
	return h.imagenCodigo(c, codigo.QRPNG)
}

func (h *ProductoHandler) imagenCodigo(c *fiber.Ctx, generar func(string) ([]byte, error)) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	producto, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if producto == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	img, err := generar(producto.Codigo)
	if err != nil {
		return respondError(c, err)
	}
	if c.Query("formato") == "data_url" {
		return c.JSON(fiber.Map{"codigo": producto.Codigo, "imagen": codigo.DataURL(img)})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(img)
}

// Importar godoc
// @Summary      Carga masiva de productos desde un archivo xlsx
// @Tags         productos
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "Hoja con columnas codigo, nombre, descripcion, categoria, stock_minimo, stock_inicial"
// @Success      200  {object}  dto.ResultadoImportacionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/productos/importar [post]
func (h *ProductoHandler) Importar(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo ilegible"})
	}
	defer f.Close()
	usuario := c.FormValue("usuario")
	out, err := h.importUC.Importar(c.Context(), f, usuario)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Escanear godoc
// @Summary      Resolver un código escaneado
// @Description  Clasifica el formato del código (interno, ean13, upc, código de barras) y lo busca en el catálogo.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EscanearRequest  true  "Código leído"
// @Success      200  {object}  dto.EscanearResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/escanear [post]
func (h *ProductoHandler) Escanear(c *fiber.Ctx) error {
	var req dto.EscanearRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req.Codigo = strings.TrimSpace(req.Codigo)
	if req.Codigo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "codigo es requerido"})
	}
	if req.TipoOperacion == "" {
		req.TipoOperacion = "consulta"
	}

	valido, tipo := codigo.ValidarFormatoCodigo(req.Codigo)
	out := dto.EscanearResponse{Codigo: req.Codigo, FormatoValido: valido, FormatoTipo: tipo}

	producto, err := h.uc.GetByCodigo(req.Codigo)
	if err != nil {
		return respondError(c, err)
	}
	if producto == nil {
		out.Mensaje = "Producto no encontrado."
		out.AccionSugerida = "crear_producto"
		return c.JSON(out)
	}
	out.Encontrado = true
	out.Producto = producto
	out.Mensaje = "Producto encontrado: " + producto.Nombre
	out.AccionSugerida = req.TipoOperacion
	return c.JSON(out)
}
