package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/internal/infrastructure/excel"
	infrapdf "github.com/kardex-io/kardex-api/internal/infrastructure/pdf"
	apphttp "github.com/kardex-io/kardex-api/internal/interfaces/http"
	"github.com/kardex-io/kardex-api/internal/testutil"
)

// buildTestApp arma la aplicación completa sobre repos en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	productoRepo, movRepo, runner := testutil.Repos()

	stockUC := stock.NewUseCase(runner, productoRepo, movRepo)
	productoUC := usecase.NewProductoUseCase(productoRepo, runner)
	reporteUC := usecase.NewReporteUseCase(productoRepo, movRepo)
	importUC := usecase.NewImportUseCase(productoUC, stockUC)
	documentosUC := usecase.NewDocumentosUseCase(
		movRepo, productoRepo,
		infrapdf.NewMarotoComprobanteGenerator(),
		excel.NewExporter(),
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductoUC:   productoUC,
		ReporteUC:    reporteUC,
		ImportUC:     importUC,
		DocumentosUC: documentosUC,
		StockUC:      stockUC,
		UploadsDir:   t.TempDir(),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func crearProducto(t *testing.T, app *fiber.App, codigo, nombre string) dto.ProductoResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/productos", dto.CrearProductoRequest{
		Codigo: codigo,
		Nombre: nombre,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductoResponse](t, resp)
}

func entrada(t *testing.T, app *fiber.App, productoID int64, cantidad int) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/movimientos", dto.CrearMovimientoRequest{
		ProductoID: productoID,
		Tipo:       "entrada",
		Cantidad:   cantidad,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestProductos_CrearYObtener(t *testing.T) {
	app := buildTestApp(t)

	creado := crearProducto(t, app, "MAR-001", "Martillo")
	assert.Equal(t, 0, creado.StockActual)

	resp := doJSON(t, app, http.MethodGet, "/api/productos/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	porID := decode[dto.ProductoResponse](t, resp)
	assert.Equal(t, "Martillo", porID.Nombre)

	resp = doJSON(t, app, http.MethodGet, "/api/productos/codigo/MAR-001", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/productos/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductos_CodigoDuplicadoDevuelve409(t *testing.T) {
	app := buildTestApp(t)
	crearProducto(t, app, "MAR-001", "Martillo")

	resp := doJSON(t, app, http.MethodPost, "/api/productos", dto.CrearProductoRequest{
		Codigo: "MAR-001",
		Nombre: "Otro",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE", body.Code)
}

func TestMovimientos_SalidaSinStockDevuelve409(t *testing.T) {
	app := buildTestApp(t)
	creado := crearProducto(t, app, "MAR-001", "Martillo")
	entrada(t, app, creado.ID, 3)

	resp := doJSON(t, app, http.MethodPost, "/api/movimientos", dto.CrearMovimientoRequest{
		ProductoID: creado.ID,
		Tipo:       "salida",
		Cantidad:   5,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "Martillo")
	assert.Contains(t, body.Message, "Solicitado: 5")
	assert.Contains(t, body.Message, "Disponible: 3")
}

func TestMovimientos_CantidadInvalidaDevuelve400(t *testing.T) {
	app := buildTestApp(t)
	creado := crearProducto(t, app, "MAR-001", "Martillo")

	resp := doJSON(t, app, http.MethodPost, "/api/movimientos", dto.CrearMovimientoRequest{
		ProductoID: creado.ID,
		Tipo:       "entrada",
		Cantidad:   0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}

func TestMovimientos_ProductoInexistenteDevuelve404(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/movimientos", dto.CrearMovimientoRequest{
		ProductoID: 42,
		Tipo:       "entrada",
		Cantidad:   1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSalidaMultiple_RechazoNoAplicaNingunRenglon(t *testing.T) {
	app := buildTestApp(t)
	p1 := crearProducto(t, app, "MAR-001", "Martillo")
	p2 := crearProducto(t, app, "TAL-001", "Taladro")
	entrada(t, app, p1.ID, 10)
	entrada(t, app, p2.ID, 1)

	resp := doJSON(t, app, http.MethodPost, "/api/movimientos/salida-multiple", dto.SalidaMultipleRequest{
		Productos: []dto.ItemLote{
			{ProductoID: p1.ID, Cantidad: 2},
			{ProductoID: p2.ID, Cantidad: 5},
		},
		Destino: "Obra Norte",
		Razon:   "despacho",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/productos/1", nil)
	intacto := decode[dto.ProductoResponse](t, resp)
	assert.Equal(t, 10, intacto.StockActual, "el renglón válido tampoco debe aplicarse")
}

func TestSalidaMultiple_ExitosaYConciliada(t *testing.T) {
	app := buildTestApp(t)
	p1 := crearProducto(t, app, "MAR-001", "Martillo")
	p2 := crearProducto(t, app, "CLA-001", "Clavos")
	entrada(t, app, p1.ID, 10)
	entrada(t, app, p2.ID, 100)

	resp := doJSON(t, app, http.MethodPost, "/api/movimientos/salida-multiple", dto.SalidaMultipleRequest{
		Productos: []dto.ItemLote{
			{ProductoID: p1.ID, Cantidad: 4},
			{ProductoID: p2.ID, Cantidad: 30},
		},
		Destino: "Obra Norte",
		Razon:   "despacho",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	creados := decode[dto.MovimientoListResponse](t, resp)
	require.Len(t, creados.Items, 2)
	assert.NotEmpty(t, creados.Items[0].GrupoID)
	assert.Equal(t, creados.Items[0].GrupoID, creados.Items[1].GrupoID)

	resp = doJSON(t, app, http.MethodGet, "/api/inventario/producto/1/conciliar", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	conciliado := decode[dto.ConciliacionResponse](t, resp)
	assert.True(t, conciliado.Consistente)
	assert.Equal(t, 6, conciliado.StockActual)
}

func TestInventario_ReporteYBajoStock(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/productos", dto.CrearProductoRequest{
		Codigo:      "MAR-001",
		Nombre:      "Martillo",
		StockMinimo: 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/inventario/reporte", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reporte := decode[dto.ReporteInventarioResponse](t, resp)
	assert.Equal(t, 1, reporte.TotalProductos)
	require.Len(t, reporte.ProductosBajoStock, 1)
	assert.Equal(t, "Martillo", reporte.ProductosBajoStock[0].Nombre)

	resp = doJSON(t, app, http.MethodGet, "/api/inventario/bajo-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMovimientos_ExportarXLSX(t *testing.T) {
	app := buildTestApp(t)
	creado := crearProducto(t, app, "MAR-001", "Martillo")
	entrada(t, app, creado.ID, 5)

	resp := doJSON(t, app, http.MethodGet, "/api/movimientos?exportar=xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "movimientos_")
}

func TestProductos_ImagenesDeCodigo(t *testing.T) {
	app := buildTestApp(t)
	crearProducto(t, app, "MAR-001", "Martillo")

	for _, ruta := range []string{"/api/productos/1/codigo-barras", "/api/productos/1/qr-code"} {
		resp := doJSON(t, app, http.MethodGet, ruta, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, ruta)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"), ruta)
		resp.Body.Close()
	}
}

func TestEscanear_ResuelveCodigoContraElCatalogo(t *testing.T) {
	app := buildTestApp(t)
	crearProducto(t, app, "ABC12345", "Martillo")

	resp := doJSON(t, app, http.MethodPost, "/api/escanear", dto.EscanearRequest{
		Codigo:        "ABC12345",
		TipoOperacion: "salida",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.EscanearResponse](t, resp)
	assert.True(t, out.Encontrado)
	assert.True(t, out.FormatoValido)
	assert.Equal(t, "codigo_barras", out.FormatoTipo)
	assert.Equal(t, "salida", out.AccionSugerida)
	require.NotNil(t, out.Producto)
	assert.Equal(t, "Martillo", out.Producto.Nombre)
}

func TestEscanear_CodigoDesconocido(t *testing.T) {
	app := buildTestApp(t)

	// EAN-13 con formato válido pero ajeno al catálogo.
	resp := doJSON(t, app, http.MethodPost, "/api/escanear", dto.EscanearRequest{Codigo: "7701234567890"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.EscanearResponse](t, resp)
	assert.False(t, out.Encontrado)
	assert.True(t, out.FormatoValido)
	assert.Equal(t, "ean13", out.FormatoTipo)
	assert.Equal(t, "crear_producto", out.AccionSugerida)
	assert.Nil(t, out.Producto)

	resp = doJSON(t, app, http.MethodPost, "/api/escanear", dto.EscanearRequest{Codigo: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
