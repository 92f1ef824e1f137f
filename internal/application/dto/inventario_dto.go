package dto

// ReporteInventarioResponse resumen del inventario.
type ReporteInventarioResponse struct {
	TotalProductos     int                  `json:"total_productos"`
	ProductosBajoStock []ProductoResponse   `json:"productos_bajo_stock"`
	UltimosMovimientos []MovimientoResponse `json:"ultimos_movimientos"`
}

// HistorialProductoResponse un producto con su historial de movimientos.
type HistorialProductoResponse struct {
	Producto  ProductoResponse     `json:"producto"`
	Historial []MovimientoResponse `json:"historial"`
}

// ConciliacionResponse resultado de contrastar el contador de stock contra
// la suma del ledger.
type ConciliacionResponse struct {
	ProductoID     int64 `json:"producto_id"`
	StockActual    int   `json:"stock_actual"`
	Entradas       int   `json:"entradas"`
	Salidas        int   `json:"salidas"`
	StockCalculado int   `json:"stock_calculado"`
	Consistente    bool  `json:"consistente"`
	Diferencia     int   `json:"diferencia"`
}

// ResultadoImportacionResponse reporte de una carga masiva desde xlsx.
type ResultadoImportacionResponse struct {
	Creados  int      `json:"creados"`
	Fallidos int      `json:"fallidos"`
	Errores  []string `json:"errores,omitempty"`
}
