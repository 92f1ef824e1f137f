package dto

import (
	"time"

	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

// CrearProductoRequest entrada para crear un producto. Si Codigo viene vacío
// se genera uno. El stock inicial siempre es 0: para sembrar stock se crea
// un movimiento de entrada después.
type CrearProductoRequest struct {
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
	StockMinimo int    `json:"stock_minimo"`
}

// ActualizarProductoRequest actualización parcial. Codigo y stock nunca son
// actualizables por esta vía.
type ActualizarProductoRequest struct {
	Nombre      *string `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Categoria   *string `json:"categoria"`
	StockMinimo *int    `json:"stock_minimo"`
}

// ProductoResponse salida de un producto.
type ProductoResponse struct {
	ID                 int64      `json:"id"`
	Codigo             string     `json:"codigo"`
	Nombre             string     `json:"nombre"`
	Descripcion        string     `json:"descripcion,omitempty"`
	Categoria          string     `json:"categoria,omitempty"`
	StockMinimo        int        `json:"stock_minimo"`
	StockActual        int        `json:"stock_actual"`
	BajoStock          bool       `json:"bajo_stock"`
	FechaCreacion      time.Time  `json:"fecha_creacion"`
	FechaActualizacion *time.Time `json:"fecha_actualizacion,omitempty"`
}

// ProductoListResponse lista paginada de productos.
type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToProductoResponse mapea la entidad al DTO de salida.
func ToProductoResponse(p *entity.Producto) ProductoResponse {
	return ProductoResponse{
		ID:                 p.ID,
		Codigo:             p.Codigo,
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		Categoria:          p.Categoria,
		StockMinimo:        p.StockMinimo,
		StockActual:        p.StockActual,
		BajoStock:          p.BajoStock(),
		FechaCreacion:      p.FechaCreacion,
		FechaActualizacion: p.FechaActualizacion,
	}
}

// EscanearRequest código leído por un lector o tecleado a mano.
type EscanearRequest struct {
	Codigo        string `json:"codigo"`
	TipoOperacion string `json:"tipo_operacion,omitempty"`
}

// EscanearResponse resultado del escaneo: formato detectado y, si el código
// existe en el catálogo, el producto y la acción sugerida.
type EscanearResponse struct {
	Encontrado     bool              `json:"encontrado"`
	Codigo         string            `json:"codigo"`
	FormatoValido  bool              `json:"formato_valido"`
	FormatoTipo    string            `json:"formato_tipo"`
	Producto       *ProductoResponse `json:"producto,omitempty"`
	Mensaje        string            `json:"mensaje"`
	AccionSugerida string            `json:"accion_sugerida"`
}
