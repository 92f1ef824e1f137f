package dto

import (
	"time"

	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

// CrearMovimientoRequest body para POST /api/movimientos.
type CrearMovimientoRequest struct {
	ProductoID     int64  `json:"producto_id"`
	Tipo           string `json:"tipo"` // entrada | salida
	Cantidad       int    `json:"cantidad"`
	Motivo         string `json:"motivo"`
	TipoOrigen     string `json:"tipo_origen"`
	OrigenNombre   string `json:"origen_nombre"`
	Ubicacion      string `json:"ubicacion"`
	Notas          string `json:"notas"`
	ClienteDestino string `json:"cliente_destino"`
	Usuario        string `json:"usuario"`
	PDFFirmado     string `json:"pdf_firmado"`
	PDFNombre      string `json:"pdf_nombre"`
}

// ItemLote renglón de una operación múltiple.
type ItemLote struct {
	ProductoID int64 `json:"producto_id"`
	Cantidad   int   `json:"cantidad"`
}

// SalidaMultipleRequest body para POST /api/movimientos/salida-multiple.
type SalidaMultipleRequest struct {
	Productos     []ItemLote `json:"productos"`
	Destino       string     `json:"destino"`
	Razon         string     `json:"razon"`
	Observaciones string     `json:"observaciones"`
	Usuario       string     `json:"usuario"`
}

// EntradaMultipleRequest body para POST /api/movimientos/entrada-multiple.
type EntradaMultipleRequest struct {
	Productos     []ItemLote `json:"productos"`
	TipoOrigen    string     `json:"tipo_origen"`
	OrigenNombre  string     `json:"origen_nombre"`
	Ubicacion     string     `json:"ubicacion"`
	Observaciones string     `json:"observaciones"`
	Usuario       string     `json:"usuario"`
}

// MovimientoResponse salida de un movimiento.
type MovimientoResponse struct {
	ID              int64     `json:"id"`
	ProductoID      int64     `json:"producto_id"`
	Tipo            string    `json:"tipo"`
	Cantidad        int       `json:"cantidad"`
	Motivo          string    `json:"motivo,omitempty"`
	TipoOrigen      string    `json:"tipo_origen,omitempty"`
	OrigenNombre    string    `json:"origen_nombre,omitempty"`
	Ubicacion       string    `json:"ubicacion,omitempty"`
	Notas           string    `json:"notas,omitempty"`
	ClienteDestino  string    `json:"cliente_destino,omitempty"`
	Usuario         string    `json:"usuario"`
	GrupoID         string    `json:"grupo_id,omitempty"`
	FechaMovimiento time.Time `json:"fecha_movimiento"`
	PDFFirmado      string    `json:"pdf_firmado,omitempty"`
	PDFNombre       string    `json:"pdf_nombre,omitempty"`
}

// MovimientoListResponse lista de movimientos con metadatos de página.
type MovimientoListResponse struct {
	Items []MovimientoResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ToMovimientoResponse mapea la entidad al DTO de salida.
func ToMovimientoResponse(m *entity.Movimiento) MovimientoResponse {
	return MovimientoResponse{
		ID:              m.ID,
		ProductoID:      m.ProductoID,
		Tipo:            m.Tipo,
		Cantidad:        m.Cantidad,
		Motivo:          m.Motivo,
		TipoOrigen:      m.TipoOrigen,
		OrigenNombre:    m.OrigenNombre,
		Ubicacion:       m.Ubicacion,
		Notas:           m.Notas,
		ClienteDestino:  m.ClienteDestino,
		Usuario:         m.Usuario,
		GrupoID:         m.GrupoID,
		FechaMovimiento: m.FechaMovimiento,
		PDFFirmado:      m.PDFFirmado,
		PDFNombre:       m.PDFNombre,
	}
}

// ToMovimientoResponses mapea un slice de entidades.
func ToMovimientoResponses(movs []*entity.Movimiento) []MovimientoResponse {
	out := make([]MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, ToMovimientoResponse(m))
	}
	return out
}
