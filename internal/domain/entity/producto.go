package entity

import "time"

// Producto representa un artículo del catálogo con su stock actual.
// StockActual es una proyección del ledger de movimientos: solo el motor de
// stock lo modifica, nunca la edición de atributos.
type Producto struct {
	ID                 int64
	Codigo             string // único, inmutable una vez asignado
	Nombre             string
	Descripcion        string
	Categoria          string
	StockMinimo        int
	StockActual        int
	FechaCreacion      time.Time
	FechaActualizacion *time.Time
}

// BajoStock indica si el producto está por debajo de su punto de reorden.
func (p *Producto) BajoStock() bool {
	return p.StockActual < p.StockMinimo
}
