package entity

import "time"

// Tipos de movimiento. Enumeración cerrada de dos valores.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

// Tipos de origen válidos para entradas.
const (
	OrigenCompra     = "compra"
	OrigenDonacion   = "donacion"
	OrigenDevolucion = "devolucion"
	OrigenTraslado   = "traslado"
	OrigenAjuste     = "ajuste"
)

// TipoMovimientoValido reporta si tipo pertenece a la enumeración.
func TipoMovimientoValido(tipo string) bool {
	return tipo == MovimientoEntrada || tipo == MovimientoSalida
}

// TipoOrigenValido reporta si un tipo de origen es conocido.
func TipoOrigenValido(tipo string) bool {
	switch tipo {
	case OrigenCompra, OrigenDonacion, OrigenDevolucion, OrigenTraslado, OrigenAjuste:
		return true
	}
	return false
}

// Movimiento es un registro inmutable del ledger: una entrada o salida de
// stock contra un producto. No existe operación de actualización; las
// correcciones se modelan como movimientos compensatorios nuevos.
type Movimiento struct {
	ID              int64
	ProductoID      int64
	Tipo            string // entrada | salida
	Cantidad        int    // siempre > 0; el signo lo da Tipo
	Motivo          string
	TipoOrigen      string // compra, donacion, devolucion, traslado, ajuste (entradas)
	OrigenNombre    string // proveedor, donante o tercero
	Ubicacion       string
	Notas           string
	ClienteDestino  string // cliente o destino (salidas)
	Usuario         string // etiqueta libre, sin verificación
	GrupoID         string // uuid compartido por los renglones de una operación múltiple
	FechaMovimiento time.Time
	PDFFirmado      string // ruta del comprobante firmado adjunto
	PDFNombre       string // nombre original del archivo
}
