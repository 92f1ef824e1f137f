package repository

import (
	"time"

	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

// MovimientoFilter filtros para listar movimientos.
type MovimientoFilter struct {
	ProductoID *int64
	Tipo       string // entrada | salida | "" (todos)
	Desde      *time.Time
	Hasta      *time.Time
	Limit      int
	Offset     int
}

// ResumenLedger totales del ledger de un producto.
type ResumenLedger struct {
	Entradas int
	Salidas  int
}

// MovimientoRepository puerto del ledger de movimientos: append-only, sin
// operación de actualización. DeleteByProducto existe solo como efecto en
// cascada del borrado de un producto, no como interfaz de corrección.
type MovimientoRepository interface {
	Create(m *entity.Movimiento) error
	GetByID(id int64) (*entity.Movimiento, error)
	// List devuelve movimientos ordenados por fecha descendente; empates por
	// id descendente (orden de inserción).
	List(f MovimientoFilter) ([]*entity.Movimiento, error)
	ListByProducto(productoID int64, limit, offset int) ([]*entity.Movimiento, error)
	ListByGrupo(grupoID string) ([]*entity.Movimiento, error)
	// SumByProducto suma el ledger completo de un producto (conciliación).
	SumByProducto(productoID int64) (*ResumenLedger, error)
	DeleteByProducto(productoID int64) (int64, error)
}
