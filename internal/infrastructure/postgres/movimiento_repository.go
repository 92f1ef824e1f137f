package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

const movimientoColumns = `id, producto_id, tipo, cantidad, motivo, tipo_origen, origen_nombre,
	ubicacion, notas, cliente_destino, usuario, grupo_id, fecha_movimiento, pdf_firmado, pdf_nombre`

// MovimientoRepo implementación del ledger sobre PostgreSQL (usable con pool
// o tx). Append-only: no existe UPDATE sobre movimientos.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create agrega un movimiento al ledger y asigna su ID.
func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	query := `
		INSERT INTO movimientos (producto_id, tipo, cantidad, motivo, tipo_origen, origen_nombre,
			ubicacion, notas, cliente_destino, usuario, grupo_id, fecha_movimiento, pdf_firmado, pdf_nombre)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		m.ProductoID, m.Tipo, m.Cantidad, nullIfEmpty(m.Motivo), nullIfEmpty(m.TipoOrigen),
		nullIfEmpty(m.OrigenNombre), nullIfEmpty(m.Ubicacion), nullIfEmpty(m.Notas),
		nullIfEmpty(m.ClienteDestino), m.Usuario, nullIfEmpty(m.GrupoID), m.FechaMovimiento,
		nullIfEmpty(m.PDFFirmado), nullIfEmpty(m.PDFNombre),
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil, nil si no existe.
func (r *MovimientoRepo) GetByID(id int64) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos WHERE id = $1`
	m, err := scanMovimiento(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros, más recientes primero; empates por id
// descendente (orden de inserción).
func (r *MovimientoRepo) List(f repository.MovimientoFilter) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos WHERE 1=1`
	var args []any
	pos := 1
	if f.ProductoID != nil {
		query += fmt.Sprintf(" AND producto_id = $%d", pos)
		args = append(args, *f.ProductoID)
		pos++
	}
	if f.Tipo != "" {
		query += fmt.Sprintf(" AND tipo = $%d", pos)
		args = append(args, f.Tipo)
		pos++
	}
	if f.Desde != nil {
		query += fmt.Sprintf(" AND fecha_movimiento >= $%d", pos)
		args = append(args, *f.Desde)
		pos++
	}
	if f.Hasta != nil {
		query += fmt.Sprintf(" AND fecha_movimiento <= $%d", pos)
		args = append(args, *f.Hasta)
		pos++
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY fecha_movimiento DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, f.Offset)
	return r.queryMovimientos(query, args...)
}

// ListByProducto historial de un producto, más recientes primero.
func (r *MovimientoRepo) ListByProducto(productoID int64, limit, offset int) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos
		WHERE producto_id = $1 ORDER BY fecha_movimiento DESC, id DESC LIMIT $2 OFFSET $3`
	return r.queryMovimientos(query, productoID, limit, offset)
}

// ListByGrupo renglones de una operación múltiple, en orden de inserción.
func (r *MovimientoRepo) ListByGrupo(grupoID string) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos WHERE grupo_id = $1 ORDER BY id`
	return r.queryMovimientos(query, grupoID)
}

// SumByProducto suma el ledger completo de un producto para conciliación.
func (r *MovimientoRepo) SumByProducto(productoID int64) (*repository.ResumenLedger, error) {
	query := `
		SELECT
			COALESCE(SUM(cantidad) FILTER (WHERE tipo = 'entrada'), 0),
			COALESCE(SUM(cantidad) FILTER (WHERE tipo = 'salida'), 0)
		FROM movimientos WHERE producto_id = $1`
	var resumen repository.ResumenLedger
	err := r.q.QueryRow(context.Background(), query, productoID).Scan(&resumen.Entradas, &resumen.Salidas)
	if err != nil {
		return nil, fmt.Errorf("sum movimientos: %w", err)
	}
	return &resumen, nil
}

// DeleteByProducto borra el historial de un producto. Solo se usa como
// cascada del borrado del producto.
func (r *MovimientoRepo) DeleteByProducto(productoID int64) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM movimientos WHERE producto_id = $1`, productoID)
	if err != nil {
		return 0, fmt.Errorf("delete movimientos de producto: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanMovimiento(row pgx.Row) (*entity.Movimiento, error) {
	var m entity.Movimiento
	var motivo, tipoOrigen, origenNombre, ubicacion, notas, clienteDestino, grupoID, pdfFirmado, pdfNombre *string
	err := row.Scan(&m.ID, &m.ProductoID, &m.Tipo, &m.Cantidad, &motivo, &tipoOrigen, &origenNombre,
		&ubicacion, &notas, &clienteDestino, &m.Usuario, &grupoID, &m.FechaMovimiento, &pdfFirmado, &pdfNombre)
	if err != nil {
		return nil, err
	}
	asignar(&m.Motivo, motivo)
	asignar(&m.TipoOrigen, tipoOrigen)
	asignar(&m.OrigenNombre, origenNombre)
	asignar(&m.Ubicacion, ubicacion)
	asignar(&m.Notas, notas)
	asignar(&m.ClienteDestino, clienteDestino)
	asignar(&m.GrupoID, grupoID)
	asignar(&m.PDFFirmado, pdfFirmado)
	asignar(&m.PDFNombre, pdfNombre)
	return &m, nil
}

func asignar(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (r *MovimientoRepo) queryMovimientos(query string, args ...any) ([]*entity.Movimiento, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		m, err := scanMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
