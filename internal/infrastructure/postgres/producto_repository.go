package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

const productoColumns = `id, codigo, nombre, descripcion, categoria, stock_minimo, stock_actual, fecha_creacion, fecha_actualizacion`

// ProductoRepo implementación del puerto ProductoRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de persistencia para
// productos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

func scanProducto(row pgx.Row) (*entity.Producto, error) {
	var p entity.Producto
	var descripcion, categoria *string
	err := row.Scan(&p.ID, &p.Codigo, &p.Nombre, &descripcion, &categoria,
		&p.StockMinimo, &p.StockActual, &p.FechaCreacion, &p.FechaActualizacion)
	if err != nil {
		return nil, err
	}
	if descripcion != nil {
		p.Descripcion = *descripcion
	}
	if categoria != nil {
		p.Categoria = *categoria
	}
	return &p, nil
}

// Create persiste un nuevo producto y asigna su ID. El constraint único de
// codigo convierte la colisión en ErrDuplicate.
func (r *ProductoRepo) Create(producto *entity.Producto) error {
	query := `
		INSERT INTO productos (codigo, nombre, descripcion, categoria, stock_minimo, stock_actual, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		producto.Codigo, producto.Nombre, nullIfEmpty(producto.Descripcion),
		nullIfEmpty(producto.Categoria), producto.StockMinimo, producto.StockActual,
		producto.FechaCreacion,
	).Scan(&producto.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil, nil si no existe.
func (r *ProductoRepo) GetByID(id int64) (*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE id = $1`
	p, err := scanProducto(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// GetByCodigo obtiene un producto por su código único.
func (r *ProductoRepo) GetByCodigo(codigo string) (*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE codigo = $1`
	p, err := scanProducto(r.q.QueryRow(context.Background(), query, codigo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto por codigo: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE)
// hasta el fin de la transacción en curso.
func (r *ProductoRepo) GetForUpdate(id int64) (*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE id = $1 FOR UPDATE`
	p, err := scanProducto(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto for update: %w", err)
	}
	return p, nil
}

// UpdateStock fija el stock actual. Uso exclusivo del motor de stock, dentro
// de la transacción que también crea el movimiento.
func (r *ProductoRepo) UpdateStock(id int64, stock int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET stock_actual = $2, fecha_actualizacion = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Update actualiza atributos descriptivos. Nunca toca codigo ni stock_actual.
func (r *ProductoRepo) Update(producto *entity.Producto) error {
	query := `
		UPDATE productos
		SET nombre = $2, descripcion = $3, categoria = $4, stock_minimo = $5, fecha_actualizacion = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		producto.ID, producto.Nombre, nullIfEmpty(producto.Descripcion),
		nullIfEmpty(producto.Categoria), producto.StockMinimo,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID. Devuelve false si no existía.
func (r *ProductoRepo) Delete(id int64) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete producto: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List lista productos con paginación, más recientes primero.
func (r *ProductoRepo) List(limit, offset int) ([]*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos ORDER BY fecha_creacion DESC, id DESC LIMIT $1 OFFSET $2`
	return r.queryProductos(query, limit, offset)
}

// Count total de productos en el catálogo.
func (r *ProductoRepo) Count() (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM productos`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count productos: %w", err)
	}
	return total, nil
}

// Search busca por substring insensible a mayúsculas y tildes en nombre,
// codigo y descripcion. Requiere la extensión unaccent (migración 0001).
func (r *ProductoRepo) Search(q string) ([]*entity.Producto, error) {
	query := `
		SELECT ` + productoColumns + `
		FROM productos
		WHERE unaccent(nombre) ILIKE '%' || unaccent($1) || '%'
		   OR unaccent(codigo) ILIKE '%' || unaccent($1) || '%'
		   OR unaccent(COALESCE(descripcion, '')) ILIKE '%' || unaccent($1) || '%'
		ORDER BY nombre`
	return r.queryProductos(query, q)
}

// ListBajoStock productos con stock_actual < stock_minimo.
func (r *ProductoRepo) ListBajoStock() ([]*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE stock_actual < stock_minimo ORDER BY nombre`
	return r.queryProductos(query)
}

func (r *ProductoRepo) queryProductos(query string, args ...any) ([]*entity.Producto, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
