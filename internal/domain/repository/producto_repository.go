package repository

import "github.com/kardex-io/kardex-api/internal/domain/entity"

// ProductoRepository puerto de persistencia del catálogo de productos.
// StockActual solo se muta vía UpdateStock, reservado al motor de stock.
type ProductoRepository interface {
	Create(p *entity.Producto) error
	GetByID(id int64) (*entity.Producto, error)
	GetByCodigo(codigo string) (*entity.Producto, error)
	// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE)
	// durante la transacción en curso.
	GetForUpdate(id int64) (*entity.Producto, error)
	// UpdateStock fija el stock actual. Uso exclusivo del motor de stock.
	UpdateStock(id int64, stock int) error
	// Update aplica atributos descriptivos. Nunca toca codigo ni stock.
	Update(p *entity.Producto) error
	Delete(id int64) (bool, error)
	List(limit, offset int) ([]*entity.Producto, error)
	Count() (int, error)
	// Search busca por substring (insensible a mayúsculas) en nombre, codigo
	// y descripcion.
	Search(query string) ([]*entity.Producto, error)
	ListBajoStock() ([]*entity.Producto, error)
}
