// Package testutil provee implementaciones en memoria de los puertos de
// persistencia para tests. Respetan los contratos que los casos de uso
// asumen de postgres: unicidad de codigo, clones defensivos y rollback del
// TxRunner ante error.
package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

// ProductoRepo catálogo en memoria.
type ProductoRepo struct {
	seq       int64
	productos map[int64]*entity.Producto
}

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// NewProductoRepo crea el repo vacío.
func NewProductoRepo() *ProductoRepo {
	return &ProductoRepo{productos: make(map[int64]*entity.Producto)}
}

func (r *ProductoRepo) Create(p *entity.Producto) error {
	for _, existente := range r.productos {
		if existente.Codigo == p.Codigo {
			return domain.ErrDuplicate
		}
	}
	r.seq++
	p.ID = r.seq
	if p.FechaCreacion.IsZero() {
		p.FechaCreacion = time.Now()
	}
	clon := *p
	r.productos[p.ID] = &clon
	return nil
}

func (r *ProductoRepo) GetByID(id int64) (*entity.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, nil
	}
	clon := *p
	return &clon, nil
}

func (r *ProductoRepo) GetByCodigo(codigo string) (*entity.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			clon := *p
			return &clon, nil
		}
	}
	return nil, nil
}

func (r *ProductoRepo) GetForUpdate(id int64) (*entity.Producto, error) {
	return r.GetByID(id)
}

func (r *ProductoRepo) UpdateStock(id int64, nuevoStock int) error {
	if p, ok := r.productos[id]; ok {
		p.StockActual = nuevoStock
		now := time.Now()
		p.FechaActualizacion = &now
	}
	return nil
}

func (r *ProductoRepo) Update(p *entity.Producto) error {
	if actual, ok := r.productos[p.ID]; ok {
		actual.Nombre = p.Nombre
		actual.Descripcion = p.Descripcion
		actual.Categoria = p.Categoria
		actual.StockMinimo = p.StockMinimo
		actual.FechaActualizacion = p.FechaActualizacion
	}
	return nil
}

func (r *ProductoRepo) Delete(id int64) (bool, error) {
	if _, ok := r.productos[id]; !ok {
		return false, nil
	}
	delete(r.productos, id)
	return true, nil
}

func (r *ProductoRepo) List(limit, offset int) ([]*entity.Producto, error) {
	ids := make([]int64, 0, len(r.productos))
	for id := range r.productos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []*entity.Producto
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		clon := *r.productos[id]
		out = append(out, &clon)
	}
	return out, nil
}

func (r *ProductoRepo) Count() (int, error) { return len(r.productos), nil }

// Search pliega tildes y mayúsculas en ambos lados, igual que el unaccent
// + ILIKE del repo de postgres.
func (r *ProductoRepo) Search(query string) ([]*entity.Producto, error) {
	q := usecase.NormalizarTexto(query)
	var out []*entity.Producto
	for _, p := range r.productos {
		if strings.Contains(usecase.NormalizarTexto(p.Nombre), q) ||
			strings.Contains(usecase.NormalizarTexto(p.Codigo), q) ||
			strings.Contains(usecase.NormalizarTexto(p.Descripcion), q) {
			clon := *p
			out = append(out, &clon)
		}
	}
	return out, nil
}

func (r *ProductoRepo) ListBajoStock() ([]*entity.Producto, error) {
	var out []*entity.Producto
	for _, p := range r.productos {
		if p.BajoStock() {
			clon := *p
			out = append(out, &clon)
		}
	}
	return out, nil
}

func (r *ProductoRepo) snapshot() map[int64]*entity.Producto {
	snap := make(map[int64]*entity.Producto, len(r.productos))
	for id, p := range r.productos {
		clon := *p
		snap[id] = &clon
	}
	return snap
}

// MovimientoRepo ledger en memoria.
type MovimientoRepo struct {
	seq         int64
	movimientos []*entity.Movimiento
}

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// NewMovimientoRepo crea el repo vacío.
func NewMovimientoRepo() *MovimientoRepo { return &MovimientoRepo{} }

func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	r.seq++
	m.ID = r.seq
	clon := *m
	r.movimientos = append(r.movimientos, &clon)
	return nil
}

func (r *MovimientoRepo) GetByID(id int64) (*entity.Movimiento, error) {
	for _, m := range r.movimientos {
		if m.ID == id {
			clon := *m
			return &clon, nil
		}
	}
	return nil, nil
}

func (r *MovimientoRepo) List(f repository.MovimientoFilter) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	saltados := 0
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		m := r.movimientos[i]
		if f.ProductoID != nil && m.ProductoID != *f.ProductoID {
			continue
		}
		if f.Tipo != "" && m.Tipo != f.Tipo {
			continue
		}
		if f.Desde != nil && m.FechaMovimiento.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && m.FechaMovimiento.After(*f.Hasta) {
			continue
		}
		if saltados < f.Offset {
			saltados++
			continue
		}
		clon := *m
		out = append(out, &clon)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MovimientoRepo) ListByProducto(productoID int64, limit, offset int) ([]*entity.Movimiento, error) {
	return r.List(repository.MovimientoFilter{ProductoID: &productoID, Limit: limit, Offset: offset})
}

func (r *MovimientoRepo) ListByGrupo(grupoID string) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	for _, m := range r.movimientos {
		if m.GrupoID == grupoID {
			clon := *m
			out = append(out, &clon)
		}
	}
	return out, nil
}

func (r *MovimientoRepo) SumByProducto(productoID int64) (*repository.ResumenLedger, error) {
	resumen := &repository.ResumenLedger{}
	for _, m := range r.movimientos {
		if m.ProductoID != productoID {
			continue
		}
		switch m.Tipo {
		case entity.MovimientoEntrada:
			resumen.Entradas += m.Cantidad
		case entity.MovimientoSalida:
			resumen.Salidas += m.Cantidad
		}
	}
	return resumen, nil
}

func (r *MovimientoRepo) DeleteByProducto(productoID int64) (int64, error) {
	var borrados int64
	restantes := r.movimientos[:0]
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			borrados++
			continue
		}
		restantes = append(restantes, m)
	}
	r.movimientos = restantes
	return borrados, nil
}

// Todos devuelve el contenido completo del ledger (copias) para aserciones.
func (r *MovimientoRepo) Todos() []*entity.Movimiento {
	return r.snapshot()
}

func (r *MovimientoRepo) snapshot() []*entity.Movimiento {
	snap := make([]*entity.Movimiento, 0, len(r.movimientos))
	for _, m := range r.movimientos {
		clon := *m
		snap = append(snap, &clon)
	}
	return snap
}

// TxRunner emula la semántica del TxRunner de postgres: si fn devuelve error,
// ambos repos vuelven al estado previo.
type TxRunner struct {
	Productos   *ProductoRepo
	Movimientos *MovimientoRepo
}

var _ stock.TxRunner = (*TxRunner)(nil)

func (r *TxRunner) Run(
	_ context.Context,
	fn func(repository.MovimientoRepository, repository.ProductoRepository) error,
) error {
	prodSnap := r.Productos.snapshot()
	prodSeq := r.Productos.seq
	movSnap := r.Movimientos.snapshot()
	movSeq := r.Movimientos.seq
	if err := fn(r.Movimientos, r.Productos); err != nil {
		r.Productos.productos = prodSnap
		r.Productos.seq = prodSeq
		r.Movimientos.movimientos = movSnap
		r.Movimientos.seq = movSeq
		return err
	}
	return nil
}

// Repos arma el trío (productos, movimientos, runner) listo para inyectar.
func Repos() (*ProductoRepo, *MovimientoRepo, *TxRunner) {
	productoRepo := NewProductoRepo()
	movRepo := NewMovimientoRepo()
	return productoRepo, movRepo, &TxRunner{Productos: productoRepo, Movimientos: movRepo}
}
