package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
	"github.com/kardex-io/kardex-api/pkg/codigo"
)

// ProductoUseCase CRUD del catálogo. El stock nunca se toca por esta vía:
// se crea en 0 y solo lo muta el motor de stock.
type ProductoUseCase struct {
	repo     repository.ProductoRepository
	txRunner stock.TxRunner
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository, txRunner stock.TxRunner) *ProductoUseCase {
	return &ProductoUseCase{repo: repo, txRunner: txRunner}
}

// Crear crea un producto. Si no viene código se genera uno; el stock inicial
// siempre es 0 sin importar lo que traiga el request.
func (uc *ProductoUseCase) Crear(in dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMinimo < 0 {
		return nil, domain.ErrInvalidInput
	}
	cod := strings.TrimSpace(in.Codigo)
	if cod == "" {
		cod = codigo.GenerarCodigoProducto("")
	}
	producto := &entity.Producto{
		Codigo:        cod,
		Nombre:        strings.TrimSpace(in.Nombre),
		Descripcion:   in.Descripcion,
		Categoria:     in.Categoria,
		StockMinimo:   in.StockMinimo,
		StockActual:   0,
		FechaCreacion: time.Now(),
	}
	if err := uc.repo.Create(producto); err != nil {
		return nil, err
	}
	out := dto.ToProductoResponse(producto)
	return &out, nil
}

// Actualizar aplica solo los campos presentes. Codigo y stock no son
// actualizables. Devuelve nil si el producto no existe.
func (uc *ProductoUseCase) Actualizar(id int64, in dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, nil
	}
	if in.Nombre != nil {
		if strings.TrimSpace(*in.Nombre) == "" {
			return nil, domain.ErrInvalidInput
		}
		producto.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		producto.Descripcion = *in.Descripcion
	}
	if in.Categoria != nil {
		producto.Categoria = *in.Categoria
	}
	if in.StockMinimo != nil {
		if *in.StockMinimo < 0 {
			return nil, domain.ErrInvalidInput
		}
		producto.StockMinimo = *in.StockMinimo
	}
	now := time.Now()
	producto.FechaActualizacion = &now
	if err := uc.repo.Update(producto); err != nil {
		return nil, err
	}
	out := dto.ToProductoResponse(producto)
	return &out, nil
}

// Eliminar borra el producto y, en cascada, todos sus movimientos, en una
// sola transacción. Devuelve false si el id no existe.
func (uc *ProductoUseCase) Eliminar(ctx context.Context, id int64) (bool, error) {
	var encontrado bool
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		productoRepo repository.ProductoRepository,
	) error {
		if _, err := movRepo.DeleteByProducto(id); err != nil {
			return err
		}
		ok, err := productoRepo.Delete(id)
		if err != nil {
			return err
		}
		encontrado = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	return encontrado, nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (uc *ProductoUseCase) GetByID(id int64) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil || producto == nil {
		return nil, err
	}
	out := dto.ToProductoResponse(producto)
	return &out, nil
}

// GetByCodigo obtiene un producto por su código. Devuelve nil si no existe.
func (uc *ProductoUseCase) GetByCodigo(cod string) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByCodigo(cod)
	if err != nil || producto == nil {
		return nil, err
	}
	out := dto.ToProductoResponse(producto)
	return &out, nil
}

// Listar lista productos con paginación.
func (uc *ProductoUseCase) Listar(page dto.PageRequest) (*dto.ProductoListResponse, error) {
	page.DefaultPage()
	productos, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		items = append(items, dto.ToProductoResponse(p))
	}
	return &dto.ProductoListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Buscar busca por substring en nombre, código y descripción. El término se
// normaliza (minúsculas, sin tildes) antes de consultar; el repo pliega las
// columnas del mismo modo, así "Lápiz" y "lapiz" encuentran lo mismo.
func (uc *ProductoUseCase) Buscar(query string) ([]dto.ProductoResponse, error) {
	query = NormalizarTexto(query)
	if query == "" {
		return []dto.ProductoResponse{}, nil
	}
	productos, err := uc.repo.Search(query)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		items = append(items, dto.ToProductoResponse(p))
	}
	return items, nil
}

// BajoStock lista los productos con stock por debajo del mínimo.
func (uc *ProductoUseCase) BajoStock() ([]dto.ProductoResponse, error) {
	productos, err := uc.repo.ListBajoStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		items = append(items, dto.ToProductoResponse(p))
	}
	return items, nil
}

var quitarTildes = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizarTexto pasa a minúsculas y remueve marcas diacríticas, de modo que
// "Lápiz" y "lapiz" busquen lo mismo.
func NormalizarTexto(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(quitarTildes, s)
	if err != nil {
		return s
	}
	return out
}
