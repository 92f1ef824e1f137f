package usecase

import (
	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

// ReporteUseCase agregados de solo lectura sobre catálogo y ledger.
type ReporteUseCase struct {
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoRepository
}

// NewReporteUseCase construye el caso de uso.
func NewReporteUseCase(productoRepo repository.ProductoRepository, movRepo repository.MovimientoRepository) *ReporteUseCase {
	return &ReporteUseCase{productoRepo: productoRepo, movRepo: movRepo}
}

// ReporteInventario total de productos, bajo stock y últimos movimientos.
func (uc *ReporteUseCase) ReporteInventario(ultimos int) (*dto.ReporteInventarioResponse, error) {
	if ultimos <= 0 {
		ultimos = 10
	}
	total, err := uc.productoRepo.Count()
	if err != nil {
		return nil, err
	}
	bajoStock, err := uc.productoRepo.ListBajoStock()
	if err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.List(repository.MovimientoFilter{Limit: ultimos})
	if err != nil {
		return nil, err
	}
	bajoStockDTO := make([]dto.ProductoResponse, 0, len(bajoStock))
	for _, p := range bajoStock {
		bajoStockDTO = append(bajoStockDTO, dto.ToProductoResponse(p))
	}
	return &dto.ReporteInventarioResponse{
		TotalProductos:     total,
		ProductosBajoStock: bajoStockDTO,
		UltimosMovimientos: dto.ToMovimientoResponses(movs),
	}, nil
}

// HistorialProducto producto con su historial de movimientos (más recientes
// primero). Devuelve nil si el producto no existe.
func (uc *ReporteUseCase) HistorialProducto(productoID int64, page dto.PageRequest) (*dto.HistorialProductoResponse, error) {
	producto, err := uc.productoRepo.GetByID(productoID)
	if err != nil || producto == nil {
		return nil, err
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByProducto(productoID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.HistorialProductoResponse{
		Producto:  dto.ToProductoResponse(producto),
		Historial: dto.ToMovimientoResponses(movs),
	}, nil
}

// ListarMovimientos lista movimientos del ledger con filtros.
func (uc *ReporteUseCase) ListarMovimientos(f repository.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	movs, err := uc.movRepo.List(f)
	if err != nil {
		return nil, err
	}
	return &dto.MovimientoListResponse{
		Items: dto.ToMovimientoResponses(movs),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}
