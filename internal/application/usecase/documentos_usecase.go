package usecase

import (
	"fmt"
	"time"

	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

// ItemComprobante renglón de la tabla del comprobante de salida.
type ItemComprobante struct {
	Codigo   string
	Nombre   string
	Cantidad int
}

// DatosComprobante encabezado del comprobante de salida.
type DatosComprobante struct {
	Destino       string
	Razon         string
	Observaciones string
	Usuario       string
	Fecha         string
	GrupoID       string
}

// ComprobanteGenerator puerto del generador de comprobantes PDF.
type ComprobanteGenerator interface {
	GenerarComprobanteSalida(datos DatosComprobante, items []ItemComprobante) ([]byte, error)
}

// MovimientoExporter puerto del exportador xlsx de movimientos.
type MovimientoExporter interface {
	ExportarMovimientos(movs []*entity.Movimiento, productos map[int64]*entity.Producto) ([]byte, error)
}

// DocumentosUseCase genera documentos derivados del ledger: comprobantes PDF
// de salidas múltiples y exportación xlsx del historial. Solo lectura.
type DocumentosUseCase struct {
	movRepo      repository.MovimientoRepository
	productoRepo repository.ProductoRepository
	comprobantes ComprobanteGenerator
	exporter     MovimientoExporter
}

// NewDocumentosUseCase construye el caso de uso.
func NewDocumentosUseCase(
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
	comprobantes ComprobanteGenerator,
	exporter MovimientoExporter,
) *DocumentosUseCase {
	return &DocumentosUseCase{
		movRepo:      movRepo,
		productoRepo: productoRepo,
		comprobantes: comprobantes,
		exporter:     exporter,
	}
}

// ComprobantePorGrupo genera el PDF del comprobante para los renglones de
// una salida múltiple.
func (uc *DocumentosUseCase) ComprobantePorGrupo(grupoID string) ([]byte, error) {
	movs, err := uc.movRepo.ListByGrupo(grupoID)
	if err != nil {
		return nil, err
	}
	if len(movs) == 0 {
		return nil, domain.ErrNotFound
	}
	productos, err := uc.resolverProductos(movs)
	if err != nil {
		return nil, err
	}

	primero := movs[0]
	datos := DatosComprobante{
		Destino:       primero.ClienteDestino,
		Razon:         primero.Motivo,
		Observaciones: primero.Notas,
		Usuario:       primero.Usuario,
		Fecha:         primero.FechaMovimiento.Format("02/01/2006 15:04"),
		GrupoID:       grupoID,
	}
	items := make([]ItemComprobante, 0, len(movs))
	for _, m := range movs {
		item := ItemComprobante{Cantidad: m.Cantidad, Codigo: fmt.Sprintf("#%d", m.ProductoID)}
		if p, ok := productos[m.ProductoID]; ok {
			item.Codigo = p.Codigo
			item.Nombre = p.Nombre
		}
		items = append(items, item)
	}
	return uc.comprobantes.GenerarComprobanteSalida(datos, items)
}

// ExportarMovimientos exporta el historial filtrado como xlsx y devuelve el
// nombre de archivo sugerido.
func (uc *DocumentosUseCase) ExportarMovimientos(f repository.MovimientoFilter) ([]byte, string, error) {
	if f.Limit <= 0 {
		f.Limit = 10000
	}
	movs, err := uc.movRepo.List(f)
	if err != nil {
		return nil, "", err
	}
	productos, err := uc.resolverProductos(movs)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportarMovimientos(movs, productos)
	if err != nil {
		return nil, "", err
	}
	nombre := "movimientos_" + time.Now().Format("20060102_150405") + ".xlsx"
	return data, nombre, nil
}

func (uc *DocumentosUseCase) resolverProductos(movs []*entity.Movimiento) (map[int64]*entity.Producto, error) {
	productos := make(map[int64]*entity.Producto)
	for _, m := range movs {
		if _, ok := productos[m.ProductoID]; ok {
			continue
		}
		p, err := uc.productoRepo.GetByID(m.ProductoID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			productos[m.ProductoID] = p
		}
	}
	return productos, nil
}
