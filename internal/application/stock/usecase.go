package stock

import (
	"context"
	"strings"
	"time"

	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

// UsuarioPorDefecto etiqueta registrada cuando el caller no indica usuario.
const UsuarioPorDefecto = "admin"

// UseCase es la única autoridad para mutar el stock de un producto. Cada
// operación actualiza el contador y crea el movimiento del ledger como una
// sola unidad atómica, con bloqueo de fila (SELECT FOR UPDATE) para que dos
// salidas concurrentes no puedan leer el mismo stock previo y sobregirar.
type UseCase struct {
	txRunner     TxRunner
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoRepository
}

// NewUseCase construye el motor de stock.
func NewUseCase(txRunner TxRunner, productoRepo repository.ProductoRepository, movRepo repository.MovimientoRepository) *UseCase {
	return &UseCase{txRunner: txRunner, productoRepo: productoRepo, movRepo: movRepo}
}

// MovimientoInput entrada para registrar un movimiento individual.
type MovimientoInput struct {
	ProductoID     int64
	Tipo           string // entrada | salida
	Cantidad       int
	Motivo         string
	TipoOrigen     string
	OrigenNombre   string
	Ubicacion      string
	Notas          string
	ClienteDestino string
	Usuario        string
	GrupoID        string
	PDFFirmado     string
	PDFNombre      string
}

// RegistrarMovimiento valida y aplica un movimiento individual.
// Entrada: stock += cantidad, incondicional. Salida: requiere
// stock >= cantidad o falla con StockInsuficienteError sin cambio alguno.
// La cantidad se rechaza antes de tocar almacenamiento si no es positiva.
func (uc *UseCase) RegistrarMovimiento(ctx context.Context, in MovimientoInput) (*entity.Movimiento, error) {
	if in.Cantidad <= 0 {
		return nil, domain.ErrCantidadInvalida
	}
	if !entity.TipoMovimientoValido(in.Tipo) {
		return nil, domain.ErrInvalidInput
	}
	if in.TipoOrigen != "" && !entity.TipoOrigenValido(strings.ToLower(in.TipoOrigen)) {
		return nil, domain.ErrInvalidInput
	}
	if in.Usuario == "" {
		in.Usuario = UsuarioPorDefecto
	}

	var creado *entity.Movimiento
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		productoRepo repository.ProductoRepository,
	) error {
		mov, err := aplicar(movRepo, productoRepo, in, time.Now())
		if err != nil {
			return err
		}
		creado = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creado, nil
}

// aplicar ejecuta un movimiento dentro de la transacción del caller: bloquea
// la fila del producto, verifica stock en salidas, actualiza el contador y
// agrega el registro al ledger.
func aplicar(
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
	in MovimientoInput,
	now time.Time,
) (*entity.Movimiento, error) {
	producto, err := productoRepo.GetForUpdate(in.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, &domain.ProductoNoEncontradoError{ProductoID: in.ProductoID}
	}

	nuevoStock := producto.StockActual
	switch in.Tipo {
	case entity.MovimientoEntrada:
		nuevoStock += in.Cantidad
	case entity.MovimientoSalida:
		if producto.StockActual < in.Cantidad {
			return nil, &domain.StockInsuficienteError{
				ProductoID: producto.ID,
				Nombre:     producto.Nombre,
				Solicitado: in.Cantidad,
				Disponible: producto.StockActual,
			}
		}
		nuevoStock -= in.Cantidad
	}

	if err := productoRepo.UpdateStock(producto.ID, nuevoStock); err != nil {
		return nil, err
	}
	mov := &entity.Movimiento{
		ProductoID:      in.ProductoID,
		Tipo:            in.Tipo,
		Cantidad:        in.Cantidad,
		Motivo:          in.Motivo,
		TipoOrigen:      strings.ToLower(in.TipoOrigen),
		OrigenNombre:    in.OrigenNombre,
		Ubicacion:       in.Ubicacion,
		Notas:           in.Notas,
		ClienteDestino:  in.ClienteDestino,
		Usuario:         in.Usuario,
		GrupoID:         in.GrupoID,
		FechaMovimiento: now,
		PDFFirmado:      in.PDFFirmado,
		PDFNombre:       in.PDFNombre,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
