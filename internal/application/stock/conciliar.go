package stock

import (
	"context"

	"github.com/kardex-io/kardex-api/internal/domain"
)

// ResultadoConciliacion contraste del contador de stock contra la suma del
// ledger. El contador es una proyección cacheada: siempre debe poder
// recomputarse reproduciendo todos los movimientos del producto.
type ResultadoConciliacion struct {
	ProductoID     int64
	StockActual    int
	Entradas       int
	Salidas        int
	StockCalculado int
	Consistente    bool
}

// Conciliar suma el ledger de un producto y lo compara con el stock cacheado.
// Pensado como utilidad de verificación en tests y recuperación; no muta nada.
func (uc *UseCase) Conciliar(_ context.Context, productoID int64) (*ResultadoConciliacion, error) {
	producto, err := uc.productoRepo.GetByID(productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, &domain.ProductoNoEncontradoError{ProductoID: productoID}
	}
	resumen, err := uc.movRepo.SumByProducto(productoID)
	if err != nil {
		return nil, err
	}
	calculado := resumen.Entradas - resumen.Salidas
	return &ResultadoConciliacion{
		ProductoID:     productoID,
		StockActual:    producto.StockActual,
		Entradas:       resumen.Entradas,
		Salidas:        resumen.Salidas,
		StockCalculado: calculado,
		Consistente:    producto.StockActual == calculado,
	}, nil
}
