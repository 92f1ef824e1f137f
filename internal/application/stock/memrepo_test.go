package stock_test

import (
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/testutil"
)

// nuevoMotor arma el motor de stock sobre repos en memoria con los productos
// indicados ya creados.
func nuevoMotor(productos ...*entity.Producto) (*stock.UseCase, *testutil.ProductoRepo, *testutil.MovimientoRepo) {
	productoRepo, movRepo, runner := testutil.Repos()
	for _, p := range productos {
		if err := productoRepo.Create(p); err != nil {
			panic(err)
		}
	}
	return stock.NewUseCase(runner, productoRepo, movRepo), productoRepo, movRepo
}
