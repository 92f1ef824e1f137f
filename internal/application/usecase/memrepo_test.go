package usecase_test

import (
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/internal/testutil"
)

// armarCasosDeUso arma el CRUD de productos y el motor de stock sobre repos
// en memoria compartidos.
func armarCasosDeUso() (*usecase.ProductoUseCase, *stock.UseCase, *testutil.ProductoRepo, *testutil.MovimientoRepo) {
	productoRepo, movRepo, runner := testutil.Repos()
	return usecase.NewProductoUseCase(productoRepo, runner),
		stock.NewUseCase(runner, productoRepo, movRepo),
		productoRepo, movRepo
}
