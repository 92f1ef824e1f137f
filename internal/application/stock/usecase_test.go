package stock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

func producto(nombre string, stockActual int) *entity.Producto {
	return &entity.Producto{
		Codigo:      "PROD-20260101-" + nombre,
		Nombre:      nombre,
		StockActual: stockActual,
	}
}

func TestRegistrarMovimiento_EntradaIncrementaStock(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(producto("martillo", 10))

	mov, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoEntrada,
		Cantidad:   5,
		TipoOrigen: entity.OrigenCompra,
	})
	require.NoError(t, err)

	p, _ := productoRepo.GetByID(1)
	assert.Equal(t, 15, p.StockActual, "la entrada debe sumar al stock")
	assert.Equal(t, entity.MovimientoEntrada, mov.Tipo)
	assert.Equal(t, 5, mov.Cantidad)
	assert.NotZero(t, mov.ID, "el movimiento debe quedar asentado en el ledger")
}

func TestRegistrarMovimiento_SalidaDescuentaStock(t *testing.T) {
	uc, productoRepo, movRepo := nuevoMotor(producto("martillo", 10))

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoSalida,
		Cantidad:   4,
		Motivo:     "despacho",
	})
	require.NoError(t, err)

	p, _ := productoRepo.GetByID(1)
	assert.Equal(t, 6, p.StockActual)
	assert.Len(t, movRepo.Todos(), 1)
}

// La salida que agota exactamente el stock es válida; una unidad más no.
func TestRegistrarMovimiento_FronteraDeStock(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(producto("clavos", 7))

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoSalida,
		Cantidad:   7,
	})
	require.NoError(t, err, "salir con exactamente el stock disponible debe aceptarse")

	p, _ := productoRepo.GetByID(1)
	assert.Equal(t, 0, p.StockActual)

	_, err = uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoSalida,
		Cantidad:   1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegistrarMovimiento_StockInsuficienteNoMutaNada(t *testing.T) {
	uc, productoRepo, movRepo := nuevoMotor(producto("taladro", 3))

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoSalida,
		Cantidad:   5,
	})

	var insuficiente *domain.StockInsuficienteError
	require.ErrorAs(t, err, &insuficiente)
	assert.Equal(t, "taladro", insuficiente.Nombre)
	assert.Equal(t, 5, insuficiente.Solicitado)
	assert.Equal(t, 3, insuficiente.Disponible)

	p, _ := productoRepo.GetByID(1)
	assert.Equal(t, 3, p.StockActual, "el stock no debe cambiar en un rechazo")
	assert.Empty(t, movRepo.Todos(), "no debe asentarse ningún movimiento")
}

func TestRegistrarMovimiento_CantidadInvalida(t *testing.T) {
	uc, _, movRepo := nuevoMotor(producto("sierra", 10))

	for _, cantidad := range []int{0, -3} {
		_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
			ProductoID: 1,
			Tipo:       entity.MovimientoEntrada,
			Cantidad:   cantidad,
		})
		assert.ErrorIs(t, err, domain.ErrCantidadInvalida, "cantidad %d", cantidad)
	}
	assert.Empty(t, movRepo.Todos(),
		"la cantidad inválida debe rechazarse antes de tocar el almacenamiento")
}

func TestRegistrarMovimiento_TipoInvalido(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("lija", 10))

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       "transferencia",
		Cantidad:   1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrarMovimiento_TipoOrigenInvalido(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("lija", 10))

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoEntrada,
		Cantidad:   1,
		TipoOrigen: "regalo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrarMovimiento_ProductoInexistente(t *testing.T) {
	uc, _, _ := nuevoMotor()

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 99,
		Tipo:       entity.MovimientoEntrada,
		Cantidad:   1,
	})

	var noEncontrado *domain.ProductoNoEncontradoError
	require.True(t, errors.As(err, &noEncontrado))
	assert.Equal(t, int64(99), noEncontrado.ProductoID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrarMovimiento_UsuarioPorDefecto(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("cinta", 10))

	mov, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoEntrada,
		Cantidad:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, stock.UsuarioPorDefecto, mov.Usuario)
}

func TestRegistrarMovimiento_TipoOrigenSeNormalizaAMinusculas(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("cinta", 10))

	mov, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoEntrada,
		Cantidad:   2,
		TipoOrigen: "Donacion",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrigenDonacion, mov.TipoOrigen)
}

// Secuencia entrada/salida intercalada: el stock siempre es la suma del ledger.
func TestRegistrarMovimiento_SecuenciaMantieneConsistencia(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(producto("guantes", 0))

	pasos := []struct {
		tipo     string
		cantidad int
	}{
		{entity.MovimientoEntrada, 20},
		{entity.MovimientoSalida, 5},
		{entity.MovimientoEntrada, 3},
		{entity.MovimientoSalida, 18},
	}
	for _, paso := range pasos {
		_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
			ProductoID: 1,
			Tipo:       paso.tipo,
			Cantidad:   paso.cantidad,
		})
		require.NoError(t, err)
	}

	p, _ := productoRepo.GetByID(1)
	assert.Equal(t, 0, p.StockActual)

	res, err := uc.Conciliar(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, res.Consistente)
	assert.Equal(t, 23, res.Entradas)
	assert.Equal(t, 23, res.Salidas)
}

func TestConciliar_DetectaContadorCorrupto(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(producto("brocas", 0))

	_, err := uc.RegistrarMovimiento(context.Background(), stock.MovimientoInput{
		ProductoID: 1,
		Tipo:       entity.MovimientoEntrada,
		Cantidad:   10,
	})
	require.NoError(t, err)

	// Corromper el contador cacheado por fuera del motor.
	require.NoError(t, productoRepo.UpdateStock(1, 7))

	res, err := uc.Conciliar(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, res.Consistente)
	assert.Equal(t, 7, res.StockActual)
	assert.Equal(t, 10, res.StockCalculado)
}
