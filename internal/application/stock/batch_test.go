package stock_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

func TestSalidaMultiple_AplicaTodosLosRenglones(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(
		producto("martillo", 10),
		producto("clavos", 100),
		producto("taladro", 4),
	)

	movs, err := uc.RegistrarSalidaMultiple(context.Background(), stock.SalidaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 1, Cantidad: 2},
			{ProductoID: 2, Cantidad: 50},
			{ProductoID: 3, Cantidad: 4},
		},
		Destino: "Obra Norte",
		Razon:   "despacho de kit",
		Usuario: "maria",
	})
	require.NoError(t, err)
	require.Len(t, movs, 3)

	for id, esperado := range map[int64]int{1: 8, 2: 50, 3: 0} {
		p, _ := productoRepo.GetByID(id)
		assert.Equal(t, esperado, p.StockActual, "producto %d", id)
	}
	for _, m := range movs {
		assert.Equal(t, entity.MovimientoSalida, m.Tipo)
		assert.Equal(t, "despacho de kit", m.Motivo)
		assert.Equal(t, "Obra Norte", m.ClienteDestino)
		assert.Equal(t, "maria", m.Usuario)
	}
}

// Todo-o-nada: un renglón sin stock aborta el lote completo, incluidos los
// renglones que sí alcanzaban.
func TestSalidaMultiple_AtomicaAnteStockInsuficiente(t *testing.T) {
	uc, productoRepo, movRepo := nuevoMotor(
		producto("martillo", 10),
		producto("taladro", 1),
	)

	_, err := uc.RegistrarSalidaMultiple(context.Background(), stock.SalidaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 1, Cantidad: 2},
			{ProductoID: 2, Cantidad: 5},
		},
		Destino: "Bodega Sur",
		Razon:   "traslado",
	})

	var insuficiente *domain.StockInsuficienteError
	require.ErrorAs(t, err, &insuficiente)
	assert.Equal(t, "taladro", insuficiente.Nombre)
	assert.Equal(t, 5, insuficiente.Solicitado)
	assert.Equal(t, 1, insuficiente.Disponible)

	p1, _ := productoRepo.GetByID(1)
	p2, _ := productoRepo.GetByID(2)
	assert.Equal(t, 10, p1.StockActual, "ningún renglón debe aplicarse")
	assert.Equal(t, 1, p2.StockActual)
	assert.Empty(t, movRepo.Todos())
}

func TestSalidaMultiple_ProductoInexistenteAbortaElLote(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(producto("martillo", 10))

	_, err := uc.RegistrarSalidaMultiple(context.Background(), stock.SalidaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 1, Cantidad: 1},
			{ProductoID: 42, Cantidad: 1},
		},
		Destino: "Obra Norte",
		Razon:   "despacho",
	})

	var noEncontrado *domain.ProductoNoEncontradoError
	require.ErrorAs(t, err, &noEncontrado)
	assert.Equal(t, int64(42), noEncontrado.ProductoID)

	p, _ := productoRepo.GetByID(1)
	assert.Equal(t, 10, p.StockActual)
}

func TestSalidaMultiple_ReportaPrimerInexistenteDelRequest(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("martillo", 10))

	// Dos renglones inexistentes con IDs fuera de orden; debe reportarse el
	// primero según el orden del request, no el de bloqueo por ID.
	_, err := uc.RegistrarSalidaMultiple(context.Background(), stock.SalidaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 99, Cantidad: 1},
			{ProductoID: 42, Cantidad: 1},
			{ProductoID: 1, Cantidad: 1},
		},
		Destino: "Obra Norte",
		Razon:   "despacho",
	})

	var noEncontrado *domain.ProductoNoEncontradoError
	require.ErrorAs(t, err, &noEncontrado)
	assert.Equal(t, int64(99), noEncontrado.ProductoID)
}

func TestSalidaMultiple_ReportaPrimerRenglonFallidoDelRequest(t *testing.T) {
	uc, _, _ := nuevoMotor(
		producto("martillo", 0),
		producto("taladro", 0),
	)

	// Ambos renglones fallan; debe reportarse el primero según el orden del
	// request, no el orden de bloqueo.
	_, err := uc.RegistrarSalidaMultiple(context.Background(), stock.SalidaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 2, Cantidad: 3},
			{ProductoID: 1, Cantidad: 3},
		},
		Destino: "Obra Norte",
		Razon:   "despacho",
	})

	var insuficiente *domain.StockInsuficienteError
	require.ErrorAs(t, err, &insuficiente)
	assert.Equal(t, int64(2), insuficiente.ProductoID)
}

func TestSalidaMultiple_GrupoYFechaCompartidos(t *testing.T) {
	uc, _, movRepo := nuevoMotor(
		producto("martillo", 10),
		producto("clavos", 10),
	)

	movs, err := uc.RegistrarSalidaMultiple(context.Background(), stock.SalidaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 1, Cantidad: 1},
			{ProductoID: 2, Cantidad: 1},
		},
		Destino:       "Obra Norte",
		Razon:         "despacho",
		Observaciones: "urgente",
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)

	_, err = uuid.Parse(movs[0].GrupoID)
	require.NoError(t, err, "grupo_id debe ser un uuid")
	assert.Equal(t, movs[0].GrupoID, movs[1].GrupoID)
	assert.Equal(t, movs[0].FechaMovimiento, movs[1].FechaMovimiento)
	assert.Equal(t, "Destino: Obra Norte - urgente", movs[0].Notas)

	agrupados, err := movRepo.ListByGrupo(movs[0].GrupoID)
	require.NoError(t, err)
	assert.Len(t, agrupados, 2)
}

func TestSalidaMultiple_Validaciones(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("martillo", 10))

	casos := []struct {
		nombre string
		in     stock.SalidaMultipleInput
		want   error
	}{
		{
			nombre: "sin renglones",
			in:     stock.SalidaMultipleInput{Destino: "X", Razon: "Y"},
			want:   domain.ErrInvalidInput,
		},
		{
			nombre: "sin destino",
			in: stock.SalidaMultipleInput{
				Items: []stock.ItemLote{{ProductoID: 1, Cantidad: 1}},
				Razon: "Y",
			},
			want: domain.ErrInvalidInput,
		},
		{
			nombre: "cantidad cero",
			in: stock.SalidaMultipleInput{
				Items:   []stock.ItemLote{{ProductoID: 1, Cantidad: 0}},
				Destino: "X",
				Razon:   "Y",
			},
			want: domain.ErrCantidadInvalida,
		},
		{
			nombre: "producto repetido",
			in: stock.SalidaMultipleInput{
				Items: []stock.ItemLote{
					{ProductoID: 1, Cantidad: 1},
					{ProductoID: 1, Cantidad: 2},
				},
				Destino: "X",
				Razon:   "Y",
			},
			want: domain.ErrInvalidInput,
		},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := uc.RegistrarSalidaMultiple(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEntradaMultiple_AplicaYEtiquetaOrigen(t *testing.T) {
	uc, productoRepo, _ := nuevoMotor(
		producto("martillo", 1),
		producto("clavos", 0),
	)

	movs, err := uc.RegistrarEntradaMultiple(context.Background(), stock.EntradaMultipleInput{
		Items: []stock.ItemLote{
			{ProductoID: 1, Cantidad: 9},
			{ProductoID: 2, Cantidad: 200},
		},
		TipoOrigen:   "Compra",
		OrigenNombre: "Ferretería Central",
		Ubicacion:    "Estante A3",
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)

	p1, _ := productoRepo.GetByID(1)
	p2, _ := productoRepo.GetByID(2)
	assert.Equal(t, 10, p1.StockActual)
	assert.Equal(t, 200, p2.StockActual)

	assert.Equal(t, entity.OrigenCompra, movs[0].TipoOrigen)
	assert.Equal(t, "Compra", movs[0].Motivo)
	assert.Equal(t, "Ferretería Central", movs[0].OrigenNombre)
	assert.Equal(t, "Estante A3", movs[0].Ubicacion)
}

func TestEntradaMultiple_OrigenInvalido(t *testing.T) {
	uc, _, _ := nuevoMotor(producto("martillo", 0))

	_, err := uc.RegistrarEntradaMultiple(context.Background(), stock.EntradaMultipleInput{
		Items:        []stock.ItemLote{{ProductoID: 1, Cantidad: 1}},
		TipoOrigen:   "hallazgo",
		OrigenNombre: "bodega",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
