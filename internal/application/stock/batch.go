package stock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
	"github.com/kardex-io/kardex-api/internal/domain/repository"
)

// ItemLote un renglón (producto, cantidad) de una operación múltiple.
type ItemLote struct {
	ProductoID int64
	Cantidad   int
}

// SalidaMultipleInput salida de varios productos en una sola operación
// atómica (despacho de kits, envíos).
type SalidaMultipleInput struct {
	Items         []ItemLote
	Destino       string
	Razon         string
	Observaciones string
	Usuario       string
}

// EntradaMultipleInput entrada de varios productos en una sola operación
// atómica (compras, donaciones recibidas).
type EntradaMultipleInput struct {
	Items         []ItemLote
	TipoOrigen    string
	OrigenNombre  string
	Ubicacion     string
	Observaciones string
	Usuario       string
}

// RegistrarSalidaMultiple valida y aplica una salida de varios productos con
// semántica todo-o-nada: si algún renglón no existe o no tiene stock, el lote
// completo se aborta sin cambios y el error identifica el renglón fallido.
func (uc *UseCase) RegistrarSalidaMultiple(ctx context.Context, in SalidaMultipleInput) ([]*entity.Movimiento, error) {
	if in.Destino == "" || in.Razon == "" {
		return nil, domain.ErrInvalidInput
	}
	notas := "Destino: " + in.Destino
	if in.Observaciones != "" {
		notas += " - " + in.Observaciones
	}
	plantilla := MovimientoInput{
		Tipo:           entity.MovimientoSalida,
		Motivo:         in.Razon,
		Notas:          notas,
		ClienteDestino: in.Destino,
		Usuario:        in.Usuario,
	}
	return uc.registrarLote(ctx, in.Items, plantilla)
}

// RegistrarEntradaMultiple valida y aplica una entrada de varios productos
// con semántica todo-o-nada.
func (uc *UseCase) RegistrarEntradaMultiple(ctx context.Context, in EntradaMultipleInput) ([]*entity.Movimiento, error) {
	tipoOrigen := strings.ToLower(in.TipoOrigen)
	if !entity.TipoOrigenValido(tipoOrigen) || in.OrigenNombre == "" {
		return nil, domain.ErrInvalidInput
	}
	plantilla := MovimientoInput{
		Tipo:         entity.MovimientoEntrada,
		Motivo:       capitalizar(tipoOrigen),
		TipoOrigen:   tipoOrigen,
		OrigenNombre: in.OrigenNombre,
		Ubicacion:    in.Ubicacion,
		Notas:        in.Observaciones,
		Usuario:      in.Usuario,
	}
	return uc.registrarLote(ctx, in.Items, plantilla)
}

// registrarLote aplica un lote en una sola transacción con política de dos
// fases: primero bloquea y valida todos los renglones contra un snapshot
// consistente, luego aplica. Validar antes de mutar evita rollbacks
// compensatorios: una salida de A y B no debe tocar A para descubrir después
// que B no alcanza.
func (uc *UseCase) registrarLote(ctx context.Context, items []ItemLote, plantilla MovimientoInput) ([]*entity.Movimiento, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range items {
		if item.Cantidad <= 0 {
			return nil, domain.ErrCantidadInvalida
		}
	}
	if plantilla.Usuario == "" {
		plantilla.Usuario = UsuarioPorDefecto
	}

	grupoID := uuid.New().String()
	now := time.Now()
	var creados []*entity.Movimiento

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		productoRepo repository.ProductoRepository,
	) error {
		// Fase 1: bloquear todas las filas en orden de ID (orden de bloqueo
		// determinista entre lotes concurrentes) y validar existencia y stock.
		orden := make([]ItemLote, len(items))
		copy(orden, items)
		sort.Slice(orden, func(i, j int) bool { return orden[i].ProductoID < orden[j].ProductoID })

		disponibles := make(map[int64]*entity.Producto, len(orden))
		for _, item := range orden {
			if _, ya := disponibles[item.ProductoID]; ya {
				return fmt.Errorf("producto ID %d repetido en el lote: %w", item.ProductoID, domain.ErrInvalidInput)
			}
			producto, err := productoRepo.GetForUpdate(item.ProductoID)
			if err != nil {
				return err
			}
			disponibles[item.ProductoID] = producto // nil si no existe
		}
		// Reportar el primer renglón inexistente en el orden del request, no
		// en el orden de bloqueo.
		for _, item := range items {
			if disponibles[item.ProductoID] == nil {
				return &domain.ProductoNoEncontradoError{ProductoID: item.ProductoID}
			}
		}
		if plantilla.Tipo == entity.MovimientoSalida {
			// Reportar el primer renglón fallido en el orden del request.
			for _, item := range items {
				producto := disponibles[item.ProductoID]
				if producto.StockActual < item.Cantidad {
					return &domain.StockInsuficienteError{
						ProductoID: producto.ID,
						Nombre:     producto.Nombre,
						Solicitado: item.Cantidad,
						Disponible: producto.StockActual,
					}
				}
			}
		}

		// Fase 2: aplicar cada renglón. Cualquier fallo inesperado revierte
		// la transacción completa.
		for _, item := range items {
			producto := disponibles[item.ProductoID]
			nuevoStock := producto.StockActual
			if plantilla.Tipo == entity.MovimientoEntrada {
				nuevoStock += item.Cantidad
			} else {
				nuevoStock -= item.Cantidad
			}
			if err := productoRepo.UpdateStock(producto.ID, nuevoStock); err != nil {
				return err
			}
			mov := &entity.Movimiento{
				ProductoID:      item.ProductoID,
				Tipo:            plantilla.Tipo,
				Cantidad:        item.Cantidad,
				Motivo:          plantilla.Motivo,
				TipoOrigen:      plantilla.TipoOrigen,
				OrigenNombre:    plantilla.OrigenNombre,
				Ubicacion:       plantilla.Ubicacion,
				Notas:           plantilla.Notas,
				ClienteDestino:  plantilla.ClienteDestino,
				Usuario:         plantilla.Usuario,
				GrupoID:         grupoID,
				FechaMovimiento: now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			creados = append(creados, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creados, nil
}

func capitalizar(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
