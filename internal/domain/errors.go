package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrCantidadInvalida  = errors.New("la cantidad debe ser mayor a cero")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ProductoNoEncontradoError identifica qué producto faltó, útil en operaciones
// múltiples donde el caller necesita saber qué renglón falló.
type ProductoNoEncontradoError struct {
	ProductoID int64
}

func (e *ProductoNoEncontradoError) Error() string {
	return fmt.Sprintf("producto ID %d no encontrado", e.ProductoID)
}

func (e *ProductoNoEncontradoError) Unwrap() error { return ErrNotFound }

// StockInsuficienteError lleva el detalle solicitado vs. disponible.
type StockInsuficienteError struct {
	ProductoID int64
	Nombre     string
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Solicitado: %d, Disponible: %d",
		e.Nombre, e.Solicitado, e.Disponible)
}

func (e *StockInsuficienteError) Unwrap() error { return ErrInsufficientStock }
