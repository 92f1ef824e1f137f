// Package excel exporta el historial de movimientos como libro xlsx.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

var _ usecase.MovimientoExporter = (*Exporter)(nil)

const hojaMovimientos = "Movimientos"

var encabezados = []string{
	"ID", "Fecha", "Código", "Producto", "Tipo", "Cantidad",
	"Motivo", "Origen", "Destino", "Ubicación", "Usuario", "Notas",
}

// Exporter implementa usecase.MovimientoExporter con excelize.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportarMovimientos arma el libro con una fila por movimiento. El mapa de
// productos resuelve código y nombre por producto_id; los ids sin producto
// (no debería ocurrir con la FK vigente) quedan con el id crudo.
func (e *Exporter) ExportarMovimientos(movs []*entity.Movimiento, productos map[int64]*entity.Producto) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(hojaMovimientos)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: borrar hoja por defecto: %w", err)
	}

	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaMovimientos, celda, h); err != nil {
			return nil, fmt.Errorf("excel: encabezado %q: %w", h, err)
		}
	}

	for n, m := range movs {
		codigo := fmt.Sprintf("#%d", m.ProductoID)
		nombre := ""
		if p, ok := productos[m.ProductoID]; ok {
			codigo = p.Codigo
			nombre = p.Nombre
		}
		fila := []any{
			m.ID,
			m.FechaMovimiento.Format("2006-01-02 15:04:05"),
			codigo,
			nombre,
			m.Tipo,
			m.Cantidad,
			m.Motivo,
			m.OrigenNombre,
			m.ClienteDestino,
			m.Ubicacion,
			m.Usuario,
			m.Notas,
		}
		for i, v := range fila {
			celda, _ := excelize.CoordinatesToCellName(i+1, n+2)
			if err := f.SetCellValue(hojaMovimientos, celda, v); err != nil {
				return nil, fmt.Errorf("excel: fila %d: %w", n+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
