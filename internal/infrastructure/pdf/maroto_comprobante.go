// Package pdf genera el comprobante de salida en PDF: el acta que acompaña
// un despacho de inventario para firma del receptor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comprobante de Salida + fecha y grupo              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO / RAZÓN / OBSERVACIONES / USUARIO                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cantidad                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega / Recibe                                   │
//	│  FOOTER: QR con el grupo del lote                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/kardex-io/kardex-api/internal/application/usecase"
)

var _ usecase.ComprobanteGenerator = (*MarotoComprobanteGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoComprobanteGenerator implementa usecase.ComprobanteGenerator usando
// Maroto v2.
type MarotoComprobanteGenerator struct{}

// NewMarotoComprobanteGenerator construye el generador.
func NewMarotoComprobanteGenerator() *MarotoComprobanteGenerator { return &MarotoComprobanteGenerator{} }

// GenerarComprobanteSalida genera el PDF y devuelve sus bytes.
func (g *MarotoComprobanteGenerator) GenerarComprobanteSalida(datos usecase.DatosComprobante, items []usecase.ItemComprobante) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Comprobante de Salida", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(datos))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(datosRows(datos)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, item := range items {
		m.AddRows(tableItemRow(item))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(items))
	m.AddRows(line.NewRow(8))
	m.AddRows(firmasRow())
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(datos))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(datos usecase.DatosComprobante) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("COMPROBANTE DE SALIDA", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
			text.New("Sistema de Inventario", props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Fecha: "+datos.Fecha, props.Text{Size: 9, Top: 2, Align: align.Right}),
			text.New("Lote: "+corto(datos.GrupoID), props.Text{Size: 8, Top: 8, Align: align.Right, Color: colorGray}),
		),
	)
}

func datosRows(datos usecase.DatosComprobante) []core.Row {
	rows := []core.Row{
		campoRow("Destino", datos.Destino),
		campoRow("Razón", datos.Razon),
	}
	if datos.Observaciones != "" {
		rows = append(rows, campoRow("Observaciones", datos.Observaciones))
	}
	rows = append(rows, campoRow("Entregado por", datos.Usuario))
	return rows
}

func campoRow(etiqueta, valor string) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(etiqueta+":", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(9).Add(text.New(valor, props.Text{Size: 9, Top: 1})),
	)
}

func tableHeaderRow() core.Row {
	estilo := props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Color: colorPrimary}
	return row.New(9).Add(
		col.New(3).Add(text.New("Código", estilo)),
		col.New(7).Add(text.New("Producto", estilo)),
		col.New(2).Add(text.New("Cantidad", props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right, Color: colorPrimary,
		})),
	)
}

func tableItemRow(item usecase.ItemComprobante) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(item.Codigo, props.Text{Size: 8, Top: 1})),
		col.New(7).Add(text.New(item.Nombre, props.Text{Size: 9, Top: 1})),
		col.New(2).Add(text.New(strconv.Itoa(item.Cantidad), props.Text{Size: 9, Top: 1, Align: align.Right})),
	)
}

func totalRow(items []usecase.ItemComprobante) core.Row {
	total := 0
	for _, item := range items {
		total += item.Cantidad
	}
	return row.New(8).Add(
		col.New(10).Add(text.New("Total unidades", props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 1, Align: align.Right,
		})),
		col.New(2).Add(text.New(strconv.Itoa(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 1, Align: align.Right,
		})),
	)
}

func firmasRow() core.Row {
	return row.New(18).Add(
		col.New(5).Add(
			text.New("________________________", props.Text{Size: 9, Top: 8, Align: align.Center}),
			text.New("Entrega", props.Text{Size: 8, Top: 14, Align: align.Center, Color: colorGray}),
		),
		col.New(2),
		col.New(5).Add(
			text.New("________________________", props.Text{Size: 9, Top: 8, Align: align.Center}),
			text.New("Recibe", props.Text{Size: 8, Top: 14, Align: align.Center, Color: colorGray}),
		),
	)
}

func footerRow(datos usecase.DatosComprobante) core.Row {
	return row.New(28).Add(
		col.New(8).Add(
			text.New("Documento generado por el sistema de inventario.", props.Text{
				Size: 7, Top: 10, Color: colorGray,
			}),
			text.New("Verifique el lote escaneando el código QR.", props.Text{
				Size: 7, Top: 14, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(datos.GrupoID, props.Rect{Center: true, Percent: 90})),
	)
}

// corto abrevia un uuid para mostrarlo en el encabezado.
func corto(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
