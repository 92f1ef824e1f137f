package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/domain"
	"github.com/kardex-io/kardex-api/internal/domain/entity"
)

// ImportUseCase carga masiva de productos desde una hoja de cálculo xlsx.
// Cada fila pasa por el mismo primitivo de creación que el CRUD normal; la
// columna opcional stock_inicial siembra stock con un movimiento de entrada
// a través del motor de stock, nunca escribiendo el contador directo.
type ImportUseCase struct {
	productos *ProductoUseCase
	stock     *stock.UseCase
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(productos *ProductoUseCase, engine *stock.UseCase) *ImportUseCase {
	return &ImportUseCase{productos: productos, stock: engine}
}

// Columnas reconocidas en la primera fila de la hoja.
var columnasImportacion = map[string]string{
	"codigo":        "codigo",
	"nombre":        "nombre",
	"descripcion":   "descripcion",
	"categoria":     "categoria",
	"stock_minimo":  "stock_minimo",
	"stock minimo":  "stock_minimo",
	"stock_inicial": "stock_inicial",
	"stock inicial": "stock_inicial",
}

// Importar procesa el archivo y devuelve el reporte por fila. Las filas
// fallidas no detienen el resto: la importación es mejor-esfuerzo fila a
// fila, igual que crear productos uno por uno.
func (uc *ImportUseCase) Importar(ctx context.Context, r io.Reader, usuario string) (*dto.ResultadoImportacionResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: archivo xlsx ilegible", domain.ErrInvalidInput)
	}
	defer f.Close()

	hoja := f.GetSheetName(0)
	rows, err := f.GetRows(hoja)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", hoja, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: la hoja no tiene filas de datos", domain.ErrInvalidInput)
	}

	columnas := map[int]string{}
	for i, encabezado := range rows[0] {
		clave := NormalizarTexto(encabezado)
		if campo, ok := columnasImportacion[clave]; ok {
			columnas[i] = campo
		}
	}

	resultado := &dto.ResultadoImportacionResponse{}
	for n, row := range rows[1:] {
		fila := n + 2 // numeración humana, contando el encabezado
		if filaVacia(row) {
			continue
		}
		if err := uc.importarFila(ctx, columnas, row, usuario); err != nil {
			resultado.Fallidos++
			resultado.Errores = append(resultado.Errores, fmt.Sprintf("fila %d: %s", fila, mensajeImportacion(err)))
			continue
		}
		resultado.Creados++
	}
	return resultado, nil
}

func (uc *ImportUseCase) importarFila(ctx context.Context, columnas map[int]string, row []string, usuario string) error {
	var req dto.CrearProductoRequest
	stockInicial := 0
	for i, celda := range row {
		campo, ok := columnas[i]
		if !ok {
			continue
		}
		valor := strings.TrimSpace(celda)
		switch campo {
		case "codigo":
			req.Codigo = valor
		case "nombre":
			req.Nombre = valor
		case "descripcion":
			req.Descripcion = valor
		case "categoria":
			req.Categoria = valor
		case "stock_minimo":
			if valor != "" {
				n, err := strconv.Atoi(valor)
				if err != nil || n < 0 {
					return fmt.Errorf("stock_minimo inválido %q: %w", valor, domain.ErrInvalidInput)
				}
				req.StockMinimo = n
			}
		case "stock_inicial":
			if valor != "" {
				n, err := strconv.Atoi(valor)
				if err != nil || n < 0 {
					return fmt.Errorf("stock_inicial inválido %q: %w", valor, domain.ErrInvalidInput)
				}
				stockInicial = n
			}
		}
	}

	creado, err := uc.productos.Crear(req)
	if err != nil {
		return err
	}
	if stockInicial > 0 {
		_, err = uc.stock.RegistrarMovimiento(ctx, stock.MovimientoInput{
			ProductoID: creado.ID,
			Tipo:       entity.MovimientoEntrada,
			Cantidad:   stockInicial,
			Motivo:     "Carga inicial",
			TipoOrigen: entity.OrigenAjuste,
			Usuario:    usuario,
		})
		if err != nil {
			return fmt.Errorf("sembrar stock inicial: %w", err)
		}
	}
	return nil
}

func filaVacia(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func mensajeImportacion(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return "código ya existe"
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	default:
		return err.Error()
	}
}
