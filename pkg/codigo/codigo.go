// Package codigo genera códigos de producto y sus representaciones como
// imagen (código de barras Code128 y QR).
package codigo

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
)

// PrefijoPorDefecto prefijo de los códigos generados automáticamente.
const PrefijoPorDefecto = "PROD"

const sufijoAlfabeto = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const sufijoLargo = 6

// GenerarCodigoProducto genera un código con formato PREFIJO-YYYYMMDD-XXXXXX.
// No verifica existencia previa: la unicidad la garantiza el constraint de la
// BD al escribir, y el caller debe reintentar o rechazar en conflicto.
func GenerarCodigoProducto(prefijo string) string {
	if prefijo == "" {
		prefijo = PrefijoPorDefecto
	}
	fecha := time.Now().Format("20060102")
	return fmt.Sprintf("%s-%s-%s", prefijo, fecha, sufijoAleatorio(sufijoLargo))
}

func sufijoAleatorio(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// rand.Read sobre el CSPRNG del sistema no falla en la práctica
		panic(err)
	}
	for i := range b {
		b[i] = sufijoAlfabeto[int(b[i])%len(sufijoAlfabeto)]
	}
	return string(b)
}

// CodigoBarrasPNG genera la imagen Code128 de un código.
func CodigoBarrasPNG(codigo string) ([]byte, error) {
	bc, err := code128.Encode(codigo)
	if err != nil {
		return nil, fmt.Errorf("codificar code128: %w", err)
	}
	scaled, err := barcode.Scale(bc, 320, 96)
	if err != nil {
		return nil, fmt.Errorf("escalar código de barras: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("png código de barras: %w", err)
	}
	return buf.Bytes(), nil
}

// QRPNG genera la imagen QR de un contenido con corrección de errores alta.
func QRPNG(contenido string) ([]byte, error) {
	code, err := qr.Encode(contenido, qr.H, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("codificar qr: %w", err)
	}
	scaled, err := barcode.Scale(code, 256, 256)
	if err != nil {
		return nil, fmt.Errorf("escalar qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("png qr: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL envuelve una imagen PNG como data URL para incrustar en HTML/JSON.
func DataURL(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// Tipos de código reconocidos por ValidarFormatoCodigo.
const (
	TipoProductoInterno = "producto_interno"
	TipoEAN13           = "ean13"
	TipoUPC             = "upc"
	TipoCodigoBarras    = "codigo_barras"
	TipoDesconocido     = "desconocido"
)

// ValidarFormatoCodigo determina el tipo de un código escaneado o tecleado.
func ValidarFormatoCodigo(codigo string) (valido bool, tipo string) {
	switch {
	case len(codigo) == 20 && codigo[:5] == PrefijoPorDefecto+"-":
		return true, TipoProductoInterno
	case len(codigo) == 13 && soloDigitos(codigo):
		return true, TipoEAN13
	case len(codigo) == 12 && soloDigitos(codigo):
		return true, TipoUPC
	case len(codigo) >= 8 && len(codigo) <= 20 && alfanumerico(codigo):
		return true, TipoCodigoBarras
	}
	return false, TipoDesconocido
}

func soloDigitos(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func alfanumerico(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return s != ""
}
