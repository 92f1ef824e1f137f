package codigo_test

import (
	"bytes"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardex-io/kardex-api/pkg/codigo"
)

func TestGenerarCodigoProducto_Formato(t *testing.T) {
	patron := regexp.MustCompile(`^PROD-\d{8}-[A-Z0-9]{6}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, patron, codigo.GenerarCodigoProducto(""))
	}
}

func TestGenerarCodigoProducto_PrefijoPersonalizado(t *testing.T) {
	cod := codigo.GenerarCodigoProducto("HER")
	assert.True(t, strings.HasPrefix(cod, "HER-"), "código: %s", cod)
}

func TestGenerarCodigoProducto_NoRepiteEnLotePequeno(t *testing.T) {
	vistos := make(map[string]bool)
	for i := 0; i < 100; i++ {
		cod := codigo.GenerarCodigoProducto("")
		assert.False(t, vistos[cod], "código repetido: %s", cod)
		vistos[cod] = true
	}
}

func TestCodigoBarrasPNG_ProducePNGValido(t *testing.T) {
	data, err := codigo.CodigoBarrasPNG("PROD-20260101-ABC123")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 320, bounds.Dx())
	assert.Equal(t, 96, bounds.Dy())
}

func TestQRPNG_ProducePNGValido(t *testing.T) {
	data, err := codigo.QRPNG("PROD-20260101-ABC123")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestDataURL(t *testing.T) {
	url := codigo.DataURL([]byte{0x89, 0x50})
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestValidarFormatoCodigo(t *testing.T) {
	casos := []struct {
		codigo string
		valido bool
		tipo   string
	}{
		{"PROD-20260101-ABC123", true, codigo.TipoProductoInterno},
		{"7702004003508", true, codigo.TipoEAN13},
		{"036000291452", true, codigo.TipoUPC},
		{"ABC12345", true, codigo.TipoCodigoBarras},
		{"corto", false, codigo.TipoDesconocido},
		{"con espacios 12", false, codigo.TipoDesconocido},
		{"", false, codigo.TipoDesconocido},
	}
	for _, tc := range casos {
		valido, tipo := codigo.ValidarFormatoCodigo(tc.codigo)
		assert.Equal(t, tc.valido, valido, "código %q", tc.codigo)
		assert.Equal(t, tc.tipo, tipo, "código %q", tc.codigo)
	}
}
