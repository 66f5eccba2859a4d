package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "traslados/pkg/domain-errors"
)

func TestNuevaDescripcionNovedadNormalizaYCapitaliza(t *testing.T) {
	desc, err := NuevaDescripcionNovedad("  el documento   llegó incompleto. falta la firma del propietario  ")
	require.NoError(t, err)
	assert.Equal(t, "El documento llegó incompleto. Falta la firma del propietario", desc.Valor())
	assert.Equal(t, 9, desc.NumeroPalabras())
}

func TestNuevaDescripcionNovedadLimites(t *testing.T) {
	casos := []struct {
		nombre  string
		texto   string
		mensaje string
	}{
		{"vacia", "   ", "no puede estar vacía"},
		{"muy corta", "muy corta", "al menos 10 caracteres"},
		{"muy larga", strings.Repeat("a", DescripcionMaxCaracteres+1), "exceder 500 caracteres"},
		{"etiqueta html", "descripción con <b>negrita</b> incluida", "contenido no permitido"},
		{"script", "revisar <script>alert(1)</script> ahora", "contenido no permitido"},
		{"caracteres raros", "descripción con emoji 🚗 incluido", "caracteres no permitidos"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := NuevaDescripcionNovedad(c.texto)
			require.Error(t, err)
			assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))
			assert.Contains(t, err.Error(), c.mensaje)
		})
	}
}

func TestDescripcionConPrefijo(t *testing.T) {
	desc, err := DescripcionConPrefijo("DOCUMENTOS", "falta el certificado de tradición")
	require.NoError(t, err)
	assert.Equal(t, "DOCUMENTOS: falta el certificado de tradición", desc.Valor())
}

func TestDescripcionExtension(t *testing.T) {
	corta, err := NuevaDescripcionNovedad("Falta un documento")
	require.NoError(t, err)
	assert.True(t, corta.EsCorta())
	assert.False(t, corta.EsDetallada())

	detallada, err := NuevaDescripcionNovedad(strings.Repeat("Texto largo ", 20))
	require.NoError(t, err)
	assert.False(t, detallada.EsCorta())
	assert.True(t, detallada.EsDetallada())
}

func TestContienePalabraClave(t *testing.T) {
	desc, err := NuevaDescripcionNovedad("Falta la revisión técnico-mecánica del vehículo")
	require.NoError(t, err)

	assert.True(t, desc.ContienePalabraClave("REVISION"))
	assert.True(t, desc.ContienePalabraClave("tecnico"))
	assert.True(t, desc.ContienePalabraClave("vehiculo"))
	assert.False(t, desc.ContienePalabraClave("motor"))
}

func TestDescripcionResumen(t *testing.T) {
	desc, err := NuevaDescripcionNovedad("Una descripción suficientemente larga para recortar")
	require.NoError(t, err)
	assert.Equal(t, "Una descri...", desc.Resumen(13))
	assert.Equal(t, desc.Valor(), desc.Resumen(500))
}

func TestNormalizarBusqueda(t *testing.T) {
	assert.Equal(t, "revision tecnico-mecanica", NormalizarBusqueda("Revisión Técnico-Mecánica"))
	assert.Equal(t, "nino", NormalizarBusqueda("NIÑO"))
}

func TestNormalizarFuncionario(t *testing.T) {
	assert.Equal(t, "MARÍA LÓPEZ", NormalizarFuncionario("  maría lópez "))
}
