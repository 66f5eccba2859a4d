package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var relojPruebas = RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))

func TestGenerarNumeroCuenta(t *testing.T) {
	numero, err := GenerarNumeroCuenta(relojPruebas, 42)
	require.NoError(t, err)

	assert.Equal(t, "2024031500042", numero.Valor())
	assert.Equal(t, 42, numero.Consecutivo())
	assert.Equal(t, Fecha(2024, time.March, 15), numero.Fecha())
	assert.True(t, numero.EsDeHoy(relojPruebas))
	assert.Equal(t, "2024-03-15-00042", numero.FormatoLegible())
}

func TestNuevoNumeroCuenta_IgnoraSeparadores(t *testing.T) {
	numero, err := NuevoNumeroCuenta("2024-03-15-00042", relojPruebas)
	require.NoError(t, err)
	assert.Equal(t, "2024031500042", numero.Valor())
}

func TestNuevoNumeroCuenta_Invalido(t *testing.T) {
	casos := []struct {
		nombre string
		valor  string
	}{
		{"vacio", ""},
		{"corto", "20240315042"},
		{"fecha inexistente", "2024023000042"},
		{"anio fuera de rango", "1800031500042"},
		{"consecutivo cero", "2024031500000"},
		{"fecha futura", "2024031600001"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := NuevoNumeroCuenta(c.valor, relojPruebas)
			assert.Error(t, err)
		})
	}
}

func TestNumeroCuentaParaFecha_ConsecutivoFueraDeRango(t *testing.T) {
	_, err := NumeroCuentaParaFecha(Fecha(2024, time.March, 1), 100000, relojPruebas)
	assert.Error(t, err)
}

func TestNumeroCuenta_DiasDesdeCreacion(t *testing.T) {
	numero, err := NumeroCuentaParaFecha(Fecha(2024, time.March, 10), 1, relojPruebas)
	require.NoError(t, err)
	assert.Equal(t, 5, numero.DiasDesdeCreacion(relojPruebas))
}
