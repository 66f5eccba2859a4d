package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "traslados/pkg/domain-errors"
)

func fecha(anio int, mes time.Month, dia int) time.Time {
	return time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
}

func TestNuevaFechaTramiteDentroDeVentana(t *testing.T) {
	ft, err := NuevaFechaTramite(fecha(2024, time.March, 10), relojPruebas)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", ft.String())
	assert.True(t, ft.EsPasada(relojPruebas))
	assert.Equal(t, 5, ft.DiasDesdeHoy(relojPruebas))
}

func TestNuevaFechaTramiteTruncaHora(t *testing.T) {
	ft, err := NuevaFechaTramite(time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC), relojPruebas)
	require.NoError(t, err)
	assert.Equal(t, fecha(2024, time.March, 10), ft.Fecha())
}

func TestNuevaFechaTramiteBordesDeVentana(t *testing.T) {
	hoy := relojPruebas.Hoy()

	_, err := NuevaFechaTramite(hoy.AddDate(0, 0, FechaTramiteDiasFuturoMaximo), relojPruebas)
	assert.NoError(t, err)

	_, err = NuevaFechaTramite(hoy.AddDate(0, 0, FechaTramiteDiasFuturoMaximo+1), relojPruebas)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))

	_, err = NuevaFechaTramite(hoy.AddDate(0, 0, -FechaTramiteDiasPasadoMaximo), relojPruebas)
	assert.NoError(t, err)

	_, err = NuevaFechaTramite(hoy.AddDate(0, 0, -FechaTramiteDiasPasadoMaximo-1), relojPruebas)
	assert.Error(t, err)
}

func TestDiasEnProceso(t *testing.T) {
	assert.Equal(t, 5, DiasEnProceso(fecha(2024, time.March, 10), relojPruebas))
	assert.Equal(t, 5, DiasEnProceso(fecha(2024, time.March, 20), relojPruebas))
	assert.Zero(t, DiasEnProceso(relojPruebas.Hoy(), relojPruebas))
}

func TestFechaTramiteHoy(t *testing.T) {
	ft := FechaTramiteHoy(relojPruebas)
	assert.True(t, ft.EsDeHoy(relojPruebas))
	assert.False(t, ft.EsFutura(relojPruebas))
	assert.Zero(t, ft.DiasDesdeHoy(relojPruebas))
}

func TestFechaTramiteDesdeTexto(t *testing.T) {
	iso, err := FechaTramiteDesdeTexto("2024-03-10", relojPruebas)
	require.NoError(t, err)

	latino, err := FechaTramiteDesdeTexto("10/03/2024", relojPruebas)
	require.NoError(t, err)

	assert.Equal(t, iso.Fecha(), latino.Fecha())

	_, err = FechaTramiteDesdeTexto("10-03-2024", relojPruebas)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))
}

func TestCalcularVencimiento(t *testing.T) {
	ft, err := NuevaFechaTramite(fecha(2024, time.March, 1), relojPruebas)
	require.NoError(t, err)

	fv := CalcularVencimiento(ft)
	assert.Equal(t, fecha(2024, time.April, 30), fv.Fecha())
	assert.True(t, fv.EstaVigente(relojPruebas))
}

func TestNivelUrgencia(t *testing.T) {
	hoy := relojPruebas.Hoy()

	casos := []struct {
		nombre    string
		restantes int
		nivel     NivelUrgencia
	}{
		{"vencida ayer", -1, UrgenciaVencida},
		{"vence hoy", 0, UrgenciaCritica},
		{"en el umbral critico", 3, UrgenciaCritica},
		{"justo sobre el umbral critico", 4, UrgenciaAlerta},
		{"en el umbral de alerta", 7, UrgenciaAlerta},
		{"holgada", 8, UrgenciaNormal},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			fv := NuevaFechaVencimiento(hoy.AddDate(0, 0, c.restantes))
			assert.Equal(t, c.restantes, fv.DiasRestantes(relojPruebas))
			assert.Equal(t, c.nivel, fv.NivelUrgencia(relojPruebas))
		})
	}
}

func TestDescripcionEstado(t *testing.T) {
	hoy := relojPruebas.Hoy()

	assert.Equal(t, "Vencida hace 2 días", NuevaFechaVencimiento(hoy.AddDate(0, 0, -2)).DescripcionEstado(relojPruebas))
	assert.Equal(t, "Vence hoy", NuevaFechaVencimiento(hoy).DescripcionEstado(relojPruebas))
	assert.Equal(t, "Vence en 12 días", NuevaFechaVencimiento(hoy.AddDate(0, 0, 12)).DescripcionEstado(relojPruebas))
}
