package reportes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traslados/internal/procesos"
	procmodels "traslados/internal/procesos/models"
	"traslados/pkg/domain"
)

var relojPruebas = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))

type almacenes struct {
	traslados    *procesos.InMemoryTrasladoStore
	radicaciones *procesos.InMemoryRadicacionStore
}

func nuevosAlmacenes(t *testing.T) (*Service, almacenes) {
	t.Helper()
	a := almacenes{
		traslados:    procesos.NewInMemoryTrasladoStore(),
		radicaciones: procesos.NewInMemoryRadicacionStore(),
	}
	return NewService(a.traslados, a.radicaciones, zap.NewNop(), relojPruebas), a
}

func (a almacenes) traslado(t *testing.T, placa string, estado procmodels.EstadoTraslado, vencimiento time.Time) {
	t.Helper()
	p, err := domain.NuevaPlaca(placa)
	require.NoError(t, err)
	destino, ok := domain.UbicacionPorCodigo("MEDELLIN")
	require.True(t, ok)
	traslado, err := procmodels.NuevoTraslado(p, destino, domain.FechaTramiteHoy(relojPruebas), "perez", "", relojPruebas)
	require.NoError(t, err)

	snap := traslado.Snapshot()
	snap.Estado = estado
	snap.FechaVencimiento = vencimiento
	require.NoError(t, a.traslados.Guardar(context.Background(), snap))
}

func (a almacenes) radicacion(t *testing.T, placa string, vencimiento time.Time) {
	t.Helper()
	p, err := domain.NuevaPlaca(placa)
	require.NoError(t, err)
	origen, ok := domain.UbicacionPorCodigo("SOGAMOSO")
	require.True(t, ok)
	radicacion, err := procmodels.NuevaRadicacion(p, origen, domain.FechaTramiteHoy(relojPruebas), "gomez", "", relojPruebas)
	require.NoError(t, err)

	snap := radicacion.Snapshot()
	snap.FechaVencimiento = vencimiento
	require.NoError(t, a.radicaciones.Guardar(context.Background(), snap))
}

func TestVencimientosPorNivel(t *testing.T) {
	svc, a := nuevosAlmacenes(t)
	hoy := relojPruebas.Hoy()

	a.traslado(t, "AAA111", procmodels.TrasladoEnviado, hoy.AddDate(0, 0, -2))
	a.traslado(t, "BBB222", procmodels.TrasladoRevisado, hoy.AddDate(0, 0, 2))
	a.traslado(t, "CCC333", procmodels.TrasladoTrasladado, hoy.AddDate(0, 0, -10))
	a.radicacion(t, "DDD444", hoy.AddDate(0, 0, 5))
	a.radicacion(t, "EEE555", hoy.AddDate(0, 0, 30))

	reporte, err := svc.VencimientosPorNivel(context.Background())
	require.NoError(t, err)

	// El traslado ya completado no entra al reporte.
	assert.Equal(t, 4, reporte.Total())

	require.Len(t, reporte.Vencidos, 1)
	assert.Equal(t, "AAA111", reporte.Vencidos[0].Placa)
	assert.Equal(t, -2, reporte.Vencidos[0].DiasRestantes)
	assert.Equal(t, domain.UrgenciaVencida, reporte.Vencidos[0].Nivel)

	require.Len(t, reporte.Criticos, 1)
	assert.Equal(t, "BBB222", reporte.Criticos[0].Placa)
	assert.Equal(t, procesos.TipoTraslado, reporte.Criticos[0].TipoProceso)
	assert.Equal(t, "Medellin", reporte.Criticos[0].Organismo)

	require.Len(t, reporte.EnAlerta, 1)
	assert.Equal(t, "DDD444", reporte.EnAlerta[0].Placa)
	assert.Equal(t, procesos.TipoRadicacion, reporte.EnAlerta[0].TipoProceso)

	require.Len(t, reporte.Normales, 1)
	assert.Equal(t, "EEE555", reporte.Normales[0].Placa)
}

func TestVencimientosReporteVacio(t *testing.T) {
	svc, _ := nuevosAlmacenes(t)

	reporte, err := svc.VencimientosPorNivel(context.Background())
	require.NoError(t, err)
	assert.Zero(t, reporte.Total())
}

func TestProximosAVencer(t *testing.T) {
	svc, a := nuevosAlmacenes(t)
	hoy := relojPruebas.Hoy()

	a.traslado(t, "AAA111", procmodels.TrasladoEnviado, hoy.AddDate(0, 0, -1))
	a.traslado(t, "BBB222", procmodels.TrasladoRevisado, hoy.AddDate(0, 0, 6))
	a.radicacion(t, "DDD444", hoy.AddDate(0, 0, 20))

	proximos, err := svc.ProximosAVencer(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, proximos, 2)
	assert.Equal(t, "AAA111", proximos[0].Placa, "los más urgentes van primero")
	assert.Equal(t, "BBB222", proximos[1].Placa)
}
