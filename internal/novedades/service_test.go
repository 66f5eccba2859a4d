package novedades

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traslados/internal/cuentas"
	"traslados/internal/novedades/models"
	"traslados/internal/platform/metrics"
	"traslados/internal/platform/secuencias"
	"traslados/internal/procesos"
	procmodels "traslados/internal/procesos/models"
	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
	"traslados/pkg/platform/outbox"
	txpkg "traslados/pkg/platform/tx"
)

// promauto registra contra el registro global: una sola instancia por
// paquete de pruebas.
var metricasPruebas = metrics.New()

var relojServicio = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))

type entornoPruebas struct {
	procesos  *procesos.Service
	novedades *Service
}

// nuevoEntorno deja la placa ABC123 con un traslado en revisión, listo para
// recibir novedades.
func nuevoEntorno(t *testing.T) entornoPruebas {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	cuentasSvc := cuentas.NewService(cuentas.NewInMemoryStore(), outbox.NewInMemoryStore(),
		secuencias.NewMemoriaAsignador(), txpkg.NoopRunner{}, metricasPruebas, logger, relojServicio)
	procesosSvc := procesos.NewService(procesos.NewInMemoryTrasladoStore(), procesos.NewInMemoryRadicacionStore(),
		cuentasSvc, metricasPruebas, logger, relojServicio)
	novedadesSvc := NewService(NewInMemoryStore(), procesosSvc, secuencias.NewMemoriaAsignador(),
		metricasPruebas, logger, relojServicio)

	_, err := cuentasSvc.CrearCuenta(ctx, "ABC123", "particular", "perez")
	require.NoError(t, err)
	_, err = procesosSvc.IniciarTraslado(ctx, "ABC123", procesos.Organismo{Codigo: "MEDELLIN"},
		"2024-03-10", "gomez", "")
	require.NoError(t, err)
	_, err = procesosSvc.MarcarTrasladoRevisado(ctx, "ABC123", "gomez")
	require.NoError(t, err)

	return entornoPruebas{procesos: procesosSvc, novedades: novedadesSvc}
}

func (e entornoPruebas) estadoTraslado(t *testing.T) procmodels.EstadoTraslado {
	t.Helper()
	snap, err := e.procesos.TrasladoPorPlaca(context.Background(), "ABC123")
	require.NoError(t, err)
	return snap.Estado
}

func TestReportarNovedad(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	snap, err := e.novedades.Reportar(ctx, "ABC123", "documento_faltante",
		"falta el certificado de tradición", "alta", "gomez", "traslado", "")
	require.NoError(t, err)

	assert.Equal(t, "NOV-20240315-0001", snap.Codigo)
	assert.Equal(t, models.NovedadPendiente, snap.Estado)
	assert.Equal(t, models.PrioridadAlta, snap.Prioridad)
	assert.Equal(t, "traslado", snap.TipoProceso)

	// El traslado queda bloqueado por la novedad.
	assert.Equal(t, procmodels.TrasladoConNovedades, e.estadoTraslado(t))
}

func TestReportarNovedadTipoProcesoInvalido(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.novedades.Reportar(context.Background(), "ABC123", "otro",
		"descripción suficientemente larga", "baja", "gomez", "matricula", "")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "'traslado' o 'radicacion'")
}

func TestReportarNovedadConTrasladoSinRevisar(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	// Con una novedad abierta el traslado sale de revisado y no admite otra.
	_, err := e.novedades.Reportar(ctx, "ABC123", "documento_faltante",
		"falta el certificado de tradición", "alta", "gomez", "traslado", "")
	require.NoError(t, err)

	_, err = e.novedades.Reportar(ctx, "ABC123", "firma_faltante",
		"falta la firma del propietario", "media", "gomez", "traslado", "")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodePrecondition, domainerrors.CodeOf(err))
}

func TestResolverLiberaElProceso(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	snap, err := e.novedades.Reportar(ctx, "ABC123", "documento_faltante",
		"falta el certificado de tradición", "alta", "gomez", "traslado", "")
	require.NoError(t, err)

	resuelta, err := e.novedades.Resolver(ctx, snap.Codigo, "diaz", "certificado aportado")
	require.NoError(t, err)
	assert.Equal(t, models.NovedadResuelta, resuelta.Estado)
	assert.Equal(t, "DIAZ", resuelta.FuncionarioResuelve)

	assert.Equal(t, procmodels.TrasladoRevisado, e.estadoTraslado(t))
}

func TestResolverConOtrasNovedadesAbiertas(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	primera, err := e.novedades.Reportar(ctx, "ABC123", "documento_faltante",
		"falta el certificado de tradición", "alta", "gomez", "traslado", "")
	require.NoError(t, err)
	_, err = e.novedades.Resolver(ctx, primera.Codigo, "diaz", "certificado aportado")
	require.NoError(t, err)

	segunda, err := e.novedades.Reportar(ctx, "ABC123", "firma_faltante",
		"falta la firma del propietario", "media", "gomez", "traslado", "")
	require.NoError(t, err)

	// Reabrir la primera deja dos novedades abiertas sobre el traslado.
	_, err = e.novedades.Reabrir(ctx, primera.Codigo, "diaz", "el certificado estaba vencido")
	require.NoError(t, err)
	assert.Equal(t, procmodels.TrasladoConNovedades, e.estadoTraslado(t))

	_, err = e.novedades.Resolver(ctx, segunda.Codigo, "diaz", "firma recibida")
	require.NoError(t, err)
	assert.Equal(t, procmodels.TrasladoConNovedades, e.estadoTraslado(t),
		"el proceso sigue bloqueado mientras quede una novedad abierta")

	_, err = e.novedades.Resolver(ctx, primera.Codigo, "diaz", "certificado vigente aportado")
	require.NoError(t, err)
	assert.Equal(t, procmodels.TrasladoRevisado, e.estadoTraslado(t))
}

func TestReabrirRetomaElProceso(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	snap, err := e.novedades.Reportar(ctx, "ABC123", "documento_faltante",
		"falta el certificado de tradición", "alta", "gomez", "traslado", "")
	require.NoError(t, err)
	_, err = e.novedades.Resolver(ctx, snap.Codigo, "diaz", "certificado aportado")
	require.NoError(t, err)
	require.Equal(t, procmodels.TrasladoRevisado, e.estadoTraslado(t))

	reabierta, err := e.novedades.Reabrir(ctx, snap.Codigo, "diaz", "el certificado estaba vencido")
	require.NoError(t, err)
	assert.Equal(t, models.NovedadReabierta, reabierta.Estado)
	assert.Empty(t, reabierta.DescripcionResolucion)

	assert.Equal(t, procmodels.TrasladoConNovedades, e.estadoTraslado(t))

	trasladoSnap, err := e.procesos.TrasladoPorPlaca(ctx, "ABC123")
	require.NoError(t, err)
	assert.Contains(t, trasladoSnap.Observaciones,
		"Novedad NOV-20240315-0001 reabierta: el certificado estaba vencido")
}

func TestComandosSobreNovedad(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	snap, err := e.novedades.Reportar(ctx, "ABC123", "documento_faltante",
		"falta el certificado de tradición", "media", "gomez", "traslado", "")
	require.NoError(t, err)

	enRevision, err := e.novedades.TomarEnRevision(ctx, snap.Codigo, "diaz")
	require.NoError(t, err)
	assert.Equal(t, models.NovedadEnRevision, enRevision.Estado)

	critica, err := e.novedades.CambiarPrioridad(ctx, snap.Codigo, "diaz", "critica", "bloquea el traslado")
	require.NoError(t, err)
	assert.Equal(t, models.PrioridadCritica, critica.Prioridad)

	conNota, err := e.novedades.ActualizarObservaciones(ctx, snap.Codigo, "diaz", "se contactó al propietario")
	require.NoError(t, err)
	assert.Contains(t, conNota.Observaciones, "se contactó al propietario")
}

func TestPorCodigoNoExiste(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.novedades.PorCodigo(context.Background(), "NOV-20240101-0001")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "No existe una novedad con código NOV-20240101-0001")
}
