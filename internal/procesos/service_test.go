package procesos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traslados/internal/cuentas"
	cuentasmodels "traslados/internal/cuentas/models"
	"traslados/internal/platform/metrics"
	"traslados/internal/platform/secuencias"
	"traslados/internal/procesos/models"
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
	cuentas  *cuentas.Service
	procesos *Service
}

func nuevoEntorno(t *testing.T) entornoPruebas {
	t.Helper()
	logger := zap.NewNop()
	cuentasSvc := cuentas.NewService(cuentas.NewInMemoryStore(), outbox.NewInMemoryStore(),
		secuencias.NewMemoriaAsignador(), txpkg.NoopRunner{}, metricasPruebas, logger, relojServicio)
	procesosSvc := NewService(NewInMemoryTrasladoStore(), NewInMemoryRadicacionStore(),
		cuentasSvc, metricasPruebas, logger, relojServicio)
	return entornoPruebas{cuentas: cuentasSvc, procesos: procesosSvc}
}

func (e entornoPruebas) crearCuenta(t *testing.T, placa string) {
	t.Helper()
	_, err := e.cuentas.CrearCuenta(context.Background(), placa, "particular", "perez")
	require.NoError(t, err)
}

func TestIniciarTraslado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.crearCuenta(t, "ABC123")

	snap, err := e.procesos.IniciarTraslado(ctx, "ABC123", Organismo{Codigo: "MEDELLIN"},
		"2024-03-10", "gomez", "expediente completo")
	require.NoError(t, err)
	assert.Equal(t, models.TrasladoEnviado, snap.Estado)
	assert.Equal(t, "MEDELLIN", snap.OrganismoDestino.Codigo())
	assert.Equal(t, "Secretaría de Movilidad de Medellín", snap.OrganismoDestino.NombreCompleto())

	// La cuenta queda en traslado en la misma operación.
	cuenta, err := e.cuentas.PorPlaca(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, cuentasmodels.CuentaEnTraslado, cuenta.Estado)

	_, err = e.procesos.IniciarRadicacion(ctx, "ABC123", Organismo{Codigo: "SOGAMOSO"},
		"2024-03-10", "gomez", "")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodePrecondition, domainerrors.CodeOf(err))
}

func TestIniciarTrasladoOrganismoFueraDeCatalogo(t *testing.T) {
	e := nuevoEntorno(t)
	e.crearCuenta(t, "ABC123")

	snap, err := e.procesos.IniciarTraslado(context.Background(), "ABC123",
		Organismo{Codigo: "CHIA", Municipio: "Chía", Departamento: "Cundinamarca"},
		"2024-03-10", "gomez", "")
	require.NoError(t, err)
	assert.Equal(t, "Organismo de Tránsito de Chía", snap.OrganismoDestino.NombreCompleto())
}

func TestIniciarTrasladoSinCuenta(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.procesos.IniciarTraslado(context.Background(), "ZZZ999",
		Organismo{Codigo: "MEDELLIN"}, "2024-03-10", "gomez", "")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}

func TestCompletarTrasladoCierraCuentaComoOrigen(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.crearCuenta(t, "ABC123")

	_, err := e.procesos.IniciarTraslado(ctx, "ABC123", Organismo{Codigo: "MEDELLIN"},
		"2024-03-10", "gomez", "")
	require.NoError(t, err)

	_, err = e.procesos.CompletarTraslado(ctx, "ABC123", "gomez", "")
	require.Error(t, err, "debe revisarse antes de completar")

	_, err = e.procesos.MarcarTrasladoRevisado(ctx, "ABC123", "gomez")
	require.NoError(t, err)

	snap, err := e.procesos.CompletarTraslado(ctx, "ABC123", "gomez", "todo en orden")
	require.NoError(t, err)
	assert.Equal(t, models.TrasladoTrasladado, snap.Estado)

	permitidos, err := e.cuentas.ProcesosPermitidos(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, []string{"radicacion"}, permitidos)
}

func TestDevolverTrasladoRequiereAdmin(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.crearCuenta(t, "ABC123")

	_, err := e.procesos.IniciarTraslado(ctx, "ABC123", Organismo{Codigo: "MEDELLIN"},
		"2024-03-10", "gomez", "")
	require.NoError(t, err)

	_, err = e.procesos.DevolverTraslado(ctx, "ABC123", "gomez", "no corresponde", false)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodePrecondition, domainerrors.CodeOf(err))

	snap, err := e.procesos.DevolverTraslado(ctx, "ABC123", "admin", "no corresponde", true)
	require.NoError(t, err)
	assert.Equal(t, models.TrasladoDevuelto, snap.Estado)

	// La devolución levanta las restricciones origen/destino.
	permitidos, err := e.cuentas.ProcesosPermitidos(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, []string{"traslado", "radicacion"}, permitidos)
}

func TestFlujoDeRadicacion(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.crearCuenta(t, "XYZ789")

	snap, err := e.procesos.IniciarRadicacion(ctx, "XYZ789", Organismo{Codigo: "SOGAMOSO"},
		"15/03/2024", "gomez", "")
	require.NoError(t, err)
	assert.Equal(t, models.RadicacionPendiente, snap.Estado)

	snap, err = e.procesos.RecibirRadicacion(ctx, "XYZ789", "gomez")
	require.NoError(t, err)
	assert.Equal(t, models.RadicacionRecibida, snap.Estado)

	snap, err = e.procesos.MarcarRadicacionRevisada(ctx, "XYZ789", "gomez")
	require.NoError(t, err)

	snap, err = e.procesos.CompletarRadicacion(ctx, "XYZ789", "gomez", "radicada sin novedad")
	require.NoError(t, err)
	assert.Equal(t, models.RadicacionRadicada, snap.Estado)

	permitidos, err := e.cuentas.ProcesosPermitidos(ctx, "XYZ789")
	require.NoError(t, err)
	assert.Equal(t, []string{"traslado"}, permitidos)
}

func TestTrasladoPorPlacaNoExiste(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.procesos.TrasladoPorPlaca(context.Background(), "ABC123")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "No existe un traslado para la placa ABC123")
}

func TestActualizarObservacionesTraslado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.crearCuenta(t, "ABC123")

	_, err := e.procesos.IniciarTraslado(ctx, "ABC123", Organismo{Codigo: "MEDELLIN"},
		"2024-03-10", "gomez", "")
	require.NoError(t, err)

	snap, err := e.procesos.ActualizarObservacionesTraslado(ctx, "ABC123", "diaz", "se llamó al organismo")
	require.NoError(t, err)
	assert.Contains(t, snap.Observaciones, "[15/03/2024 10:30 - DIAZ] se llamó al organismo")
}
