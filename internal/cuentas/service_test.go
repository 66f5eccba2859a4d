package cuentas

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traslados/internal/cuentas/models"
	"traslados/internal/platform/metrics"
	"traslados/internal/platform/secuencias"
	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
	"traslados/pkg/platform/outbox"
	txpkg "traslados/pkg/platform/tx"
)

// promauto registra contra el registro global: una sola instancia por
// paquete de pruebas.
var metricasPruebas = metrics.New()

var relojServicio = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))

func servicioDePruebas(t *testing.T) (*Service, *outbox.InMemoryStore) {
	t.Helper()
	eventos := outbox.NewInMemoryStore()
	svc := NewService(NewInMemoryStore(), eventos, secuencias.NewMemoriaAsignador(),
		txpkg.NoopRunner{}, metricasPruebas, zap.NewNop(), relojServicio)
	return svc, eventos
}

func TestCrearCuenta(t *testing.T) {
	svc, eventos := servicioDePruebas(t)
	ctx := context.Background()

	snap, err := svc.CrearCuenta(ctx, "abc123", "particular", "perez")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", snap.Placa)
	assert.Equal(t, "2024031500001", snap.NumeroCuenta)
	assert.Equal(t, models.CuentaActiva, snap.Estado)

	// El consecutivo diario avanza por cuenta creada.
	otra, err := svc.CrearCuenta(ctx, "DEF456", "publico", "gomez")
	require.NoError(t, err)
	assert.Equal(t, "2024031500002", otra.NumeroCuenta)

	entradas := eventos.All()
	require.Len(t, entradas, 2)
	assert.Equal(t, "cuenta", entradas[0].AggregateType)
	assert.Equal(t, "ABC123", entradas[0].AggregateID)
	assert.Equal(t, models.EventoCuentaCreada, entradas[0].EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(entradas[0].Payload, &payload))
	assert.Equal(t, "ABC123", payload["placa"])
	assert.NotEmpty(t, payload["event_id"])
}

func TestCrearCuentaDuplicada(t *testing.T) {
	svc, _ := servicioDePruebas(t)
	ctx := context.Background()

	_, err := svc.CrearCuenta(ctx, "ABC123", "particular", "perez")
	require.NoError(t, err)

	_, err = svc.CrearCuenta(ctx, "abc123", "particular", "gomez")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeConflict, domainerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Ya existe una cuenta para la placa ABC123")
}

func TestCrearCuentaEntradaInvalida(t *testing.T) {
	svc, _ := servicioDePruebas(t)
	ctx := context.Background()

	_, err := svc.CrearCuenta(ctx, "123ABC", "particular", "perez")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))

	_, err = svc.CrearCuenta(ctx, "ABC123", "diplomatico", "perez")
	require.Error(t, err)
}

func TestPorPlacaNoExiste(t *testing.T) {
	svc, _ := servicioDePruebas(t)

	_, err := svc.PorPlaca(context.Background(), "ZZZ999")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "No existe una cuenta para la placa ZZZ999")
}

func TestReasignarCuenta(t *testing.T) {
	svc, eventos := servicioDePruebas(t)
	ctx := context.Background()

	_, err := svc.CrearCuenta(ctx, "ABC123", "particular", "perez")
	require.NoError(t, err)

	snap, err := svc.Reasignar(ctx, "ABC123", "gomez", "supervisor", "vacaciones del titular", "")
	require.NoError(t, err)
	ultima := snap.Historial[len(snap.Historial)-1]
	assert.Equal(t, "GOMEZ", ultima.FuncionarioID)
	assert.Equal(t, "SUPERVISOR", ultima.FuncionarioAsigna)

	entradas := eventos.All()
	assert.Equal(t, models.EventoCuentaReasignada, entradas[len(entradas)-1].EventType)

	_, err = svc.Reasignar(ctx, "ABC123", "gomez", "supervisor", "repetida", "")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodePrecondition, domainerrors.CodeOf(err))
}

func TestInactivarYReactivarCuenta(t *testing.T) {
	svc, _ := servicioDePruebas(t)
	ctx := context.Background()

	_, err := svc.CrearCuenta(ctx, "ABC123", "particular", "perez")
	require.NoError(t, err)

	snap, err := svc.Inactivar(ctx, "ABC123", "admin", "placa duplicada")
	require.NoError(t, err)
	assert.Equal(t, models.CuentaInactiva, snap.Estado)

	permitidos, err := svc.ProcesosPermitidos(ctx, "ABC123")
	require.NoError(t, err)
	assert.Empty(t, permitidos)

	snap, err = svc.Reactivar(ctx, "ABC123", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.CuentaActiva, snap.Estado)

	historial, err := svc.Historial(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, historial, 3)
}
