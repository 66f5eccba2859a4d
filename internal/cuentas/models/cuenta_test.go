package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

var relojPruebas = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))

func cuentaDePrueba(t *testing.T) *Cuenta {
	t.Helper()
	placa, err := domain.NuevaPlaca("ABC123")
	require.NoError(t, err)
	numero, err := domain.GenerarNumeroCuenta(relojPruebas, 1)
	require.NoError(t, err)
	cuenta, err := NuevaCuenta(placa, numero, ServicioParticular, "perez", relojPruebas)
	require.NoError(t, err)
	return cuenta
}

func TestNuevaCuenta(t *testing.T) {
	cuenta := cuentaDePrueba(t)

	assert.Equal(t, CuentaActiva, cuenta.Estado())
	assert.Equal(t, ProcesoAnteriorNinguno, cuenta.TipoProcesoAnterior())
	assert.Equal(t, "PEREZ", cuenta.FuncionarioCreador())
	assert.Equal(t, "PEREZ", cuenta.FuncionarioActual())
	assert.Equal(t, domain.VehiculoCarro, cuenta.TipoVehiculo())
	assert.False(t, cuenta.TieneProcesoActivo())

	historial := cuenta.Historial()
	require.Len(t, historial, 1)
	assert.Equal(t, AsignacionCreacion, historial[0].Tipo)
	assert.True(t, historial[0].EsAsignacionInicial())

	eventos := cuenta.DrenarEventos()
	require.Len(t, eventos, 1)
	creada, ok := eventos[0].(CuentaCreada)
	require.True(t, ok)
	assert.Equal(t, "ABC123", creada.Placa)
	assert.Equal(t, "particular", creada.TipoServicio)
	assert.NotEmpty(t, creada.Base().EventID)

	assert.Empty(t, cuenta.DrenarEventos(), "los eventos se entregan una sola vez")
}

func TestNuevaCuentaInvalida(t *testing.T) {
	placa, err := domain.NuevaPlaca("ABC123")
	require.NoError(t, err)
	numero, err := domain.GenerarNumeroCuenta(relojPruebas, 1)
	require.NoError(t, err)

	_, err = NuevaCuenta(placa, numero, ServicioParticular, "  ", relojPruebas)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))

	_, err = NuevaCuenta(placa, numero, TipoServicio("diplomatico"), "PEREZ", relojPruebas)
	require.Error(t, err)
}

func TestCicloDeTraslado(t *testing.T) {
	cuenta := cuentaDePrueba(t)
	cuenta.DrenarEventos()

	require.NoError(t, cuenta.IniciarTraslado("gomez"))
	assert.Equal(t, CuentaEnTraslado, cuenta.Estado())
	assert.True(t, cuenta.TieneTrasladoActivo())
	assert.Equal(t, "GOMEZ", cuenta.FuncionarioActual())
	assert.False(t, cuenta.PuedeIniciarRadicacion())

	eventos := cuenta.DrenarEventos()
	require.Len(t, eventos, 1)
	iniciado, ok := eventos[0].(ProcesoIniciado)
	require.True(t, ok)
	assert.Equal(t, "traslado", iniciado.TipoProceso)

	require.NoError(t, cuenta.CompletarTraslado("gomez"))
	assert.Equal(t, CuentaActiva, cuenta.Estado())
	assert.False(t, cuenta.TieneProcesoActivo())
	assert.Equal(t, ProcesoAnteriorTrasladoCompletado, cuenta.TipoProcesoAnterior())

	// Enviada a otro organismo: solo puede recibir radicaciones.
	assert.False(t, cuenta.PuedeIniciarTraslado())
	assert.Contains(t, cuenta.RazonNoPuedeTrasladar(), "solo puede recibir radicaciones")
	assert.Equal(t, []string{"radicacion"}, cuenta.ProcesosPermitidos())
}

func TestCicloDeRadicacion(t *testing.T) {
	cuenta := cuentaDePrueba(t)

	require.NoError(t, cuenta.IniciarRadicacion("gomez"))
	assert.Equal(t, CuentaEnRadicacion, cuenta.Estado())
	assert.False(t, cuenta.PuedeIniciarTraslado())

	require.NoError(t, cuenta.CompletarRadicacion("gomez"))
	assert.Equal(t, ProcesoAnteriorRadicacionCompletada, cuenta.TipoProcesoAnterior())

	// Llegó de otro organismo: solo puede enviar traslados.
	assert.False(t, cuenta.PuedeIniciarRadicacion())
	assert.Contains(t, cuenta.RazonNoPuedeRadicar(), "solo puede enviar traslados")
	assert.Equal(t, []string{"traslado"}, cuenta.ProcesosPermitidos())
}

func TestDevolucionLevantaRestricciones(t *testing.T) {
	cuenta := cuentaDePrueba(t)

	require.NoError(t, cuenta.IniciarTraslado("gomez"))
	require.NoError(t, cuenta.DevolverTraslado("admin", "documentación incompleta"))

	assert.Equal(t, ProcesoAnteriorTrasladoDevuelto, cuenta.TipoProcesoAnterior())
	assert.Equal(t, CuentaActiva, cuenta.Estado())
	assert.Equal(t, []string{"traslado", "radicacion"}, cuenta.ProcesosPermitidos())

	eventos := cuenta.DrenarEventos()
	cierre, ok := eventos[len(eventos)-1].(ProcesoCompletado)
	require.True(t, ok)
	assert.Equal(t, "devuelto", cierre.Resultado)
	assert.Equal(t, "documentación incompleta", cierre.MotivoDevolucion)
}

func TestPrecondicionesDeProcesos(t *testing.T) {
	cuenta := cuentaDePrueba(t)

	err := cuenta.CompletarTraslado("gomez")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodePrecondition, domainerrors.CodeOf(err))

	require.NoError(t, cuenta.IniciarTraslado("gomez"))

	err = cuenta.IniciarTraslado("gomez")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ya tiene un proceso de traslado activo")

	err = cuenta.IniciarRadicacion("gomez")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ya tiene un proceso de traslado activo")

	err = cuenta.CompletarRadicacion("gomez")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodePrecondition, domainerrors.CodeOf(err))
}

func TestInactivarYReactivar(t *testing.T) {
	cuenta := cuentaDePrueba(t)

	require.NoError(t, cuenta.IniciarTraslado("gomez"))
	err := cuenta.Inactivar("admin", "placa duplicada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "procesos activos")

	require.NoError(t, cuenta.CompletarTraslado("gomez"))
	require.NoError(t, cuenta.Inactivar("admin", "placa duplicada"))
	assert.True(t, cuenta.EstaInactiva())
	assert.Empty(t, cuenta.ProcesosPermitidos())
	assert.Equal(t, "La cuenta está inactiva", cuenta.RazonNoPuedeRadicar())

	err = cuenta.Inactivar("admin", "otra vez")
	require.NoError(t, err, "inactivar es idempotente sobre el estado")

	require.NoError(t, cuenta.Reactivar("admin"))
	assert.True(t, cuenta.EstaActiva())

	err = cuenta.Reactivar("admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Solo se pueden reactivar cuentas inactivas")
}

func TestReasignar(t *testing.T) {
	cuenta := cuentaDePrueba(t)
	cuenta.DrenarEventos()

	err := cuenta.Reasignar("perez", "SUPERVISOR", "reasignacion", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya está asignado")

	require.NoError(t, cuenta.Reasignar("gomez", "supervisor", "reasignacion por vacaciones", "cubre hasta abril"))
	assert.Equal(t, "GOMEZ", cuenta.FuncionarioActual())

	historial := cuenta.Historial()
	ultima := historial[len(historial)-1]
	assert.Equal(t, AsignacionReasignacion, ultima.Tipo)
	assert.Equal(t, "SUPERVISOR", ultima.FuncionarioAsigna)
	assert.True(t, ultima.FueAsignadaPorSupervisor())

	eventos := cuenta.DrenarEventos()
	require.Len(t, eventos, 1)
	reasignada, ok := eventos[0].(CuentaReasignada)
	require.True(t, ok)
	assert.Equal(t, "PEREZ", reasignada.FuncionarioAnterior)
	assert.Equal(t, "GOMEZ", reasignada.FuncionarioNuevo)
}

func TestSnapshotIdaYVuelta(t *testing.T) {
	cuenta := cuentaDePrueba(t)
	require.NoError(t, cuenta.IniciarRadicacion("gomez"))

	snap := cuenta.Snapshot()
	reconstruida, err := CuentaDesdeRepositorio(snap, relojPruebas)
	require.NoError(t, err)

	assert.Equal(t, snap, reconstruida.Snapshot())
	assert.Empty(t, reconstruida.DrenarEventos(), "rehidratar no genera eventos")
	assert.Equal(t, "GOMEZ", reconstruida.FuncionarioActual())
}

func TestCuentaDesdeRepositorioIncoherente(t *testing.T) {
	base := cuentaDePrueba(t).Snapshot()

	enTraslado := base
	enTraslado.Estado = CuentaEnTraslado
	_, err := CuentaDesdeRepositorio(enTraslado, relojPruebas)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeInvariantViolation, domainerrors.CodeOf(err))

	ambos := base
	ambos.Estado = CuentaEnTraslado
	ambos.TrasladoActivo = true
	ambos.RadicacionActiva = true
	_, err = CuentaDesdeRepositorio(ambos, relojPruebas)
	require.Error(t, err)

	conProceso := base
	conProceso.TrasladoActivo = true
	_, err = CuentaDesdeRepositorio(conProceso, relojPruebas)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no debe tener procesos activos")
}
