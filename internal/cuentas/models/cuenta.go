package models

import (
	"time"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

// Cuenta es la raíz del agregado: la cuenta administrativa de un vehículo,
// identificada por su placa. Garantiza que nunca haya más de un proceso
// activo (traslado o radicación), que la lógica origen/destino se respete y
// que toda operación quede en el historial de asignaciones.
//
// Los comandos son todo-o-nada: primero se valida la precondición y se
// construye la entrada de historial; solo si ambas cosas funcionan se muta
// el estado, se anexa el historial y se acumula el evento.
type Cuenta struct {
	placa              domain.Placa
	numeroCuenta       domain.NumeroCuenta
	tipoServicio       TipoServicio
	fechaCreacion      domain.FechaCreacion
	funcionarioCreador string

	estado              EstadoCuenta
	tipoProcesoAnterior TipoProcesoAnterior
	trasladoActivo      bool
	radicacionActiva    bool
	historial           []HistorialAsignacion

	eventos []EventoDominio
	reloj   domain.Reloj
}

// NuevaCuenta crea una cuenta nueva en estado activo, siembra la asignación
// inicial de creación y acumula el evento CuentaCreada.
func NuevaCuenta(placa domain.Placa, numeroCuenta domain.NumeroCuenta, tipoServicio TipoServicio,
	funcionarioCreador string, reloj domain.Reloj) (*Cuenta, error) {

	creador := domain.NormalizarFuncionario(funcionarioCreador)
	if creador == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario creador no puede estar vacío")
	}
	if !tipoServicio.EsValido() {
		return nil, domainerrors.Newf(domainerrors.CodeValidation, "Tipo de servicio inválido: %s", tipoServicio)
	}

	fechaCreacion := domain.FechaCreacionHoy(reloj)
	inicial, err := AsignacionInicial(creador, fechaCreacion.Fecha(), reloj)
	if err != nil {
		return nil, err
	}

	c := &Cuenta{
		placa:               placa,
		numeroCuenta:        numeroCuenta,
		tipoServicio:        tipoServicio,
		fechaCreacion:       fechaCreacion,
		funcionarioCreador:  creador,
		estado:              CuentaActiva,
		tipoProcesoAnterior: ProcesoAnteriorNinguno,
		historial:           []HistorialAsignacion{inicial},
		reloj:               reloj,
	}
	c.acumular(CuentaCreada{
		EventoBase:         nuevoEventoBase(placa.Valor(), reloj),
		Placa:              placa.Valor(),
		NumeroCuenta:       numeroCuenta.Valor(),
		TipoServicio:       tipoServicio.String(),
		FuncionarioCreador: creador,
	})
	return c, nil
}

// CuentaSnapshot es la vista plana de la cuenta para persistencia.
type CuentaSnapshot struct {
	Placa               string
	NumeroCuenta        string
	TipoServicio        TipoServicio
	Estado              EstadoCuenta
	FechaCreacion       time.Time
	FuncionarioCreador  string
	TipoProcesoAnterior TipoProcesoAnterior
	TrasladoActivo      bool
	RadicacionActiva    bool
	Historial           []HistorialAsignacion
}

// CuentaDesdeRepositorio reconstruye una cuenta persistida. Revalida los
// value objects y la coherencia estado/procesos; no genera eventos.
func CuentaDesdeRepositorio(snap CuentaSnapshot, reloj domain.Reloj) (*Cuenta, error) {
	placa, err := domain.NuevaPlaca(snap.Placa)
	if err != nil {
		return nil, err
	}
	numero, err := domain.NuevoNumeroCuenta(snap.NumeroCuenta, reloj)
	if err != nil {
		return nil, err
	}
	fechaCreacion, err := domain.NuevaFechaCreacion(snap.FechaCreacion, reloj)
	if err != nil {
		return nil, err
	}
	creador := domain.NormalizarFuncionario(snap.FuncionarioCreador)
	if creador == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario creador no puede estar vacío")
	}
	if !snap.TipoServicio.EsValido() {
		return nil, domainerrors.Newf(domainerrors.CodeValidation, "Tipo de servicio inválido: %s", snap.TipoServicio)
	}

	c := &Cuenta{
		placa:               placa,
		numeroCuenta:        numero,
		tipoServicio:        snap.TipoServicio,
		fechaCreacion:       fechaCreacion,
		funcionarioCreador:  creador,
		estado:              snap.Estado,
		tipoProcesoAnterior: snap.TipoProcesoAnterior,
		trasladoActivo:      snap.TrasladoActivo,
		radicacionActiva:    snap.RadicacionActiva,
		historial:           append([]HistorialAsignacion(nil), snap.Historial...),
		reloj:               reloj,
	}
	if c.tipoProcesoAnterior == "" {
		c.tipoProcesoAnterior = ProcesoAnteriorNinguno
	}
	if err := c.validarCoherencia(); err != nil {
		return nil, err
	}
	return c, nil
}

// Snapshot devuelve la vista plana de la cuenta para persistencia.
func (c *Cuenta) Snapshot() CuentaSnapshot {
	return CuentaSnapshot{
		Placa:               c.placa.Valor(),
		NumeroCuenta:        c.numeroCuenta.Valor(),
		TipoServicio:        c.tipoServicio,
		Estado:              c.estado,
		FechaCreacion:       c.fechaCreacion.Fecha(),
		FuncionarioCreador:  c.funcionarioCreador,
		TipoProcesoAnterior: c.tipoProcesoAnterior,
		TrasladoActivo:      c.trasladoActivo,
		RadicacionActiva:    c.radicacionActiva,
		Historial:           append([]HistorialAsignacion(nil), c.historial...),
	}
}

func (c *Cuenta) validarCoherencia() error {
	if c.estado == CuentaEnTraslado && !c.trasladoActivo {
		return domainerrors.New(domainerrors.CodeInvariantViolation,
			"Estado EN_TRASLADO requiere proceso de traslado activo")
	}
	if c.estado == CuentaEnRadicacion && !c.radicacionActiva {
		return domainerrors.New(domainerrors.CodeInvariantViolation,
			"Estado EN_RADICACION requiere proceso de radicación activo")
	}
	if c.trasladoActivo && c.radicacionActiva {
		return domainerrors.New(domainerrors.CodeInvariantViolation,
			"No puede tener ambos procesos activos simultáneamente")
	}
	if (c.estado == CuentaActiva || c.estado == CuentaInactiva) && (c.trasladoActivo || c.radicacionActiva) {
		return domainerrors.New(domainerrors.CodeInvariantViolation,
			"Estado ACTIVA/INACTIVA no debe tener procesos activos")
	}
	return nil
}

func (c *Cuenta) acumular(evento EventoDominio) {
	c.eventos = append(c.eventos, evento)
}

// DrenarEventos devuelve los eventos pendientes y vacía el buffer. Cada
// evento se entrega una sola vez.
func (c *Cuenta) DrenarEventos() []EventoDominio {
	eventos := c.eventos
	c.eventos = nil
	return eventos
}

// Consultas.

func (c *Cuenta) Placa() domain.Placa               { return c.placa }
func (c *Cuenta) NumeroCuenta() domain.NumeroCuenta { return c.numeroCuenta }
func (c *Cuenta) TipoServicio() TipoServicio        { return c.tipoServicio }
func (c *Cuenta) FechaCreacion() domain.FechaCreacion { return c.fechaCreacion }
func (c *Cuenta) FuncionarioCreador() string        { return c.funcionarioCreador }
func (c *Cuenta) Estado() EstadoCuenta              { return c.estado }

func (c *Cuenta) TipoProcesoAnterior() TipoProcesoAnterior { return c.tipoProcesoAnterior }
func (c *Cuenta) TieneTrasladoActivo() bool                { return c.trasladoActivo }
func (c *Cuenta) TieneRadicacionActiva() bool              { return c.radicacionActiva }
func (c *Cuenta) TieneProcesoActivo() bool                 { return c.trasladoActivo || c.radicacionActiva }
func (c *Cuenta) EstaActiva() bool                         { return c.estado == CuentaActiva }
func (c *Cuenta) EstaInactiva() bool                       { return c.estado == CuentaInactiva }

// Historial devuelve una copia del historial de asignaciones, en orden
// cronológico de registro.
func (c *Cuenta) Historial() []HistorialAsignacion {
	return append([]HistorialAsignacion(nil), c.historial...)
}

// FuncionarioActual devuelve el funcionario de la última asignación.
func (c *Cuenta) FuncionarioActual() string {
	if len(c.historial) == 0 {
		return c.funcionarioCreador
	}
	return c.historial[len(c.historial)-1].FuncionarioID
}

// FechaUltimaAsignacion devuelve la fecha de la última entrada del historial.
func (c *Cuenta) FechaUltimaAsignacion() time.Time {
	if len(c.historial) == 0 {
		return c.fechaCreacion.Fecha()
	}
	return c.historial[len(c.historial)-1].FechaAsignacion
}

// TipoVehiculo deduce el tipo de vehículo de la placa.
func (c *Cuenta) TipoVehiculo() domain.TipoVehiculo { return c.placa.TipoVehiculo() }

// EdadDias devuelve la edad de la cuenta en días.
func (c *Cuenta) EdadDias() int { return c.fechaCreacion.DiasDesdeCreacion(c.reloj) }

// AsignacionesPorTipo filtra el historial por tipo de asignación.
func (c *Cuenta) AsignacionesPorTipo(tipo TipoAsignacion) []HistorialAsignacion {
	var filtradas []HistorialAsignacion
	for _, h := range c.historial {
		if h.Tipo == tipo {
			filtradas = append(filtradas, h)
		}
	}
	return filtradas
}

// Lógica origen/destino.

// PuedeIniciarTraslado verifica si la cuenta puede actuar como origen.
func (c *Cuenta) PuedeIniciarTraslado() bool {
	if c.TieneProcesoActivo() || c.EstaInactiva() {
		return false
	}
	return c.tipoProcesoAnterior.PermiteTraslado()
}

// PuedeIniciarRadicacion verifica si la cuenta puede actuar como destino.
func (c *Cuenta) PuedeIniciarRadicacion() bool {
	if c.TieneProcesoActivo() || c.EstaInactiva() {
		return false
	}
	return c.tipoProcesoAnterior.PermiteRadicacion()
}

// RazonNoPuedeTrasladar explica por qué no puede iniciar traslado; devuelve
// cadena vacía cuando sí puede.
func (c *Cuenta) RazonNoPuedeTrasladar() string {
	if c.PuedeIniciarTraslado() {
		return ""
	}
	if c.TieneProcesoActivo() {
		if c.trasladoActivo {
			return "Ya tiene un proceso de traslado activo"
		}
		return "Ya tiene un proceso de radicación activo"
	}
	if c.EstaInactiva() {
		return "La cuenta está inactiva"
	}
	if !c.tipoProcesoAnterior.PermiteTraslado() {
		if c.tipoProcesoAnterior == ProcesoAnteriorTrasladoCompletado {
			return "Esta placa ya fue enviada a otro organismo, solo puede recibir radicaciones"
		}
		return "Proceso anterior (" + c.tipoProcesoAnterior.Descripcion() + ") no permite traslados"
	}
	return "No se puede determinar la razón"
}

// RazonNoPuedeRadicar explica por qué no puede iniciar radicación; devuelve
// cadena vacía cuando sí puede.
func (c *Cuenta) RazonNoPuedeRadicar() string {
	if c.PuedeIniciarRadicacion() {
		return ""
	}
	if c.TieneProcesoActivo() {
		if c.radicacionActiva {
			return "Ya tiene un proceso de radicación activo"
		}
		return "Ya tiene un proceso de traslado activo"
	}
	if c.EstaInactiva() {
		return "La cuenta está inactiva"
	}
	if !c.tipoProcesoAnterior.PermiteRadicacion() {
		if c.tipoProcesoAnterior == ProcesoAnteriorRadicacionCompletada {
			return "Esta placa ya llegó de otro organismo, solo puede enviar traslados"
		}
		return "Proceso anterior (" + c.tipoProcesoAnterior.Descripcion() + ") no permite radicaciones"
	}
	return "No se puede determinar la razón"
}

// ProcesosPermitidos lista los procesos que la cuenta puede iniciar.
func (c *Cuenta) ProcesosPermitidos() []string {
	var procesos []string
	if c.PuedeIniciarTraslado() {
		procesos = append(procesos, "traslado")
	}
	if c.PuedeIniciarRadicacion() {
		procesos = append(procesos, "radicacion")
	}
	return procesos
}

// Comandos.

// IniciarTraslado marca la cuenta en traslado.
func (c *Cuenta) IniciarTraslado(funcionarioID string) error {
	if !c.PuedeIniciarTraslado() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede iniciar traslado: %s", c.RazonNoPuedeTrasladar())
	}
	asignacion, err := CambioPorProceso(funcionarioID, "traslado", "inicio", "", c.reloj)
	if err != nil {
		return err
	}

	c.trasladoActivo = true
	c.estado = CuentaEnTraslado
	c.historial = append(c.historial, asignacion)
	c.acumular(ProcesoIniciado{
		EventoBase:   nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:        c.placa.Valor(),
		TipoProceso:  "traslado",
		Funcionario:  asignacion.FuncionarioID,
		NumeroCuenta: c.numeroCuenta.Valor(),
	})
	return nil
}

// IniciarRadicacion marca la cuenta en radicación.
func (c *Cuenta) IniciarRadicacion(funcionarioID string) error {
	if !c.PuedeIniciarRadicacion() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede iniciar radicación: %s", c.RazonNoPuedeRadicar())
	}
	asignacion, err := CambioPorProceso(funcionarioID, "radicacion", "inicio", "", c.reloj)
	if err != nil {
		return err
	}

	c.radicacionActiva = true
	c.estado = CuentaEnRadicacion
	c.historial = append(c.historial, asignacion)
	c.acumular(ProcesoIniciado{
		EventoBase:   nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:        c.placa.Valor(),
		TipoProceso:  "radicacion",
		Funcionario:  asignacion.FuncionarioID,
		NumeroCuenta: c.numeroCuenta.Valor(),
	})
	return nil
}

// CompletarTraslado cierra el traslado activo: la cuenta vuelve a activa y
// queda marcada como enviada (solo podrá recibir radicaciones).
func (c *Cuenta) CompletarTraslado(funcionarioID string) error {
	if !c.trasladoActivo {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No hay proceso de traslado activo para completar")
	}
	asignacion, err := CambioPorProceso(funcionarioID, "traslado", "completar", "", c.reloj)
	if err != nil {
		return err
	}

	c.trasladoActivo = false
	c.tipoProcesoAnterior = ProcesoAnteriorTrasladoCompletado
	c.estado = CuentaActiva
	c.historial = append(c.historial, asignacion)
	c.acumular(ProcesoCompletado{
		EventoBase:   nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:        c.placa.Valor(),
		TipoProceso:  "traslado",
		Funcionario:  asignacion.FuncionarioID,
		NumeroCuenta: c.numeroCuenta.Valor(),
		Resultado:    "completado",
	})
	return nil
}

// CompletarRadicacion cierra la radicación activa: la cuenta vuelve a activa
// y queda marcada como recibida (solo podrá enviar traslados).
func (c *Cuenta) CompletarRadicacion(funcionarioID string) error {
	if !c.radicacionActiva {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No hay proceso de radicación activo para completar")
	}
	asignacion, err := CambioPorProceso(funcionarioID, "radicacion", "completar", "", c.reloj)
	if err != nil {
		return err
	}

	c.radicacionActiva = false
	c.tipoProcesoAnterior = ProcesoAnteriorRadicacionCompletada
	c.estado = CuentaActiva
	c.historial = append(c.historial, asignacion)
	c.acumular(ProcesoCompletado{
		EventoBase:   nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:        c.placa.Valor(),
		TipoProceso:  "radicacion",
		Funcionario:  asignacion.FuncionarioID,
		NumeroCuenta: c.numeroCuenta.Valor(),
		Resultado:    "completado",
	})
	return nil
}

// DevolverTraslado cancela administrativamente el traslado activo. La
// devolución levanta las restricciones origen/destino.
func (c *Cuenta) DevolverTraslado(funcionarioID, motivo string) error {
	if !c.trasladoActivo {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No hay proceso de traslado activo para devolver")
	}
	asignacion, err := CambioPorProceso(funcionarioID, "traslado", "devolver", motivo, c.reloj)
	if err != nil {
		return err
	}

	c.trasladoActivo = false
	c.tipoProcesoAnterior = ProcesoAnteriorTrasladoDevuelto
	c.estado = CuentaActiva
	c.historial = append(c.historial, asignacion)
	c.acumular(ProcesoCompletado{
		EventoBase:       nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:            c.placa.Valor(),
		TipoProceso:      "traslado",
		Funcionario:      asignacion.FuncionarioID,
		NumeroCuenta:     c.numeroCuenta.Valor(),
		Resultado:        "devuelto",
		MotivoDevolucion: motivo,
	})
	return nil
}

// DevolverRadicacion cancela administrativamente la radicación activa. La
// devolución levanta las restricciones origen/destino.
func (c *Cuenta) DevolverRadicacion(funcionarioID, motivo string) error {
	if !c.radicacionActiva {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No hay proceso de radicación activo para devolver")
	}
	asignacion, err := CambioPorProceso(funcionarioID, "radicacion", "devolver", motivo, c.reloj)
	if err != nil {
		return err
	}

	c.radicacionActiva = false
	c.tipoProcesoAnterior = ProcesoAnteriorRadicacionDevuelta
	c.estado = CuentaActiva
	c.historial = append(c.historial, asignacion)
	c.acumular(ProcesoCompletado{
		EventoBase:       nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:            c.placa.Valor(),
		TipoProceso:      "radicacion",
		Funcionario:      asignacion.FuncionarioID,
		NumeroCuenta:     c.numeroCuenta.Valor(),
		Resultado:        "devuelto",
		MotivoDevolucion: motivo,
	})
	return nil
}

// Inactivar pone la cuenta fuera de operación. Requiere que no haya
// procesos activos.
func (c *Cuenta) Inactivar(funcionarioID, motivo string) error {
	if c.TieneProcesoActivo() {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No se puede inactivar una cuenta con procesos activos")
	}
	asignacion, err := AsignacionInactivacionDe(funcionarioID, motivo, c.reloj)
	if err != nil {
		return err
	}

	c.estado = CuentaInactiva
	c.historial = append(c.historial, asignacion)
	c.acumular(CuentaInactivada{
		EventoBase:  nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:       c.placa.Valor(),
		Funcionario: asignacion.FuncionarioID,
		Motivo:      motivo,
	})
	return nil
}

// Reactivar devuelve a activa una cuenta inactiva.
func (c *Cuenta) Reactivar(funcionarioID string) error {
	if c.estado != CuentaInactiva {
		return domainerrors.New(domainerrors.CodePrecondition,
			"Solo se pueden reactivar cuentas inactivas")
	}
	asignacion, err := AsignacionReactivacionDe(funcionarioID, c.reloj)
	if err != nil {
		return err
	}

	c.estado = CuentaActiva
	c.historial = append(c.historial, asignacion)
	c.acumular(CuentaReactivada{
		EventoBase:  nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:       c.placa.Valor(),
		Funcionario: asignacion.FuncionarioID,
	})
	return nil
}

// Reasignar asigna la cuenta a otro funcionario. Rechaza reasignar al
// funcionario ya asignado.
func (c *Cuenta) Reasignar(nuevoFuncionarioID, funcionarioAutoriza, motivo, observaciones string) error {
	anterior := c.FuncionarioActual()
	if domain.NormalizarFuncionario(nuevoFuncionarioID) == anterior {
		return domainerrors.New(domainerrors.CodePrecondition,
			"El funcionario ya está asignado a esta cuenta")
	}
	asignacion, err := ReasignacionManual(nuevoFuncionarioID, funcionarioAutoriza, motivo, observaciones, c.reloj)
	if err != nil {
		return err
	}

	c.historial = append(c.historial, asignacion)
	c.acumular(CuentaReasignada{
		EventoBase:          nuevoEventoBase(c.placa.Valor(), c.reloj),
		Placa:               c.placa.Valor(),
		FuncionarioAnterior: anterior,
		FuncionarioNuevo:    asignacion.FuncionarioID,
		FuncionarioAutoriza: asignacion.FuncionarioAsigna,
		Motivo:              asignacion.Motivo,
	})
	return nil
}
