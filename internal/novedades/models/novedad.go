package models

import (
	"fmt"
	"strings"
	"time"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

// Tipos de proceso en los que puede detectarse una novedad.
const (
	ProcesoTraslado   = "traslado"
	ProcesoRadicacion = "radicacion"
)

// Novedad es una irregularidad detectada durante un traslado o una
// radicación. Tiene identidad propia y su ciclo de vida va de pendiente a
// resuelta, con posibilidad de reapertura; al reabrir se limpian los datos
// de la resolución anterior.
type Novedad struct {
	identificador      IdentificadorNovedad
	placa              domain.Placa
	tipoNovedad        TipoNovedad
	descripcion        domain.DescripcionNovedad
	prioridad          PrioridadNovedad
	funcionarioReporta string
	fechaReporte       time.Time
	tipoProceso        string

	estado        EstadoNovedad
	observaciones domain.Observacion

	funcionarioResuelve   string
	fechaResolucion       time.Time
	descripcionResolucion string

	funcionarioActual        string
	fechaUltimaActualizacion time.Time

	reloj domain.Reloj
}

// NuevaNovedad crea una novedad pendiente reportada hoy.
func NuevaNovedad(placa domain.Placa, tipoNovedad TipoNovedad, descripcion domain.DescripcionNovedad,
	prioridad PrioridadNovedad, funcionarioReporta, tipoProceso string,
	consecutivo int, observacionesIniciales string, reloj domain.Reloj) (*Novedad, error) {

	reporta := domain.NormalizarFuncionario(funcionarioReporta)
	if reporta == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario que reporta no puede estar vacío")
	}
	proceso := strings.ToLower(strings.TrimSpace(tipoProceso))
	if proceso != ProcesoTraslado && proceso != ProcesoRadicacion {
		return nil, domainerrors.New(domainerrors.CodeValidation,
			"El tipo de proceso debe ser 'traslado' o 'radicacion'")
	}
	identificador, err := GenerarIdentificadorNovedad(reloj, consecutivo)
	if err != nil {
		return nil, err
	}

	observaciones := domain.ObservacionVacia()
	if observacionesIniciales != "" {
		observaciones, err = domain.ObservacionConTimestamp(observacionesIniciales, reporta, reloj)
		if err != nil {
			return nil, err
		}
	}

	return &Novedad{
		identificador:            identificador,
		placa:                    placa,
		tipoNovedad:              tipoNovedad,
		descripcion:              descripcion,
		prioridad:                prioridad,
		funcionarioReporta:       reporta,
		fechaReporte:             reloj.Hoy(),
		tipoProceso:              proceso,
		estado:                   NovedadPendiente,
		observaciones:            observaciones,
		funcionarioActual:        reporta,
		fechaUltimaActualizacion: reloj.Hoy(),
		reloj:                    reloj,
	}, nil
}

// NovedadSnapshot es la vista plana de la novedad para persistencia.
type NovedadSnapshot struct {
	Codigo                   string
	UUIDInterno              string
	Placa                    string
	TipoNovedad              TipoNovedad
	Descripcion              string
	Prioridad                PrioridadNovedad
	FuncionarioReporta       string
	FechaReporte             time.Time
	TipoProceso              string
	Estado                   EstadoNovedad
	Observaciones            string
	FuncionarioResuelve      string
	FechaResolucion          time.Time
	DescripcionResolucion    string
	FuncionarioActual        string
	FechaUltimaActualizacion time.Time
}

// NovedadDesdeRepositorio reconstruye una novedad persistida.
func NovedadDesdeRepositorio(snap NovedadSnapshot, reloj domain.Reloj) (*Novedad, error) {
	identificador, err := IdentificadorDesdeCodigo(snap.Codigo, snap.UUIDInterno)
	if err != nil {
		return nil, err
	}
	placa, err := domain.NuevaPlaca(snap.Placa)
	if err != nil {
		return nil, err
	}
	descripcion, err := domain.NuevaDescripcionNovedad(snap.Descripcion)
	if err != nil {
		return nil, err
	}
	observaciones, err := domain.NuevaObservacion(snap.Observaciones)
	if err != nil {
		return nil, err
	}
	reporta := domain.NormalizarFuncionario(snap.FuncionarioReporta)
	if reporta == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario que reporta no puede estar vacío")
	}
	proceso := strings.ToLower(strings.TrimSpace(snap.TipoProceso))
	if proceso != ProcesoTraslado && proceso != ProcesoRadicacion {
		return nil, domainerrors.New(domainerrors.CodeValidation,
			"El tipo de proceso debe ser 'traslado' o 'radicacion'")
	}
	fechaReporte := domain.TruncarFecha(snap.FechaReporte)
	if fechaReporte.After(reloj.Hoy()) {
		return nil, domainerrors.New(domainerrors.CodeValidation, "La fecha de reporte no puede ser futura")
	}
	fechaResolucion := time.Time{}
	if !snap.FechaResolucion.IsZero() {
		fechaResolucion = domain.TruncarFecha(snap.FechaResolucion)
		if fechaResolucion.Before(fechaReporte) {
			return nil, domainerrors.New(domainerrors.CodeInvariantViolation,
				"La fecha de resolución no puede ser anterior al reporte")
		}
	}

	actual := domain.NormalizarFuncionario(snap.FuncionarioActual)
	if actual == "" {
		actual = reporta
	}
	return &Novedad{
		identificador:            identificador,
		placa:                    placa,
		tipoNovedad:              snap.TipoNovedad,
		descripcion:              descripcion,
		prioridad:                snap.Prioridad,
		funcionarioReporta:       reporta,
		fechaReporte:             fechaReporte,
		tipoProceso:              proceso,
		estado:                   snap.Estado,
		observaciones:            observaciones,
		funcionarioResuelve:      domain.NormalizarFuncionario(snap.FuncionarioResuelve),
		fechaResolucion:          fechaResolucion,
		descripcionResolucion:    strings.TrimSpace(snap.DescripcionResolucion),
		funcionarioActual:        actual,
		fechaUltimaActualizacion: domain.TruncarFecha(snap.FechaUltimaActualizacion),
		reloj:                    reloj,
	}, nil
}

// Snapshot devuelve la vista plana de la novedad para persistencia.
func (n *Novedad) Snapshot() NovedadSnapshot {
	return NovedadSnapshot{
		Codigo:                   n.identificador.Codigo(),
		UUIDInterno:              n.identificador.UUIDInterno(),
		Placa:                    n.placa.Valor(),
		TipoNovedad:              n.tipoNovedad,
		Descripcion:              n.descripcion.Valor(),
		Prioridad:                n.prioridad,
		FuncionarioReporta:       n.funcionarioReporta,
		FechaReporte:             n.fechaReporte,
		TipoProceso:              n.tipoProceso,
		Estado:                   n.estado,
		Observaciones:            n.observaciones.Valor(),
		FuncionarioResuelve:      n.funcionarioResuelve,
		FechaResolucion:          n.fechaResolucion,
		DescripcionResolucion:    n.descripcionResolucion,
		FuncionarioActual:        n.funcionarioActual,
		FechaUltimaActualizacion: n.fechaUltimaActualizacion,
	}
}

// Consultas.

func (n *Novedad) Identificador() IdentificadorNovedad     { return n.identificador }
func (n *Novedad) Codigo() string                          { return n.identificador.Codigo() }
func (n *Novedad) Placa() domain.Placa                     { return n.placa }
func (n *Novedad) TipoNovedad() TipoNovedad                { return n.tipoNovedad }
func (n *Novedad) Descripcion() domain.DescripcionNovedad  { return n.descripcion }
func (n *Novedad) Prioridad() PrioridadNovedad             { return n.prioridad }
func (n *Novedad) FuncionarioReporta() string              { return n.funcionarioReporta }
func (n *Novedad) FechaReporte() time.Time                 { return n.fechaReporte }
func (n *Novedad) TipoProceso() string                     { return n.tipoProceso }
func (n *Novedad) Estado() EstadoNovedad                   { return n.estado }
func (n *Novedad) Observaciones() domain.Observacion       { return n.observaciones }
func (n *Novedad) FuncionarioResuelve() string             { return n.funcionarioResuelve }
func (n *Novedad) FechaResolucion() time.Time              { return n.fechaResolucion }
func (n *Novedad) DescripcionResolucion() string           { return n.descripcionResolucion }
func (n *Novedad) FechaUltimaActualizacion() time.Time     { return n.fechaUltimaActualizacion }

// FuncionarioResponsable devuelve quién tiene la novedad a cargo; si está
// resuelta, quien la resolvió.
func (n *Novedad) FuncionarioResponsable() string {
	if n.EstaResuelta() && n.funcionarioResuelve != "" {
		return n.funcionarioResuelve
	}
	if n.funcionarioActual != "" {
		return n.funcionarioActual
	}
	return n.funcionarioReporta
}

func (n *Novedad) DiasDesdeReporte() int {
	return domain.DiasEntre(n.fechaReporte, n.reloj.Hoy())
}

func (n *Novedad) DiasDesdeUltimaActualizacion() int {
	if !n.fechaUltimaActualizacion.IsZero() {
		return domain.DiasEntre(n.fechaUltimaActualizacion, n.reloj.Hoy())
	}
	return n.DiasDesdeReporte()
}

// TiempoResolucionDias devuelve los días que tomó resolver la novedad;
// -1 si aún no está resuelta.
func (n *Novedad) TiempoResolucionDias() int {
	if n.fechaResolucion.IsZero() {
		return -1
	}
	return domain.DiasEntre(n.fechaReporte, n.fechaResolucion)
}

func (n *Novedad) EstaPendiente() bool     { return n.estado == NovedadPendiente }
func (n *Novedad) EstaEnRevision() bool    { return n.estado == NovedadEnRevision }
func (n *Novedad) EstaResuelta() bool      { return n.estado == NovedadResuelta }
func (n *Novedad) EstaReabierta() bool     { return n.estado == NovedadReabierta }
func (n *Novedad) EstaEnEstadoFinal() bool { return n.estado.EsEstadoFinal() }
func (n *Novedad) EsCritica() bool         { return n.prioridad == PrioridadCritica }

// RequiereAtencionInmediata señala novedades que esperan acción y son de
// severidad alta o llevan más de tres días reportadas.
func (n *Novedad) RequiereAtencionInmediata() bool {
	return n.estado.RequiereAccion() && (n.prioridad.EsCriticaOAlta() || n.DiasDesdeReporte() > 3)
}

// EsAntigua señala novedades sin resolver de diasLimite días o más.
func (n *Novedad) EsAntigua(diasLimite int) bool {
	return !n.EstaResuelta() && n.DiasDesdeReporte() >= diasLimite
}

// Transiciones permitidas.

func (n *Novedad) PuedePasarARevision() bool { return n.estado.PuedeTransicionarA(NovedadEnRevision) }
func (n *Novedad) PuedeSerResuelta() bool    { return n.estado.PuedeTransicionarA(NovedadResuelta) }
func (n *Novedad) PuedeSerReabierta() bool   { return n.estado.PuedeTransicionarA(NovedadReabierta) }
func (n *Novedad) PuedeCambiarPrioridad() bool { return !n.EstaResuelta() }

// Comandos.

// TomarEnRevision asigna la novedad a un funcionario para revisarla.
func (n *Novedad) TomarEnRevision(funcionarioID string) error {
	if !n.PuedePasarARevision() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede pasar a revisión desde estado: %s", n.estado)
	}
	revisor := domain.NormalizarFuncionario(funcionarioID)
	observaciones, err := n.anexarConSello("Novedad tomada en revisión por "+revisor, funcionarioID)
	if err != nil {
		return err
	}
	n.estado = NovedadEnRevision
	n.funcionarioActual = revisor
	n.fechaUltimaActualizacion = n.reloj.Hoy()
	n.observaciones = observaciones
	return nil
}

// Resolver cierra la novedad registrando quién, cuándo y cómo.
func (n *Novedad) Resolver(funcionarioID, descripcionResolucion string) error {
	if !n.PuedeSerResuelta() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede resolver desde estado: %s", n.estado)
	}
	resolucion := strings.TrimSpace(descripcionResolucion)
	if resolucion == "" {
		return domainerrors.New(domainerrors.CodeValidation,
			"La descripción de resolución no puede estar vacía")
	}
	observaciones, err := n.anexarConSello("NOVEDAD RESUELTA: "+resolucion, funcionarioID)
	if err != nil {
		return err
	}
	resuelve := domain.NormalizarFuncionario(funcionarioID)
	n.estado = NovedadResuelta
	n.funcionarioResuelve = resuelve
	n.funcionarioActual = resuelve
	n.fechaResolucion = n.reloj.Hoy()
	n.fechaUltimaActualizacion = n.reloj.Hoy()
	n.descripcionResolucion = resolucion
	n.observaciones = observaciones
	return nil
}

// Reabrir reactiva una novedad resuelta y limpia la resolución anterior.
func (n *Novedad) Reabrir(funcionarioID, motivoReapertura string) error {
	if !n.PuedeSerReabierta() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede reabrir desde estado: %s", n.estado)
	}
	motivo := strings.TrimSpace(motivoReapertura)
	if motivo == "" {
		return domainerrors.New(domainerrors.CodeValidation,
			"El motivo de reapertura no puede estar vacío")
	}
	observaciones, err := n.anexarConSello("NOVEDAD REABIERTA: "+motivo, funcionarioID)
	if err != nil {
		return err
	}
	n.estado = NovedadReabierta
	n.funcionarioActual = domain.NormalizarFuncionario(funcionarioID)
	n.fechaUltimaActualizacion = n.reloj.Hoy()
	n.funcionarioResuelve = ""
	n.fechaResolucion = time.Time{}
	n.descripcionResolucion = ""
	n.observaciones = observaciones
	return nil
}

// CambiarPrioridad ajusta la severidad con justificación obligatoria.
func (n *Novedad) CambiarPrioridad(funcionarioID string, nueva PrioridadNovedad, justificacion string) error {
	if !n.PuedeCambiarPrioridad() {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No se puede cambiar la prioridad de una novedad resuelta")
	}
	if nueva == n.prioridad {
		return domainerrors.New(domainerrors.CodeValidation,
			"La nueva prioridad debe ser diferente a la actual")
	}
	if strings.TrimSpace(justificacion) == "" {
		return domainerrors.New(domainerrors.CodeValidation,
			"La justificación del cambio de prioridad no puede estar vacía")
	}
	anterior := n.prioridad
	observaciones, err := n.anexarConSello(fmt.Sprintf("PRIORIDAD CAMBIADA: De %s a %s. %s",
		strings.ToUpper(string(anterior)), strings.ToUpper(string(nueva)), justificacion), funcionarioID)
	if err != nil {
		return err
	}
	n.prioridad = nueva
	n.funcionarioActual = domain.NormalizarFuncionario(funcionarioID)
	n.fechaUltimaActualizacion = n.reloj.Hoy()
	n.observaciones = observaciones
	return nil
}

// ActualizarObservaciones anexa una observación sellada. Rechazado en una
// novedad resuelta.
func (n *Novedad) ActualizarObservaciones(funcionarioID, texto string) error {
	if n.EstaResuelta() {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No se pueden actualizar observaciones de una novedad resuelta")
	}
	observaciones, err := n.anexarConSello(texto, funcionarioID)
	if err != nil {
		return err
	}
	n.observaciones = observaciones
	n.fechaUltimaActualizacion = n.reloj.Hoy()
	return nil
}

// EsSimilarA compara placa, tipo y descripción con otra novedad.
func (n *Novedad) EsSimilarA(otra *Novedad) bool {
	return n.placa.Valor() == otra.placa.Valor() &&
		n.tipoNovedad == otra.tipoNovedad &&
		n.descripcion.ContienePalabraClave(otra.descripcion.Valor())
}

// ResumenEjecutivo devuelve la novedad en una línea para reportes.
func (n *Novedad) ResumenEjecutivo() string {
	tiempo := fmt.Sprintf("%d días", n.DiasDesdeReporte())
	if n.EstaResuelta() {
		tiempo = fmt.Sprintf("Resuelta en %d días", n.TiempoResolucionDias())
	}
	return fmt.Sprintf("%s | %s | %s | %s | %s",
		n.Codigo(), n.placa.Valor(), n.tipoNovedad.Display(),
		strings.ToUpper(string(n.prioridad)), tiempo)
}

func (n *Novedad) anexarConSello(texto, funcionarioID string) (domain.Observacion, error) {
	sellada, err := domain.ObservacionConTimestamp(texto, funcionarioID, n.reloj)
	if err != nil {
		return domain.Observacion{}, err
	}
	return domain.CombinarObservaciones(n.observaciones, sellada)
}
