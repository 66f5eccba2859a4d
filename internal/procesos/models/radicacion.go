package models

import (
	"time"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

// Radicacion es el proceso de recepción de una cuenta desde otro organismo.
// Frente al traslado tiene un paso adicional de recepción física del
// expediente antes de la revisión.
type Radicacion struct {
	placa            domain.Placa
	organismoOrigen  domain.Ubicacion
	fechaTramite     domain.FechaTramite
	fechaVencimiento domain.FechaVencimiento
	funcionarioRecibe string

	estado        EstadoRadicacion
	observaciones domain.Observacion

	funcionarioActual        string
	fechaUltimaActualizacion time.Time
	fueRecibida              bool

	reloj domain.Reloj
}

// NuevaRadicacion crea una radicación pendiente de recibir.
func NuevaRadicacion(placa domain.Placa, organismoOrigen domain.Ubicacion,
	fechaTramite domain.FechaTramite, funcionarioRecibe string,
	observacionesIniciales string, reloj domain.Reloj) (*Radicacion, error) {

	recibe := domain.NormalizarFuncionario(funcionarioRecibe)
	if recibe == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario que recibe no puede estar vacío")
	}
	if !organismoOrigen.EsValida() {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El organismo origen no puede estar vacío")
	}

	observaciones := domain.ObservacionVacia()
	if observacionesIniciales != "" {
		var err error
		observaciones, err = domain.ObservacionConTimestamp(observacionesIniciales, recibe, reloj)
		if err != nil {
			return nil, err
		}
	}

	return &Radicacion{
		placa:                    placa,
		organismoOrigen:          organismoOrigen,
		fechaTramite:             fechaTramite,
		fechaVencimiento:         domain.CalcularVencimiento(fechaTramite),
		funcionarioRecibe:        recibe,
		estado:                   RadicacionPendiente,
		observaciones:            observaciones,
		funcionarioActual:        recibe,
		fechaUltimaActualizacion: reloj.Hoy(),
		reloj:                    reloj,
	}, nil
}

// RadicacionSnapshot es la vista plana de la radicación para persistencia.
type RadicacionSnapshot struct {
	Placa                    string
	OrganismoOrigen          domain.Ubicacion
	FechaTramite             time.Time
	FechaVencimiento         time.Time
	FuncionarioRecibe        string
	Estado                   EstadoRadicacion
	Observaciones            string
	FuncionarioActual        string
	FechaUltimaActualizacion time.Time
}

// RadicacionDesdeRepositorio reconstruye una radicación persistida.
func RadicacionDesdeRepositorio(snap RadicacionSnapshot, reloj domain.Reloj) (*Radicacion, error) {
	placa, err := domain.NuevaPlaca(snap.Placa)
	if err != nil {
		return nil, err
	}
	fechaTramite, err := domain.NuevaFechaTramite(snap.FechaTramite, reloj)
	if err != nil {
		return nil, err
	}
	observaciones, err := domain.NuevaObservacion(snap.Observaciones)
	if err != nil {
		return nil, err
	}
	recibe := domain.NormalizarFuncionario(snap.FuncionarioRecibe)
	if recibe == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario que recibe no puede estar vacío")
	}
	if !snap.OrganismoOrigen.EsValida() {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El organismo origen no puede estar vacío")
	}
	vencimiento := domain.NuevaFechaVencimiento(snap.FechaVencimiento)
	if !vencimiento.Fecha().After(fechaTramite.Fecha()) {
		return nil, domainerrors.New(domainerrors.CodeInvariantViolation,
			"La fecha de vencimiento debe ser posterior a la fecha de trámite")
	}

	actual := domain.NormalizarFuncionario(snap.FuncionarioActual)
	if actual == "" {
		actual = recibe
	}
	return &Radicacion{
		placa:                    placa,
		organismoOrigen:          snap.OrganismoOrigen,
		fechaTramite:             fechaTramite,
		fechaVencimiento:         vencimiento,
		funcionarioRecibe:        recibe,
		estado:                   snap.Estado,
		observaciones:            observaciones,
		funcionarioActual:        actual,
		fechaUltimaActualizacion: domain.TruncarFecha(snap.FechaUltimaActualizacion),
		fueRecibida:              snap.Estado != RadicacionPendiente,
		reloj:                    reloj,
	}, nil
}

// Snapshot devuelve la vista plana de la radicación para persistencia.
func (r *Radicacion) Snapshot() RadicacionSnapshot {
	return RadicacionSnapshot{
		Placa:                    r.placa.Valor(),
		OrganismoOrigen:          r.organismoOrigen,
		FechaTramite:             r.fechaTramite.Fecha(),
		FechaVencimiento:         r.fechaVencimiento.Fecha(),
		FuncionarioRecibe:        r.funcionarioRecibe,
		Estado:                   r.estado,
		Observaciones:            r.observaciones.Valor(),
		FuncionarioActual:        r.funcionarioActual,
		FechaUltimaActualizacion: r.fechaUltimaActualizacion,
	}
}

// Consultas.

func (r *Radicacion) Placa() domain.Placa                 { return r.placa }
func (r *Radicacion) OrganismoOrigen() domain.Ubicacion   { return r.organismoOrigen }
func (r *Radicacion) FechaTramite() domain.FechaTramite   { return r.fechaTramite }
func (r *Radicacion) FechaVencimiento() domain.FechaVencimiento { return r.fechaVencimiento }
func (r *Radicacion) FuncionarioRecibe() string           { return r.funcionarioRecibe }
func (r *Radicacion) Estado() EstadoRadicacion            { return r.estado }
func (r *Radicacion) Observaciones() domain.Observacion   { return r.observaciones }
func (r *Radicacion) FechaUltimaActualizacion() time.Time { return r.fechaUltimaActualizacion }

// FuncionarioResponsable devuelve el funcionario a cargo del proceso.
func (r *Radicacion) FuncionarioResponsable() string {
	if r.funcionarioActual != "" {
		return r.funcionarioActual
	}
	return r.funcionarioRecibe
}

func (r *Radicacion) DiasRestantesVencimiento() int { return r.fechaVencimiento.DiasRestantes(r.reloj) }
func (r *Radicacion) NivelUrgencia() domain.NivelUrgencia {
	return r.fechaVencimiento.NivelUrgencia(r.reloj)
}
func (r *Radicacion) EstaVencida() bool { return r.fechaVencimiento.EstaVencida(r.reloj) }

// DiasEnProceso devuelve en positivo los días entre el trámite y hoy,
// transcurridos o por transcurrir.
func (r *Radicacion) DiasEnProceso() int {
	return domain.DiasEnProceso(r.fechaTramite.Fecha(), r.reloj)
}

func (r *Radicacion) EstaPendiente() bool     { return r.estado == RadicacionPendiente }
func (r *Radicacion) FueRecibida() bool       { return r.fueRecibida }
func (r *Radicacion) EstaEnRevision() bool    { return r.estado == RadicacionRevisada }
func (r *Radicacion) TieneNovedades() bool    { return r.estado == RadicacionConNovedades }
func (r *Radicacion) EstaCompletada() bool    { return r.estado == RadicacionRadicada }
func (r *Radicacion) FueDevuelta() bool       { return r.estado == RadicacionDevuelta }
func (r *Radicacion) EstaEnEstadoFinal() bool { return r.estado.EsEstadoFinal() }

// Transiciones permitidas.

func (r *Radicacion) PuedeSerRecibida() bool    { return r.estado == RadicacionPendiente }
func (r *Radicacion) PuedePasarARevision() bool { return r.estado == RadicacionRecibida }
func (r *Radicacion) PuedeCompletarse() bool    { return r.estado == RadicacionRevisada }
func (r *Radicacion) PuedeReportarNovedad() bool { return r.estado == RadicacionRevisada }
func (r *Radicacion) PuedeResolverNovedad() bool { return r.estado == RadicacionConNovedades }

// PuedeSerDevuelta indica si cabe una devolución. Solo un administrador
// puede devolver, desde cualquier estado no terminal.
func (r *Radicacion) PuedeSerDevuelta(esAdmin bool) bool {
	return r.estado.PuedeTransicionarA(RadicacionDevuelta, esAdmin)
}

// Comandos.

func (r *Radicacion) transicionar(estado EstadoRadicacion, funcionarioID string) {
	r.estado = estado
	r.funcionarioActual = domain.NormalizarFuncionario(funcionarioID)
	r.fechaUltimaActualizacion = r.reloj.Hoy()
}

// MarcarRecibida registra la recepción física del expediente.
func (r *Radicacion) MarcarRecibida(funcionarioID string) error {
	if !r.PuedeSerRecibida() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede recibir desde estado: %s", r.estado)
	}
	observaciones, err := r.anexarConSello(
		"Radicación recibida del "+r.organismoOrigen.NombreCorto(), funcionarioID)
	if err != nil {
		return err
	}
	r.transicionar(RadicacionRecibida, funcionarioID)
	r.fueRecibida = true
	r.observaciones = observaciones
	return nil
}

// MarcarRevisada pasa la radicación de recibida a revisada.
func (r *Radicacion) MarcarRevisada(funcionarioID string) error {
	if !r.PuedePasarARevision() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede pasar a revisión desde estado: %s", r.estado)
	}
	r.transicionar(RadicacionRevisada, funcionarioID)
	return nil
}

// Completar cierra la radicación exitosamente.
func (r *Radicacion) Completar(funcionarioID, observacionesFinales string) error {
	if !r.PuedeCompletarse() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede completar radicación desde estado: %s", r.estado)
	}
	observaciones := r.observaciones
	if observacionesFinales != "" {
		selladas, err := r.observaciones.ConTimestamp(funcionarioID, r.reloj)
		if err != nil {
			return err
		}
		observaciones, err = domain.NuevaObservacion(selladas.Valor() + "\nCOMPLETADA: " + observacionesFinales)
		if err != nil {
			return err
		}
	}
	r.transicionar(RadicacionRadicada, funcionarioID)
	r.observaciones = observaciones
	return nil
}

// ReportarNovedad pasa la radicación a con novedades dejando constancia.
func (r *Radicacion) ReportarNovedad(funcionarioID, descripcion string) error {
	if !r.PuedeReportarNovedad() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede reportar novedad desde estado: %s", r.estado)
	}
	observaciones, err := r.anexarConSello("NOVEDAD REPORTADA: "+descripcion, funcionarioID)
	if err != nil {
		return err
	}
	r.transicionar(RadicacionConNovedades, funcionarioID)
	r.observaciones = observaciones
	return nil
}

// ResolverNovedad devuelve la radicación a revisada dejando constancia.
func (r *Radicacion) ResolverNovedad(funcionarioID, descripcionResolucion string) error {
	if !r.PuedeResolverNovedad() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede resolver novedad desde estado: %s", r.estado)
	}
	observaciones, err := r.anexarConSello("NOVEDAD RESUELTA: "+descripcionResolucion, funcionarioID)
	if err != nil {
		return err
	}
	r.transicionar(RadicacionRevisada, funcionarioID)
	r.observaciones = observaciones
	return nil
}

// Devolver cancela la radicación hacia el organismo de origen.
func (r *Radicacion) Devolver(funcionarioID, motivo string, esAdmin bool) error {
	if !r.PuedeSerDevuelta(esAdmin) {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede devolver radicación desde estado: %s", r.estado)
	}
	observaciones, err := r.anexarConSello("RADICACIÓN DEVUELTA: "+motivo, funcionarioID)
	if err != nil {
		return err
	}
	r.transicionar(RadicacionDevuelta, funcionarioID)
	r.observaciones = observaciones
	return nil
}

// ActualizarObservaciones anexa una observación sellada sin cambiar de
// estado. Rechazado en estado terminal.
func (r *Radicacion) ActualizarObservaciones(funcionarioID, texto string) error {
	if r.EstaEnEstadoFinal() {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No se pueden actualizar observaciones en estado final")
	}
	observaciones, err := r.anexarConSello(texto, funcionarioID)
	if err != nil {
		return err
	}
	r.observaciones = observaciones
	r.fechaUltimaActualizacion = r.reloj.Hoy()
	return nil
}

func (r *Radicacion) anexarConSello(texto, funcionarioID string) (domain.Observacion, error) {
	sellada, err := domain.ObservacionConTimestamp(texto, funcionarioID, r.reloj)
	if err != nil {
		return domain.Observacion{}, err
	}
	return domain.CombinarObservaciones(r.observaciones, sellada)
}
