package models

import (
	"time"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

// Traslado es el proceso de envío de una cuenta hacia otro organismo. Tiene
// identidad propia (placa) y su propio ciclo de vida, acotado por la fecha
// de vencimiento derivada del trámite.
//
// Cada transición sella la observación con fecha, hora y funcionario; en
// estado terminal el proceso queda congelado.
type Traslado struct {
	placa            domain.Placa
	organismoDestino domain.Ubicacion
	fechaTramite     domain.FechaTramite
	fechaVencimiento domain.FechaVencimiento
	funcionarioEnvia string

	estado        EstadoTraslado
	observaciones domain.Observacion

	funcionarioActual        string
	fechaUltimaActualizacion time.Time

	reloj domain.Reloj
}

// NuevoTraslado crea un traslado recién enviado al organismo destino. El
// vencimiento se calcula desde la fecha de trámite; las observaciones
// iniciales, si las hay, quedan selladas con el funcionario que envía.
func NuevoTraslado(placa domain.Placa, organismoDestino domain.Ubicacion,
	fechaTramite domain.FechaTramite, funcionarioEnvia string,
	observacionesIniciales string, reloj domain.Reloj) (*Traslado, error) {

	envia := domain.NormalizarFuncionario(funcionarioEnvia)
	if envia == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario que envía no puede estar vacío")
	}
	if !organismoDestino.EsValida() {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El organismo destino no puede estar vacío")
	}

	observaciones := domain.ObservacionVacia()
	if observacionesIniciales != "" {
		var err error
		observaciones, err = domain.ObservacionConTimestamp(observacionesIniciales, envia, reloj)
		if err != nil {
			return nil, err
		}
	}

	return &Traslado{
		placa:                    placa,
		organismoDestino:         organismoDestino,
		fechaTramite:             fechaTramite,
		fechaVencimiento:         domain.CalcularVencimiento(fechaTramite),
		funcionarioEnvia:         envia,
		estado:                   TrasladoEnviado,
		observaciones:            observaciones,
		funcionarioActual:        envia,
		fechaUltimaActualizacion: reloj.Hoy(),
		reloj:                    reloj,
	}, nil
}

// TrasladoSnapshot es la vista plana del traslado para persistencia.
type TrasladoSnapshot struct {
	Placa                    string
	OrganismoDestino         domain.Ubicacion
	FechaTramite             time.Time
	FechaVencimiento         time.Time
	FuncionarioEnvia         string
	Estado                   EstadoTraslado
	Observaciones            string
	FuncionarioActual        string
	FechaUltimaActualizacion time.Time
}

// TrasladoDesdeRepositorio reconstruye un traslado persistido revalidando
// value objects y coherencia de fechas; no genera eventos.
func TrasladoDesdeRepositorio(snap TrasladoSnapshot, reloj domain.Reloj) (*Traslado, error) {
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
	envia := domain.NormalizarFuncionario(snap.FuncionarioEnvia)
	if envia == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El funcionario que envía no puede estar vacío")
	}
	if !snap.OrganismoDestino.EsValida() {
		return nil, domainerrors.New(domainerrors.CodeValidation, "El organismo destino no puede estar vacío")
	}
	vencimiento := domain.NuevaFechaVencimiento(snap.FechaVencimiento)
	if !vencimiento.Fecha().After(fechaTramite.Fecha()) {
		return nil, domainerrors.New(domainerrors.CodeInvariantViolation,
			"La fecha de vencimiento debe ser posterior a la fecha de trámite")
	}

	actual := domain.NormalizarFuncionario(snap.FuncionarioActual)
	if actual == "" {
		actual = envia
	}
	return &Traslado{
		placa:                    placa,
		organismoDestino:         snap.OrganismoDestino,
		fechaTramite:             fechaTramite,
		fechaVencimiento:         vencimiento,
		funcionarioEnvia:         envia,
		estado:                   snap.Estado,
		observaciones:            observaciones,
		funcionarioActual:        actual,
		fechaUltimaActualizacion: domain.TruncarFecha(snap.FechaUltimaActualizacion),
		reloj:                    reloj,
	}, nil
}

// Snapshot devuelve la vista plana del traslado para persistencia.
func (t *Traslado) Snapshot() TrasladoSnapshot {
	return TrasladoSnapshot{
		Placa:                    t.placa.Valor(),
		OrganismoDestino:         t.organismoDestino,
		FechaTramite:             t.fechaTramite.Fecha(),
		FechaVencimiento:         t.fechaVencimiento.Fecha(),
		FuncionarioEnvia:         t.funcionarioEnvia,
		Estado:                   t.estado,
		Observaciones:            t.observaciones.Valor(),
		FuncionarioActual:        t.funcionarioActual,
		FechaUltimaActualizacion: t.fechaUltimaActualizacion,
	}
}

// Consultas.

func (t *Traslado) Placa() domain.Placa                  { return t.placa }
func (t *Traslado) OrganismoDestino() domain.Ubicacion   { return t.organismoDestino }
func (t *Traslado) FechaTramite() domain.FechaTramite    { return t.fechaTramite }
func (t *Traslado) FechaVencimiento() domain.FechaVencimiento { return t.fechaVencimiento }
func (t *Traslado) FuncionarioEnvia() string             { return t.funcionarioEnvia }
func (t *Traslado) Estado() EstadoTraslado               { return t.estado }
func (t *Traslado) Observaciones() domain.Observacion    { return t.observaciones }
func (t *Traslado) FechaUltimaActualizacion() time.Time  { return t.fechaUltimaActualizacion }

// FuncionarioResponsable devuelve el funcionario a cargo del proceso.
func (t *Traslado) FuncionarioResponsable() string {
	if t.funcionarioActual != "" {
		return t.funcionarioActual
	}
	return t.funcionarioEnvia
}

func (t *Traslado) DiasRestantesVencimiento() int { return t.fechaVencimiento.DiasRestantes(t.reloj) }
func (t *Traslado) NivelUrgencia() domain.NivelUrgencia { return t.fechaVencimiento.NivelUrgencia(t.reloj) }
func (t *Traslado) EstaVencido() bool             { return t.fechaVencimiento.EstaVencida(t.reloj) }

// DiasEnProceso devuelve en positivo los días entre el trámite y hoy,
// transcurridos o por transcurrir.
func (t *Traslado) DiasEnProceso() int {
	return domain.DiasEnProceso(t.fechaTramite.Fecha(), t.reloj)
}

func (t *Traslado) EstaEnRevision() bool    { return t.estado == TrasladoRevisado }
func (t *Traslado) TieneNovedades() bool    { return t.estado == TrasladoConNovedades }
func (t *Traslado) EstaCompletado() bool    { return t.estado == TrasladoTrasladado }
func (t *Traslado) FueDevuelto() bool       { return t.estado == TrasladoDevuelto }
func (t *Traslado) EstaEnEstadoFinal() bool { return t.estado.EsEstadoFinal() }

// Transiciones permitidas.

func (t *Traslado) PuedePasarARevision() bool  { return t.estado == TrasladoEnviado }
func (t *Traslado) PuedeCompletarse() bool     { return t.estado == TrasladoRevisado }
func (t *Traslado) PuedeReportarNovedad() bool { return t.estado == TrasladoRevisado }
func (t *Traslado) PuedeResolverNovedad() bool { return t.estado == TrasladoConNovedades }

// PuedeSerDevuelto indica si cabe una devolución. Solo un administrador
// puede devolver, desde cualquier estado no terminal.
func (t *Traslado) PuedeSerDevuelto(esAdmin bool) bool {
	return t.estado.PuedeTransicionarA(TrasladoDevuelto, esAdmin)
}

// Comandos.

func (t *Traslado) transicionar(estado EstadoTraslado, funcionarioID string) {
	t.estado = estado
	t.funcionarioActual = domain.NormalizarFuncionario(funcionarioID)
	t.fechaUltimaActualizacion = t.reloj.Hoy()
}

// MarcarRevisado pasa el traslado de enviado a revisado.
func (t *Traslado) MarcarRevisado(funcionarioID string) error {
	if !t.PuedePasarARevision() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede pasar a revisión desde estado: %s", t.estado)
	}
	t.transicionar(TrasladoRevisado, funcionarioID)
	return nil
}

// Completar cierra el traslado exitosamente. Las observaciones finales, si
// las hay, se anexan tras sellar las existentes.
func (t *Traslado) Completar(funcionarioID, observacionesFinales string) error {
	if !t.PuedeCompletarse() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede completar traslado desde estado: %s", t.estado)
	}
	observaciones := t.observaciones
	if observacionesFinales != "" {
		selladas, err := t.observaciones.ConTimestamp(funcionarioID, t.reloj)
		if err != nil {
			return err
		}
		observaciones, err = domain.NuevaObservacion(selladas.Valor() + "\nCOMPLETADO: " + observacionesFinales)
		if err != nil {
			return err
		}
	}
	t.transicionar(TrasladoTrasladado, funcionarioID)
	t.observaciones = observaciones
	return nil
}

// ReportarNovedad pasa el traslado a con novedades dejando constancia.
func (t *Traslado) ReportarNovedad(funcionarioID, descripcion string) error {
	if !t.PuedeReportarNovedad() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede reportar novedad desde estado: %s", t.estado)
	}
	observaciones, err := t.anexarConSello("NOVEDAD REPORTADA: "+descripcion, funcionarioID)
	if err != nil {
		return err
	}
	t.transicionar(TrasladoConNovedades, funcionarioID)
	t.observaciones = observaciones
	return nil
}

// ResolverNovedad devuelve el traslado a revisado dejando constancia.
func (t *Traslado) ResolverNovedad(funcionarioID, descripcionResolucion string) error {
	if !t.PuedeResolverNovedad() {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede resolver novedad desde estado: %s", t.estado)
	}
	observaciones, err := t.anexarConSello("NOVEDAD RESUELTA: "+descripcionResolucion, funcionarioID)
	if err != nil {
		return err
	}
	t.transicionar(TrasladoRevisado, funcionarioID)
	t.observaciones = observaciones
	return nil
}

// Devolver cancela el traslado hacia el organismo de origen.
func (t *Traslado) Devolver(funcionarioID, motivo string, esAdmin bool) error {
	if !t.PuedeSerDevuelto(esAdmin) {
		return domainerrors.Newf(domainerrors.CodePrecondition,
			"No se puede devolver traslado desde estado: %s", t.estado)
	}
	observaciones, err := t.anexarConSello("TRASLADO DEVUELTO: "+motivo, funcionarioID)
	if err != nil {
		return err
	}
	t.transicionar(TrasladoDevuelto, funcionarioID)
	t.observaciones = observaciones
	return nil
}

// ActualizarObservaciones anexa una observación sellada sin cambiar de
// estado. Rechazado en estado terminal.
func (t *Traslado) ActualizarObservaciones(funcionarioID, texto string) error {
	if t.EstaEnEstadoFinal() {
		return domainerrors.New(domainerrors.CodePrecondition,
			"No se pueden actualizar observaciones en estado final")
	}
	observaciones, err := t.anexarConSello(texto, funcionarioID)
	if err != nil {
		return err
	}
	t.observaciones = observaciones
	t.fechaUltimaActualizacion = t.reloj.Hoy()
	return nil
}

func (t *Traslado) anexarConSello(texto, funcionarioID string) (domain.Observacion, error) {
	sellada, err := domain.ObservacionConTimestamp(texto, funcionarioID, t.reloj)
	if err != nil {
		return domain.Observacion{}, err
	}
	return domain.CombinarObservaciones(t.observaciones, sellada)
}
