package models

import (
	"fmt"
	"strings"
	"time"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

// Límites de los campos de una asignación.
const (
	MotivoMaxCaracteres        = 500
	ObservacionesMaxCaracteres = 1000
)

// TipoAsignacion categoriza cada entrada del historial de la cuenta.
type TipoAsignacion string

const (
	AsignacionCreacion         TipoAsignacion = "creacion"
	AsignacionReasignacion     TipoAsignacion = "reasignacion"
	AsignacionInicioProceso    TipoAsignacion = "inicio_proceso"
	AsignacionCompletarProceso TipoAsignacion = "completar_proceso"
	AsignacionDevolverProceso  TipoAsignacion = "devolver_proceso"
	AsignacionInactivacion     TipoAsignacion = "inactivacion"
	AsignacionReactivacion     TipoAsignacion = "reactivacion"
)

// ParseTipoAsignacion interpreta un tipo de asignación textual.
func ParseTipoAsignacion(valor string) (TipoAsignacion, error) {
	switch TipoAsignacion(strings.ToLower(strings.TrimSpace(valor))) {
	case AsignacionCreacion:
		return AsignacionCreacion, nil
	case AsignacionReasignacion:
		return AsignacionReasignacion, nil
	case AsignacionInicioProceso:
		return AsignacionInicioProceso, nil
	case AsignacionCompletarProceso:
		return AsignacionCompletarProceso, nil
	case AsignacionDevolverProceso:
		return AsignacionDevolverProceso, nil
	case AsignacionInactivacion:
		return AsignacionInactivacion, nil
	case AsignacionReactivacion:
		return AsignacionReactivacion, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Tipo de asignación inválido: %s", valor)
	}
}

func (t TipoAsignacion) String() string { return string(t) }

// ClasificarMotivo deduce el tipo de asignación a partir del motivo. La
// comparación ignora mayúsculas y tildes; un motivo sin palabra clave se
// clasifica como reasignación.
func ClasificarMotivo(motivo string) TipoAsignacion {
	plano := domain.NormalizarBusqueda(motivo)
	switch {
	case strings.Contains(plano, "creacion"):
		return AsignacionCreacion
	case strings.Contains(plano, "reasignacion"):
		return AsignacionReasignacion
	case strings.Contains(plano, "inicio"):
		return AsignacionInicioProceso
	case strings.Contains(plano, "completar"):
		return AsignacionCompletarProceso
	case strings.Contains(plano, "devolver"):
		return AsignacionDevolverProceso
	case strings.Contains(plano, "inactivar"):
		return AsignacionInactivacion
	case strings.Contains(plano, "reactivar"):
		return AsignacionReactivacion
	default:
		return AsignacionReasignacion
	}
}

// HistorialAsignacion es una entrada inmutable del historial de la cuenta:
// quién quedó asignado, cuándo y por qué. FuncionarioAsigna vacío significa
// asignación automática (derivada de un proceso).
type HistorialAsignacion struct {
	FuncionarioID    string
	FechaAsignacion  time.Time
	Motivo           string
	FuncionarioAsigna string
	Tipo             TipoAsignacion
	Observaciones    string
}

// NuevaAsignacion valida y normaliza una entrada de historial. Con tipo
// vacío, el tipo se deduce del motivo.
func NuevaAsignacion(funcionarioID string, fecha time.Time, motivo, funcionarioAsigna string,
	tipo TipoAsignacion, observaciones string, reloj domain.Reloj) (HistorialAsignacion, error) {

	id := domain.NormalizarFuncionario(funcionarioID)
	if id == "" {
		return HistorialAsignacion{}, domainerrors.New(domainerrors.CodeValidation,
			"El ID del funcionario no puede estar vacío")
	}
	motivoNormalizado := strings.TrimSpace(motivo)
	if motivoNormalizado == "" {
		return HistorialAsignacion{}, domainerrors.New(domainerrors.CodeValidation,
			"El motivo de asignación no puede estar vacío")
	}
	if len([]rune(motivoNormalizado)) > MotivoMaxCaracteres {
		return HistorialAsignacion{}, domainerrors.Newf(domainerrors.CodeValidation,
			"El motivo no puede exceder %d caracteres", MotivoMaxCaracteres)
	}
	obs := strings.TrimSpace(observaciones)
	if len([]rune(obs)) > ObservacionesMaxCaracteres {
		return HistorialAsignacion{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Las observaciones no pueden exceder %d caracteres", ObservacionesMaxCaracteres)
	}
	fechaAsignacion := domain.TruncarFecha(fecha)
	if fechaAsignacion.After(reloj.Hoy()) {
		return HistorialAsignacion{}, domainerrors.New(domainerrors.CodeValidation,
			"La fecha de asignación no puede ser futura")
	}
	if tipo == "" {
		tipo = ClasificarMotivo(motivoNormalizado)
	}
	return HistorialAsignacion{
		FuncionarioID:    id,
		FechaAsignacion:  fechaAsignacion,
		Motivo:           motivoNormalizado,
		FuncionarioAsigna: domain.NormalizarFuncionario(funcionarioAsigna),
		Tipo:             tipo,
		Observaciones:    obs,
	}, nil
}

// AsignacionInicial construye la entrada de creación de la cuenta.
func AsignacionInicial(funcionarioID string, fecha time.Time, reloj domain.Reloj) (HistorialAsignacion, error) {
	return NuevaAsignacion(funcionarioID, fecha, "creacion", "", AsignacionCreacion, "", reloj)
}

// ReasignacionManual construye una reasignación autorizada por otro
// funcionario.
func ReasignacionManual(funcionarioID, funcionarioAsigna, motivo, observaciones string, reloj domain.Reloj) (HistorialAsignacion, error) {
	if strings.TrimSpace(motivo) == "" {
		motivo = "reasignacion"
	}
	return NuevaAsignacion(funcionarioID, reloj.Hoy(), motivo, funcionarioAsigna,
		AsignacionReasignacion, observaciones, reloj)
}

// CambioPorProceso construye la entrada automática derivada de un proceso.
// La acción es "inicio", "completar" o "devolver" y el motivo queda como
// "accion_tipoproceso", con el motivo adicional anexado si existe.
func CambioPorProceso(funcionarioID, tipoProceso, accion, motivoAdicional string, reloj domain.Reloj) (HistorialAsignacion, error) {
	motivo := accion + "_" + tipoProceso
	if motivoAdicional != "" {
		motivo = motivo + ": " + motivoAdicional
	}
	tipo := AsignacionReasignacion
	switch accion {
	case "inicio":
		tipo = AsignacionInicioProceso
	case "completar":
		tipo = AsignacionCompletarProceso
	case "devolver":
		tipo = AsignacionDevolverProceso
	}
	return NuevaAsignacion(funcionarioID, reloj.Hoy(), motivo, "", tipo, motivoAdicional, reloj)
}

// AsignacionInactivacionDe construye la entrada de inactivación de la cuenta.
func AsignacionInactivacionDe(funcionarioID, motivo string, reloj domain.Reloj) (HistorialAsignacion, error) {
	return NuevaAsignacion(funcionarioID, reloj.Hoy(), "inactivar: "+motivo, "",
		AsignacionInactivacion, motivo, reloj)
}

// AsignacionReactivacionDe construye la entrada de reactivación de la cuenta.
func AsignacionReactivacionDe(funcionarioID string, reloj domain.Reloj) (HistorialAsignacion, error) {
	return NuevaAsignacion(funcionarioID, reloj.Hoy(), "reactivar", "", AsignacionReactivacion, "", reloj)
}

// EsAsignacionInicial indica si la entrada corresponde a la creación.
func (h HistorialAsignacion) EsAsignacionInicial() bool { return h.Tipo == AsignacionCreacion }

// EsCambioPorProceso indica si la entrada la generó un proceso.
func (h HistorialAsignacion) EsCambioPorProceso() bool {
	return h.Tipo == AsignacionInicioProceso || h.Tipo == AsignacionCompletarProceso ||
		h.Tipo == AsignacionDevolverProceso
}

// FueAsignadaPorSupervisor indica si otro funcionario autorizó la entrada.
func (h HistorialAsignacion) FueAsignadaPorSupervisor() bool { return h.FuncionarioAsigna != "" }

// DiasDesdeAsignacion devuelve la antigüedad de la entrada en días.
func (h HistorialAsignacion) DiasDesdeAsignacion(reloj domain.Reloj) int {
	return domain.DiasEntre(h.FechaAsignacion, reloj.Hoy())
}

// EsReciente indica si la entrada tiene a lo sumo diasLimite días.
func (h HistorialAsignacion) EsReciente(reloj domain.Reloj, diasLimite int) bool {
	return h.DiasDesdeAsignacion(reloj) <= diasLimite
}

// MotivoDetallado devuelve el motivo con las observaciones si existen.
func (h HistorialAsignacion) MotivoDetallado() string {
	if h.Observaciones != "" {
		return h.Motivo + " - " + h.Observaciones
	}
	return h.Motivo
}

// Resumen devuelve la entrada en una línea para reportes.
func (h HistorialAsignacion) Resumen() string {
	resumen := fmt.Sprintf("%s | %s | %s | %s",
		h.FechaAsignacion.Format("02/01/2006"), h.Tipo, h.FuncionarioID, h.Motivo)
	if h.FuncionarioAsigna != "" {
		resumen += " | Por: " + h.FuncionarioAsigna
	}
	return resumen
}
