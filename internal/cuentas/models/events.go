package models

import (
	"time"

	"github.com/google/uuid"

	"traslados/pkg/domain"
)

// Tipos de evento publicados por el agregado de cuentas.
const (
	EventoCuentaCreada      = "cuenta_creada"
	EventoProcesoIniciado   = "proceso_iniciado"
	EventoProcesoCompletado = "proceso_completado"
	EventoCuentaReasignada  = "cuenta_reasignada"
	EventoCuentaInactivada  = "cuenta_inactivada"
	EventoCuentaReactivada  = "cuenta_reactivada"
)

// EventoDominio es un hecho ya ocurrido sobre una cuenta, listo para el
// outbox. El agregado los acumula y el servicio los drena tras persistir.
type EventoDominio interface {
	Base() EventoBase
	TipoEvento() string
}

// EventoBase lleva los metadatos comunes de todo evento de dominio.
type EventoBase struct {
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateID string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

func (b EventoBase) Base() EventoBase { return b }

func nuevoEventoBase(aggregateID string, reloj domain.Reloj) EventoBase {
	return EventoBase{
		EventID:     uuid.NewString(),
		Timestamp:   reloj.Ahora(),
		AggregateID: aggregateID,
		Version:     1,
	}
}

// CuentaCreada se emite al crear una cuenta nueva.
type CuentaCreada struct {
	EventoBase
	Placa              string `json:"placa"`
	NumeroCuenta       string `json:"numero_cuenta"`
	TipoServicio       string `json:"tipo_servicio"`
	FuncionarioCreador string `json:"funcionario_creador"`
}

func (CuentaCreada) TipoEvento() string { return EventoCuentaCreada }

// ProcesoIniciado se emite al iniciar un traslado o una radicación.
type ProcesoIniciado struct {
	EventoBase
	Placa        string `json:"placa"`
	TipoProceso  string `json:"tipo_proceso"`
	Funcionario  string `json:"funcionario"`
	NumeroCuenta string `json:"numero_cuenta"`
}

func (ProcesoIniciado) TipoEvento() string { return EventoProcesoIniciado }

// ProcesoCompletado se emite al cerrar un proceso, con resultado
// "completado" o "devuelto".
type ProcesoCompletado struct {
	EventoBase
	Placa            string `json:"placa"`
	TipoProceso      string `json:"tipo_proceso"`
	Funcionario      string `json:"funcionario"`
	NumeroCuenta     string `json:"numero_cuenta"`
	Resultado        string `json:"resultado"`
	MotivoDevolucion string `json:"motivo_devolucion,omitempty"`
}

func (ProcesoCompletado) TipoEvento() string { return EventoProcesoCompletado }

// CuentaReasignada se emite al cambiar el funcionario asignado.
type CuentaReasignada struct {
	EventoBase
	Placa               string `json:"placa"`
	FuncionarioAnterior string `json:"funcionario_anterior"`
	FuncionarioNuevo    string `json:"funcionario_nuevo"`
	FuncionarioAutoriza string `json:"funcionario_autoriza,omitempty"`
	Motivo              string `json:"motivo"`
}

func (CuentaReasignada) TipoEvento() string { return EventoCuentaReasignada }

// CuentaInactivada se emite al inactivar la cuenta.
type CuentaInactivada struct {
	EventoBase
	Placa       string `json:"placa"`
	Funcionario string `json:"funcionario"`
	Motivo      string `json:"motivo"`
}

func (CuentaInactivada) TipoEvento() string { return EventoCuentaInactivada }

// CuentaReactivada se emite al reactivar la cuenta.
type CuentaReactivada struct {
	EventoBase
	Placa       string `json:"placa"`
	Funcionario string `json:"funcionario"`
}

func (CuentaReactivada) TipoEvento() string { return EventoCuentaReactivada }
