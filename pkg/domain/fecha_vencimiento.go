package domain

import (
	"fmt"
	"time"
)

// DiasPlazoProceso es el plazo legal de un proceso desde su fecha de trámite.
const DiasPlazoProceso = 60

// NivelUrgencia clasifica qué tan cerca está un proceso de su vencimiento.
type NivelUrgencia string

const (
	UrgenciaVencida NivelUrgencia = "vencida"
	UrgenciaCritica NivelUrgencia = "critica"
	UrgenciaAlerta  NivelUrgencia = "alerta"
	UrgenciaNormal  NivelUrgencia = "normal"
)

// Umbrales de urgencia en días restantes.
const (
	diasUmbralCritico = 3
	diasUmbralAlerta  = 7
)

// FechaVencimiento es la fecha límite de un proceso, derivada de la fecha de
// trámite más el plazo legal.
type FechaVencimiento struct {
	fecha time.Time
}

// CalcularVencimiento deriva el vencimiento de una fecha de trámite.
func CalcularVencimiento(tramite FechaTramite) FechaVencimiento {
	return FechaVencimiento{fecha: tramite.Fecha().AddDate(0, 0, DiasPlazoProceso)}
}

// NuevaFechaVencimiento reconstruye un vencimiento ya calculado.
func NuevaFechaVencimiento(fecha time.Time) FechaVencimiento {
	return FechaVencimiento{fecha: TruncarFecha(fecha)}
}

func (f FechaVencimiento) Fecha() time.Time { return f.fecha }
func (f FechaVencimiento) String() string   { return f.fecha.Format("2006-01-02") }

// DiasRestantes devuelve los días hasta el vencimiento; negativo si ya venció.
func (f FechaVencimiento) DiasRestantes(reloj Reloj) int {
	return DiasEntre(reloj.Hoy(), f.fecha)
}

func (f FechaVencimiento) EstaVencida(reloj Reloj) bool { return f.DiasRestantes(reloj) < 0 }
func (f FechaVencimiento) EstaVigente(reloj Reloj) bool { return !f.EstaVencida(reloj) }

// NivelUrgencia clasifica el vencimiento: vencida, crítica (3 días o menos),
// alerta (7 días o menos) o normal.
func (f FechaVencimiento) NivelUrgencia(reloj Reloj) NivelUrgencia {
	restantes := f.DiasRestantes(reloj)
	switch {
	case restantes < 0:
		return UrgenciaVencida
	case restantes <= diasUmbralCritico:
		return UrgenciaCritica
	case restantes <= diasUmbralAlerta:
		return UrgenciaAlerta
	default:
		return UrgenciaNormal
	}
}

// DescripcionEstado resume el vencimiento para reportes operativos.
func (f FechaVencimiento) DescripcionEstado(reloj Reloj) string {
	restantes := f.DiasRestantes(reloj)
	switch {
	case restantes < 0:
		return fmt.Sprintf("Vencida hace %d días", -restantes)
	case restantes == 0:
		return "Vence hoy"
	default:
		return fmt.Sprintf("Vence en %d días", restantes)
	}
}
