package domain

import (
	"time"

	domainerrors "traslados/pkg/domain-errors"
)

// FechaCreacion es la fecha en que la cuenta entró al sistema. Nunca futura.
type FechaCreacion struct {
	fecha time.Time
}

// NuevaFechaCreacion valida una fecha de creación contra el reloj.
func NuevaFechaCreacion(fecha time.Time, reloj Reloj) (FechaCreacion, error) {
	f := TruncarFecha(fecha)
	if f.After(reloj.Hoy()) {
		return FechaCreacion{}, domainerrors.New(domainerrors.CodeValidation,
			"La fecha de creación no puede ser futura")
	}
	return FechaCreacion{fecha: f}, nil
}

// FechaCreacionHoy construye la fecha de creación del día actual.
func FechaCreacionHoy(reloj Reloj) FechaCreacion {
	return FechaCreacion{fecha: reloj.Hoy()}
}

func (f FechaCreacion) Fecha() time.Time { return f.fecha }
func (f FechaCreacion) String() string   { return f.fecha.Format("2006-01-02") }

func (f FechaCreacion) EsDeHoy(reloj Reloj) bool { return f.fecha.Equal(reloj.Hoy()) }

// DiasDesdeCreacion devuelve la antigüedad de la cuenta en días.
func (f FechaCreacion) DiasDesdeCreacion(reloj Reloj) int {
	return DiasEntre(f.fecha, reloj.Hoy())
}

// EsReciente indica si la cuenta tiene a lo sumo diasLimite días.
func (f FechaCreacion) EsReciente(reloj Reloj, diasLimite int) bool {
	return f.DiasDesdeCreacion(reloj) <= diasLimite
}
