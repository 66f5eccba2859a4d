package domain

import "time"

// Reloj abstrae la fuente de tiempo del dominio. Toda validación que dependa
// de "hoy" (rangos de fecha de trámite, vencimientos, fechas de asignación)
// recibe un Reloj en lugar de leer el reloj del sistema, para que las reglas
// sean deterministas en pruebas.
//
// Las fechas calendario se representan como time.Time truncado a medianoche
// UTC; Hoy devuelve siempre ese truncamiento de Ahora.
type Reloj interface {
	Ahora() time.Time
	Hoy() time.Time
}

type relojSistema struct{}

func (relojSistema) Ahora() time.Time { return time.Now() }
func (relojSistema) Hoy() time.Time   { return TruncarFecha(time.Now()) }

// RelojSistema devuelve el reloj real del sistema.
func RelojSistema() Reloj { return relojSistema{} }

type relojFijo struct{ instante time.Time }

func (r relojFijo) Ahora() time.Time { return r.instante }
func (r relojFijo) Hoy() time.Time   { return TruncarFecha(r.instante) }

// RelojFijo devuelve un reloj congelado en el instante dado. Para pruebas.
func RelojFijo(instante time.Time) Reloj { return relojFijo{instante: instante} }

// Fecha construye una fecha calendario (medianoche UTC).
func Fecha(anio int, mes time.Month, dia int) time.Time {
	return time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
}

// TruncarFecha descarta la hora de un instante, conservando solo la fecha.
func TruncarFecha(t time.Time) time.Time {
	anio, mes, dia := t.Date()
	return time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
}

// DiasEntre devuelve hasta - desde en días calendario (negativo si hasta es
// anterior). Ambos argumentos se truncan antes de restar.
func DiasEntre(desde, hasta time.Time) int {
	d := TruncarFecha(hasta).Sub(TruncarFecha(desde))
	return int(d.Hours() / 24)
}
