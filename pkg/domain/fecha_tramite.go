package domain

import (
	"time"

	domainerrors "traslados/pkg/domain-errors"
)

// Ventana admitida para la fecha de trámite, en días alrededor de hoy.
const (
	FechaTramiteDiasFuturoMaximo = 30
	FechaTramiteDiasPasadoMaximo = 365
)

// FechaTramite es la fecha en que se radicó el trámite de un proceso. Debe
// caer dentro de la ventana [hoy-365, hoy+30].
type FechaTramite struct {
	fecha time.Time
}

// NuevaFechaTramite valida la fecha de trámite contra la ventana admitida.
func NuevaFechaTramite(fecha time.Time, reloj Reloj) (FechaTramite, error) {
	f := TruncarFecha(fecha)
	hoy := reloj.Hoy()
	if f.After(hoy.AddDate(0, 0, FechaTramiteDiasFuturoMaximo)) {
		return FechaTramite{}, domainerrors.Newf(domainerrors.CodeValidation,
			"La fecha de trámite no puede ser más de %d días en el futuro", FechaTramiteDiasFuturoMaximo)
	}
	if f.Before(hoy.AddDate(0, 0, -FechaTramiteDiasPasadoMaximo)) {
		return FechaTramite{}, domainerrors.Newf(domainerrors.CodeValidation,
			"La fecha de trámite no puede ser más de %d días en el pasado", FechaTramiteDiasPasadoMaximo)
	}
	return FechaTramite{fecha: f}, nil
}

// FechaTramiteHoy construye la fecha de trámite del día actual.
func FechaTramiteHoy(reloj Reloj) FechaTramite {
	return FechaTramite{fecha: reloj.Hoy()}
}

// FechaTramiteDesdeTexto acepta los formatos "2006-01-02" y "02/01/2006".
func FechaTramiteDesdeTexto(texto string, reloj Reloj) (FechaTramite, error) {
	for _, formato := range []string{"2006-01-02", "02/01/2006"} {
		if fecha, err := time.ParseInLocation(formato, texto, time.UTC); err == nil {
			return NuevaFechaTramite(fecha, reloj)
		}
	}
	return FechaTramite{}, domainerrors.Newf(domainerrors.CodeValidation,
		"Formato de fecha de trámite inválido: %s", texto)
}

func (f FechaTramite) Fecha() time.Time { return f.fecha }
func (f FechaTramite) String() string   { return f.fecha.Format("2006-01-02") }

func (f FechaTramite) EsDeHoy(reloj Reloj) bool  { return f.fecha.Equal(reloj.Hoy()) }
func (f FechaTramite) EsFutura(reloj Reloj) bool { return f.fecha.After(reloj.Hoy()) }
func (f FechaTramite) EsPasada(reloj Reloj) bool { return f.fecha.Before(reloj.Hoy()) }

// DiasDesdeHoy devuelve hoy - fecha en días: positivo si la fecha ya pasó.
func (f FechaTramite) DiasDesdeHoy(reloj Reloj) int {
	return DiasEntre(f.fecha, reloj.Hoy())
}

// DiasEnProceso cuenta en positivo los días entre el trámite y hoy: los
// transcurridos para un trámite pasado, los que faltan para uno futuro.
func DiasEnProceso(fechaTramite time.Time, reloj Reloj) int {
	dias := DiasEntre(fechaTramite, reloj.Hoy())
	if dias < 0 {
		return -dias
	}
	return dias
}
