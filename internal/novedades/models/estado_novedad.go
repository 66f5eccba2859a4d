package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// EstadoNovedad es el ciclo de vida de una novedad. RESUELTA es el único
// estado final, pero admite reapertura.
type EstadoNovedad string

const (
	NovedadPendiente  EstadoNovedad = "pendiente"
	NovedadEnRevision EstadoNovedad = "en_revision"
	NovedadResuelta   EstadoNovedad = "resuelta"
	NovedadReabierta  EstadoNovedad = "reabierta"
)

var transicionesNovedad = map[EstadoNovedad][]EstadoNovedad{
	NovedadPendiente:  {NovedadEnRevision, NovedadResuelta},
	NovedadEnRevision: {NovedadResuelta, NovedadPendiente},
	NovedadResuelta:   {NovedadReabierta},
	NovedadReabierta:  {NovedadEnRevision, NovedadResuelta},
}

// ParseEstadoNovedad interpreta un estado de novedad textual.
func ParseEstadoNovedad(valor string) (EstadoNovedad, error) {
	switch EstadoNovedad(strings.ToLower(strings.TrimSpace(valor))) {
	case NovedadPendiente:
		return NovedadPendiente, nil
	case NovedadEnRevision:
		return NovedadEnRevision, nil
	case NovedadResuelta:
		return NovedadResuelta, nil
	case NovedadReabierta:
		return NovedadReabierta, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Estado de novedad inválido: %s", valor)
	}
}

func (e EstadoNovedad) String() string { return string(e) }

// PuedeTransicionarA valida una transición del ciclo de vida.
func (e EstadoNovedad) PuedeTransicionarA(nuevo EstadoNovedad) bool {
	for _, permitido := range transicionesNovedad[e] {
		if permitido == nuevo {
			return true
		}
	}
	return false
}

func (e EstadoNovedad) EsEstadoFinal() bool { return e == NovedadResuelta }

// RequiereAccion indica si la novedad espera atención de un funcionario.
func (e EstadoNovedad) RequiereAccion() bool {
	return e == NovedadPendiente || e == NovedadReabierta
}
