package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// EstadoRadicacion es el estado del flujo de recepción de una cuenta desde
// otro organismo. RADICADO y DEVUELTO son terminales.
type EstadoRadicacion string

const (
	RadicacionPendiente    EstadoRadicacion = "pendiente_radicar"
	RadicacionRecibida     EstadoRadicacion = "recibido"
	RadicacionRevisada     EstadoRadicacion = "revisado"
	RadicacionConNovedades EstadoRadicacion = "con_novedades"
	RadicacionRadicada     EstadoRadicacion = "radicado"
	RadicacionDevuelta     EstadoRadicacion = "devuelto"
)

var transicionesRadicacion = map[EstadoRadicacion][]EstadoRadicacion{
	RadicacionPendiente:    {RadicacionRecibida},
	RadicacionRecibida:     {RadicacionRevisada},
	RadicacionRevisada:     {RadicacionRadicada, RadicacionConNovedades},
	RadicacionConNovedades: {RadicacionRevisada},
	RadicacionRadicada:     {},
	RadicacionDevuelta:     {},
}

// ParseEstadoRadicacion interpreta un estado de radicación textual.
func ParseEstadoRadicacion(valor string) (EstadoRadicacion, error) {
	switch EstadoRadicacion(strings.ToLower(strings.TrimSpace(valor))) {
	case RadicacionPendiente:
		return RadicacionPendiente, nil
	case RadicacionRecibida:
		return RadicacionRecibida, nil
	case RadicacionRevisada:
		return RadicacionRevisada, nil
	case RadicacionConNovedades:
		return RadicacionConNovedades, nil
	case RadicacionRadicada:
		return RadicacionRadicada, nil
	case RadicacionDevuelta:
		return RadicacionDevuelta, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Estado de radicación inválido: %s", valor)
	}
}

func (e EstadoRadicacion) String() string { return string(e) }

// PuedeTransicionarA valida una transición. Un administrador puede devolver
// desde cualquier estado no terminal.
func (e EstadoRadicacion) PuedeTransicionarA(nuevo EstadoRadicacion, esAdmin bool) bool {
	if esAdmin && nuevo == RadicacionDevuelta {
		return !e.EsEstadoFinal()
	}
	for _, permitido := range transicionesRadicacion[e] {
		if permitido == nuevo {
			return true
		}
	}
	return false
}

func (e EstadoRadicacion) EsEstadoFinal() bool {
	return e == RadicacionRadicada || e == RadicacionDevuelta
}
