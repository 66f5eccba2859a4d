package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// EstadoTraslado es el estado del flujo de envío de una cuenta a otro
// organismo. TRASLADADO y DEVUELTO son terminales.
type EstadoTraslado string

const (
	TrasladoEnviado      EstadoTraslado = "enviado_organismo_destino"
	TrasladoRevisado     EstadoTraslado = "revisado"
	TrasladoConNovedades EstadoTraslado = "con_novedades"
	TrasladoTrasladado   EstadoTraslado = "trasladado"
	TrasladoDevuelto     EstadoTraslado = "devuelto"
)

var transicionesTraslado = map[EstadoTraslado][]EstadoTraslado{
	TrasladoEnviado:      {TrasladoRevisado},
	TrasladoRevisado:     {TrasladoTrasladado, TrasladoConNovedades},
	TrasladoConNovedades: {TrasladoRevisado},
	TrasladoTrasladado:   {},
	TrasladoDevuelto:     {},
}

// ParseEstadoTraslado interpreta un estado de traslado textual.
func ParseEstadoTraslado(valor string) (EstadoTraslado, error) {
	switch EstadoTraslado(strings.ToLower(strings.TrimSpace(valor))) {
	case TrasladoEnviado:
		return TrasladoEnviado, nil
	case TrasladoRevisado:
		return TrasladoRevisado, nil
	case TrasladoConNovedades:
		return TrasladoConNovedades, nil
	case TrasladoTrasladado:
		return TrasladoTrasladado, nil
	case TrasladoDevuelto:
		return TrasladoDevuelto, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Estado de traslado inválido: %s", valor)
	}
}

func (e EstadoTraslado) String() string { return string(e) }

// PuedeTransicionarA valida una transición. Un administrador puede devolver
// desde cualquier estado no terminal.
func (e EstadoTraslado) PuedeTransicionarA(nuevo EstadoTraslado, esAdmin bool) bool {
	if esAdmin && nuevo == TrasladoDevuelto {
		return !e.EsEstadoFinal()
	}
	for _, permitido := range transicionesTraslado[e] {
		if permitido == nuevo {
			return true
		}
	}
	return false
}

func (e EstadoTraslado) EsEstadoFinal() bool {
	return e == TrasladoTrasladado || e == TrasladoDevuelto
}
