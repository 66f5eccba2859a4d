package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// PrioridadNovedad ordena las novedades por severidad.
type PrioridadNovedad string

const (
	PrioridadBaja    PrioridadNovedad = "baja"
	PrioridadMedia   PrioridadNovedad = "media"
	PrioridadAlta    PrioridadNovedad = "alta"
	PrioridadCritica PrioridadNovedad = "critica"
)

var ordenPrioridad = map[PrioridadNovedad]int{
	PrioridadBaja:    1,
	PrioridadMedia:   2,
	PrioridadAlta:    3,
	PrioridadCritica: 4,
}

// ParsePrioridadNovedad interpreta una prioridad textual.
func ParsePrioridadNovedad(valor string) (PrioridadNovedad, error) {
	switch PrioridadNovedad(strings.ToLower(strings.TrimSpace(valor))) {
	case PrioridadBaja:
		return PrioridadBaja, nil
	case PrioridadMedia:
		return PrioridadMedia, nil
	case PrioridadAlta:
		return PrioridadAlta, nil
	case PrioridadCritica:
		return PrioridadCritica, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Prioridad de novedad inválida: %s", valor)
	}
}

func (p PrioridadNovedad) String() string { return string(p) }

// EsMayorQue compara severidades.
func (p PrioridadNovedad) EsMayorQue(otra PrioridadNovedad) bool {
	return ordenPrioridad[p] > ordenPrioridad[otra]
}

func (p PrioridadNovedad) EsCriticaOAlta() bool {
	return p == PrioridadAlta || p == PrioridadCritica
}
