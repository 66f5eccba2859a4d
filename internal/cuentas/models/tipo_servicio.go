package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// TipoServicio es la modalidad de servicio del vehículo.
type TipoServicio string

const (
	ServicioParticular TipoServicio = "particular"
	ServicioPublico    TipoServicio = "publico"
	ServicioOficial    TipoServicio = "oficial"
)

// ParseTipoServicio interpreta un tipo de servicio textual.
func ParseTipoServicio(valor string) (TipoServicio, error) {
	switch strings.ToLower(strings.TrimSpace(valor)) {
	case "particular":
		return ServicioParticular, nil
	case "publico", "público":
		return ServicioPublico, nil
	case "oficial":
		return ServicioOficial, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Tipo de servicio inválido: %s", valor)
	}
}

func (t TipoServicio) String() string { return string(t) }

func (t TipoServicio) EsValido() bool {
	switch t {
	case ServicioParticular, ServicioPublico, ServicioOficial:
		return true
	}
	return false
}

// Display devuelve el tipo de servicio para interfaces.
func (t TipoServicio) Display() string {
	switch t {
	case ServicioParticular:
		return "Particular"
	case ServicioPublico:
		return "Público"
	case ServicioOficial:
		return "Oficial"
	default:
		return string(t)
	}
}
