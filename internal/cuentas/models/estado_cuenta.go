package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// EstadoCuenta es el estado administrativo de la cuenta. EN_TRASLADO y
// EN_RADICACION son estados transitorios mientras dura el proceso.
type EstadoCuenta string

const (
	CuentaActiva       EstadoCuenta = "activa"
	CuentaInactiva     EstadoCuenta = "inactiva"
	CuentaEnTraslado   EstadoCuenta = "en_traslado"
	CuentaEnRadicacion EstadoCuenta = "en_radicacion"
)

// ParseEstadoCuenta interpreta un estado de cuenta textual.
func ParseEstadoCuenta(valor string) (EstadoCuenta, error) {
	switch strings.ToLower(strings.TrimSpace(valor)) {
	case "activa":
		return CuentaActiva, nil
	case "inactiva":
		return CuentaInactiva, nil
	case "en_traslado":
		return CuentaEnTraslado, nil
	case "en_radicacion":
		return CuentaEnRadicacion, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Estado de cuenta inválido: %s", valor)
	}
}

func (e EstadoCuenta) String() string { return string(e) }

// EnProceso indica si el estado corresponde a un proceso en curso.
func (e EstadoCuenta) EnProceso() bool {
	return e == CuentaEnTraslado || e == CuentaEnRadicacion
}
