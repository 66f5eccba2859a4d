package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// TipoProcesoAnterior registra cómo terminó el último proceso de la cuenta y
// gobierna la lógica origen/destino: un traslado completado convierte la
// cuenta en destino (solo radica), una radicación completada la convierte en
// origen (solo traslada) y una devolución levanta ambas restricciones.
type TipoProcesoAnterior string

const (
	ProcesoAnteriorNinguno              TipoProcesoAnterior = "ninguno"
	ProcesoAnteriorTrasladoCompletado   TipoProcesoAnterior = "traslado_completado"
	ProcesoAnteriorTrasladoDevuelto     TipoProcesoAnterior = "traslado_devuelto"
	ProcesoAnteriorRadicacionCompletada TipoProcesoAnterior = "radicacion_completada"
	ProcesoAnteriorRadicacionDevuelta   TipoProcesoAnterior = "radicacion_devuelta"
)

// ParseTipoProcesoAnterior interpreta un tipo de proceso anterior textual.
func ParseTipoProcesoAnterior(valor string) (TipoProcesoAnterior, error) {
	switch TipoProcesoAnterior(strings.ToLower(strings.TrimSpace(valor))) {
	case ProcesoAnteriorNinguno:
		return ProcesoAnteriorNinguno, nil
	case ProcesoAnteriorTrasladoCompletado:
		return ProcesoAnteriorTrasladoCompletado, nil
	case ProcesoAnteriorTrasladoDevuelto:
		return ProcesoAnteriorTrasladoDevuelto, nil
	case ProcesoAnteriorRadicacionCompletada:
		return ProcesoAnteriorRadicacionCompletada, nil
	case ProcesoAnteriorRadicacionDevuelta:
		return ProcesoAnteriorRadicacionDevuelta, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Tipo de proceso anterior inválido: %s", valor)
	}
}

func (t TipoProcesoAnterior) String() string { return string(t) }

// PermiteTraslado indica si la cuenta puede actuar como origen.
func (t TipoProcesoAnterior) PermiteTraslado() bool {
	switch t {
	case ProcesoAnteriorNinguno, ProcesoAnteriorRadicacionCompletada,
		ProcesoAnteriorTrasladoDevuelto, ProcesoAnteriorRadicacionDevuelta:
		return true
	}
	return false
}

// PermiteRadicacion indica si la cuenta puede actuar como destino.
func (t TipoProcesoAnterior) PermiteRadicacion() bool {
	switch t {
	case ProcesoAnteriorNinguno, ProcesoAnteriorTrasladoCompletado,
		ProcesoAnteriorTrasladoDevuelto, ProcesoAnteriorRadicacionDevuelta:
		return true
	}
	return false
}

// EsCompletadoExitosamente indica si el último proceso terminó bien.
func (t TipoProcesoAnterior) EsCompletadoExitosamente() bool {
	return t == ProcesoAnteriorTrasladoCompletado || t == ProcesoAnteriorRadicacionCompletada
}

// EsDevuelto indica si el último proceso fue devuelto por administración.
func (t TipoProcesoAnterior) EsDevuelto() bool {
	return t == ProcesoAnteriorTrasladoDevuelto || t == ProcesoAnteriorRadicacionDevuelta
}

// Descripcion devuelve el texto legible del proceso anterior.
func (t TipoProcesoAnterior) Descripcion() string {
	switch t {
	case ProcesoAnteriorNinguno:
		return "Sin procesos anteriores"
	case ProcesoAnteriorTrasladoCompletado:
		return "Traslado completado exitosamente"
	case ProcesoAnteriorTrasladoDevuelto:
		return "Traslado devuelto por administración"
	case ProcesoAnteriorRadicacionCompletada:
		return "Radicación completada exitosamente"
	case ProcesoAnteriorRadicacionDevuelta:
		return "Radicación devuelta por administración"
	default:
		return string(t)
	}
}

// ProcesoContrarioPermitido resume qué proceso queda habilitado.
func (t TipoProcesoAnterior) ProcesoContrarioPermitido() string {
	switch {
	case t == ProcesoAnteriorTrasladoCompletado:
		return "radicacion"
	case t == ProcesoAnteriorRadicacionCompletada:
		return "traslado"
	case t == ProcesoAnteriorNinguno || t.EsDevuelto():
		return "ambos"
	default:
		return "ninguno"
	}
}
