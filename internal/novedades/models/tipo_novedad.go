package models

import (
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// TipoNovedad clasifica la irregularidad detectada en un proceso.
type TipoNovedad string

const (
	NovedadDocumentoFaltante        TipoNovedad = "documento_faltante"
	NovedadDocumentoIncorrecto      TipoNovedad = "documento_incorrecto"
	NovedadInformacionInconsistente TipoNovedad = "informacion_inconsistente"
	NovedadFirmaFaltante            TipoNovedad = "firma_faltante"
	NovedadFechaIncorrecta          TipoNovedad = "fecha_incorrecta"
	NovedadDatosPropietario         TipoNovedad = "datos_propietario_incompletos"
	NovedadSOATVencido              TipoNovedad = "soat_vencido"
	NovedadTecnicomecanicaVencida   TipoNovedad = "tecnicomecanica_vencida"
	NovedadOtro                     TipoNovedad = "otro"
)

var tiposNovedad = []TipoNovedad{
	NovedadDocumentoFaltante,
	NovedadDocumentoIncorrecto,
	NovedadInformacionInconsistente,
	NovedadFirmaFaltante,
	NovedadFechaIncorrecta,
	NovedadDatosPropietario,
	NovedadSOATVencido,
	NovedadTecnicomecanicaVencida,
	NovedadOtro,
}

// ParseTipoNovedad interpreta un tipo de novedad textual.
func ParseTipoNovedad(valor string) (TipoNovedad, error) {
	normalizado := TipoNovedad(strings.ToLower(strings.TrimSpace(valor)))
	for _, tipo := range tiposNovedad {
		if tipo == normalizado {
			return tipo, nil
		}
	}
	return "", domainerrors.Newf(domainerrors.CodeValidation, "Tipo de novedad inválido: %s", valor)
}

func (t TipoNovedad) String() string { return string(t) }

// Display devuelve el tipo en texto legible: "Documento Faltante".
func (t TipoNovedad) Display() string {
	palabras := strings.Split(string(t), "_")
	for i, palabra := range palabras {
		if palabra != "" {
			palabras[i] = strings.ToUpper(palabra[:1]) + palabra[1:]
		}
	}
	return strings.Join(palabras, " ")
}
