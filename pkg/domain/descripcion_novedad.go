package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	domainerrors "traslados/pkg/domain-errors"
)

// Límites de la descripción de una novedad.
const (
	DescripcionMinCaracteres = 10
	DescripcionMaxCaracteres = 500
)

// Umbrales descriptivos para clasificar descripciones por extensión.
const (
	descripcionCortaHasta     = 50
	descripcionDetalladaDesde = 200
)

var caracteresDescripcion = regexp.MustCompile(
	`^[a-zA-ZáéíóúüñÁÉÍÓÚÜÑ0-9\s.,;:¿?¡!\-_()\[\]"'°%#/+*=$]+$`)

var patronEtiquetaHTML = regexp.MustCompile(`<[^>]*>`)

// DescripcionNovedad es el texto obligatorio que explica una novedad. Se
// normaliza (espacios colapsados, oraciones capitalizadas) y se exige un
// mínimo de detalle.
type DescripcionNovedad struct {
	valor string
}

// NuevaDescripcionNovedad normaliza y valida la descripción.
func NuevaDescripcionNovedad(texto string) (DescripcionNovedad, error) {
	if strings.TrimSpace(texto) == "" {
		return DescripcionNovedad{}, domainerrors.New(domainerrors.CodeValidation,
			"La descripción de la novedad no puede estar vacía")
	}
	normalizado := normalizarDescripcion(texto)

	longitud := utf8.RuneCountInString(normalizado)
	if longitud < DescripcionMinCaracteres {
		return DescripcionNovedad{}, domainerrors.Newf(domainerrors.CodeValidation,
			"La descripción debe tener al menos %d caracteres", DescripcionMinCaracteres)
	}
	if longitud > DescripcionMaxCaracteres {
		return DescripcionNovedad{}, domainerrors.Newf(domainerrors.CodeValidation,
			"La descripción no puede exceder %d caracteres", DescripcionMaxCaracteres)
	}
	if patronEtiquetaHTML.MatchString(normalizado) {
		return DescripcionNovedad{}, domainerrors.New(domainerrors.CodeValidation,
			"La descripción contiene contenido no permitido")
	}
	for _, patron := range patronesSospechosos {
		if patron.MatchString(normalizado) {
			return DescripcionNovedad{}, domainerrors.New(domainerrors.CodeValidation,
				"La descripción contiene contenido no permitido")
		}
	}
	if !caracteresDescripcion.MatchString(normalizado) {
		return DescripcionNovedad{}, domainerrors.New(domainerrors.CodeValidation,
			"La descripción contiene caracteres no permitidos")
	}
	return DescripcionNovedad{valor: normalizado}, nil
}

// DescripcionConPrefijo antepone una etiqueta de contexto a la descripción.
func DescripcionConPrefijo(prefijo, texto string) (DescripcionNovedad, error) {
	return NuevaDescripcionNovedad(prefijo + ": " + texto)
}

func normalizarDescripcion(texto string) string {
	var b strings.Builder
	for _, r := range texto {
		if unicode.IsControl(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	normalizado := colapsarEspacios(b.String())

	// Capitaliza el inicio de cada oración.
	oraciones := strings.Split(normalizado, ". ")
	for i, oracion := range oraciones {
		oraciones[i] = capitalizar(oracion)
	}
	return strings.Join(oraciones, ". ")
}

func capitalizar(texto string) string {
	if texto == "" {
		return texto
	}
	primera, tam := utf8.DecodeRuneInString(texto)
	return string(unicode.ToUpper(primera)) + texto[tam:]
}

func (d DescripcionNovedad) Valor() string  { return d.valor }
func (d DescripcionNovedad) String() string { return d.valor }

func (d DescripcionNovedad) EsCorta() bool {
	return utf8.RuneCountInString(d.valor) < descripcionCortaHasta
}

func (d DescripcionNovedad) EsDetallada() bool {
	return utf8.RuneCountInString(d.valor) > descripcionDetalladaDesde
}

func (d DescripcionNovedad) NumeroPalabras() int { return len(strings.Fields(d.valor)) }

// ContienePalabraClave busca sin distinguir mayúsculas ni tildes.
func (d DescripcionNovedad) ContienePalabraClave(palabra string) bool {
	return strings.Contains(NormalizarBusqueda(d.valor), NormalizarBusqueda(palabra))
}

// Resumen devuelve los primeros maxCaracteres con elipsis si se recortó.
func (d DescripcionNovedad) Resumen(maxCaracteres int) string {
	runas := []rune(d.valor)
	if len(runas) <= maxCaracteres {
		return d.valor
	}
	if maxCaracteres <= 3 {
		return string(runas[:maxCaracteres])
	}
	return string(runas[:maxCaracteres-3]) + "..."
}
