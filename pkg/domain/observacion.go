package domain

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// ObservacionMaxCaracteres limita el texto libre de observaciones.
const ObservacionMaxCaracteres = 1000

// separadorObservaciones separa entradas al combinar observaciones.
const separadorObservaciones = "\n---\n"

var patronesSospechosos = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bdocument\.`),
	regexp.MustCompile(`(?i)\bwindow\.`),
}

// Observacion es texto libre de seguimiento. Puede estar vacía; cuando trae
// contenido se normaliza línea a línea y se rechazan fragmentos con pinta de
// código ejecutable.
type Observacion struct {
	valor string
}

// NuevaObservacion normaliza y valida un texto de observación.
func NuevaObservacion(texto string) (Observacion, error) {
	normalizado := normalizarObservacion(texto)
	if len([]rune(normalizado)) > ObservacionMaxCaracteres {
		return Observacion{}, domainerrors.Newf(domainerrors.CodeValidation,
			"La observación no puede exceder %d caracteres", ObservacionMaxCaracteres)
	}
	for _, patron := range patronesSospechosos {
		if patron.MatchString(normalizado) {
			return Observacion{}, domainerrors.New(domainerrors.CodeValidation,
				"La observación contiene contenido no permitido")
		}
	}
	return Observacion{valor: normalizado}, nil
}

// ObservacionVacia devuelve la observación sin contenido.
func ObservacionVacia() Observacion { return Observacion{} }

// ObservacionConTimestamp construye una observación ya sellada con fecha,
// hora y funcionario.
func ObservacionConTimestamp(texto, funcionario string, reloj Reloj) (Observacion, error) {
	obs, err := NuevaObservacion(texto)
	if err != nil {
		return Observacion{}, err
	}
	return obs.ConTimestamp(funcionario, reloj)
}

func normalizarObservacion(texto string) string {
	// Conserva saltos de línea, descarta el resto de caracteres de control y
	// colapsa espacios dentro de cada línea.
	lineas := strings.Split(texto, "\n")
	limpias := make([]string, 0, len(lineas))
	for _, linea := range lineas {
		var b strings.Builder
		for _, r := range linea {
			if r >= 0x20 || r == '\t' {
				b.WriteRune(r)
			}
		}
		limpias = append(limpias, colapsarEspacios(b.String()))
	}
	resultado := strings.Join(limpias, "\n")
	return strings.Trim(resultado, "\n")
}

func (o Observacion) Valor() string  { return o.valor }
func (o Observacion) String() string { return o.valor }

func (o Observacion) EstaVacia() bool    { return o.valor == "" }
func (o Observacion) EsMultilinea() bool { return strings.Contains(o.valor, "\n") }

func (o Observacion) NumeroPalabras() int { return len(strings.Fields(o.valor)) }

func (o Observacion) NumeroLineas() int {
	if o.valor == "" {
		return 0
	}
	return strings.Count(o.valor, "\n") + 1
}

// Resumen devuelve los primeros maxCaracteres con elipsis si se recortó.
func (o Observacion) Resumen(maxCaracteres int) string {
	runas := []rune(o.valor)
	if len(runas) <= maxCaracteres {
		return o.valor
	}
	if maxCaracteres <= 3 {
		return string(runas[:maxCaracteres])
	}
	return string(runas[:maxCaracteres-3]) + "..."
}

// VistaPreviaUnaLinea aplana la observación a una sola línea recortada.
func (o Observacion) VistaPreviaUnaLinea(maxCaracteres int) string {
	plano := Observacion{valor: colapsarEspacios(strings.ReplaceAll(o.valor, "\n", " "))}
	return plano.Resumen(maxCaracteres)
}

// ConTimestamp antepone el sello "[dd/mm/aaaa HH:MM - FUNCIONARIO]" al
// contenido. Una observación vacía se sella como "Sin observaciones
// adicionales".
func (o Observacion) ConTimestamp(funcionario string, reloj Reloj) (Observacion, error) {
	contenido := o.valor
	if contenido == "" {
		contenido = "Sin observaciones adicionales"
	}
	sello := fmt.Sprintf("[%s - %s] %s",
		reloj.Ahora().Format("02/01/2006 15:04"), NormalizarFuncionario(funcionario), contenido)
	return NuevaObservacion(sello)
}

// CombinarObservaciones une observaciones no vacías con un separador visual.
// Falla si el resultado excede el límite de caracteres.
func CombinarObservaciones(observaciones ...Observacion) (Observacion, error) {
	partes := make([]string, 0, len(observaciones))
	for _, obs := range observaciones {
		if !obs.EstaVacia() {
			partes = append(partes, obs.valor)
		}
	}
	if len(partes) == 0 {
		return ObservacionVacia(), nil
	}
	return NuevaObservacion(strings.Join(partes, separadorObservaciones))
}
