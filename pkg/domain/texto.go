package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarDiacriticos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizarBusqueda prepara un texto para comparaciones insensibles a
// mayúsculas y a tildes: minúsculas y sin marcas diacríticas.
func NormalizarBusqueda(texto string) string {
	plano, _, err := transform.String(quitarDiacriticos, strings.ToLower(texto))
	if err != nil {
		return strings.ToLower(texto)
	}
	return plano
}

// NormalizarFuncionario normaliza el identificador de un funcionario tal como
// llega en un comando: sin espacios alrededor y en mayúsculas.
func NormalizarFuncionario(funcionario string) string {
	return strings.ToUpper(strings.TrimSpace(funcionario))
}

func colapsarEspacios(texto string) string {
	return strings.Join(strings.Fields(texto), " ")
}
