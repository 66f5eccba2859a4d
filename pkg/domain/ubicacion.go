package domain

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

var espaciosCodigo = regexp.MustCompile(`\s+`)

// Ubicacion identifica un organismo de tránsito: destino de un traslado u
// origen de una radicación. Los datos de contacto son opcionales.
type Ubicacion struct {
	codigo         string
	nombreCompleto string
	municipio      string
	departamento   string
	direccion      string
	telefono       string
}

// NuevaUbicacion valida y normaliza una ubicación sin datos de contacto.
func NuevaUbicacion(codigo, nombreCompleto, municipio, departamento string) (Ubicacion, error) {
	return NuevaUbicacionConContacto(codigo, nombreCompleto, municipio, departamento, "", "")
}

// NuevaUbicacionConContacto valida y normaliza una ubicación completa.
func NuevaUbicacionConContacto(codigo, nombreCompleto, municipio, departamento, direccion, telefono string) (Ubicacion, error) {
	if strings.TrimSpace(codigo) == "" {
		return Ubicacion{}, domainerrors.New(domainerrors.CodeValidation, "El código de ubicación no puede estar vacío")
	}
	if strings.TrimSpace(nombreCompleto) == "" {
		return Ubicacion{}, domainerrors.New(domainerrors.CodeValidation, "El nombre del organismo no puede estar vacío")
	}
	if strings.TrimSpace(municipio) == "" {
		return Ubicacion{}, domainerrors.New(domainerrors.CodeValidation, "El municipio no puede estar vacío")
	}
	if strings.TrimSpace(departamento) == "" {
		return Ubicacion{}, domainerrors.New(domainerrors.CodeValidation, "El departamento no puede estar vacío")
	}
	return Ubicacion{
		codigo:         espaciosCodigo.ReplaceAllString(strings.ToUpper(strings.TrimSpace(codigo)), "_"),
		nombreCompleto: strings.TrimSpace(nombreCompleto),
		municipio:      strings.TrimSpace(municipio),
		departamento:   strings.TrimSpace(departamento),
		direccion:      strings.TrimSpace(direccion),
		telefono:       strings.TrimSpace(telefono),
	}, nil
}

// UbicacionBasica construye un organismo genérico a partir del municipio.
func UbicacionBasica(codigo, municipio, departamento string) (Ubicacion, error) {
	return NuevaUbicacion(codigo, "Organismo de Tránsito de "+strings.TrimSpace(municipio), municipio, departamento)
}

func (u Ubicacion) Codigo() string         { return u.codigo }
func (u Ubicacion) NombreCompleto() string { return u.nombreCompleto }
func (u Ubicacion) Municipio() string      { return u.municipio }
func (u Ubicacion) Departamento() string   { return u.departamento }
func (u Ubicacion) Direccion() string      { return u.direccion }
func (u Ubicacion) Telefono() string       { return u.telefono }

// NombreCorto convierte el código en un nombre presentable.
func (u Ubicacion) NombreCorto() string {
	palabras := strings.Split(strings.ToLower(strings.ReplaceAll(u.codigo, "_", " ")), " ")
	for i, palabra := range palabras {
		palabras[i] = capitalizar(palabra)
	}
	return strings.Join(palabras, " ")
}

// DescripcionCompleta devuelve "Municipio - Departamento".
func (u Ubicacion) DescripcionCompleta() string {
	return u.municipio + " - " + u.departamento
}

// Display devuelve el formato de presentación para interfaces.
func (u Ubicacion) Display() string {
	return fmt.Sprintf("%s (%s)", u.NombreCorto(), u.DescripcionCompleta())
}

func (u Ubicacion) String() string { return u.NombreCorto() }

func (u Ubicacion) MismoDepartamento(otra Ubicacion) bool {
	return strings.EqualFold(u.departamento, otra.departamento)
}

func (u Ubicacion) MismoMunicipio(otra Ubicacion) bool {
	return strings.EqualFold(u.municipio, otra.municipio) && u.MismoDepartamento(otra)
}

func (u Ubicacion) TieneContactoCompleto() bool {
	return u.direccion != "" && u.telefono != ""
}

// EsValida distingue una ubicación construida de su valor cero.
func (u Ubicacion) EsValida() bool { return u.codigo != "" }

func debeUbicacion(codigo, nombreCompleto, municipio, departamento string) Ubicacion {
	u, err := NuevaUbicacion(codigo, nombreCompleto, municipio, departamento)
	if err != nil {
		panic(err)
	}
	return u
}

var ubicacionesConocidas = []Ubicacion{
	debeUbicacion("SOGAMOSO", "Organismo de Tránsito de Sogamoso", "Sogamoso", "Boyacá"),
	debeUbicacion("MEDELLIN", "Secretaría de Movilidad de Medellín", "Medellín", "Antioquia"),
	debeUbicacion("BOGOTA_DC", "Secretaría Distrital de Movilidad de Bogotá", "Bogotá D.C.", "Cundinamarca"),
	debeUbicacion("FUNZA", "Organismo de Tránsito de Funza", "Funza", "Cundinamarca"),
	debeUbicacion("MARIQUITA", "Organismo de Tránsito de Mariquita", "Mariquita", "Tolima"),
	debeUbicacion("CALI", "Secretaría de Movilidad de Cali", "Cali", "Valle del Cauca"),
	debeUbicacion("MANIZALES", "Organismo de Tránsito de Manizales", "Manizales", "Caldas"),
}

// UbicacionesConocidas devuelve el catálogo de organismos registrados.
func UbicacionesConocidas() []Ubicacion {
	copia := make([]Ubicacion, len(ubicacionesConocidas))
	copy(copia, ubicacionesConocidas)
	return copia
}

// UbicacionPorCodigo busca en el catálogo por código normalizado.
func UbicacionPorCodigo(codigo string) (Ubicacion, bool) {
	normalizado := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(codigo)), " ", "_")
	for _, u := range ubicacionesConocidas {
		if u.codigo == normalizado {
			return u, true
		}
	}
	return Ubicacion{}, false
}

// UbicacionesPorMunicipio filtra el catálogo por municipio (subcadena,
// insensible a mayúsculas y tildes).
func UbicacionesPorMunicipio(municipio string) []Ubicacion {
	buscado := NormalizarBusqueda(municipio)
	var encontradas []Ubicacion
	for _, u := range ubicacionesConocidas {
		if strings.Contains(NormalizarBusqueda(u.municipio), buscado) {
			encontradas = append(encontradas, u)
		}
	}
	return encontradas
}
