package domain

import (
	"regexp"
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// TipoVehiculo clasifica una placa según su formato.
type TipoVehiculo string

const (
	VehiculoCarro       TipoVehiculo = "CARRO"
	VehiculoMoto        TipoVehiculo = "MOTO"
	VehiculoMotocarro   TipoVehiculo = "MOTOCARRO"
	VehiculoDesconocido TipoVehiculo = "DESCONOCIDO"
)

var formatosPlaca = []struct {
	patron *regexp.Regexp
	tipo   TipoVehiculo
}{
	{regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`), VehiculoCarro},
	{regexp.MustCompile(`^[A-Z]{3}[0-9]{2}[A-Z]$`), VehiculoMoto},
	{regexp.MustCompile(`^[A-Z]{3}[0-9]{2}$`), VehiculoMoto},
	{regexp.MustCompile(`^[0-9]{3}[A-Z]{3}$`), VehiculoMotocarro},
}

var caracteresPlaca = regexp.MustCompile(`^[A-Z0-9]+$`)

// Placa es la matrícula del vehículo y el identificador natural de la cuenta.
// Se normaliza a mayúsculas sin espacios y solo admite los formatos
// colombianos conocidos; cualquier otro carácter la invalida.
type Placa struct {
	valor string
}

// NuevaPlaca valida y normaliza una placa.
func NuevaPlaca(valor string) (Placa, error) {
	if strings.TrimSpace(valor) == "" {
		return Placa{}, domainerrors.New(domainerrors.CodeValidation, "La placa no puede estar vacía")
	}
	normalizada := strings.ToUpper(strings.TrimSpace(valor))
	normalizada = strings.ReplaceAll(normalizada, " ", "")
	if !caracteresPlaca.MatchString(normalizada) {
		return Placa{}, domainerrors.New(domainerrors.CodeValidation, "La placa contiene letras no válidas")
	}

	for _, f := range formatosPlaca {
		if f.patron.MatchString(normalizada) {
			return Placa{valor: normalizada}, nil
		}
	}
	return Placa{}, domainerrors.Newf(domainerrors.CodeValidation, "Formato de placa inválido: %s", normalizada)
}

// PlacaSiValida intenta construir una placa y reporta si el formato es válido.
func PlacaSiValida(valor string) (Placa, bool) {
	p, err := NuevaPlaca(valor)
	return p, err == nil
}

func (p Placa) Valor() string  { return p.valor }
func (p Placa) String() string { return p.valor }

// TipoVehiculo deduce el tipo de vehículo a partir del formato de la placa.
func (p Placa) TipoVehiculo() TipoVehiculo {
	for _, f := range formatosPlaca {
		if f.patron.MatchString(p.valor) {
			return f.tipo
		}
	}
	return VehiculoDesconocido
}

func (p Placa) EsCarro() bool     { return p.TipoVehiculo() == VehiculoCarro }
func (p Placa) EsMoto() bool      { return p.TipoVehiculo() == VehiculoMoto }
func (p Placa) EsMotocarro() bool { return p.TipoVehiculo() == VehiculoMotocarro }
