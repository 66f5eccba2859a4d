package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	domainerrors "traslados/pkg/domain-errors"
)

// Límites del consecutivo diario del número de cuenta.
const (
	ConsecutivoCuentaMinimo = 1
	ConsecutivoCuentaMaximo = 99999
)

var soloDigitos = regexp.MustCompile(`[^0-9]`)

// NumeroCuenta es el número administrativo de 13 dígitos con formato
// AAAAMMDDNNNNN: fecha de creación seguida del consecutivo del día.
type NumeroCuenta struct {
	valor string
}

// NuevoNumeroCuenta valida un número de cuenta. Acepta separadores (espacios,
// guiones) que se descartan antes de validar.
func NuevoNumeroCuenta(valor string, reloj Reloj) (NumeroCuenta, error) {
	limpio := soloDigitos.ReplaceAllString(valor, "")
	if limpio == "" {
		return NumeroCuenta{}, domainerrors.New(domainerrors.CodeValidation, "El número de cuenta no puede estar vacío")
	}
	if len(limpio) != 13 {
		return NumeroCuenta{}, domainerrors.Newf(domainerrors.CodeValidation,
			"El número de cuenta debe tener 13 dígitos, tiene %d", len(limpio))
	}

	anio, _ := strconv.Atoi(limpio[0:4])
	mes, _ := strconv.Atoi(limpio[4:6])
	dia, _ := strconv.Atoi(limpio[6:8])
	consecutivo, _ := strconv.Atoi(limpio[8:13])

	if anio < 1900 || anio > 2100 {
		return NumeroCuenta{}, domainerrors.Newf(domainerrors.CodeValidation, "Año inválido en número de cuenta: %d", anio)
	}
	fecha := Fecha(anio, time.Month(mes), dia)
	if fecha.Year() != anio || int(fecha.Month()) != mes || fecha.Day() != dia {
		return NumeroCuenta{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Fecha inválida en número de cuenta: %04d-%02d-%02d", anio, mes, dia)
	}
	if fecha.After(reloj.Hoy()) {
		return NumeroCuenta{}, domainerrors.New(domainerrors.CodeValidation,
			"La fecha del número de cuenta no puede ser futura")
	}
	if consecutivo < ConsecutivoCuentaMinimo || consecutivo > ConsecutivoCuentaMaximo {
		return NumeroCuenta{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Consecutivo inválido en número de cuenta: %d", consecutivo)
	}
	return NumeroCuenta{valor: limpio}, nil
}

// GenerarNumeroCuenta construye el número de cuenta de hoy con el consecutivo
// dado, normalmente asignado por el secuenciador.
func GenerarNumeroCuenta(reloj Reloj, consecutivo int) (NumeroCuenta, error) {
	return NumeroCuentaParaFecha(reloj.Hoy(), consecutivo, reloj)
}

// NumeroCuentaParaFecha construye el número de cuenta de una fecha concreta.
func NumeroCuentaParaFecha(fecha time.Time, consecutivo int, reloj Reloj) (NumeroCuenta, error) {
	if consecutivo < ConsecutivoCuentaMinimo || consecutivo > ConsecutivoCuentaMaximo {
		return NumeroCuenta{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Consecutivo inválido en número de cuenta: %d", consecutivo)
	}
	valor := fmt.Sprintf("%s%05d", TruncarFecha(fecha).Format("20060102"), consecutivo)
	return NuevoNumeroCuenta(valor, reloj)
}

func (n NumeroCuenta) Valor() string  { return n.valor }
func (n NumeroCuenta) String() string { return n.valor }

// Fecha devuelve la fecha de creación codificada en el número.
func (n NumeroCuenta) Fecha() time.Time {
	fecha, _ := time.ParseInLocation("20060102", n.valor[0:8], time.UTC)
	return fecha
}

// Consecutivo devuelve el consecutivo del día (1-99999).
func (n NumeroCuenta) Consecutivo() int {
	c, _ := strconv.Atoi(n.valor[8:13])
	return c
}

func (n NumeroCuenta) EsDeHoy(reloj Reloj) bool         { return n.Fecha().Equal(reloj.Hoy()) }
func (n NumeroCuenta) EsDeFecha(fecha time.Time) bool   { return n.Fecha().Equal(TruncarFecha(fecha)) }
func (n NumeroCuenta) DiasDesdeCreacion(reloj Reloj) int { return DiasEntre(n.Fecha(), reloj.Hoy()) }

// FormatoLegible presenta el número separando fecha y consecutivo.
func (n NumeroCuenta) FormatoLegible() string {
	return fmt.Sprintf("%s-%s-%s-%s", n.valor[0:4], n.valor[4:6], n.valor[6:8], n.valor[8:13])
}
