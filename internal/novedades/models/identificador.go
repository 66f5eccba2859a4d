package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
)

// Límites del consecutivo diario de novedades.
const (
	ConsecutivoNovedadMinimo = 1
	ConsecutivoNovedadMaximo = 9999
)

var patronCodigoNovedad = regexp.MustCompile(`^NOV-\d{8}-\d{4}$`)

// IdentificadorNovedad es el código único de una novedad con formato
// NOV-AAAAMMDD-NNNN, más un UUID interno para correlación técnica.
type IdentificadorNovedad struct {
	codigo        string
	fechaCreacion time.Time
	consecutivo   int
	uuidInterno   string
}

// GenerarIdentificadorNovedad construye el identificador de hoy con el
// consecutivo dado.
func GenerarIdentificadorNovedad(reloj domain.Reloj, consecutivo int) (IdentificadorNovedad, error) {
	return IdentificadorParaFecha(reloj.Hoy(), consecutivo)
}

// IdentificadorParaFecha construye el identificador de una fecha concreta.
func IdentificadorParaFecha(fecha time.Time, consecutivo int) (IdentificadorNovedad, error) {
	if consecutivo < ConsecutivoNovedadMinimo || consecutivo > ConsecutivoNovedadMaximo {
		return IdentificadorNovedad{}, domainerrors.Newf(domainerrors.CodeValidation,
			"El consecutivo de novedad debe estar entre %d y %d", ConsecutivoNovedadMinimo, ConsecutivoNovedadMaximo)
	}
	fecha = domain.TruncarFecha(fecha)
	return IdentificadorNovedad{
		codigo:        fmt.Sprintf("NOV-%s-%04d", fecha.Format("20060102"), consecutivo),
		fechaCreacion: fecha,
		consecutivo:   consecutivo,
		uuidInterno:   uuid.NewString(),
	}, nil
}

// IdentificadorDesdeCodigo reconstruye un identificador a partir del código.
// Con uuidInterno vacío se genera uno nuevo.
func IdentificadorDesdeCodigo(codigo, uuidInterno string) (IdentificadorNovedad, error) {
	if !patronCodigoNovedad.MatchString(codigo) {
		return IdentificadorNovedad{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Formato de código de novedad inválido: %s", codigo)
	}
	fecha, err := time.ParseInLocation("20060102", codigo[4:12], time.UTC)
	if err != nil {
		return IdentificadorNovedad{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Fecha inválida en código de novedad: %s", codigo)
	}
	consecutivo, _ := strconv.Atoi(codigo[13:17])
	if consecutivo < ConsecutivoNovedadMinimo {
		return IdentificadorNovedad{}, domainerrors.Newf(domainerrors.CodeValidation,
			"Consecutivo inválido en código de novedad: %s", codigo)
	}
	if uuidInterno == "" {
		uuidInterno = uuid.NewString()
	} else if _, err := uuid.Parse(uuidInterno); err != nil {
		return IdentificadorNovedad{}, domainerrors.New(domainerrors.CodeValidation, "UUID interno inválido")
	}
	return IdentificadorNovedad{
		codigo:        codigo,
		fechaCreacion: fecha,
		consecutivo:   consecutivo,
		uuidInterno:   uuidInterno,
	}, nil
}

func (i IdentificadorNovedad) Codigo() string          { return i.codigo }
func (i IdentificadorNovedad) String() string          { return i.codigo }
func (i IdentificadorNovedad) FechaCreacion() time.Time { return i.fechaCreacion }
func (i IdentificadorNovedad) Consecutivo() int        { return i.consecutivo }
func (i IdentificadorNovedad) UUIDInterno() string     { return i.uuidInterno }

func (i IdentificadorNovedad) EsDeHoy(reloj domain.Reloj) bool {
	return i.fechaCreacion.Equal(reloj.Hoy())
}

func (i IdentificadorNovedad) EsDeFecha(fecha time.Time) bool {
	return i.fechaCreacion.Equal(domain.TruncarFecha(fecha))
}

func (i IdentificadorNovedad) DiasDesdeCreacion(reloj domain.Reloj) int {
	return domain.DiasEntre(i.fechaCreacion, reloj.Hoy())
}

// FormatoDisplay presenta el código para interfaces: NOV-2024/12/04-0001.
func (i IdentificadorNovedad) FormatoDisplay() string {
	return fmt.Sprintf("NOV-%s-%04d", i.fechaCreacion.Format("2006/01/02"), i.consecutivo)
}

// FormatoCorto presenta el código abreviado: NOV-1204-0001.
func (i IdentificadorNovedad) FormatoCorto() string {
	return fmt.Sprintf("NOV-%s-%04d", i.fechaCreacion.Format("0102"), i.consecutivo)
}

// ProximoConsecutivo calcula el siguiente consecutivo de hoy a partir de los
// identificadores existentes.
func ProximoConsecutivo(existentes []IdentificadorNovedad, reloj domain.Reloj) int {
	mayor := 0
	for _, ident := range existentes {
		if ident.EsDeHoy(reloj) && ident.consecutivo > mayor {
			mayor = ident.consecutivo
		}
	}
	return mayor + 1
}
