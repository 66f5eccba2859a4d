package domain

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "traslados/pkg/domain-errors"
)

// CargoFuncionario es el rol de un funcionario dentro del organismo.
type CargoFuncionario string

const (
	CargoFuncionarioBase CargoFuncionario = "funcionario"
	CargoSupervisor      CargoFuncionario = "supervisor"
	CargoAdministrador   CargoFuncionario = "administrador"
)

// ParseCargoFuncionario interpreta un cargo textual; "admin" se acepta como
// alias de administrador.
func ParseCargoFuncionario(valor string) (CargoFuncionario, error) {
	switch strings.ToLower(strings.TrimSpace(valor)) {
	case "funcionario":
		return CargoFuncionarioBase, nil
	case "supervisor":
		return CargoSupervisor, nil
	case "admin", "administrador":
		return CargoAdministrador, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "Cargo de funcionario inválido: %s", valor)
	}
}

func (c CargoFuncionario) String() string { return string(c) }

// Display capitaliza el cargo para interfaces.
func (c CargoFuncionario) Display() string { return capitalizar(string(c)) }

var patronEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Funcionario identifica a quien ejecuta una acción sobre las cuentas. El ID
// se normaliza en mayúsculas sin espacios y el nombre en formato título.
type Funcionario struct {
	id             string
	nombreCompleto string
	cargo          CargoFuncionario
	email          string
	activo         bool
}

// NuevoFuncionario valida y normaliza un funcionario sin correo.
func NuevoFuncionario(id, nombreCompleto string, cargo CargoFuncionario) (Funcionario, error) {
	return NuevoFuncionarioConEmail(id, nombreCompleto, cargo, "")
}

// NuevoFuncionarioConEmail valida y normaliza un funcionario completo.
func NuevoFuncionarioConEmail(id, nombreCompleto string, cargo CargoFuncionario, email string) (Funcionario, error) {
	if strings.TrimSpace(id) == "" {
		return Funcionario{}, domainerrors.New(domainerrors.CodeValidation, "El ID del funcionario no puede estar vacío")
	}
	nombre := colapsarEspacios(nombreCompleto)
	if len([]rune(nombre)) < 3 {
		return Funcionario{}, domainerrors.New(domainerrors.CodeValidation,
			"El nombre completo debe tener al menos 3 caracteres")
	}
	if _, err := ParseCargoFuncionario(string(cargo)); err != nil {
		return Funcionario{}, err
	}

	palabras := strings.Fields(strings.ToLower(nombre))
	for i, palabra := range palabras {
		palabras[i] = capitalizar(palabra)
	}

	emailNormalizado := strings.ToLower(strings.TrimSpace(email))
	if emailNormalizado != "" && !patronEmail.MatchString(emailNormalizado) {
		return Funcionario{}, domainerrors.Newf(domainerrors.CodeValidation, "Email inválido: %s", email)
	}

	return Funcionario{
		id:             strings.ReplaceAll(NormalizarFuncionario(id), " ", ""),
		nombreCompleto: strings.Join(palabras, " "),
		cargo:          cargo,
		email:          emailNormalizado,
		activo:         true,
	}, nil
}

// FuncionarioBasico construye un funcionario con el cargo mínimo.
func FuncionarioBasico(id, nombre string) (Funcionario, error) {
	return NuevoFuncionario(id, nombre, CargoFuncionarioBase)
}

func (f Funcionario) ID() string              { return f.id }
func (f Funcionario) NombreCompleto() string  { return f.nombreCompleto }
func (f Funcionario) Cargo() CargoFuncionario { return f.cargo }
func (f Funcionario) Email() string           { return f.email }
func (f Funcionario) EstaActivo() bool        { return f.activo }

// Desactivado devuelve una copia marcada como inactiva.
func (f Funcionario) Desactivado() Funcionario {
	f.activo = false
	return f
}

func (f Funcionario) String() string { return f.nombreCompleto }

// NombreCorto devuelve las dos primeras palabras del nombre.
func (f Funcionario) NombreCorto() string {
	partes := strings.Fields(f.nombreCompleto)
	if len(partes) >= 2 {
		return partes[0] + " " + partes[1]
	}
	return f.nombreCompleto
}

// Iniciales concatena la primera letra de cada palabra del nombre.
func (f Funcionario) Iniciales() string {
	var b strings.Builder
	for _, palabra := range strings.Fields(f.nombreCompleto) {
		b.WriteString(strings.ToUpper(string([]rune(palabra)[0])))
	}
	return b.String()
}

// NombreConCargo devuelve "Nombre Completo (Cargo)".
func (f Funcionario) NombreConCargo() string {
	return fmt.Sprintf("%s (%s)", f.nombreCompleto, f.cargo.Display())
}

func (f Funcionario) EsSupervisorOSuperior() bool {
	return f.cargo == CargoSupervisor || f.cargo == CargoAdministrador
}

func (f Funcionario) EsAdministrador() bool { return f.cargo == CargoAdministrador }

func (f Funcionario) PuedeAprobarProcesos() bool { return f.EsAdministrador() }
