package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "traslados/pkg/domain-errors"
)

// Encabezados de identidad. El funcionario viene del encabezado porque la
// autenticación real queda fuera del servicio; X-Es-Admin habilita las
// devoluciones administrativas.
const (
	HeaderFuncionario = "X-Funcionario"
	HeaderEsAdmin     = "X-Es-Admin"
)

func funcionarioDe(r *http.Request) string {
	return r.Header.Get(HeaderFuncionario)
}

func esAdmin(r *http.Request) bool {
	return r.Header.Get(HeaderEsAdmin) == "true"
}

// requiereFuncionario corta la petición cuando falta el encabezado de
// identidad. Todos los comandos lo exigen.
func requiereFuncionario(w http.ResponseWriter, r *http.Request) (string, bool) {
	funcionario := funcionarioDe(r)
	if funcionario == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "El encabezado X-Funcionario es requerido"))
		return "", false
	}
	return funcionario, true
}

func decodificar(r *http.Request, destino any) error {
	if err := json.NewDecoder(r.Body).Decode(destino); err != nil {
		return dErrors.New(dErrors.CodeValidation, "Cuerpo de la petición inválido")
	}
	return nil
}

func responder(w http.ResponseWriter, status int, cuerpo any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if cuerpo != nil {
		_ = json.NewEncoder(w).Encode(cuerpo)
	}
}

// writeError centraliza la traducción de errores de dominio a respuestas
// HTTP con sobre JSON uniforme.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	mensaje := err.Error()
	var de *dErrors.Error
	if errors.As(err, &de) {
		mensaje = de.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusPorCodigo(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"mensaje": mensaje,
	})
}

func statusPorCodigo(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodePrecondition:
		return http.StatusConflict
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
