package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with the right
// code and message.
//
// These represent factual states about stored records, not validation
// failures:
// - ErrNotFound: entity does not exist in the store
// - ErrDuplicado: natural key (placa, codigo de novedad) already taken
// - ErrEstadoInvalido: persisted row is in a state the domain rejects
// - ErrNoDisponible: backing resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound       = errors.New("no encontrado")
	ErrDuplicado      = errors.New("registro duplicado")
	ErrEstadoInvalido = errors.New("estado invalido")
	ErrNoDisponible   = errors.New("no disponible")
)
