package cuentas

import (
	"context"

	"traslados/internal/cuentas/models"
)

// Filtro acota los listados de cuentas. Campos vacíos no filtran.
type Filtro struct {
	Estado       models.EstadoCuenta
	TipoServicio models.TipoServicio
	Funcionario  string
	Limite       int
}

// Store persiste instantáneas de cuentas con su historial de asignaciones.
// Guardar es un upsert por placa: el historial se reemplaza completo, de
// modo que la instantánea y sus entradas queden escritas de forma atómica.
type Store interface {
	Guardar(ctx context.Context, snap models.CuentaSnapshot) error
	PorPlaca(ctx context.Context, placa string) (models.CuentaSnapshot, error)
	Existe(ctx context.Context, placa string) (bool, error)
	Listar(ctx context.Context, filtro Filtro) ([]models.CuentaSnapshot, error)
}
