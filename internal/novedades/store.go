package novedades

import (
	"context"

	"traslados/internal/novedades/models"
)

// Filtro acota los listados de novedades. Los campos vacíos no filtran.
type Filtro struct {
	Placa       string
	Estado      string
	Prioridad   string
	TipoProceso string
	Funcionario string
	Limite      int
}

// Store persiste novedades identificadas por su código NOV-AAAAMMDD-NNNN.
// Guardar es un upsert por código.
type Store interface {
	Guardar(ctx context.Context, snap models.NovedadSnapshot) error
	PorCodigo(ctx context.Context, codigo string) (models.NovedadSnapshot, error)
	Listar(ctx context.Context, filtro Filtro) ([]models.NovedadSnapshot, error)
	// ConsecutivosDeHoy devuelve los códigos ya emitidos en la fecha dada,
	// insumo para calcular el próximo consecutivo diario.
	ConsecutivosDeHoy(ctx context.Context, prefijo string) ([]string, error)
}
