package procesos

import (
	"context"
	"time"

	"traslados/internal/procesos/models"
)

// Filtro acota los listados de procesos. Los campos vacíos no filtran.
// VenceAntes selecciona procesos cuya fecha de vencimiento es anterior al
// instante dado, lo que alimenta los reportes de urgencia.
type Filtro struct {
	Estado      string
	Funcionario string
	VenceAntes  time.Time
	Limite      int
}

// TrasladoStore persiste el traslado activo de cada placa. Guardar es un
// upsert: una placa tiene a lo sumo un traslado vigente.
type TrasladoStore interface {
	Guardar(ctx context.Context, snap models.TrasladoSnapshot) error
	PorPlaca(ctx context.Context, placa string) (models.TrasladoSnapshot, error)
	Listar(ctx context.Context, filtro Filtro) ([]models.TrasladoSnapshot, error)
}

// RadicacionStore persiste la radicación activa de cada placa.
type RadicacionStore interface {
	Guardar(ctx context.Context, snap models.RadicacionSnapshot) error
	PorPlaca(ctx context.Context, placa string) (models.RadicacionSnapshot, error)
	Listar(ctx context.Context, filtro Filtro) ([]models.RadicacionSnapshot, error)
}
