// Package reportes produce vistas agregadas sobre los procesos en curso,
// principalmente el reporte de vencimientos por nivel de urgencia.
package reportes

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"traslados/internal/procesos"
	"traslados/pkg/domain"
)

// ProcesoEnCurso es la fila del reporte de vencimientos.
type ProcesoEnCurso struct {
	Placa            string              `json:"placa"`
	TipoProceso      string              `json:"tipo_proceso"`
	Organismo        string              `json:"organismo"`
	Estado           string              `json:"estado"`
	Funcionario      string              `json:"funcionario"`
	FechaVencimiento time.Time           `json:"fecha_vencimiento"`
	DiasRestantes    int                 `json:"dias_restantes"`
	Nivel            domain.NivelUrgencia `json:"nivel"`
}

// Vencimientos agrupa los procesos activos por nivel de urgencia.
type Vencimientos struct {
	Vencidos []ProcesoEnCurso `json:"vencidos"`
	Criticos []ProcesoEnCurso `json:"criticos"`
	EnAlerta []ProcesoEnCurso `json:"en_alerta"`
	Normales []ProcesoEnCurso `json:"normales"`
}

// Total cuenta los procesos del reporte.
func (v Vencimientos) Total() int {
	return len(v.Vencidos) + len(v.Criticos) + len(v.EnAlerta) + len(v.Normales)
}

// Service consulta los dos almacenes de procesos en paralelo y clasifica
// los resultados.
type Service struct {
	traslados    procesos.TrasladoStore
	radicaciones procesos.RadicacionStore
	logger       *zap.Logger
	reloj        domain.Reloj
}

func NewService(traslados procesos.TrasladoStore, radicaciones procesos.RadicacionStore,
	logger *zap.Logger, reloj domain.Reloj) *Service {
	return &Service{
		traslados:    traslados,
		radicaciones: radicaciones,
		logger:       logger,
		reloj:        reloj,
	}
}

// VencimientosPorNivel arma el reporte de vencimientos de los procesos no
// finalizados. Traslados y radicaciones se consultan concurrentemente.
func (s *Service) VencimientosPorNivel(ctx context.Context) (Vencimientos, error) {
	var filas [2][]ProcesoEnCurso

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snaps, err := s.traslados.Listar(ctx, procesos.Filtro{})
		if err != nil {
			return err
		}
		for _, snap := range snaps {
			if snap.Estado.EsEstadoFinal() {
				continue
			}
			filas[0] = append(filas[0], s.fila(snap.Placa, procesos.TipoTraslado,
				snap.OrganismoDestino.NombreCorto(), string(snap.Estado),
				snap.FuncionarioActual, snap.FechaVencimiento))
		}
		return nil
	})
	g.Go(func() error {
		snaps, err := s.radicaciones.Listar(ctx, procesos.Filtro{})
		if err != nil {
			return err
		}
		for _, snap := range snaps {
			if snap.Estado.EsEstadoFinal() {
				continue
			}
			filas[1] = append(filas[1], s.fila(snap.Placa, procesos.TipoRadicacion,
				snap.OrganismoOrigen.NombreCorto(), string(snap.Estado),
				snap.FuncionarioActual, snap.FechaVencimiento))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Vencimientos{}, err
	}

	var reporte Vencimientos
	for _, grupo := range filas {
		for _, fila := range grupo {
			switch fila.Nivel {
			case domain.UrgenciaVencida:
				reporte.Vencidos = append(reporte.Vencidos, fila)
			case domain.UrgenciaCritica:
				reporte.Criticos = append(reporte.Criticos, fila)
			case domain.UrgenciaAlerta:
				reporte.EnAlerta = append(reporte.EnAlerta, fila)
			default:
				reporte.Normales = append(reporte.Normales, fila)
			}
		}
	}
	ordenar(reporte.Vencidos)
	ordenar(reporte.Criticos)
	ordenar(reporte.EnAlerta)
	ordenar(reporte.Normales)

	s.logger.Debug("reporte de vencimientos generado",
		zap.Int("total", reporte.Total()),
		zap.Int("vencidos", len(reporte.Vencidos)))
	return reporte, nil
}

// ProximosAVencer lista los procesos que vencen dentro de la ventana de
// días indicada, los más urgentes primero.
func (s *Service) ProximosAVencer(ctx context.Context, dias int) ([]ProcesoEnCurso, error) {
	reporte, err := s.VencimientosPorNivel(ctx)
	if err != nil {
		return nil, err
	}

	var out []ProcesoEnCurso
	for _, grupo := range [][]ProcesoEnCurso{reporte.Vencidos, reporte.Criticos, reporte.EnAlerta, reporte.Normales} {
		for _, fila := range grupo {
			if fila.DiasRestantes <= dias {
				out = append(out, fila)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DiasRestantes < out[j].DiasRestantes })
	return out, nil
}

func (s *Service) fila(placa, tipo, organismo, estado, funcionario string, vencimiento time.Time) ProcesoEnCurso {
	fv := domain.NuevaFechaVencimiento(vencimiento)
	return ProcesoEnCurso{
		Placa:            placa,
		TipoProceso:      tipo,
		Organismo:        organismo,
		Estado:           estado,
		Funcionario:      funcionario,
		FechaVencimiento: fv.Fecha(),
		DiasRestantes:    fv.DiasRestantes(s.reloj),
		Nivel:            fv.NivelUrgencia(s.reloj),
	}
}

func ordenar(filas []ProcesoEnCurso) {
	sort.SliceStable(filas, func(i, j int) bool { return filas[i].DiasRestantes < filas[j].DiasRestantes })
}
