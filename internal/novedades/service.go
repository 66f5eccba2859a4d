package novedades

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"traslados/internal/novedades/models"
	"traslados/internal/platform/metrics"
	"traslados/internal/platform/secuencias"
	"traslados/internal/procesos"
	procmodels "traslados/internal/procesos/models"
	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
	"traslados/pkg/platform/sentinel"
)

// SecuenciaNovedades es el tipo de secuencia diaria para el consecutivo
// del código NOV.
const SecuenciaNovedades = "novedad"

// Service orquesta el ciclo de vida de las novedades acoplándolo al estado
// del proceso afectado: reportar pone el proceso en con_novedades y la
// resolución de la última novedad abierta lo regresa a revisado.
type Service struct {
	store      Store
	procesos   *procesos.Service
	secuencias secuencias.Asignador
	metrics    *metrics.Metrics
	logger     *zap.Logger
	reloj      domain.Reloj
}

func NewService(store Store, procesosSvc *procesos.Service, asignador secuencias.Asignador,
	m *metrics.Metrics, logger *zap.Logger, reloj domain.Reloj) *Service {
	return &Service{
		store:      store,
		procesos:   procesosSvc,
		secuencias: asignador,
		metrics:    m,
		logger:     logger,
		reloj:      reloj,
	}
}

// Reportar crea una novedad sobre el proceso activo de la placa y deja el
// proceso en con_novedades.
func (s *Service) Reportar(ctx context.Context, placa, tipoNovedad, descripcion, prioridad,
	funcionario, tipoProceso, observaciones string) (models.NovedadSnapshot, error) {

	tipo, err := models.ParseTipoNovedad(tipoNovedad)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	prio, err := models.ParsePrioridadNovedad(prioridad)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	desc, err := domain.NuevaDescripcionNovedad(descripcion)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}

	consecutivo, err := s.secuencias.Siguiente(ctx, SecuenciaNovedades, s.reloj.Hoy())
	if err != nil {
		return models.NovedadSnapshot{}, err
	}

	switch tipoProceso {
	case models.ProcesoTraslado:
		traslado, err := s.procesos.AgregadoTraslado(ctx, placa)
		if err != nil {
			return models.NovedadSnapshot{}, err
		}
		if err := traslado.ReportarNovedad(funcionario, desc.Valor()); err != nil {
			return models.NovedadSnapshot{}, err
		}
		novedad, err := models.NuevaNovedad(traslado.Placa(), tipo, desc, prio, funcionario,
			tipoProceso, consecutivo, observaciones, s.reloj)
		if err != nil {
			return models.NovedadSnapshot{}, err
		}
		if err := s.procesos.Runner().RunInTx(ctx, func(ctx context.Context) error {
			if err := s.store.Guardar(ctx, novedad.Snapshot()); err != nil {
				return err
			}
			return s.procesos.GuardarTraslado(ctx, traslado)
		}); err != nil {
			return models.NovedadSnapshot{}, err
		}
		s.registrarReporte(novedad)
		return novedad.Snapshot(), nil

	case models.ProcesoRadicacion:
		radicacion, err := s.procesos.AgregadoRadicacion(ctx, placa)
		if err != nil {
			return models.NovedadSnapshot{}, err
		}
		if err := radicacion.ReportarNovedad(funcionario, desc.Valor()); err != nil {
			return models.NovedadSnapshot{}, err
		}
		novedad, err := models.NuevaNovedad(radicacion.Placa(), tipo, desc, prio, funcionario,
			tipoProceso, consecutivo, observaciones, s.reloj)
		if err != nil {
			return models.NovedadSnapshot{}, err
		}
		if err := s.procesos.Runner().RunInTx(ctx, func(ctx context.Context) error {
			if err := s.store.Guardar(ctx, novedad.Snapshot()); err != nil {
				return err
			}
			return s.procesos.GuardarRadicacion(ctx, radicacion)
		}); err != nil {
			return models.NovedadSnapshot{}, err
		}
		s.registrarReporte(novedad)
		return novedad.Snapshot(), nil

	default:
		return models.NovedadSnapshot{}, domainerrors.New(domainerrors.CodeValidation,
			"El tipo de proceso debe ser 'traslado' o 'radicacion'")
	}
}

// PorCodigo devuelve la novedad identificada por su código NOV.
func (s *Service) PorCodigo(ctx context.Context, codigo string) (models.NovedadSnapshot, error) {
	snap, err := s.store.PorCodigo(ctx, codigo)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.NovedadSnapshot{}, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe una novedad con código %s", codigo)
	}
	return snap, err
}

// Listar devuelve las novedades que cumplen el filtro.
func (s *Service) Listar(ctx context.Context, filtro Filtro) ([]models.NovedadSnapshot, error) {
	return s.store.Listar(ctx, filtro)
}

// TomarEnRevision asigna la novedad al funcionario que la revisa.
func (s *Service) TomarEnRevision(ctx context.Context, codigo, funcionario string) (models.NovedadSnapshot, error) {
	return s.comando(ctx, codigo, func(n *models.Novedad) error {
		return n.TomarEnRevision(funcionario)
	})
}

// Resolver cierra la novedad. Si era la última abierta de su proceso, el
// proceso vuelve a revisado.
func (s *Service) Resolver(ctx context.Context, codigo, funcionario, descripcionResolucion string) (models.NovedadSnapshot, error) {
	novedad, err := s.agregado(ctx, codigo)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	if err := novedad.Resolver(funcionario, descripcionResolucion); err != nil {
		return models.NovedadSnapshot{}, err
	}

	quedanAbiertas, err := s.quedanNovedadesAbiertas(ctx, novedad)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}

	if err := s.procesos.Runner().RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Guardar(ctx, novedad.Snapshot()); err != nil {
			return err
		}
		if quedanAbiertas {
			return nil
		}
		return s.liberarProceso(ctx, novedad, funcionario, descripcionResolucion)
	}); err != nil {
		return models.NovedadSnapshot{}, err
	}

	s.metrics.NovedadesResueltas.Inc()
	s.logger.Info("novedad resuelta",
		zap.String("codigo", novedad.Codigo()),
		zap.String("funcionario", novedad.FuncionarioResuelve()))
	return novedad.Snapshot(), nil
}

// Reabrir reactiva una novedad resuelta y, si el proceso ya había vuelto a
// revisado, lo regresa a con_novedades.
func (s *Service) Reabrir(ctx context.Context, codigo, funcionario, motivo string) (models.NovedadSnapshot, error) {
	novedad, err := s.agregado(ctx, codigo)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	if err := novedad.Reabrir(funcionario, motivo); err != nil {
		return models.NovedadSnapshot{}, err
	}

	if err := s.procesos.Runner().RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Guardar(ctx, novedad.Snapshot()); err != nil {
			return err
		}
		return s.retomarProceso(ctx, novedad, funcionario, motivo)
	}); err != nil {
		return models.NovedadSnapshot{}, err
	}

	s.logger.Info("novedad reabierta", zap.String("codigo", novedad.Codigo()))
	return novedad.Snapshot(), nil
}

// CambiarPrioridad ajusta la prioridad dejando justificación en las
// observaciones.
func (s *Service) CambiarPrioridad(ctx context.Context, codigo, funcionario, prioridad, justificacion string) (models.NovedadSnapshot, error) {
	nueva, err := models.ParsePrioridadNovedad(prioridad)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	return s.comando(ctx, codigo, func(n *models.Novedad) error {
		return n.CambiarPrioridad(funcionario, nueva, justificacion)
	})
}

// ActualizarObservaciones añade una observación sellada a la novedad.
func (s *Service) ActualizarObservaciones(ctx context.Context, codigo, funcionario, texto string) (models.NovedadSnapshot, error) {
	return s.comando(ctx, codigo, func(n *models.Novedad) error {
		return n.ActualizarObservaciones(funcionario, texto)
	})
}

func (s *Service) agregado(ctx context.Context, codigo string) (*models.Novedad, error) {
	snap, err := s.store.PorCodigo(ctx, codigo)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe una novedad con código %s", codigo)
	}
	if err != nil {
		return nil, err
	}
	return models.NovedadDesdeRepositorio(snap, s.reloj)
}

func (s *Service) comando(ctx context.Context, codigo string, fn func(*models.Novedad) error) (models.NovedadSnapshot, error) {
	novedad, err := s.agregado(ctx, codigo)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	if err := fn(novedad); err != nil {
		return models.NovedadSnapshot{}, err
	}
	if err := s.procesos.Runner().RunInTx(ctx, func(ctx context.Context) error {
		return s.store.Guardar(ctx, novedad.Snapshot())
	}); err != nil {
		return models.NovedadSnapshot{}, err
	}
	return novedad.Snapshot(), nil
}

// quedanNovedadesAbiertas revisa si el proceso de la novedad tiene otras
// novedades sin resolver.
func (s *Service) quedanNovedadesAbiertas(ctx context.Context, novedad *models.Novedad) (bool, error) {
	abiertas, err := s.store.Listar(ctx, Filtro{
		Placa:       novedad.Placa().Valor(),
		TipoProceso: novedad.TipoProceso(),
	})
	if err != nil {
		return false, err
	}
	for _, otra := range abiertas {
		if otra.Codigo == novedad.Codigo() {
			continue
		}
		if otra.Estado.RequiereAccion() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) liberarProceso(ctx context.Context, novedad *models.Novedad, funcionario, descripcion string) error {
	placa := novedad.Placa().Valor()
	switch novedad.TipoProceso() {
	case models.ProcesoTraslado:
		traslado, err := s.procesos.AgregadoTraslado(ctx, placa)
		if err != nil {
			return err
		}
		if traslado.Estado() != procmodels.TrasladoConNovedades {
			return nil
		}
		if err := traslado.ResolverNovedad(funcionario, descripcion); err != nil {
			return err
		}
		return s.procesos.GuardarTraslado(ctx, traslado)
	case models.ProcesoRadicacion:
		radicacion, err := s.procesos.AgregadoRadicacion(ctx, placa)
		if err != nil {
			return err
		}
		if radicacion.Estado() != procmodels.RadicacionConNovedades {
			return nil
		}
		if err := radicacion.ResolverNovedad(funcionario, descripcion); err != nil {
			return err
		}
		return s.procesos.GuardarRadicacion(ctx, radicacion)
	}
	return nil
}

func (s *Service) retomarProceso(ctx context.Context, novedad *models.Novedad, funcionario, motivo string) error {
	placa := novedad.Placa().Valor()
	descripcion := fmt.Sprintf("Novedad %s reabierta: %s", novedad.Codigo(), motivo)
	switch novedad.TipoProceso() {
	case models.ProcesoTraslado:
		traslado, err := s.procesos.AgregadoTraslado(ctx, placa)
		if err != nil {
			return err
		}
		if traslado.Estado() != procmodels.TrasladoRevisado {
			return nil
		}
		if err := traslado.ReportarNovedad(funcionario, descripcion); err != nil {
			return err
		}
		return s.procesos.GuardarTraslado(ctx, traslado)
	case models.ProcesoRadicacion:
		radicacion, err := s.procesos.AgregadoRadicacion(ctx, placa)
		if err != nil {
			return err
		}
		if radicacion.Estado() != procmodels.RadicacionRevisada {
			return nil
		}
		if err := radicacion.ReportarNovedad(funcionario, descripcion); err != nil {
			return err
		}
		return s.procesos.GuardarRadicacion(ctx, radicacion)
	}
	return nil
}

func (s *Service) registrarReporte(novedad *models.Novedad) {
	s.metrics.NovedadesReportadas.WithLabelValues(string(novedad.Prioridad())).Inc()
	s.logger.Info("novedad reportada",
		zap.String("codigo", novedad.Codigo()),
		zap.String("placa", novedad.Placa().Valor()),
		zap.String("prioridad", string(novedad.Prioridad())))
}
