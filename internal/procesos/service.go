package procesos

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"traslados/internal/cuentas"
	cuentasmodels "traslados/internal/cuentas/models"
	"traslados/internal/platform/metrics"
	"traslados/internal/procesos/models"
	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
	"traslados/pkg/platform/sentinel"
	txpkg "traslados/pkg/platform/tx"
)

// Tipos de proceso usados en métricas y eventos.
const (
	TipoTraslado   = "traslado"
	TipoRadicacion = "radicacion"
)

// Organismo describe el organismo de tránsito de un proceso. Si el código
// pertenece al catálogo conocido, el resto de campos se ignoran.
type Organismo struct {
	Codigo       string
	Nombre       string
	Municipio    string
	Departamento string
	Direccion    string
	Telefono     string
}

func (o Organismo) resolver() (domain.Ubicacion, error) {
	if ubicacion, ok := domain.UbicacionPorCodigo(o.Codigo); ok {
		return ubicacion, nil
	}
	if strings.TrimSpace(o.Nombre) == "" {
		return domain.UbicacionBasica(o.Codigo, o.Municipio, o.Departamento)
	}
	return domain.NuevaUbicacionConContacto(o.Codigo, o.Nombre, o.Municipio, o.Departamento, o.Direccion, o.Telefono)
}

// Service orquesta traslados y radicaciones junto con la cuenta de la
// placa: cada comando que abre o cierra un proceso persiste ambos
// agregados en la misma transacción.
type Service struct {
	traslados    TrasladoStore
	radicaciones RadicacionStore
	cuentas      *cuentas.Service
	metrics      *metrics.Metrics
	logger       *zap.Logger
	reloj        domain.Reloj
}

func NewService(traslados TrasladoStore, radicaciones RadicacionStore,
	cuentasSvc *cuentas.Service, m *metrics.Metrics, logger *zap.Logger, reloj domain.Reloj) *Service {
	return &Service{
		traslados:    traslados,
		radicaciones: radicaciones,
		cuentas:      cuentasSvc,
		metrics:      m,
		logger:       logger,
		reloj:        reloj,
	}
}

// IniciarTraslado abre un traslado hacia el organismo destino y marca la
// cuenta en traslado.
func (s *Service) IniciarTraslado(ctx context.Context, placa string, destino Organismo,
	fechaTramite, funcionario, observaciones string) (models.TrasladoSnapshot, error) {

	cuenta, err := s.cuentas.Agregado(ctx, placa)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}

	organismo, err := destino.resolver()
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	tramite, err := domain.FechaTramiteDesdeTexto(fechaTramite, s.reloj)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}

	traslado, err := models.NuevoTraslado(cuenta.Placa(), organismo, tramite, funcionario, observaciones, s.reloj)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	if err := cuenta.IniciarTraslado(funcionario); err != nil {
		return models.TrasladoSnapshot{}, err
	}

	if err := s.cuentas.Runner().RunInTx(ctx, func(ctx context.Context) error {
		if err := s.cuentas.GuardarAgregado(ctx, cuenta); err != nil {
			return err
		}
		return s.traslados.Guardar(ctx, traslado.Snapshot())
	}); err != nil {
		return models.TrasladoSnapshot{}, err
	}

	s.metrics.ProcesosIniciados.WithLabelValues(TipoTraslado).Inc()
	s.logger.Info("traslado iniciado",
		zap.String("placa", cuenta.Placa().Valor()),
		zap.String("organismo_destino", organismo.Codigo()))
	return traslado.Snapshot(), nil
}

// IniciarRadicacion abre una radicación desde el organismo origen y marca
// la cuenta en radicación.
func (s *Service) IniciarRadicacion(ctx context.Context, placa string, origen Organismo,
	fechaTramite, funcionario, observaciones string) (models.RadicacionSnapshot, error) {

	cuenta, err := s.cuentas.Agregado(ctx, placa)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}

	organismo, err := origen.resolver()
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	tramite, err := domain.FechaTramiteDesdeTexto(fechaTramite, s.reloj)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}

	radicacion, err := models.NuevaRadicacion(cuenta.Placa(), organismo, tramite, funcionario, observaciones, s.reloj)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	if err := cuenta.IniciarRadicacion(funcionario); err != nil {
		return models.RadicacionSnapshot{}, err
	}

	if err := s.cuentas.Runner().RunInTx(ctx, func(ctx context.Context) error {
		if err := s.cuentas.GuardarAgregado(ctx, cuenta); err != nil {
			return err
		}
		return s.radicaciones.Guardar(ctx, radicacion.Snapshot())
	}); err != nil {
		return models.RadicacionSnapshot{}, err
	}

	s.metrics.ProcesosIniciados.WithLabelValues(TipoRadicacion).Inc()
	s.logger.Info("radicación iniciada",
		zap.String("placa", cuenta.Placa().Valor()),
		zap.String("organismo_origen", organismo.Codigo()))
	return radicacion.Snapshot(), nil
}

// TrasladoPorPlaca devuelve el traslado registrado para la placa.
func (s *Service) TrasladoPorPlaca(ctx context.Context, placa string) (models.TrasladoSnapshot, error) {
	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	snap, err := s.traslados.PorPlaca(ctx, p.Valor())
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.TrasladoSnapshot{}, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe un traslado para la placa %s", p.Valor())
	}
	return snap, err
}

// RadicacionPorPlaca devuelve la radicación registrada para la placa.
func (s *Service) RadicacionPorPlaca(ctx context.Context, placa string) (models.RadicacionSnapshot, error) {
	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	snap, err := s.radicaciones.PorPlaca(ctx, p.Valor())
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.RadicacionSnapshot{}, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe una radicación para la placa %s", p.Valor())
	}
	return snap, err
}

// ListarTraslados devuelve los traslados que cumplen el filtro.
func (s *Service) ListarTraslados(ctx context.Context, filtro Filtro) ([]models.TrasladoSnapshot, error) {
	return s.traslados.Listar(ctx, filtro)
}

// ListarRadicaciones devuelve las radicaciones que cumplen el filtro.
func (s *Service) ListarRadicaciones(ctx context.Context, filtro Filtro) ([]models.RadicacionSnapshot, error) {
	return s.radicaciones.Listar(ctx, filtro)
}

// MarcarTrasladoRevisado pasa el traslado a revisado.
func (s *Service) MarcarTrasladoRevisado(ctx context.Context, placa, funcionario string) (models.TrasladoSnapshot, error) {
	return s.comandoTraslado(ctx, placa, func(t *models.Traslado) error {
		return t.MarcarRevisado(funcionario)
	})
}

// RecibirRadicacion registra la llegada de la documentación.
func (s *Service) RecibirRadicacion(ctx context.Context, placa, funcionario string) (models.RadicacionSnapshot, error) {
	return s.comandoRadicacion(ctx, placa, func(r *models.Radicacion) error {
		return r.MarcarRecibida(funcionario)
	})
}

// MarcarRadicacionRevisada pasa la radicación a revisada.
func (s *Service) MarcarRadicacionRevisada(ctx context.Context, placa, funcionario string) (models.RadicacionSnapshot, error) {
	return s.comandoRadicacion(ctx, placa, func(r *models.Radicacion) error {
		return r.MarcarRevisada(funcionario)
	})
}

// CompletarTraslado cierra el traslado y libera la cuenta, que queda
// marcada como enviada a otro organismo.
func (s *Service) CompletarTraslado(ctx context.Context, placa, funcionario, observacionesFinales string) (models.TrasladoSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("completar_traslado", inicio)

	snap, err := s.cerrarTraslado(ctx, placa,
		func(t *models.Traslado) error { return t.Completar(funcionario, observacionesFinales) },
		func(c *cuentaAgregado) error { return c.CompletarTraslado(funcionario) })
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	s.metrics.ProcesosCompletados.WithLabelValues(TipoTraslado).Inc()
	return snap, nil
}

// DevolverTraslado devuelve el traslado por decisión administrativa. Solo
// procede con esAdmin.
func (s *Service) DevolverTraslado(ctx context.Context, placa, funcionario, motivo string, esAdmin bool) (models.TrasladoSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("devolver_traslado", inicio)

	snap, err := s.cerrarTraslado(ctx, placa,
		func(t *models.Traslado) error { return t.Devolver(funcionario, motivo, esAdmin) },
		func(c *cuentaAgregado) error { return c.DevolverTraslado(funcionario, motivo) })
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	s.metrics.ProcesosDevueltos.WithLabelValues(TipoTraslado).Inc()
	return snap, nil
}

// CompletarRadicacion cierra la radicación y libera la cuenta, que queda
// marcada como llegada de otro organismo.
func (s *Service) CompletarRadicacion(ctx context.Context, placa, funcionario, observacionesFinales string) (models.RadicacionSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("completar_radicacion", inicio)

	snap, err := s.cerrarRadicacion(ctx, placa,
		func(r *models.Radicacion) error { return r.Completar(funcionario, observacionesFinales) },
		func(c *cuentaAgregado) error { return c.CompletarRadicacion(funcionario) })
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	s.metrics.ProcesosCompletados.WithLabelValues(TipoRadicacion).Inc()
	return snap, nil
}

// DevolverRadicacion devuelve la radicación por decisión administrativa.
func (s *Service) DevolverRadicacion(ctx context.Context, placa, funcionario, motivo string, esAdmin bool) (models.RadicacionSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("devolver_radicacion", inicio)

	snap, err := s.cerrarRadicacion(ctx, placa,
		func(r *models.Radicacion) error { return r.Devolver(funcionario, motivo, esAdmin) },
		func(c *cuentaAgregado) error { return c.DevolverRadicacion(funcionario, motivo) })
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	s.metrics.ProcesosDevueltos.WithLabelValues(TipoRadicacion).Inc()
	return snap, nil
}

// ActualizarObservacionesTraslado añade una observación sellada al
// traslado en curso.
func (s *Service) ActualizarObservacionesTraslado(ctx context.Context, placa, funcionario, texto string) (models.TrasladoSnapshot, error) {
	return s.comandoTraslado(ctx, placa, func(t *models.Traslado) error {
		return t.ActualizarObservaciones(funcionario, texto)
	})
}

// ActualizarObservacionesRadicacion añade una observación sellada a la
// radicación en curso.
func (s *Service) ActualizarObservacionesRadicacion(ctx context.Context, placa, funcionario, texto string) (models.RadicacionSnapshot, error) {
	return s.comandoRadicacion(ctx, placa, func(r *models.Radicacion) error {
		return r.ActualizarObservaciones(funcionario, texto)
	})
}

// AgregadoTraslado carga y rehidrata el traslado de la placa. Lo usa el
// servicio de novedades para acoplar el estado del proceso.
func (s *Service) AgregadoTraslado(ctx context.Context, placa string) (*models.Traslado, error) {
	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return nil, err
	}
	snap, err := s.traslados.PorPlaca(ctx, p.Valor())
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe un traslado para la placa %s", p.Valor())
	}
	if err != nil {
		return nil, err
	}
	return models.TrasladoDesdeRepositorio(snap, s.reloj)
}

// AgregadoRadicacion carga y rehidrata la radicación de la placa.
func (s *Service) AgregadoRadicacion(ctx context.Context, placa string) (*models.Radicacion, error) {
	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return nil, err
	}
	snap, err := s.radicaciones.PorPlaca(ctx, p.Valor())
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe una radicación para la placa %s", p.Valor())
	}
	if err != nil {
		return nil, err
	}
	return models.RadicacionDesdeRepositorio(snap, s.reloj)
}

// GuardarTraslado persiste el snapshot del traslado dentro de la
// transacción del contexto.
func (s *Service) GuardarTraslado(ctx context.Context, t *models.Traslado) error {
	return s.traslados.Guardar(ctx, t.Snapshot())
}

// GuardarRadicacion persiste el snapshot de la radicación dentro de la
// transacción del contexto.
func (s *Service) GuardarRadicacion(ctx context.Context, r *models.Radicacion) error {
	return s.radicaciones.Guardar(ctx, r.Snapshot())
}

// Runner expone el delimitador transaccional compartido.
func (s *Service) Runner() txpkg.Runner { return s.cuentas.Runner() }

type cuentaAgregado = cuentasmodels.Cuenta

func (s *Service) comandoTraslado(ctx context.Context, placa string, fn func(*models.Traslado) error) (models.TrasladoSnapshot, error) {
	traslado, err := s.AgregadoTraslado(ctx, placa)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	if err := fn(traslado); err != nil {
		return models.TrasladoSnapshot{}, err
	}
	if err := s.cuentas.Runner().RunInTx(ctx, func(ctx context.Context) error {
		return s.traslados.Guardar(ctx, traslado.Snapshot())
	}); err != nil {
		return models.TrasladoSnapshot{}, err
	}
	return traslado.Snapshot(), nil
}

func (s *Service) comandoRadicacion(ctx context.Context, placa string, fn func(*models.Radicacion) error) (models.RadicacionSnapshot, error) {
	radicacion, err := s.AgregadoRadicacion(ctx, placa)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	if err := fn(radicacion); err != nil {
		return models.RadicacionSnapshot{}, err
	}
	if err := s.cuentas.Runner().RunInTx(ctx, func(ctx context.Context) error {
		return s.radicaciones.Guardar(ctx, radicacion.Snapshot())
	}); err != nil {
		return models.RadicacionSnapshot{}, err
	}
	return radicacion.Snapshot(), nil
}

func (s *Service) cerrarTraslado(ctx context.Context, placa string,
	cierreProceso func(*models.Traslado) error, cierreCuenta func(*cuentaAgregado) error) (models.TrasladoSnapshot, error) {

	traslado, err := s.AgregadoTraslado(ctx, placa)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	cuenta, err := s.cuentas.Agregado(ctx, placa)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}

	if err := cierreProceso(traslado); err != nil {
		return models.TrasladoSnapshot{}, err
	}
	if err := cierreCuenta(cuenta); err != nil {
		return models.TrasladoSnapshot{}, err
	}

	if err := s.cuentas.Runner().RunInTx(ctx, func(ctx context.Context) error {
		if err := s.cuentas.GuardarAgregado(ctx, cuenta); err != nil {
			return err
		}
		return s.traslados.Guardar(ctx, traslado.Snapshot())
	}); err != nil {
		return models.TrasladoSnapshot{}, err
	}
	return traslado.Snapshot(), nil
}

func (s *Service) cerrarRadicacion(ctx context.Context, placa string,
	cierreProceso func(*models.Radicacion) error, cierreCuenta func(*cuentaAgregado) error) (models.RadicacionSnapshot, error) {

	radicacion, err := s.AgregadoRadicacion(ctx, placa)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	cuenta, err := s.cuentas.Agregado(ctx, placa)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}

	if err := cierreProceso(radicacion); err != nil {
		return models.RadicacionSnapshot{}, err
	}
	if err := cierreCuenta(cuenta); err != nil {
		return models.RadicacionSnapshot{}, err
	}

	if err := s.cuentas.Runner().RunInTx(ctx, func(ctx context.Context) error {
		if err := s.cuentas.GuardarAgregado(ctx, cuenta); err != nil {
			return err
		}
		return s.radicaciones.Guardar(ctx, radicacion.Snapshot())
	}); err != nil {
		return models.RadicacionSnapshot{}, err
	}
	return radicacion.Snapshot(), nil
}

func (s *Service) observarComando(comando string, inicio time.Time) {
	s.metrics.DuracionComandos.WithLabelValues(comando).Observe(time.Since(inicio).Seconds())
}
