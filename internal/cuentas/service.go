package cuentas

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"traslados/internal/cuentas/models"
	"traslados/internal/platform/metrics"
	"traslados/internal/platform/secuencias"
	"traslados/pkg/domain"
	domainerrors "traslados/pkg/domain-errors"
	"traslados/pkg/platform/outbox"
	"traslados/pkg/platform/sentinel"
	txpkg "traslados/pkg/platform/tx"
)

// SecuenciaCuentas es el tipo de secuencia diaria usado para el consecutivo
// del número de cuenta.
const SecuenciaCuentas = "cuenta"

const tipoAgregadoCuenta = "cuenta"

// Service orquesta los comandos sobre cuentas: carga el agregado, ejecuta
// el comando de dominio y persiste snapshot más eventos en la misma
// transacción. La lógica de negocio vive en models.
type Service struct {
	store      Store
	eventos    outbox.Store
	secuencias secuencias.Asignador
	runner     txpkg.Runner
	metrics    *metrics.Metrics
	logger     *zap.Logger
	reloj      domain.Reloj
}

func NewService(store Store, eventos outbox.Store, asignador secuencias.Asignador,
	runner txpkg.Runner, m *metrics.Metrics, logger *zap.Logger, reloj domain.Reloj) *Service {
	return &Service{
		store:      store,
		eventos:    eventos,
		secuencias: asignador,
		runner:     runner,
		metrics:    m,
		logger:     logger,
		reloj:      reloj,
	}
}

// CrearCuenta registra una cuenta nueva para la placa con un número de
// cuenta generado a partir del consecutivo diario.
func (s *Service) CrearCuenta(ctx context.Context, placa, tipoServicio, funcionario string) (models.CuentaSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("crear_cuenta", inicio)

	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	servicio, err := models.ParseTipoServicio(tipoServicio)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}

	existe, err := s.store.Existe(ctx, p.Valor())
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	if existe {
		return models.CuentaSnapshot{}, domainerrors.Newf(domainerrors.CodeConflict,
			"Ya existe una cuenta para la placa %s", p.Valor())
	}

	consecutivo, err := s.secuencias.Siguiente(ctx, SecuenciaCuentas, s.reloj.Hoy())
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	numero, err := domain.GenerarNumeroCuenta(s.reloj, consecutivo)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}

	cuenta, err := models.NuevaCuenta(p, numero, servicio, funcionario, s.reloj)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}

	if err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		return s.GuardarAgregado(ctx, cuenta)
	}); err != nil {
		return models.CuentaSnapshot{}, err
	}

	s.metrics.CuentasCreadas.Inc()
	s.logger.Info("cuenta creada",
		zap.String("placa", p.Valor()),
		zap.String("numero_cuenta", numero.Valor()),
		zap.String("funcionario", cuenta.FuncionarioCreador()))
	return cuenta.Snapshot(), nil
}

// PorPlaca devuelve el snapshot de la cuenta o CodeNotFound.
func (s *Service) PorPlaca(ctx context.Context, placa string) (models.CuentaSnapshot, error) {
	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	snap, err := s.store.PorPlaca(ctx, p.Valor())
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.CuentaSnapshot{}, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe una cuenta para la placa %s", p.Valor())
	}
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	return snap, nil
}

// Listar devuelve las cuentas que cumplen el filtro.
func (s *Service) Listar(ctx context.Context, filtro Filtro) ([]models.CuentaSnapshot, error) {
	return s.store.Listar(ctx, filtro)
}

// Historial devuelve la traza de asignaciones de la cuenta.
func (s *Service) Historial(ctx context.Context, placa string) ([]models.HistorialAsignacion, error) {
	cuenta, err := s.Agregado(ctx, placa)
	if err != nil {
		return nil, err
	}
	return cuenta.Historial(), nil
}

// ProcesosPermitidos describe qué procesos puede iniciar la cuenta.
func (s *Service) ProcesosPermitidos(ctx context.Context, placa string) ([]string, error) {
	cuenta, err := s.Agregado(ctx, placa)
	if err != nil {
		return nil, err
	}
	return cuenta.ProcesosPermitidos(), nil
}

// Reasignar cambia el funcionario responsable dejando traza en el
// historial.
func (s *Service) Reasignar(ctx context.Context, placa, nuevoFuncionario, autoriza, motivo, observaciones string) (models.CuentaSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("reasignar", inicio)

	return s.comando(ctx, placa, func(c *models.Cuenta) error {
		return c.Reasignar(nuevoFuncionario, autoriza, motivo, observaciones)
	})
}

// Inactivar deja la cuenta fuera de operación. Rechaza cuentas con
// procesos activos.
func (s *Service) Inactivar(ctx context.Context, placa, funcionario, motivo string) (models.CuentaSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("inactivar", inicio)

	return s.comando(ctx, placa, func(c *models.Cuenta) error {
		return c.Inactivar(funcionario, motivo)
	})
}

// Reactivar vuelve a activar una cuenta inactiva.
func (s *Service) Reactivar(ctx context.Context, placa, funcionario string) (models.CuentaSnapshot, error) {
	inicio := time.Now()
	defer s.observarComando("reactivar", inicio)

	return s.comando(ctx, placa, func(c *models.Cuenta) error {
		return c.Reactivar(funcionario)
	})
}

// Agregado carga y rehidrata la cuenta. Lo usan también los servicios de
// procesos que necesitan ejecutar comandos sobre ella.
func (s *Service) Agregado(ctx context.Context, placa string) (*models.Cuenta, error) {
	p, err := domain.NuevaPlaca(placa)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.PorPlaca(ctx, p.Valor())
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, domainerrors.Newf(domainerrors.CodeNotFound,
			"No existe una cuenta para la placa %s", p.Valor())
	}
	if err != nil {
		return nil, err
	}
	return models.CuentaDesdeRepositorio(snap, s.reloj)
}

// GuardarAgregado persiste el snapshot y encola los eventos drenados. Debe
// invocarse dentro de un RunInTx para que snapshot y eventos compartan
// transacción.
func (s *Service) GuardarAgregado(ctx context.Context, cuenta *models.Cuenta) error {
	if err := s.store.Guardar(ctx, cuenta.Snapshot()); err != nil {
		return err
	}
	for _, evento := range cuenta.DrenarEventos() {
		err := s.eventos.Append(ctx, outbox.Event{
			AggregateType: tipoAgregadoCuenta,
			AggregateID:   evento.Base().AggregateID,
			EventType:     evento.TipoEvento(),
			Payload:       evento,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Runner expone el delimitador transaccional para los servicios que
// combinan la cuenta con otros agregados.
func (s *Service) Runner() txpkg.Runner { return s.runner }

func (s *Service) comando(ctx context.Context, placa string, fn func(*models.Cuenta) error) (models.CuentaSnapshot, error) {
	cuenta, err := s.Agregado(ctx, placa)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	if err := fn(cuenta); err != nil {
		return models.CuentaSnapshot{}, err
	}
	if err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		return s.GuardarAgregado(ctx, cuenta)
	}); err != nil {
		return models.CuentaSnapshot{}, err
	}
	return cuenta.Snapshot(), nil
}

func (s *Service) observarComando(comando string, inicio time.Time) {
	s.metrics.DuracionComandos.WithLabelValues(comando).Observe(time.Since(inicio).Seconds())
}
