package novedades

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"traslados/internal/novedades/models"
	"traslados/pkg/platform/sentinel"
	txcontext "traslados/pkg/platform/tx"
)

type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persiste novedades en la tabla novedades. Participa en la
// transacción presente en el contexto cuando la hay.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) runner(ctx context.Context) dbRunner {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const columnasNovedad = `codigo, uuid_interno, placa, tipo_novedad, descripcion, prioridad,
	funcionario_reporta, fecha_reporte, tipo_proceso, estado, observaciones,
	funcionario_resuelve, fecha_resolucion, descripcion_resolucion,
	funcionario_actual, actualizado_en`

func (s *PostgresStore) Guardar(ctx context.Context, snap models.NovedadSnapshot) error {
	q := fmt.Sprintf(`
		INSERT INTO novedades (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (codigo) DO UPDATE SET
			prioridad = EXCLUDED.prioridad,
			estado = EXCLUDED.estado,
			observaciones = EXCLUDED.observaciones,
			funcionario_resuelve = EXCLUDED.funcionario_resuelve,
			fecha_resolucion = EXCLUDED.fecha_resolucion,
			descripcion_resolucion = EXCLUDED.descripcion_resolucion,
			funcionario_actual = EXCLUDED.funcionario_actual,
			actualizado_en = EXCLUDED.actualizado_en`, columnasNovedad)

	var fechaResolucion sql.NullTime
	if !snap.FechaResolucion.IsZero() {
		fechaResolucion = sql.NullTime{Time: snap.FechaResolucion, Valid: true}
	}

	_, err := s.runner(ctx).ExecContext(ctx, q,
		snap.Codigo, snap.UUIDInterno, snap.Placa, string(snap.TipoNovedad),
		snap.Descripcion, string(snap.Prioridad), snap.FuncionarioReporta,
		snap.FechaReporte, snap.TipoProceso, string(snap.Estado),
		snap.Observaciones, snap.FuncionarioResuelve, fechaResolucion,
		snap.DescripcionResolucion, snap.FuncionarioActual,
		snap.FechaUltimaActualizacion)
	if err != nil {
		return fmt.Errorf("guardar novedad %s: %w", snap.Codigo, err)
	}
	return nil
}

func (s *PostgresStore) PorCodigo(ctx context.Context, codigo string) (models.NovedadSnapshot, error) {
	q := fmt.Sprintf(`SELECT %s FROM novedades WHERE codigo = $1`, columnasNovedad)
	snap, err := escanearNovedad(s.runner(ctx).QueryRowContext(ctx, q, codigo))
	if err == sql.ErrNoRows {
		return models.NovedadSnapshot{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.NovedadSnapshot{}, fmt.Errorf("consultar novedad %s: %w", codigo, err)
	}
	return snap, nil
}

func (s *PostgresStore) Listar(ctx context.Context, filtro Filtro) ([]models.NovedadSnapshot, error) {
	var condiciones []string
	var args []any
	agregar := func(columna, valor string) {
		args = append(args, valor)
		condiciones = append(condiciones, fmt.Sprintf("%s = $%d", columna, len(args)))
	}
	if filtro.Placa != "" {
		agregar("placa", filtro.Placa)
	}
	if filtro.Estado != "" {
		agregar("estado", filtro.Estado)
	}
	if filtro.Prioridad != "" {
		agregar("prioridad", filtro.Prioridad)
	}
	if filtro.TipoProceso != "" {
		agregar("tipo_proceso", filtro.TipoProceso)
	}
	if filtro.Funcionario != "" {
		agregar("UPPER(funcionario_actual)", strings.ToUpper(strings.TrimSpace(filtro.Funcionario)))
	}

	q := fmt.Sprintf(`SELECT %s FROM novedades`, columnasNovedad)
	if len(condiciones) > 0 {
		q += " WHERE " + strings.Join(condiciones, " AND ")
	}
	q += " ORDER BY fecha_reporte"
	if filtro.Limite > 0 {
		q = fmt.Sprintf("%s LIMIT %d", q, filtro.Limite)
	}

	rows, err := s.runner(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listar novedades: %w", err)
	}
	defer rows.Close()

	var out []models.NovedadSnapshot
	for rows.Next() {
		snap, err := escanearNovedad(rows)
		if err != nil {
			return nil, fmt.Errorf("leer fila de novedad: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ConsecutivosDeHoy(ctx context.Context, prefijo string) ([]string, error) {
	const q = `SELECT codigo FROM novedades WHERE codigo LIKE $1 ORDER BY codigo`
	rows, err := s.runner(ctx).QueryContext(ctx, q, prefijo+"%")
	if err != nil {
		return nil, fmt.Errorf("consultar consecutivos: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var codigo string
		if err := rows.Scan(&codigo); err != nil {
			return nil, err
		}
		out = append(out, codigo)
	}
	return out, rows.Err()
}

type escaneable interface {
	Scan(dest ...any) error
}

func escanearNovedad(row escaneable) (models.NovedadSnapshot, error) {
	var snap models.NovedadSnapshot
	var tipo, prioridad, estado string
	var fechaResolucion sql.NullTime
	err := row.Scan(&snap.Codigo, &snap.UUIDInterno, &snap.Placa, &tipo,
		&snap.Descripcion, &prioridad, &snap.FuncionarioReporta,
		&snap.FechaReporte, &snap.TipoProceso, &estado, &snap.Observaciones,
		&snap.FuncionarioResuelve, &fechaResolucion, &snap.DescripcionResolucion,
		&snap.FuncionarioActual, &snap.FechaUltimaActualizacion)
	if err != nil {
		return models.NovedadSnapshot{}, err
	}
	snap.TipoNovedad = models.TipoNovedad(tipo)
	snap.Prioridad = models.PrioridadNovedad(prioridad)
	snap.Estado = models.EstadoNovedad(estado)
	if fechaResolucion.Valid {
		snap.FechaResolucion = fechaResolucion.Time
	} else {
		snap.FechaResolucion = time.Time{}
	}
	return snap, nil
}
