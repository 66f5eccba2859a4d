package cuentas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"traslados/internal/cuentas/models"
	"traslados/pkg/platform/sentinel"
	txcontext "traslados/pkg/platform/tx"
)

// PostgresStore persiste cuentas en PostgreSQL. La instantánea va a la tabla
// cuentas y el historial a cuenta_historial; Guardar reemplaza ambos dentro
// de la transacción del contexto, la misma que usa el outbox de eventos.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) runner(ctx context.Context) dbRunner {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Guardar(ctx context.Context, snap models.CuentaSnapshot) error {
	run := s.runner(ctx)

	const upsert = `
		INSERT INTO cuentas (placa, numero_cuenta, tipo_servicio, estado, fecha_creacion,
			funcionario_creador, tipo_proceso_anterior, traslado_activo, radicacion_activa)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (placa) DO UPDATE SET
			estado = EXCLUDED.estado,
			tipo_proceso_anterior = EXCLUDED.tipo_proceso_anterior,
			traslado_activo = EXCLUDED.traslado_activo,
			radicacion_activa = EXCLUDED.radicacion_activa
	`
	if _, err := run.ExecContext(ctx, upsert,
		snap.Placa, snap.NumeroCuenta, snap.TipoServicio, snap.Estado, snap.FechaCreacion,
		snap.FuncionarioCreador, snap.TipoProcesoAnterior, snap.TrasladoActivo, snap.RadicacionActiva,
	); err != nil {
		return fmt.Errorf("upsert cuenta: %w", err)
	}

	if _, err := run.ExecContext(ctx, `DELETE FROM cuenta_historial WHERE placa = $1`, snap.Placa); err != nil {
		return fmt.Errorf("limpiar historial: %w", err)
	}
	const insertHistorial = `
		INSERT INTO cuenta_historial (placa, posicion, funcionario_id, fecha_asignacion,
			motivo, funcionario_asigna, tipo, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, h := range snap.Historial {
		if _, err := run.ExecContext(ctx, insertHistorial,
			snap.Placa, i, h.FuncionarioID, h.FechaAsignacion,
			h.Motivo, h.FuncionarioAsigna, h.Tipo, h.Observaciones,
		); err != nil {
			return fmt.Errorf("insertar historial: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) PorPlaca(ctx context.Context, placa string) (models.CuentaSnapshot, error) {
	run := s.runner(ctx)

	const query = `
		SELECT placa, numero_cuenta, tipo_servicio, estado, fecha_creacion,
			funcionario_creador, tipo_proceso_anterior, traslado_activo, radicacion_activa
		FROM cuentas WHERE placa = $1
	`
	var snap models.CuentaSnapshot
	err := run.QueryRowContext(ctx, query, placa).Scan(
		&snap.Placa, &snap.NumeroCuenta, &snap.TipoServicio, &snap.Estado, &snap.FechaCreacion,
		&snap.FuncionarioCreador, &snap.TipoProcesoAnterior, &snap.TrasladoActivo, &snap.RadicacionActiva,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CuentaSnapshot{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.CuentaSnapshot{}, fmt.Errorf("consultar cuenta: %w", err)
	}

	historial, err := s.historialDe(ctx, run, snap.Placa)
	if err != nil {
		return models.CuentaSnapshot{}, err
	}
	snap.Historial = historial
	return snap, nil
}

func (s *PostgresStore) historialDe(ctx context.Context, run dbRunner, placa string) ([]models.HistorialAsignacion, error) {
	const query = `
		SELECT funcionario_id, fecha_asignacion, motivo, funcionario_asigna, tipo, observaciones
		FROM cuenta_historial WHERE placa = $1 ORDER BY posicion
	`
	rows, err := run.QueryContext(ctx, query, placa)
	if err != nil {
		return nil, fmt.Errorf("consultar historial: %w", err)
	}
	defer rows.Close()

	var historial []models.HistorialAsignacion
	for rows.Next() {
		var h models.HistorialAsignacion
		if err := rows.Scan(&h.FuncionarioID, &h.FechaAsignacion, &h.Motivo,
			&h.FuncionarioAsigna, &h.Tipo, &h.Observaciones); err != nil {
			return nil, fmt.Errorf("leer historial: %w", err)
		}
		historial = append(historial, h)
	}
	return historial, rows.Err()
}

func (s *PostgresStore) Existe(ctx context.Context, placa string) (bool, error) {
	var existe bool
	err := s.runner(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cuentas WHERE placa = $1)`, placa).Scan(&existe)
	if err != nil {
		return false, fmt.Errorf("verificar cuenta: %w", err)
	}
	return existe, nil
}

func (s *PostgresStore) Listar(ctx context.Context, filtro Filtro) ([]models.CuentaSnapshot, error) {
	run := s.runner(ctx)

	query := `
		SELECT placa, numero_cuenta, tipo_servicio, estado, fecha_creacion,
			funcionario_creador, tipo_proceso_anterior, traslado_activo, radicacion_activa
		FROM cuentas WHERE 1=1
	`
	var args []any
	if filtro.Estado != "" {
		args = append(args, filtro.Estado)
		query += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	if filtro.TipoServicio != "" {
		args = append(args, filtro.TipoServicio)
		query += fmt.Sprintf(" AND tipo_servicio = $%d", len(args))
	}
	query += " ORDER BY placa"
	// El límite solo puede bajar a SQL cuando no hay filtro por funcionario:
	// ese filtro se resuelve en memoria y debe aplicarse antes de recortar.
	if filtro.Limite > 0 && filtro.Funcionario == "" {
		args = append(args, filtro.Limite)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := run.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar cuentas: %w", err)
	}
	defer rows.Close()

	var resultado []models.CuentaSnapshot
	for rows.Next() {
		var snap models.CuentaSnapshot
		if err := rows.Scan(&snap.Placa, &snap.NumeroCuenta, &snap.TipoServicio, &snap.Estado,
			&snap.FechaCreacion, &snap.FuncionarioCreador, &snap.TipoProcesoAnterior,
			&snap.TrasladoActivo, &snap.RadicacionActiva); err != nil {
			return nil, fmt.Errorf("leer cuenta: %w", err)
		}
		resultado = append(resultado, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range resultado {
		historial, err := s.historialDe(ctx, run, resultado[i].Placa)
		if err != nil {
			return nil, err
		}
		resultado[i].Historial = historial
	}

	// El filtro por funcionario asignado depende de la última entrada del
	// historial, así que se aplica en memoria.
	if filtro.Funcionario != "" {
		filtradas := resultado[:0]
		for _, snap := range resultado {
			if asignadaA(snap, filtro.Funcionario) {
				filtradas = append(filtradas, snap)
			}
		}
		resultado = filtradas
		if filtro.Limite > 0 && len(resultado) > filtro.Limite {
			resultado = resultado[:filtro.Limite]
		}
	}
	return resultado, nil
}
