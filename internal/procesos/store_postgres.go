package procesos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"traslados/internal/procesos/models"
	"traslados/pkg/domain"
	"traslados/pkg/platform/sentinel"
	txcontext "traslados/pkg/platform/tx"
)

type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresTrasladoStore persiste traslados en la tabla traslados. Participa
// en la transacción presente en el contexto cuando la hay.
type PostgresTrasladoStore struct {
	db *sql.DB
}

func NewPostgresTrasladoStore(db *sql.DB) *PostgresTrasladoStore {
	return &PostgresTrasladoStore{db: db}
}

func (s *PostgresTrasladoStore) runner(ctx context.Context) dbRunner {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const columnasTraslado = `placa, organismo_codigo, organismo_nombre, organismo_municipio,
	organismo_departamento, organismo_direccion, organismo_telefono,
	fecha_tramite, fecha_vencimiento, funcionario_envia, estado,
	observaciones, funcionario_actual, actualizado_en`

func (s *PostgresTrasladoStore) Guardar(ctx context.Context, snap models.TrasladoSnapshot) error {
	q := fmt.Sprintf(`
		INSERT INTO traslados (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (placa) DO UPDATE SET
			organismo_codigo = EXCLUDED.organismo_codigo,
			organismo_nombre = EXCLUDED.organismo_nombre,
			organismo_municipio = EXCLUDED.organismo_municipio,
			organismo_departamento = EXCLUDED.organismo_departamento,
			organismo_direccion = EXCLUDED.organismo_direccion,
			organismo_telefono = EXCLUDED.organismo_telefono,
			fecha_tramite = EXCLUDED.fecha_tramite,
			fecha_vencimiento = EXCLUDED.fecha_vencimiento,
			funcionario_envia = EXCLUDED.funcionario_envia,
			estado = EXCLUDED.estado,
			observaciones = EXCLUDED.observaciones,
			funcionario_actual = EXCLUDED.funcionario_actual,
			actualizado_en = EXCLUDED.actualizado_en`, columnasTraslado)

	org := snap.OrganismoDestino
	_, err := s.runner(ctx).ExecContext(ctx, q,
		snap.Placa, org.Codigo(), org.NombreCompleto(), org.Municipio(),
		org.Departamento(), org.Direccion(), org.Telefono(),
		snap.FechaTramite, snap.FechaVencimiento, snap.FuncionarioEnvia,
		string(snap.Estado), snap.Observaciones, snap.FuncionarioActual,
		snap.FechaUltimaActualizacion)
	if err != nil {
		return fmt.Errorf("guardar traslado %s: %w", snap.Placa, err)
	}
	return nil
}

func (s *PostgresTrasladoStore) PorPlaca(ctx context.Context, placa string) (models.TrasladoSnapshot, error) {
	q := fmt.Sprintf(`SELECT %s FROM traslados WHERE placa = $1`, columnasTraslado)
	snap, err := escanearTraslado(s.runner(ctx).QueryRowContext(ctx, q, placa))
	if err == sql.ErrNoRows {
		return models.TrasladoSnapshot{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.TrasladoSnapshot{}, fmt.Errorf("consultar traslado %s: %w", placa, err)
	}
	return snap, nil
}

func (s *PostgresTrasladoStore) Listar(ctx context.Context, filtro Filtro) ([]models.TrasladoSnapshot, error) {
	where, args := clausulasProceso(filtro)
	q := fmt.Sprintf(`SELECT %s FROM traslados%s ORDER BY fecha_vencimiento`, columnasTraslado, where)
	if filtro.Limite > 0 {
		q = fmt.Sprintf("%s LIMIT %d", q, filtro.Limite)
	}

	rows, err := s.runner(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listar traslados: %w", err)
	}
	defer rows.Close()

	var out []models.TrasladoSnapshot
	for rows.Next() {
		snap, err := escanearTraslado(rows)
		if err != nil {
			return nil, fmt.Errorf("leer fila de traslado: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

type escaneable interface {
	Scan(dest ...any) error
}

func escanearTraslado(row escaneable) (models.TrasladoSnapshot, error) {
	var snap models.TrasladoSnapshot
	var codigo, nombre, municipio, departamento, direccion, telefono, estado string
	err := row.Scan(&snap.Placa, &codigo, &nombre, &municipio, &departamento,
		&direccion, &telefono, &snap.FechaTramite, &snap.FechaVencimiento,
		&snap.FuncionarioEnvia, &estado, &snap.Observaciones,
		&snap.FuncionarioActual, &snap.FechaUltimaActualizacion)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	org, err := domain.NuevaUbicacionConContacto(codigo, nombre, municipio, departamento, direccion, telefono)
	if err != nil {
		return models.TrasladoSnapshot{}, err
	}
	snap.OrganismoDestino = org
	snap.Estado = models.EstadoTraslado(estado)
	return snap, nil
}

func clausulasProceso(filtro Filtro) (string, []any) {
	var condiciones []string
	var args []any
	if filtro.Estado != "" {
		args = append(args, filtro.Estado)
		condiciones = append(condiciones, fmt.Sprintf("estado = $%d", len(args)))
	}
	if filtro.Funcionario != "" {
		args = append(args, strings.ToUpper(strings.TrimSpace(filtro.Funcionario)))
		condiciones = append(condiciones, fmt.Sprintf("UPPER(funcionario_actual) = $%d", len(args)))
	}
	if !filtro.VenceAntes.IsZero() {
		args = append(args, filtro.VenceAntes)
		condiciones = append(condiciones, fmt.Sprintf("fecha_vencimiento < $%d", len(args)))
	}
	if len(condiciones) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(condiciones, " AND "), args
}

// PostgresRadicacionStore persiste radicaciones en la tabla radicaciones.
type PostgresRadicacionStore struct {
	db *sql.DB
}

func NewPostgresRadicacionStore(db *sql.DB) *PostgresRadicacionStore {
	return &PostgresRadicacionStore{db: db}
}

func (s *PostgresRadicacionStore) runner(ctx context.Context) dbRunner {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const columnasRadicacion = `placa, organismo_codigo, organismo_nombre, organismo_municipio,
	organismo_departamento, organismo_direccion, organismo_telefono,
	fecha_tramite, fecha_vencimiento, funcionario_recibe, estado,
	observaciones, funcionario_actual, actualizado_en`

func (s *PostgresRadicacionStore) Guardar(ctx context.Context, snap models.RadicacionSnapshot) error {
	q := fmt.Sprintf(`
		INSERT INTO radicaciones (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (placa) DO UPDATE SET
			organismo_codigo = EXCLUDED.organismo_codigo,
			organismo_nombre = EXCLUDED.organismo_nombre,
			organismo_municipio = EXCLUDED.organismo_municipio,
			organismo_departamento = EXCLUDED.organismo_departamento,
			organismo_direccion = EXCLUDED.organismo_direccion,
			organismo_telefono = EXCLUDED.organismo_telefono,
			fecha_tramite = EXCLUDED.fecha_tramite,
			fecha_vencimiento = EXCLUDED.fecha_vencimiento,
			funcionario_recibe = EXCLUDED.funcionario_recibe,
			estado = EXCLUDED.estado,
			observaciones = EXCLUDED.observaciones,
			funcionario_actual = EXCLUDED.funcionario_actual,
			actualizado_en = EXCLUDED.actualizado_en`, columnasRadicacion)

	org := snap.OrganismoOrigen
	_, err := s.runner(ctx).ExecContext(ctx, q,
		snap.Placa, org.Codigo(), org.NombreCompleto(), org.Municipio(),
		org.Departamento(), org.Direccion(), org.Telefono(),
		snap.FechaTramite, snap.FechaVencimiento, snap.FuncionarioRecibe,
		string(snap.Estado), snap.Observaciones, snap.FuncionarioActual,
		snap.FechaUltimaActualizacion)
	if err != nil {
		return fmt.Errorf("guardar radicación %s: %w", snap.Placa, err)
	}
	return nil
}

func (s *PostgresRadicacionStore) PorPlaca(ctx context.Context, placa string) (models.RadicacionSnapshot, error) {
	q := fmt.Sprintf(`SELECT %s FROM radicaciones WHERE placa = $1`, columnasRadicacion)
	snap, err := escanearRadicacion(s.runner(ctx).QueryRowContext(ctx, q, placa))
	if err == sql.ErrNoRows {
		return models.RadicacionSnapshot{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.RadicacionSnapshot{}, fmt.Errorf("consultar radicación %s: %w", placa, err)
	}
	return snap, nil
}

func (s *PostgresRadicacionStore) Listar(ctx context.Context, filtro Filtro) ([]models.RadicacionSnapshot, error) {
	where, args := clausulasProceso(filtro)
	q := fmt.Sprintf(`SELECT %s FROM radicaciones%s ORDER BY fecha_vencimiento`, columnasRadicacion, where)
	if filtro.Limite > 0 {
		q = fmt.Sprintf("%s LIMIT %d", q, filtro.Limite)
	}

	rows, err := s.runner(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listar radicaciones: %w", err)
	}
	defer rows.Close()

	var out []models.RadicacionSnapshot
	for rows.Next() {
		snap, err := escanearRadicacion(rows)
		if err != nil {
			return nil, fmt.Errorf("leer fila de radicación: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func escanearRadicacion(row escaneable) (models.RadicacionSnapshot, error) {
	var snap models.RadicacionSnapshot
	var codigo, nombre, municipio, departamento, direccion, telefono, estado string
	err := row.Scan(&snap.Placa, &codigo, &nombre, &municipio, &departamento,
		&direccion, &telefono, &snap.FechaTramite, &snap.FechaVencimiento,
		&snap.FuncionarioRecibe, &estado, &snap.Observaciones,
		&snap.FuncionarioActual, &snap.FechaUltimaActualizacion)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	org, err := domain.NuevaUbicacionConContacto(codigo, nombre, municipio, departamento, direccion, telefono)
	if err != nil {
		return models.RadicacionSnapshot{}, err
	}
	snap.OrganismoOrigen = org
	snap.Estado = models.EstadoRadicacion(estado)
	return snap, nil
}
