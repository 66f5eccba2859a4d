package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	txcontext "traslados/pkg/platform/tx"
)

type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresStore persiste las entradas del outbox en la tabla eventos_outbox.
// Append usa la transacción presente en el contexto, de modo que la entrada
// se confirma o se revierte junto con el agregado al que pertenece.
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

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}

	const q = `
		INSERT INTO eventos_outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = s.runner(ctx).ExecContext(ctx, q,
		uuid.New(), event.AggregateType, event.AggregateID, event.EventType, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insertar evento en outbox: %w", err)
	}
	return nil
}

func (s *PostgresStore) Pending(ctx context.Context, limit int) ([]Entry, error) {
	const q = `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM eventos_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1`
	rows, err := s.runner(ctx).QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("consultar outbox: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("leer fila de outbox: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkPublished(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE eventos_outbox SET published_at = $1 WHERE id = $2`
	_, err := s.runner(ctx).ExecContext(ctx, q, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("marcar evento publicado: %w", err)
	}
	return nil
}
