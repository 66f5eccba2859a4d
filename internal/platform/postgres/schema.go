// Package postgres lleva el esquema de la base de datos. Las sentencias son
// idempotentes, así que aplicarlo en cada arranque es seguro.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var esquema string

// AplicarEsquema crea las tablas del servicio si no existen.
func AplicarEsquema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, esquema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
