// Package outbox implementa el patrón de outbox transaccional para los
// eventos de dominio. Los eventos se insertan en la misma transacción que el
// snapshot del agregado y el ciclo de publicación los lleva luego a Kafka.
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry es una fila pendiente del outbox.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// Event es lo que los productores entregan al outbox. El store serializa
// el payload a JSON.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       any
}

// Store persiste las entradas del outbox. Append participa en la transacción
// del llamador cuando el contexto trae una.
type Store interface {
	Append(ctx context.Context, event Event) error
	Pending(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
}
