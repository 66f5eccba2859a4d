package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"traslados/pkg/platform/sentinel"
)

// InMemoryStore guarda las entradas del outbox en memoria. Se usa en pruebas
// y cuando no hay base de datos configurada.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{now: time.Now}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{
		ID:            uuid.New(),
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     s.now().UTC(),
	})
	return nil
}

func (s *InMemoryStore) Pending(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, limit)
	for _, e := range s.entries {
		if e.PublishedAt != nil {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			ts := s.now().UTC()
			s.entries[i].PublishedAt = &ts
			return nil
		}
	}
	return sentinel.ErrNotFound
}

// All devuelve todas las entradas, publicadas o no. Apoyo para pruebas.
func (s *InMemoryStore) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
