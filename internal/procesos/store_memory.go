package procesos

import (
	"context"
	"strings"
	"sync"

	"traslados/internal/procesos/models"
	"traslados/pkg/platform/sentinel"
)

// InMemoryTrasladoStore guarda traslados en memoria para pruebas y arranque
// sin base de datos.
type InMemoryTrasladoStore struct {
	mu        sync.RWMutex
	traslados map[string]models.TrasladoSnapshot
}

func NewInMemoryTrasladoStore() *InMemoryTrasladoStore {
	return &InMemoryTrasladoStore{traslados: make(map[string]models.TrasladoSnapshot)}
}

func (s *InMemoryTrasladoStore) Guardar(_ context.Context, snap models.TrasladoSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traslados[snap.Placa] = snap
	return nil
}

func (s *InMemoryTrasladoStore) PorPlaca(_ context.Context, placa string) (models.TrasladoSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.traslados[placa]
	if !ok {
		return models.TrasladoSnapshot{}, sentinel.ErrNotFound
	}
	return snap, nil
}

func (s *InMemoryTrasladoStore) Listar(_ context.Context, filtro Filtro) ([]models.TrasladoSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TrasladoSnapshot, 0)
	for _, snap := range s.traslados {
		if filtro.Estado != "" && string(snap.Estado) != filtro.Estado {
			continue
		}
		if filtro.Funcionario != "" && !strings.EqualFold(snap.FuncionarioActual, filtro.Funcionario) {
			continue
		}
		if !filtro.VenceAntes.IsZero() && !snap.FechaVencimiento.Before(filtro.VenceAntes) {
			continue
		}
		out = append(out, snap)
		if filtro.Limite > 0 && len(out) >= filtro.Limite {
			break
		}
	}
	return out, nil
}

// InMemoryRadicacionStore guarda radicaciones en memoria.
type InMemoryRadicacionStore struct {
	mu           sync.RWMutex
	radicaciones map[string]models.RadicacionSnapshot
}

func NewInMemoryRadicacionStore() *InMemoryRadicacionStore {
	return &InMemoryRadicacionStore{radicaciones: make(map[string]models.RadicacionSnapshot)}
}

func (s *InMemoryRadicacionStore) Guardar(_ context.Context, snap models.RadicacionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radicaciones[snap.Placa] = snap
	return nil
}

func (s *InMemoryRadicacionStore) PorPlaca(_ context.Context, placa string) (models.RadicacionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.radicaciones[placa]
	if !ok {
		return models.RadicacionSnapshot{}, sentinel.ErrNotFound
	}
	return snap, nil
}

func (s *InMemoryRadicacionStore) Listar(_ context.Context, filtro Filtro) ([]models.RadicacionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RadicacionSnapshot, 0)
	for _, snap := range s.radicaciones {
		if filtro.Estado != "" && string(snap.Estado) != filtro.Estado {
			continue
		}
		if filtro.Funcionario != "" && !strings.EqualFold(snap.FuncionarioActual, filtro.Funcionario) {
			continue
		}
		if !filtro.VenceAntes.IsZero() && !snap.FechaVencimiento.Before(filtro.VenceAntes) {
			continue
		}
		out = append(out, snap)
		if filtro.Limite > 0 && len(out) >= filtro.Limite {
			break
		}
	}
	return out, nil
}
