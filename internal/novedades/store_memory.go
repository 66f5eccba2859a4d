package novedades

import (
	"context"
	"sort"
	"strings"
	"sync"

	"traslados/internal/novedades/models"
	"traslados/pkg/platform/sentinel"
)

// InMemoryStore guarda novedades en memoria para pruebas y arranque sin
// base de datos.
type InMemoryStore struct {
	mu        sync.RWMutex
	novedades map[string]models.NovedadSnapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{novedades: make(map[string]models.NovedadSnapshot)}
}

func (s *InMemoryStore) Guardar(_ context.Context, snap models.NovedadSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.novedades[snap.Codigo] = snap
	return nil
}

func (s *InMemoryStore) PorCodigo(_ context.Context, codigo string) (models.NovedadSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.novedades[codigo]
	if !ok {
		return models.NovedadSnapshot{}, sentinel.ErrNotFound
	}
	return snap, nil
}

func (s *InMemoryStore) Listar(_ context.Context, filtro Filtro) ([]models.NovedadSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.NovedadSnapshot, 0)
	for _, snap := range s.novedades {
		if !coincide(snap, filtro) {
			continue
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaReporte.Before(out[j].FechaReporte) })
	if filtro.Limite > 0 && len(out) > filtro.Limite {
		out = out[:filtro.Limite]
	}
	return out, nil
}

func (s *InMemoryStore) ConsecutivosDeHoy(_ context.Context, prefijo string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for codigo := range s.novedades {
		if strings.HasPrefix(codigo, prefijo) {
			out = append(out, codigo)
		}
	}
	sort.Strings(out)
	return out, nil
}

func coincide(snap models.NovedadSnapshot, filtro Filtro) bool {
	if filtro.Placa != "" && snap.Placa != filtro.Placa {
		return false
	}
	if filtro.Estado != "" && string(snap.Estado) != filtro.Estado {
		return false
	}
	if filtro.Prioridad != "" && string(snap.Prioridad) != filtro.Prioridad {
		return false
	}
	if filtro.TipoProceso != "" && snap.TipoProceso != filtro.TipoProceso {
		return false
	}
	if filtro.Funcionario != "" && !strings.EqualFold(snap.FuncionarioActual, filtro.Funcionario) {
		return false
	}
	return true
}
