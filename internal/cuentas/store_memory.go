package cuentas

import (
	"context"
	"strings"
	"sync"

	"traslados/internal/cuentas/models"
	"traslados/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	cuentas map[string]models.CuentaSnapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cuentas: make(map[string]models.CuentaSnapshot)}
}

func (s *InMemoryStore) Guardar(_ context.Context, snap models.CuentaSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Historial = append([]models.HistorialAsignacion(nil), snap.Historial...)
	s.cuentas[snap.Placa] = snap
	return nil
}

func (s *InMemoryStore) PorPlaca(_ context.Context, placa string) (models.CuentaSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.cuentas[strings.ToUpper(placa)]
	if !ok {
		return models.CuentaSnapshot{}, sentinel.ErrNotFound
	}
	snap.Historial = append([]models.HistorialAsignacion(nil), snap.Historial...)
	return snap, nil
}

func (s *InMemoryStore) Existe(_ context.Context, placa string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cuentas[strings.ToUpper(placa)]
	return ok, nil
}

func (s *InMemoryStore) Listar(_ context.Context, filtro Filtro) ([]models.CuentaSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resultado := make([]models.CuentaSnapshot, 0, len(s.cuentas))
	for _, snap := range s.cuentas {
		if filtro.Estado != "" && snap.Estado != filtro.Estado {
			continue
		}
		if filtro.TipoServicio != "" && snap.TipoServicio != filtro.TipoServicio {
			continue
		}
		if filtro.Funcionario != "" && !asignadaA(snap, filtro.Funcionario) {
			continue
		}
		snap.Historial = append([]models.HistorialAsignacion(nil), snap.Historial...)
		resultado = append(resultado, snap)
		if filtro.Limite > 0 && len(resultado) >= filtro.Limite {
			break
		}
	}
	return resultado, nil
}

func asignadaA(snap models.CuentaSnapshot, funcionario string) bool {
	if len(snap.Historial) == 0 {
		return strings.EqualFold(snap.FuncionarioCreador, funcionario)
	}
	return strings.EqualFold(snap.Historial[len(snap.Historial)-1].FuncionarioID, funcionario)
}
