package novedades

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traslados/internal/novedades/models"
	"traslados/pkg/domain"
	"traslados/pkg/platform/sentinel"
)

type NovedadStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	reloj domain.Reloj
}

func (s *NovedadStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.reloj = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))
}

func TestNovedadStoreSuite(t *testing.T) {
	suite.Run(t, new(NovedadStoreSuite))
}

func (s *NovedadStoreSuite) snapshot(placa string, consecutivo int, tipoProceso string) models.NovedadSnapshot {
	p, err := domain.NuevaPlaca(placa)
	s.Require().NoError(err)
	descripcion, err := domain.NuevaDescripcionNovedad("falta el certificado de tradición")
	s.Require().NoError(err)
	novedad, err := models.NuevaNovedad(p, models.NovedadDocumentoFaltante, descripcion,
		models.PrioridadMedia, "perez", tipoProceso, consecutivo, "", s.reloj)
	s.Require().NoError(err)
	return novedad.Snapshot()
}

func (s *NovedadStoreSuite) TestGuardarYRecuperar() {
	snap := s.snapshot("ABC123", 1, models.ProcesoTraslado)
	s.Require().NoError(s.store.Guardar(s.ctx, snap))

	leida, err := s.store.PorCodigo(s.ctx, snap.Codigo)
	s.Require().NoError(err)
	s.Equal(snap, leida)

	_, err = s.store.PorCodigo(s.ctx, "NOV-20240101-0001")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *NovedadStoreSuite) TestListarConFiltros() {
	traslado := s.snapshot("ABC123", 1, models.ProcesoTraslado)
	radicacion := s.snapshot("DEF456", 2, models.ProcesoRadicacion)
	radicacion.Prioridad = models.PrioridadCritica
	radicacion.Estado = models.NovedadResuelta
	s.Require().NoError(s.store.Guardar(s.ctx, traslado))
	s.Require().NoError(s.store.Guardar(s.ctx, radicacion))

	s.Run("por placa", func() {
		out, err := s.store.Listar(s.ctx, Filtro{Placa: "ABC123"})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal(traslado.Codigo, out[0].Codigo)
	})

	s.Run("por tipo de proceso y estado", func() {
		out, err := s.store.Listar(s.ctx, Filtro{TipoProceso: models.ProcesoRadicacion, Estado: "resuelta"})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal(radicacion.Codigo, out[0].Codigo)
	})

	s.Run("por prioridad", func() {
		out, err := s.store.Listar(s.ctx, Filtro{Prioridad: "critica"})
		s.Require().NoError(err)
		s.Len(out, 1)
	})

	s.Run("filtro sin coincidencias", func() {
		out, err := s.store.Listar(s.ctx, Filtro{Placa: "ZZZ999"})
		s.Require().NoError(err)
		s.Empty(out)
	})
}

func (s *NovedadStoreSuite) TestConsecutivosDeHoy() {
	s.Require().NoError(s.store.Guardar(s.ctx, s.snapshot("ABC123", 1, models.ProcesoTraslado)))
	s.Require().NoError(s.store.Guardar(s.ctx, s.snapshot("DEF456", 3, models.ProcesoTraslado)))

	codigos, err := s.store.ConsecutivosDeHoy(s.ctx, "NOV-20240315-")
	s.Require().NoError(err)
	s.Equal([]string{"NOV-20240315-0001", "NOV-20240315-0003"}, codigos)

	vacios, err := s.store.ConsecutivosDeHoy(s.ctx, "NOV-20240316-")
	s.Require().NoError(err)
	s.Empty(vacios)
}
