package procesos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traslados/internal/procesos/models"
	"traslados/pkg/domain"
	"traslados/pkg/platform/sentinel"
)

type ProcesoStoreSuite struct {
	suite.Suite
	traslados    *InMemoryTrasladoStore
	radicaciones *InMemoryRadicacionStore
	ctx          context.Context
	reloj        domain.Reloj
}

func (s *ProcesoStoreSuite) SetupTest() {
	s.traslados = NewInMemoryTrasladoStore()
	s.radicaciones = NewInMemoryRadicacionStore()
	s.ctx = context.Background()
	s.reloj = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))
}

func TestProcesoStoreSuite(t *testing.T) {
	suite.Run(t, new(ProcesoStoreSuite))
}

func (s *ProcesoStoreSuite) traslado(placa string, fechaTramite time.Time) models.TrasladoSnapshot {
	p, err := domain.NuevaPlaca(placa)
	s.Require().NoError(err)
	destino, ok := domain.UbicacionPorCodigo("MEDELLIN")
	s.Require().True(ok)
	tramite, err := domain.NuevaFechaTramite(fechaTramite, s.reloj)
	s.Require().NoError(err)
	traslado, err := models.NuevoTraslado(p, destino, tramite, "perez", "", s.reloj)
	s.Require().NoError(err)
	return traslado.Snapshot()
}

func (s *ProcesoStoreSuite) radicacion(placa string) models.RadicacionSnapshot {
	p, err := domain.NuevaPlaca(placa)
	s.Require().NoError(err)
	origen, ok := domain.UbicacionPorCodigo("SOGAMOSO")
	s.Require().True(ok)
	radicacion, err := models.NuevaRadicacion(p, origen, domain.FechaTramiteHoy(s.reloj), "gomez", "", s.reloj)
	s.Require().NoError(err)
	return radicacion.Snapshot()
}

func (s *ProcesoStoreSuite) TestTrasladosGuardarYRecuperar() {
	snap := s.traslado("ABC123", domain.Fecha(2024, time.March, 10))
	s.Require().NoError(s.traslados.Guardar(s.ctx, snap))

	leido, err := s.traslados.PorPlaca(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(snap, leido)

	_, err = s.traslados.PorPlaca(s.ctx, "ZZZ999")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	snap.Estado = models.TrasladoRevisado
	s.Require().NoError(s.traslados.Guardar(s.ctx, snap))
	leido, err = s.traslados.PorPlaca(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(models.TrasladoRevisado, leido.Estado)
}

func (s *ProcesoStoreSuite) TestTrasladosListarConFiltros() {
	viejo := s.traslado("ABC123", domain.Fecha(2024, time.February, 1))
	reciente := s.traslado("DEF456", domain.Fecha(2024, time.March, 14))
	reciente.Estado = models.TrasladoRevisado
	reciente.FuncionarioActual = "GOMEZ"
	s.Require().NoError(s.traslados.Guardar(s.ctx, viejo))
	s.Require().NoError(s.traslados.Guardar(s.ctx, reciente))

	s.Run("por estado", func() {
		out, err := s.traslados.Listar(s.ctx, Filtro{Estado: "revisado"})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal("DEF456", out[0].Placa)
	})

	s.Run("por funcionario", func() {
		out, err := s.traslados.Listar(s.ctx, Filtro{Funcionario: "gomez"})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal("DEF456", out[0].Placa)
	})

	s.Run("por fecha de vencimiento", func() {
		// El tramitado el 1 de febrero vence el 1 de abril.
		out, err := s.traslados.Listar(s.ctx, Filtro{VenceAntes: domain.Fecha(2024, time.April, 15)})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal("ABC123", out[0].Placa)
	})

	s.Run("límite", func() {
		out, err := s.traslados.Listar(s.ctx, Filtro{Limite: 1})
		s.Require().NoError(err)
		s.Len(out, 1)
	})
}

func (s *ProcesoStoreSuite) TestRadicaciones() {
	snap := s.radicacion("XYZ789")
	s.Require().NoError(s.radicaciones.Guardar(s.ctx, snap))

	leida, err := s.radicaciones.PorPlaca(s.ctx, "XYZ789")
	s.Require().NoError(err)
	s.Equal(snap, leida)

	pendientes, err := s.radicaciones.Listar(s.ctx, Filtro{Estado: "pendiente_radicar"})
	s.Require().NoError(err)
	s.Len(pendientes, 1)

	_, err = s.radicaciones.PorPlaca(s.ctx, "ZZZ999")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
