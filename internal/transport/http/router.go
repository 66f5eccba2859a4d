// Package httptransport es la capa HTTP delgada: decodifica peticiones,
// delega en los servicios y traduce errores de dominio a respuestas JSON.
package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"traslados/internal/platform/middleware"
)

// NewRouter cablea todos los endpoints públicos del servicio.
func NewRouter(logger *zap.Logger, cuentasH *CuentasHandler, procesosH *ProcesosHandler,
	novedadesH *NovedadesHandler, reportesH *ReportesHandler) http.Handler {

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		responder(w, http.StatusOK, map[string]string{"estado": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cuentasH.Register(r)
	procesosH.Register(r)
	novedadesH.Register(r)
	reportesH.Register(r)

	return r
}
