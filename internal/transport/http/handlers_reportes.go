package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traslados/internal/reportes"
)

// ReportesHandler expone las vistas agregadas de vencimientos.
type ReportesHandler struct {
	svc    *reportes.Service
	logger *zap.Logger
}

func NewReportesHandler(svc *reportes.Service, logger *zap.Logger) *ReportesHandler {
	return &ReportesHandler{svc: svc, logger: logger}
}

func (h *ReportesHandler) Register(r chi.Router) {
	r.Route("/reportes", func(r chi.Router) {
		r.Get("/vencimientos", h.vencimientos)
		r.Get("/proximos-a-vencer", h.proximosAVencer)
	})
}

func (h *ReportesHandler) vencimientos(w http.ResponseWriter, r *http.Request) {
	reporte, err := h.svc.VencimientosPorNivel(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, reporte)
}

func (h *ReportesHandler) proximosAVencer(w http.ResponseWriter, r *http.Request) {
	dias := 7
	if v := r.URL.Query().Get("dias"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dias = n
		}
	}
	filas, err := h.svc.ProximosAVencer(r.Context(), dias)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, filas)
}
