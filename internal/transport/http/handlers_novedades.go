package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traslados/internal/novedades"
	"traslados/internal/novedades/models"
)

// NovedadesHandler expone el ciclo de vida de las novedades.
type NovedadesHandler struct {
	svc    *novedades.Service
	logger *zap.Logger
}

func NewNovedadesHandler(svc *novedades.Service, logger *zap.Logger) *NovedadesHandler {
	return &NovedadesHandler{svc: svc, logger: logger}
}

func (h *NovedadesHandler) Register(r chi.Router) {
	r.Route("/novedades", func(r chi.Router) {
		r.Post("/", h.reportar)
		r.Get("/", h.listar)
		r.Route("/{codigo}", func(r chi.Router) {
			r.Get("/", h.porCodigo)
			r.Post("/revision", h.tomarEnRevision)
			r.Post("/resolver", h.resolver)
			r.Post("/reabrir", h.reabrir)
			r.Post("/prioridad", h.cambiarPrioridad)
			r.Post("/observaciones", h.actualizarObservaciones)
		})
	})
}

type reportarNovedadRequest struct {
	Placa         string `json:"placa"`
	TipoProceso   string `json:"tipo_proceso"`
	TipoNovedad   string `json:"tipo_novedad"`
	Descripcion   string `json:"descripcion"`
	Prioridad     string `json:"prioridad"`
	Observaciones string `json:"observaciones,omitempty"`
}

type resolverNovedadRequest struct {
	DescripcionResolucion string `json:"descripcion_resolucion"`
}

type reabrirNovedadRequest struct {
	Motivo string `json:"motivo"`
}

type cambiarPrioridadRequest struct {
	Prioridad     string `json:"prioridad"`
	Justificacion string `json:"justificacion"`
}

type novedadRespuesta struct {
	Codigo                string    `json:"codigo"`
	Placa                 string    `json:"placa"`
	TipoProceso           string    `json:"tipo_proceso"`
	TipoNovedad           string    `json:"tipo_novedad"`
	Descripcion           string    `json:"descripcion"`
	Prioridad             string    `json:"prioridad"`
	Estado                string    `json:"estado"`
	FuncionarioReporta    string    `json:"funcionario_reporta"`
	FechaReporte          time.Time `json:"fecha_reporte"`
	FuncionarioResuelve   string    `json:"funcionario_resuelve,omitempty"`
	FechaResolucion       string    `json:"fecha_resolucion,omitempty"`
	DescripcionResolucion string    `json:"descripcion_resolucion,omitempty"`
	Observaciones         string    `json:"observaciones,omitempty"`
}

func novedadARespuesta(snap models.NovedadSnapshot) novedadRespuesta {
	fechaResolucion := ""
	if !snap.FechaResolucion.IsZero() {
		fechaResolucion = snap.FechaResolucion.Format(time.RFC3339)
	}
	return novedadRespuesta{
		Codigo:                snap.Codigo,
		Placa:                 snap.Placa,
		TipoProceso:           snap.TipoProceso,
		TipoNovedad:           string(snap.TipoNovedad),
		Descripcion:           snap.Descripcion,
		Prioridad:             string(snap.Prioridad),
		Estado:                string(snap.Estado),
		FuncionarioReporta:    snap.FuncionarioReporta,
		FechaReporte:          snap.FechaReporte,
		FuncionarioResuelve:   snap.FuncionarioResuelve,
		FechaResolucion:       fechaResolucion,
		DescripcionResolucion: snap.DescripcionResolucion,
		Observaciones:         snap.Observaciones,
	}
}

func (h *NovedadesHandler) reportar(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req reportarNovedadRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.Reportar(r.Context(), req.Placa, req.TipoNovedad, req.Descripcion,
		req.Prioridad, funcionario, req.TipoProceso, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusCreated, novedadARespuesta(snap))
}

func (h *NovedadesHandler) listar(w http.ResponseWriter, r *http.Request) {
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	snaps, err := h.svc.Listar(r.Context(), novedades.Filtro{
		Placa:       r.URL.Query().Get("placa"),
		Estado:      r.URL.Query().Get("estado"),
		Prioridad:   r.URL.Query().Get("prioridad"),
		TipoProceso: r.URL.Query().Get("tipo_proceso"),
		Funcionario: r.URL.Query().Get("funcionario"),
		Limite:      limite,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]novedadRespuesta, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, novedadARespuesta(snap))
	}
	responder(w, http.StatusOK, out)
}

func (h *NovedadesHandler) porCodigo(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.PorCodigo(r.Context(), chi.URLParam(r, "codigo"))
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, novedadARespuesta(snap))
}

func (h *NovedadesHandler) tomarEnRevision(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.TomarEnRevision(r.Context(), chi.URLParam(r, "codigo"), funcionario)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, novedadARespuesta(snap))
}

func (h *NovedadesHandler) resolver(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req resolverNovedadRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.Resolver(r.Context(), chi.URLParam(r, "codigo"), funcionario, req.DescripcionResolucion)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, novedadARespuesta(snap))
}

func (h *NovedadesHandler) reabrir(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req reabrirNovedadRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.Reabrir(r.Context(), chi.URLParam(r, "codigo"), funcionario, req.Motivo)
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("novedad reabierta por solicitud",
		zap.String("codigo", snap.Codigo),
		zap.String("funcionario", funcionario))
	responder(w, http.StatusOK, novedadARespuesta(snap))
}

func (h *NovedadesHandler) cambiarPrioridad(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req cambiarPrioridadRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.CambiarPrioridad(r.Context(), chi.URLParam(r, "codigo"), funcionario, req.Prioridad, req.Justificacion)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, novedadARespuesta(snap))
}

func (h *NovedadesHandler) actualizarObservaciones(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req observacionesRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.ActualizarObservaciones(r.Context(), chi.URLParam(r, "codigo"), funcionario, req.Texto)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, novedadARespuesta(snap))
}
