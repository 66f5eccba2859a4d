package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traslados/internal/procesos"
	"traslados/internal/procesos/models"
	"traslados/pkg/domain"
)

// ProcesosHandler expone traslados y radicaciones.
type ProcesosHandler struct {
	svc    *procesos.Service
	logger *zap.Logger
	reloj  domain.Reloj
}

func NewProcesosHandler(svc *procesos.Service, logger *zap.Logger, reloj domain.Reloj) *ProcesosHandler {
	return &ProcesosHandler{svc: svc, logger: logger, reloj: reloj}
}

func (h *ProcesosHandler) Register(r chi.Router) {
	r.Route("/traslados", func(r chi.Router) {
		r.Post("/", h.iniciarTraslado)
		r.Get("/", h.listarTraslados)
		r.Route("/{placa}", func(r chi.Router) {
			r.Get("/", h.trasladoPorPlaca)
			r.Post("/revisar", h.revisarTraslado)
			r.Post("/completar", h.completarTraslado)
			r.Post("/devolver", h.devolverTraslado)
			r.Post("/observaciones", h.observacionesTraslado)
		})
	})
	r.Route("/radicaciones", func(r chi.Router) {
		r.Post("/", h.iniciarRadicacion)
		r.Get("/", h.listarRadicaciones)
		r.Route("/{placa}", func(r chi.Router) {
			r.Get("/", h.radicacionPorPlaca)
			r.Post("/recibir", h.recibirRadicacion)
			r.Post("/revisar", h.revisarRadicacion)
			r.Post("/completar", h.completarRadicacion)
			r.Post("/devolver", h.devolverRadicacion)
			r.Post("/observaciones", h.observacionesRadicacion)
		})
	})
}

type organismoRequest struct {
	Codigo       string `json:"codigo"`
	Nombre       string `json:"nombre,omitempty"`
	Municipio    string `json:"municipio,omitempty"`
	Departamento string `json:"departamento,omitempty"`
	Direccion    string `json:"direccion,omitempty"`
	Telefono     string `json:"telefono,omitempty"`
}

func (o organismoRequest) aOrganismo() procesos.Organismo {
	return procesos.Organismo{
		Codigo:       o.Codigo,
		Nombre:       o.Nombre,
		Municipio:    o.Municipio,
		Departamento: o.Departamento,
		Direccion:    o.Direccion,
		Telefono:     o.Telefono,
	}
}

type iniciarProcesoRequest struct {
	Placa         string           `json:"placa"`
	Organismo     organismoRequest `json:"organismo"`
	FechaTramite  string           `json:"fecha_tramite"`
	Observaciones string           `json:"observaciones,omitempty"`
}

type cierreRequest struct {
	Observaciones string `json:"observaciones,omitempty"`
}

type devolverRequest struct {
	Motivo string `json:"motivo"`
}

type observacionesRequest struct {
	Texto string `json:"texto"`
}

type procesoRespuesta struct {
	Placa            string    `json:"placa"`
	TipoProceso      string    `json:"tipo_proceso"`
	Organismo        string    `json:"organismo"`
	OrganismoCodigo  string    `json:"organismo_codigo"`
	FechaTramite     time.Time `json:"fecha_tramite"`
	FechaVencimiento time.Time `json:"fecha_vencimiento"`
	DiasRestantes    int       `json:"dias_restantes"`
	DiasEnProceso    int       `json:"dias_en_proceso"`
	NivelUrgencia    string    `json:"nivel_urgencia"`
	Estado           string    `json:"estado"`
	Funcionario      string    `json:"funcionario"`
	Observaciones    string    `json:"observaciones,omitempty"`
}

func (h *ProcesosHandler) trasladoARespuesta(snap models.TrasladoSnapshot) procesoRespuesta {
	fv := domain.NuevaFechaVencimiento(snap.FechaVencimiento)
	return procesoRespuesta{
		Placa:            snap.Placa,
		TipoProceso:      procesos.TipoTraslado,
		Organismo:        snap.OrganismoDestino.NombreCorto(),
		OrganismoCodigo:  snap.OrganismoDestino.Codigo(),
		FechaTramite:     snap.FechaTramite,
		FechaVencimiento: snap.FechaVencimiento,
		DiasRestantes:    fv.DiasRestantes(h.reloj),
		DiasEnProceso:    domain.DiasEnProceso(snap.FechaTramite, h.reloj),
		NivelUrgencia:    string(fv.NivelUrgencia(h.reloj)),
		Estado:           string(snap.Estado),
		Funcionario:      snap.FuncionarioActual,
		Observaciones:    snap.Observaciones,
	}
}

func (h *ProcesosHandler) radicacionARespuesta(snap models.RadicacionSnapshot) procesoRespuesta {
	fv := domain.NuevaFechaVencimiento(snap.FechaVencimiento)
	return procesoRespuesta{
		Placa:            snap.Placa,
		TipoProceso:      procesos.TipoRadicacion,
		Organismo:        snap.OrganismoOrigen.NombreCorto(),
		OrganismoCodigo:  snap.OrganismoOrigen.Codigo(),
		FechaTramite:     snap.FechaTramite,
		FechaVencimiento: snap.FechaVencimiento,
		DiasRestantes:    fv.DiasRestantes(h.reloj),
		DiasEnProceso:    domain.DiasEnProceso(snap.FechaTramite, h.reloj),
		NivelUrgencia:    string(fv.NivelUrgencia(h.reloj)),
		Estado:           string(snap.Estado),
		Funcionario:      snap.FuncionarioActual,
		Observaciones:    snap.Observaciones,
	}
}

func filtroDeProcesos(r *http.Request) procesos.Filtro {
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	return procesos.Filtro{
		Estado:      r.URL.Query().Get("estado"),
		Funcionario: r.URL.Query().Get("funcionario"),
		Limite:      limite,
	}
}

func (h *ProcesosHandler) iniciarTraslado(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req iniciarProcesoRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.IniciarTraslado(r.Context(), req.Placa, req.Organismo.aOrganismo(),
		req.FechaTramite, funcionario, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusCreated, h.trasladoARespuesta(snap))
}

func (h *ProcesosHandler) listarTraslados(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.ListarTraslados(r.Context(), filtroDeProcesos(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]procesoRespuesta, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, h.trasladoARespuesta(snap))
	}
	responder(w, http.StatusOK, out)
}

func (h *ProcesosHandler) trasladoPorPlaca(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.TrasladoPorPlaca(r.Context(), chi.URLParam(r, "placa"))
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.trasladoARespuesta(snap))
}

func (h *ProcesosHandler) revisarTraslado(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.MarcarTrasladoRevisado(r.Context(), chi.URLParam(r, "placa"), funcionario)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.trasladoARespuesta(snap))
}

func (h *ProcesosHandler) completarTraslado(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req cierreRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.CompletarTraslado(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.trasladoARespuesta(snap))
}

func (h *ProcesosHandler) devolverTraslado(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req devolverRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.DevolverTraslado(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Motivo, esAdmin(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("traslado devuelto",
		zap.String("placa", snap.Placa),
		zap.String("funcionario", funcionario))
	responder(w, http.StatusOK, h.trasladoARespuesta(snap))
}

func (h *ProcesosHandler) observacionesTraslado(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req observacionesRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.ActualizarObservacionesTraslado(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Texto)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.trasladoARespuesta(snap))
}

func (h *ProcesosHandler) iniciarRadicacion(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req iniciarProcesoRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.IniciarRadicacion(r.Context(), req.Placa, req.Organismo.aOrganismo(),
		req.FechaTramite, funcionario, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusCreated, h.radicacionARespuesta(snap))
}

func (h *ProcesosHandler) listarRadicaciones(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.ListarRadicaciones(r.Context(), filtroDeProcesos(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]procesoRespuesta, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, h.radicacionARespuesta(snap))
	}
	responder(w, http.StatusOK, out)
}

func (h *ProcesosHandler) radicacionPorPlaca(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.RadicacionPorPlaca(r.Context(), chi.URLParam(r, "placa"))
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.radicacionARespuesta(snap))
}

func (h *ProcesosHandler) recibirRadicacion(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.RecibirRadicacion(r.Context(), chi.URLParam(r, "placa"), funcionario)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.radicacionARespuesta(snap))
}

func (h *ProcesosHandler) revisarRadicacion(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.MarcarRadicacionRevisada(r.Context(), chi.URLParam(r, "placa"), funcionario)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.radicacionARespuesta(snap))
}

func (h *ProcesosHandler) completarRadicacion(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req cierreRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.CompletarRadicacion(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.radicacionARespuesta(snap))
}

func (h *ProcesosHandler) devolverRadicacion(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req devolverRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.DevolverRadicacion(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Motivo, esAdmin(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("radicación devuelta",
		zap.String("placa", snap.Placa),
		zap.String("funcionario", funcionario))
	responder(w, http.StatusOK, h.radicacionARespuesta(snap))
}

func (h *ProcesosHandler) observacionesRadicacion(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req observacionesRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.ActualizarObservacionesRadicacion(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Texto)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, h.radicacionARespuesta(snap))
}
