package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traslados/internal/cuentas"
	"traslados/internal/cuentas/models"
	"traslados/pkg/domain"
)

// CuentasHandler expone los comandos y consultas sobre cuentas.
type CuentasHandler struct {
	svc    *cuentas.Service
	logger *zap.Logger
}

func NewCuentasHandler(svc *cuentas.Service, logger *zap.Logger) *CuentasHandler {
	return &CuentasHandler{svc: svc, logger: logger}
}

func (h *CuentasHandler) Register(r chi.Router) {
	r.Route("/cuentas", func(r chi.Router) {
		r.Post("/", h.crear)
		r.Get("/", h.listar)
		r.Route("/{placa}", func(r chi.Router) {
			r.Get("/", h.porPlaca)
			r.Get("/historial", h.historial)
			r.Get("/procesos-permitidos", h.procesosPermitidos)
			r.Post("/reasignar", h.reasignar)
			r.Post("/inactivar", h.inactivar)
			r.Post("/reactivar", h.reactivar)
		})
	})
}

type crearCuentaRequest struct {
	Placa        string `json:"placa"`
	TipoServicio string `json:"tipo_servicio"`
}

type reasignarRequest struct {
	NuevoFuncionario string `json:"nuevo_funcionario"`
	Motivo           string `json:"motivo"`
	Observaciones    string `json:"observaciones"`
}

type inactivarRequest struct {
	Motivo string `json:"motivo"`
}

type cuentaRespuesta struct {
	Placa               string    `json:"placa"`
	TipoVehiculo        string    `json:"tipo_vehiculo"`
	NumeroCuenta        string    `json:"numero_cuenta"`
	TipoServicio        string    `json:"tipo_servicio"`
	Estado              string    `json:"estado"`
	TipoProcesoAnterior string    `json:"tipo_proceso_anterior"`
	TrasladoActivo      bool      `json:"traslado_activo"`
	RadicacionActiva    bool      `json:"radicacion_activa"`
	FechaCreacion       time.Time `json:"fecha_creacion"`
	FuncionarioCreador  string    `json:"funcionario_creador"`
	FuncionarioActual   string    `json:"funcionario_actual"`
}

type asignacionRespuesta struct {
	FuncionarioID     string    `json:"funcionario_id"`
	FechaAsignacion   time.Time `json:"fecha_asignacion"`
	Motivo            string    `json:"motivo"`
	FuncionarioAsigna string    `json:"funcionario_asigna"`
	Tipo              string    `json:"tipo"`
	Observaciones     string    `json:"observaciones,omitempty"`
}

func cuentaARespuesta(snap models.CuentaSnapshot) cuentaRespuesta {
	tipoVehiculo := ""
	if placa, err := domain.NuevaPlaca(snap.Placa); err == nil {
		tipoVehiculo = string(placa.TipoVehiculo())
	}
	funcionarioActual := snap.FuncionarioCreador
	if len(snap.Historial) > 0 {
		funcionarioActual = snap.Historial[len(snap.Historial)-1].FuncionarioID
	}
	return cuentaRespuesta{
		Placa:               snap.Placa,
		TipoVehiculo:        tipoVehiculo,
		NumeroCuenta:        snap.NumeroCuenta,
		TipoServicio:        snap.TipoServicio.String(),
		Estado:              string(snap.Estado),
		TipoProcesoAnterior: string(snap.TipoProcesoAnterior),
		TrasladoActivo:      snap.TrasladoActivo,
		RadicacionActiva:    snap.RadicacionActiva,
		FechaCreacion:       snap.FechaCreacion,
		FuncionarioCreador:  snap.FuncionarioCreador,
		FuncionarioActual:   funcionarioActual,
	}
}

func historialARespuesta(historial []models.HistorialAsignacion) []asignacionRespuesta {
	out := make([]asignacionRespuesta, 0, len(historial))
	for _, h := range historial {
		out = append(out, asignacionRespuesta{
			FuncionarioID:     h.FuncionarioID,
			FechaAsignacion:   h.FechaAsignacion,
			Motivo:            h.Motivo,
			FuncionarioAsigna: h.FuncionarioAsigna,
			Tipo:              string(h.Tipo),
			Observaciones:     h.Observaciones,
		})
	}
	return out
}

func (h *CuentasHandler) crear(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req crearCuentaRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.CrearCuenta(r.Context(), req.Placa, req.TipoServicio, funcionario)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusCreated, cuentaARespuesta(snap))
}

func (h *CuentasHandler) listar(w http.ResponseWriter, r *http.Request) {
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	snaps, err := h.svc.Listar(r.Context(), cuentas.Filtro{
		Estado:       models.EstadoCuenta(r.URL.Query().Get("estado")),
		TipoServicio: models.TipoServicio(r.URL.Query().Get("tipo_servicio")),
		Funcionario:  r.URL.Query().Get("funcionario"),
		Limite:       limite,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]cuentaRespuesta, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, cuentaARespuesta(snap))
	}
	responder(w, http.StatusOK, out)
}

func (h *CuentasHandler) porPlaca(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.PorPlaca(r.Context(), chi.URLParam(r, "placa"))
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, cuentaARespuesta(snap))
}

func (h *CuentasHandler) historial(w http.ResponseWriter, r *http.Request) {
	historial, err := h.svc.Historial(r.Context(), chi.URLParam(r, "placa"))
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, historialARespuesta(historial))
}

func (h *CuentasHandler) procesosPermitidos(w http.ResponseWriter, r *http.Request) {
	permitidos, err := h.svc.ProcesosPermitidos(r.Context(), chi.URLParam(r, "placa"))
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, map[string][]string{"procesos_permitidos": permitidos})
}

func (h *CuentasHandler) reasignar(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req reasignarRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.Reasignar(r.Context(), chi.URLParam(r, "placa"),
		req.NuevoFuncionario, funcionario, req.Motivo, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("cuenta reasignada",
		zap.String("placa", snap.Placa),
		zap.String("nuevo_funcionario", req.NuevoFuncionario))
	responder(w, http.StatusOK, cuentaARespuesta(snap))
}

func (h *CuentasHandler) inactivar(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	var req inactivarRequest
	if err := decodificar(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.svc.Inactivar(r.Context(), chi.URLParam(r, "placa"), funcionario, req.Motivo)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, cuentaARespuesta(snap))
}

func (h *CuentasHandler) reactivar(w http.ResponseWriter, r *http.Request) {
	funcionario, ok := requiereFuncionario(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.Reactivar(r.Context(), chi.URLParam(r, "placa"), funcionario)
	if err != nil {
		writeError(w, err)
		return
	}
	responder(w, http.StatusOK, cuentaARespuesta(snap))
}
