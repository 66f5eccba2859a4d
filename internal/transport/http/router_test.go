package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traslados/internal/cuentas"
	"traslados/internal/novedades"
	"traslados/internal/platform/metrics"
	"traslados/internal/platform/secuencias"
	"traslados/internal/procesos"
	"traslados/internal/reportes"
	"traslados/pkg/domain"
	"traslados/pkg/platform/outbox"
	txpkg "traslados/pkg/platform/tx"
)

// Las métricas usan el registro global de prometheus, así que el paquete de
// pruebas comparte una sola instancia.
var metricasPruebas = metrics.New()

var relojPruebas = domain.RelojFijo(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))

func routerDePruebas(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	asignador := secuencias.NewMemoriaAsignador()
	trasladoStore := procesos.NewInMemoryTrasladoStore()
	radicacionStore := procesos.NewInMemoryRadicacionStore()

	cuentasSvc := cuentas.NewService(cuentas.NewInMemoryStore(), outbox.NewInMemoryStore(),
		asignador, txpkg.NoopRunner{}, metricasPruebas, logger, relojPruebas)
	procesosSvc := procesos.NewService(trasladoStore, radicacionStore, cuentasSvc,
		metricasPruebas, logger, relojPruebas)
	novedadesSvc := novedades.NewService(novedades.NewInMemoryStore(), procesosSvc,
		asignador, metricasPruebas, logger, relojPruebas)
	reportesSvc := reportes.NewService(trasladoStore, radicacionStore, logger, relojPruebas)

	return NewRouter(logger,
		NewCuentasHandler(cuentasSvc, logger),
		NewProcesosHandler(procesosSvc, logger, relojPruebas),
		NewNovedadesHandler(novedadesSvc, logger),
		NewReportesHandler(reportesSvc, logger))
}

func ejecutar(t *testing.T, router http.Handler, metodo, ruta string, cuerpo any, encabezados map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if cuerpo != nil {
		raw, err := json.Marshal(cuerpo)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(metodo, ruta, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range encabezados {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func comoFuncionario(extra ...string) map[string]string {
	h := map[string]string{HeaderFuncionario: "perez"}
	for i := 0; i+1 < len(extra); i += 2 {
		h[extra[i]] = extra[i+1]
	}
	return h
}

func decodificarCuerpo(t *testing.T, rec *httptest.ResponseRecorder, destino any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(destino))
}

func crearCuentaHTTP(t *testing.T, router http.Handler, placa string) {
	t.Helper()
	rec := ejecutar(t, router, http.MethodPost, "/cuentas",
		map[string]string{"placa": placa, "tipo_servicio": "particular"}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCrearCuentaHTTP(t *testing.T) {
	router := routerDePruebas(t)

	rec := ejecutar(t, router, http.MethodPost, "/cuentas",
		map[string]string{"placa": "abc123", "tipo_servicio": "particular"}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp cuentaRespuesta
	decodificarCuerpo(t, rec, &resp)
	assert.Equal(t, "ABC123", resp.Placa)
	assert.Equal(t, "2024031500001", resp.NumeroCuenta)
	assert.Equal(t, "activa", resp.Estado)
	assert.Equal(t, "PEREZ", resp.FuncionarioActual)

	// La misma placa no puede registrarse dos veces.
	rec = ejecutar(t, router, http.MethodPost, "/cuentas",
		map[string]string{"placa": "ABC123", "tipo_servicio": "particular"}, comoFuncionario())
	require.Equal(t, http.StatusConflict, rec.Code)

	var fallo map[string]string
	decodificarCuerpo(t, rec, &fallo)
	assert.Equal(t, "conflict", fallo["error"])
	assert.Equal(t, "Ya existe una cuenta para la placa ABC123", fallo["mensaje"])
}

func TestComandosExigenFuncionario(t *testing.T) {
	router := routerDePruebas(t)

	rec := ejecutar(t, router, http.MethodPost, "/cuentas",
		map[string]string{"placa": "ABC123", "tipo_servicio": "particular"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fallo map[string]string
	decodificarCuerpo(t, rec, &fallo)
	assert.Equal(t, "validation", fallo["error"])
	assert.Equal(t, "El encabezado X-Funcionario es requerido", fallo["mensaje"])
}

func TestCuentaDesconocidaHTTP(t *testing.T) {
	router := routerDePruebas(t)

	rec := ejecutar(t, router, http.MethodGet, "/cuentas/ZZZ999", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var fallo map[string]string
	decodificarCuerpo(t, rec, &fallo)
	assert.Equal(t, "not_found", fallo["error"])
}

func TestFlujoTrasladoHTTP(t *testing.T) {
	router := routerDePruebas(t)
	crearCuentaHTTP(t, router, "ABC123")

	rec := ejecutar(t, router, http.MethodPost, "/traslados", map[string]any{
		"placa":         "ABC123",
		"organismo":     map[string]string{"codigo": "MEDELLIN"},
		"fecha_tramite": "2024-03-10",
	}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp procesoRespuesta
	decodificarCuerpo(t, rec, &resp)
	assert.Equal(t, "traslado", resp.TipoProceso)
	assert.Equal(t, "Medellin", resp.Organismo)
	assert.Equal(t, "enviado_organismo_destino", resp.Estado)
	assert.Equal(t, 55, resp.DiasRestantes)
	assert.Equal(t, 5, resp.DiasEnProceso)
	assert.Equal(t, "normal", resp.NivelUrgencia)

	rec = ejecutar(t, router, http.MethodPost, "/traslados/ABC123/revisar", nil, comoFuncionario())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ejecutar(t, router, http.MethodPost, "/traslados/ABC123/completar",
		map[string]string{"observaciones": "todo en orden"}, comoFuncionario())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodificarCuerpo(t, rec, &resp)
	assert.Equal(t, "trasladado", resp.Estado)

	rec = ejecutar(t, router, http.MethodGet, "/cuentas/ABC123/procesos-permitidos", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var permitidos map[string][]string
	decodificarCuerpo(t, rec, &permitidos)
	assert.Equal(t, []string{"radicacion"}, permitidos["procesos_permitidos"])
}

func TestDevolverExigeAdminHTTP(t *testing.T) {
	router := routerDePruebas(t)
	crearCuentaHTTP(t, router, "ABC123")

	rec := ejecutar(t, router, http.MethodPost, "/traslados", map[string]any{
		"placa":         "ABC123",
		"organismo":     map[string]string{"codigo": "CALI"},
		"fecha_tramite": "2024-03-10",
	}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cuerpo := map[string]string{"motivo": "documentos ilegibles"}

	rec = ejecutar(t, router, http.MethodPost, "/traslados/ABC123/devolver", cuerpo, comoFuncionario())
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ejecutar(t, router, http.MethodPost, "/traslados/ABC123/devolver", cuerpo,
		comoFuncionario(HeaderEsAdmin, "true"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp procesoRespuesta
	decodificarCuerpo(t, rec, &resp)
	assert.Equal(t, "devuelto", resp.Estado)
}

func TestNovedadesHTTP(t *testing.T) {
	router := routerDePruebas(t)
	crearCuentaHTTP(t, router, "ABC123")

	rec := ejecutar(t, router, http.MethodPost, "/traslados", map[string]any{
		"placa":         "ABC123",
		"organismo":     map[string]string{"codigo": "MEDELLIN"},
		"fecha_tramite": "2024-03-10",
	}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = ejecutar(t, router, http.MethodPost, "/traslados/ABC123/revisar", nil, comoFuncionario())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ejecutar(t, router, http.MethodPost, "/novedades", map[string]string{
		"placa":        "ABC123",
		"tipo_proceso": "traslado",
		"tipo_novedad": "documento_faltante",
		"descripcion":  "falta el certificado de tradición del vehículo",
		"prioridad":    "media",
	}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp novedadRespuesta
	decodificarCuerpo(t, rec, &resp)
	assert.Equal(t, "NOV-20240315-0001", resp.Codigo)
	assert.Equal(t, "pendiente", resp.Estado)

	// El traslado queda bloqueado por la novedad.
	var traslado procesoRespuesta
	rec = ejecutar(t, router, http.MethodGet, "/traslados/ABC123", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodificarCuerpo(t, rec, &traslado)
	assert.Equal(t, "con_novedades", traslado.Estado)

	rec = ejecutar(t, router, http.MethodPost, "/novedades/NOV-20240315-0001/resolver",
		map[string]string{"descripcion_resolucion": "certificado aportado por el propietario"}, comoFuncionario())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodificarCuerpo(t, rec, &resp)
	assert.Equal(t, "resuelta", resp.Estado)

	rec = ejecutar(t, router, http.MethodGet, "/traslados/ABC123", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodificarCuerpo(t, rec, &traslado)
	assert.Equal(t, "revisado", traslado.Estado)
}

func TestReporteVencimientosHTTP(t *testing.T) {
	router := routerDePruebas(t)
	crearCuentaHTTP(t, router, "ABC123")

	rec := ejecutar(t, router, http.MethodPost, "/traslados", map[string]any{
		"placa":         "ABC123",
		"organismo":     map[string]string{"codigo": "MEDELLIN"},
		"fecha_tramite": "2024-03-10",
	}, comoFuncionario())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ejecutar(t, router, http.MethodGet, "/reportes/vencimientos", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reporte reportes.Vencimientos
	decodificarCuerpo(t, rec, &reporte)
	require.Len(t, reporte.Normales, 1)
	assert.Equal(t, "ABC123", reporte.Normales[0].Placa)

	rec = ejecutar(t, router, http.MethodGet, "/reportes/proximos-a-vencer?dias=60", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := routerDePruebas(t)

	rec := ejecutar(t, router, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var estado map[string]string
	decodificarCuerpo(t, rec, &estado)
	assert.Equal(t, "ok", estado["estado"])
}
