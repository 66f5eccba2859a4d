package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores Prometheus del servicio.
type Metrics struct {
	CuentasCreadas      prometheus.Counter
	ProcesosIniciados   *prometheus.CounterVec
	ProcesosCompletados *prometheus.CounterVec
	ProcesosDevueltos   *prometheus.CounterVec
	NovedadesReportadas *prometheus.CounterVec
	NovedadesResueltas  prometheus.Counter
	EventosPublicados   prometheus.Counter
	DuracionComandos    *prometheus.HistogramVec
}

// New crea y registra todas las métricas de la aplicación.
func New() *Metrics {
	return &Metrics{
		CuentasCreadas: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traslados_cuentas_creadas_total",
			Help: "Total de cuentas administrativas creadas",
		}),
		ProcesosIniciados: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "traslados_procesos_iniciados_total",
			Help: "Procesos iniciados por tipo",
		}, []string{"tipo"}),
		ProcesosCompletados: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "traslados_procesos_completados_total",
			Help: "Procesos completados exitosamente por tipo",
		}, []string{"tipo"}),
		ProcesosDevueltos: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "traslados_procesos_devueltos_total",
			Help: "Procesos devueltos por administración por tipo",
		}, []string{"tipo"}),
		NovedadesReportadas: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "traslados_novedades_reportadas_total",
			Help: "Novedades reportadas por prioridad",
		}, []string{"prioridad"}),
		NovedadesResueltas: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traslados_novedades_resueltas_total",
			Help: "Novedades resueltas",
		}),
		EventosPublicados: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traslados_eventos_publicados_total",
			Help: "Eventos de dominio publicados al broker",
		}),
		DuracionComandos: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "traslados_comando_duracion_segundos",
			Help:    "Duración de los comandos de dominio",
			Buckets: prometheus.DefBuckets,
		}, []string{"comando"}),
	}
}
