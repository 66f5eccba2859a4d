package logger

import (
	"go.uber.org/zap"
)

// New construye el logger estructurado del servicio. En desarrollo usa la
// salida legible de zap; en cualquier otro entorno, JSON de producción.
func New(entorno string) (*zap.Logger, error) {
	if entorno == "desarrollo" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
