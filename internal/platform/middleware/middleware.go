// Package middleware agrupa los interceptores HTTP comunes del servicio.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger registra cada petición con campos estructurados una vez atendida.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inicio := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("petición atendida",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("metodo", r.Method),
				zap.String("ruta", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duracion", time.Since(inicio)))
		})
	}
}

// Recovery convierte un panic del handler en un 500 con traza en el log.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic atendiendo petición",
						zap.String("request_id", chimiddleware.GetReqID(r.Context())),
						zap.String("ruta", r.URL.Path),
						zap.Any("panic", rec))
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
