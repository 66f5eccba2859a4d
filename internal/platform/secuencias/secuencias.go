// Package secuencias asigna consecutivos diarios para números de cuenta y
// códigos de novedad. Cada tipo reinicia su secuencia en 1 al cambiar el día.
package secuencias

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Asignador entrega el siguiente consecutivo del día para un tipo dado.
type Asignador interface {
	Siguiente(ctx context.Context, tipo string, fecha time.Time) (int, error)
}

const ttlSecuencia = 48 * time.Hour

func claveSecuencia(tipo string, fecha time.Time) string {
	return fmt.Sprintf("seq:%s:%s", tipo, fecha.UTC().Format("20060102"))
}

// RedisAsignador asigna consecutivos con INCR atómico. Las claves expiran
// a las 48 horas, margen suficiente para cruzar la medianoche.
type RedisAsignador struct {
	client *redis.Client
}

func NewRedisAsignador(client *redis.Client) *RedisAsignador {
	return &RedisAsignador{client: client}
}

func (a *RedisAsignador) Siguiente(ctx context.Context, tipo string, fecha time.Time) (int, error) {
	clave := claveSecuencia(tipo, fecha)
	n, err := a.client.Incr(ctx, clave).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementar secuencia %s: %w", clave, err)
	}
	if n == 1 {
		if err := a.client.Expire(ctx, clave, ttlSecuencia).Err(); err != nil {
			return 0, fmt.Errorf("fijar expiración de %s: %w", clave, err)
		}
	}
	return int(n), nil
}

// MemoriaAsignador asigna consecutivos en memoria. Sirve para pruebas y
// para arrancar sin Redis; no sobrevive reinicios.
type MemoriaAsignador struct {
	mu         sync.Mutex
	secuencias map[string]int
}

func NewMemoriaAsignador() *MemoriaAsignador {
	return &MemoriaAsignador{secuencias: make(map[string]int)}
}

func (a *MemoriaAsignador) Siguiente(_ context.Context, tipo string, fecha time.Time) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	clave := claveSecuencia(tipo, fecha)
	a.secuencias[clave]++
	return a.secuencias[clave], nil
}
