package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config reúne toda la configuración del servicio leída del entorno.
type Config struct {
	Addr     string
	Entorno  string
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig

	ShutdownTimeout time.Duration
}

// DatabaseConfig configura la conexión a Postgres. URL vacía significa
// almacenamiento en memoria.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configura el cliente de Redis usado por el asignador de
// consecutivos. URL vacía significa asignación en memoria.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configura el publicador de eventos. Sin brokers el outbox se
// acumula sin publicarse.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv construye la configuración desde variables de entorno para que
// main quede delgado.
func FromEnv() Config {
	return Config{
		Addr:    envODefecto("TRASLADOS_ADDR", ":8080"),
		Entorno: envODefecto("TRASLADOS_ENTORNO", "desarrollo"),
		Database: DatabaseConfig{
			URL:             os.Getenv("TRASLADOS_DATABASE_URL"),
			MaxOpenConns:    envEntero("TRASLADOS_DB_MAX_OPEN", 25),
			MaxIdleConns:    envEntero("TRASLADOS_DB_MAX_IDLE", 5),
			ConnMaxLifetime: envDuracion("TRASLADOS_DB_CONN_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("TRASLADOS_REDIS_URL"),
			PoolSize:     envEntero("TRASLADOS_REDIS_POOL", 10),
			MinIdleConns: envEntero("TRASLADOS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuracion("TRASLADOS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuracion("TRASLADOS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuracion("TRASLADOS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envLista("TRASLADOS_KAFKA_BROKERS"),
			Topic:   envODefecto("TRASLADOS_KAFKA_TOPIC", "traslados.eventos"),
		},
		ShutdownTimeout: envDuracion("TRASLADOS_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envODefecto(clave, defecto string) string {
	if v := os.Getenv(clave); v != "" {
		return v
	}
	return defecto
}

func envEntero(clave string, defecto int) int {
	v := os.Getenv(clave)
	if v == "" {
		return defecto
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defecto
	}
	return n
}

func envDuracion(clave string, defecto time.Duration) time.Duration {
	v := os.Getenv(clave)
	if v == "" {
		return defecto
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defecto
	}
	return d
}

func envLista(clave string) []string {
	v := os.Getenv(clave)
	if v == "" {
		return nil
	}
	partes := strings.Split(v, ",")
	out := make([]string, 0, len(partes))
	for _, p := range partes {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
