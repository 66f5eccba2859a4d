package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"traslados/internal/platform/config"
)

// Client envuelve el cliente go-redis con chequeo de salud.
type Client struct {
	*redis.Client
}

// New crea un cliente de Redis a partir de la configuración. Devuelve nil
// si la URL está vacía (Redis no configurado).
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsear URL de redis: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping a redis fallido: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health verifica que la conexión siga viva.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
