package outbox

import (
	"context"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 100
)

// Producer abstrae el cliente de Kafka para poder probar el ciclo de
// publicación sin un broker. *kgo.Client lo satisface.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher drena las entradas pendientes del outbox y las produce a Kafka.
// Una entrada solo se marca publicada tras la confirmación del broker: la
// entrega es al-menos-una-vez y los consumidores deduplican por id de evento.
type Publisher struct {
	store    Store
	producer Producer
	topic    string
	interval time.Duration
	batch    int
	logger   *zap.Logger

	// onPublished se invoca por cada entrada confirmada; permite contar
	// publicaciones sin acoplar este paquete a las métricas del servicio.
	onPublished func()
}

func NewPublisher(store Store, producer Producer, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		store:    store,
		producer: producer,
		topic:    topic,
		interval: defaultPollInterval,
		batch:    defaultBatchSize,
		logger:   logger,
	}
}

// WithInterval ajusta el intervalo de sondeo.
func (p *Publisher) WithInterval(d time.Duration) *Publisher {
	p.interval = d
	return p
}

// WithObserver registra un callback invocado una vez por entrada publicada.
func (p *Publisher) WithObserver(fn func()) *Publisher {
	p.onPublished = fn
	return p
}

func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.publishPending(ctx); err != nil {
				p.logger.Warn("publicación de eventos fallida", zap.Error(err))
			}
		}
	}
}

func (p *Publisher) publishPending(ctx context.Context) error {
	entries, err := p.store.Pending(ctx, p.batch)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(entry.AggregateID),
			Value: entry.Payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(entry.EventType)},
				{Key: "aggregate_type", Value: []byte(entry.AggregateType)},
			},
		}
		if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
			return err
		}
		if err := p.store.MarkPublished(ctx, entry.ID); err != nil {
			return err
		}
		if p.onPublished != nil {
			p.onPublished()
		}
		p.logger.Debug("evento publicado",
			zap.String("event_type", entry.EventType),
			zap.String("aggregate_id", entry.AggregateID))
	}
	return nil
}
