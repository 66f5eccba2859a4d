package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"traslados/internal/cuentas"
	"traslados/internal/novedades"
	"traslados/internal/platform/config"
	"traslados/internal/platform/httpserver"
	"traslados/internal/platform/logger"
	"traslados/internal/platform/metrics"
	pgschema "traslados/internal/platform/postgres"
	redisplatform "traslados/internal/platform/redis"
	"traslados/internal/platform/secuencias"
	"traslados/internal/procesos"
	"traslados/internal/reportes"
	httptransport "traslados/internal/transport/http"
	"traslados/pkg/domain"
	"traslados/pkg/platform/outbox"
	txpkg "traslados/pkg/platform/tx"

	_ "github.com/lib/pq"
)

// main cablea las dependencias de alto nivel y mantiene el ciclo de vida
// del servidor pequeño. La lógica de negocio vive en internal.
func main() {
	cfg := config.FromEnv()

	log, err := logger.New(cfg.Entorno)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	reloj := domain.RelojSistema()
	m := metrics.New()

	// Almacenamiento: postgres cuando hay DSN, memoria en caso contrario.
	var (
		db              *sql.DB
		runner          txpkg.Runner   = txpkg.NoopRunner{}
		cuentaStore     cuentas.Store  = cuentas.NewInMemoryStore()
		trasladoStore   procesos.TrasladoStore = procesos.NewInMemoryTrasladoStore()
		radicacionStore procesos.RadicacionStore = procesos.NewInMemoryRadicacionStore()
		novedadStore    novedades.Store = novedades.NewInMemoryStore()
		outboxStore     outbox.Store   = outbox.NewInMemoryStore()
	)
	if cfg.Database.URL != "" {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal("abrir base de datos", zap.Error(err))
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			log.Fatal("ping a base de datos", zap.Error(err))
		}
		defer db.Close()

		if err := pgschema.AplicarEsquema(context.Background(), db); err != nil {
			log.Fatal("aplicar esquema", zap.Error(err))
		}

		runner = txpkg.NewSQLRunner(db)
		cuentaStore = cuentas.NewPostgresStore(db)
		trasladoStore = procesos.NewPostgresTrasladoStore(db)
		radicacionStore = procesos.NewPostgresRadicacionStore(db)
		novedadStore = novedades.NewPostgresStore(db)
		outboxStore = outbox.NewPostgresStore(db)
		log.Info("almacenamiento postgres configurado")
	} else {
		log.Warn("sin TRASLADOS_DATABASE_URL, usando almacenamiento en memoria")
	}

	// Consecutivos diarios: redis cuando está configurado.
	var asignador secuencias.Asignador = secuencias.NewMemoriaAsignador()
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Fatal("conectar a redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		asignador = secuencias.NewRedisAsignador(redisClient.Client)
		log.Info("asignador de consecutivos en redis configurado")
	}

	cuentasSvc := cuentas.NewService(cuentaStore, outboxStore, asignador, runner, m, log, reloj)
	procesosSvc := procesos.NewService(trasladoStore, radicacionStore, cuentasSvc, m, log, reloj)
	novedadesSvc := novedades.NewService(novedadStore, procesosSvc, asignador, m, log, reloj)
	reportesSvc := reportes.NewService(trasladoStore, radicacionStore, log, reloj)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Publicador de eventos: solo con brokers configurados.
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Kafka.Brokers...),
			kgo.DefaultProduceTopic(cfg.Kafka.Topic),
		)
		if err != nil {
			log.Fatal("conectar a kafka", zap.Error(err))
		}
		defer kafkaClient.Close()

		publisher := outbox.NewPublisher(outboxStore, kafkaClient, cfg.Kafka.Topic, log).
			WithObserver(m.EventosPublicados.Inc)
		go func() {
			if err := publisher.Run(ctx); err != nil && err != context.Canceled {
				log.Error("publicador de eventos detenido", zap.Error(err))
			}
		}()
		log.Info("publicador de eventos configurado",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}

	router := httptransport.NewRouter(log,
		httptransport.NewCuentasHandler(cuentasSvc, log),
		httptransport.NewProcesosHandler(procesosSvc, log, reloj),
		httptransport.NewNovedadesHandler(novedadesSvc, log),
		httptransport.NewReportesHandler(reportesSvc, log))

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("iniciando traslados", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("error del servidor", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("apagado fallido", zap.Error(err))
	}
	log.Info("servidor detenido")
}
