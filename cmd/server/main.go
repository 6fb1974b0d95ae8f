package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emabi2002/npiams-sub001/modules"
	"github.com/emabi2002/npiams-sub001/pkg/application"
	"github.com/emabi2002/npiams-sub001/pkg/configuration"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
	"github.com/emabi2002/npiams-sub001/pkg/metrics"
	"github.com/emabi2002/npiams-sub001/pkg/middleware"
	"github.com/emabi2002/npiams-sub001/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if err := app.Migrations().Apply(ctx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	app.RegisterMiddleware(
		middleware.ProvidePool(pool),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Cors(strings.Split(conf.AllowedOrigins, ",")),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance := server.NewHTTPServer(app)
	log.Printf("listening on %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
