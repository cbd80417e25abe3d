package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar-resource-api/config"
	v1 "solar-resource-api/internal/controllers/http/v1"
	"solar-resource-api/internal/repositories"
	"solar-resource-api/internal/services/solar"
	"solar-resource-api/pkg/httpserver"
	"solar-resource-api/pkg/logger"
	"solar-resource-api/pkg/observe"
)

// @title Solar Resource API
// @version 1.0.0
// @description A multi-provider solar resource data API built with Go and Fiber.
// @description Aggregates solar irradiance data from NREL (NSRDB) and the Google Solar API,
// @description geocodes addresses, derives energy production estimates, and exports CSV.
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Solar
// @tag.description Solar resource data operations
// @tag.name Geocoding
// @tag.description Address resolution
// @tag.name Providers
// @tag.description Upstream provider management
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf := config.NewConfig()

	sentryHook := observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.IsDevelopment())

	l := logger.NewZapLogger(cnf.AppName, os.Stdout, sentryHook)
	l.SetEnv(cnf.AppEnv)
	sentryHook.SetLogger(l)

	metrics := observe.NewMetrics()

	app := httpserver.InitFiberServer(cnf.AppName)

	repos := repositories.InitSolarRepositories(cnf, l, metrics)
	if len(repos) == 0 {
		l.Warning("no solar providers configured, all data requests will fail")
	}

	geocoder := repositories.InitGeocodeRepository(cnf, l)
	if geocoder == nil {
		l.Info("geocoding disabled")
	}

	service := solar.NewSolarService(repos, l, metrics)

	v1.NewRouter(
		app,
		service,
		geocoder,
		metrics,
		l,
	)

	metricsServer := observe.NewMetricsServer(":"+cnf.MetricsPort, l)

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error(err)
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":         cnf.Port,
		"metrics_port": cnf.MetricsPort,
		"providers":    len(repos),
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = metricsServer.Shutdown(shutdownCtx)
		sentryHook.Flush()
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
