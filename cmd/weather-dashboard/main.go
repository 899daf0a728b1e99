package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-dashboard/config"
	"weather-dashboard/internal/chart"
	"weather-dashboard/internal/cities"
	v1 "weather-dashboard/internal/controllers/http/v1"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/internal/services/dashboard"
	"weather-dashboard/pkg/httpserver"
	"weather-dashboard/pkg/observe"
)

// @title Weather Dashboard
// @version 1.0.0
// @description Weekly forecast dashboard: city search, current conditions and a high/low temperature chart.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

// @tag.name Dashboard
// @tag.description Dashboard state and chart
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf := config.NewConfig()

	sentryHook := observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.IsDevelopment())
	writers := []io.Writer{os.Stdout}
	if cnf.SentryDSN != "" {
		writers = append(writers, sentryHook)
	}

	l := observe.NewZapLogger(cnf.AppName, writers...).WithEnv(cnf.AppEnv)
	if err := l.SetLevel(cnf.LogLevel); err != nil {
		l.Warning("invalid log level, using debug", map[string]any{"level": cnf.LogLevel})
	}

	cityTable, err := cities.Load(cnf.Dashboard.CitiesFile)
	if err != nil {
		l.Fatal("cannot load city table", map[string]any{"err": err, "file": cnf.Dashboard.CitiesFile})
	}

	repo := repositories.InitForecastRepository(cnf, l)

	var decoration *chart.Decoration
	if cnf.Chart.Decoration {
		decoration = chart.DefaultDecoration()
	}
	surface := chart.NewSurface(cnf.Chart.Mount)
	renderer := chart.NewRenderer(surface, chart.RendererConfig{
		Mount:      cnf.Chart.Mount,
		Title:      cnf.Chart.Title,
		Decoration: decoration,
	}, l)

	dash, err := dashboard.NewController(repo, cityTable, renderer, l, dashboard.Options{
		RefreshInterval: cnf.Dashboard.RefreshInterval,
		SearchDebounce:  cnf.Dashboard.SearchDebounce,
		DefaultCityID:   cnf.Dashboard.DefaultCityID,
		DiscardStale:    cnf.Dashboard.DiscardStale,
	})
	if err != nil {
		l.Fatal("cannot create dashboard", map[string]any{"err": err})
	}

	app := httpserver.InitFiberServer(cnf.AppName)

	v1.NewRouter(
		app,
		dash,
		surface,
		cnf.Chart.Mount,
		l,
	)

	dash.Start(ctx)

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":     cnf.Port,
		"provider": repo.Name(),
		"cities":   len(cityTable),
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
		dash.Close()
		cancel()
		sentryHook.Flush()
		_ = l.Stop()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
