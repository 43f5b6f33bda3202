// Package main Coleta Calendar API
//
// @title           Coleta Calendar API
// @version         1.0
// @description     Calendário semanal de coleta de lixo de São João de Ver.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	_ "github.com/magabrotheeeer/coleta-calendar/docs"
	"github.com/magabrotheeeer/coleta-calendar/internal/app/coletaapi"
	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env, os.Stdout)

	logger.Info("starting coleta-api", slog.String("env", cfg.Env))
	logger.Debug("loaded config\n" + cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := coletaapi.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("coleta-api stopped gracefully")
}
