package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"blog-cms/backend/global"
	"blog-cms/backend/initialize"
	"blog-cms/backend/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initialize.Build(ctx, *configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("init failed")
	}
	defer func() {
		if err := app.Close(); err != nil {
			global.Logger.Error().Err(err).Msg("close failed")
		}
	}()

	if err := server.Run(ctx, app.Cfg.HTTP.Host, app.Cfg.HTTP.Port, app.Router); err != nil {
		global.Logger.Error().Err(err).Msg("http server failed")
	}
}
