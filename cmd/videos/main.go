package main

import (
	"context"
	"log/slog"
	"os"

	"ewintr.nl/ytharvest/app"
	"ewintr.nl/ytharvest/config"
	"ewintr.nl/ytharvest/model"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(model.JobVideos)
	if err != nil {
		app.NewLogger(os.Stderr, "info").Error("unable to load config", slog.String("error", err.Error()))
		return err
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel)

	deps, err := app.NewDeps(ctx, cfg, model.JobVideos, app.Options{}, logger)
	if err != nil {
		logger.Error("unable to set up video job", slog.String("error", err.Error()))
		return err
	}
	defer deps.Close()

	logger.Info("video job ready", slog.Any("channels", cfg.ChannelIDs), slog.Int("startyear", cfg.StartYear))
	lambda.Start(app.NewVideoJob(cfg, deps, logger).Handle)

	return nil
}
