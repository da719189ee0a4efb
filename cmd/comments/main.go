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

	cfg, err := config.Load(model.JobComments)
	if err != nil {
		app.NewLogger(os.Stderr, "info").Error("unable to load config", slog.String("error", err.Error()))
		return err
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel)

	deps, err := app.NewDeps(ctx, cfg, model.JobComments, app.Options{}, logger)
	if err != nil {
		logger.Error("unable to set up comment job", slog.String("error", err.Error()))
		return err
	}
	defer deps.Close()

	logger.Info("comment job ready", slog.String("bucket", cfg.CommentBucket))
	lambda.Start(app.NewCommentJob(cfg, deps, logger).Handle)

	return nil
}
