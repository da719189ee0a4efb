package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"ewintr.nl/ytharvest/app"
	"ewintr.nl/ytharvest/config"
	"ewintr.nl/ytharvest/handler"
	"ewintr.nl/ytharvest/model"
	"ewintr.nl/ytharvest/storage"
	"github.com/aws/aws-lambda-go/events"
)

func main() {
	os.Exit(run())
}

func run() int {
	job := flag.String("job", "videos", "job to run, videos or comments")
	videoID := flag.String("video", "", "video id for the comments job")
	startYear := flag.Int("start", 0, "first year for the videos job")
	endYear := flag.Int("end", 0, "last year for the videos job")
	dryRun := flag.Bool("dry-run", false, "keep results in memory instead of writing to the bucket")
	serve := flag.String("serve", "", "serve the jobs over http on this address instead of running once")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	jobName := model.JobName(*job)
	if jobName != model.JobVideos && jobName != model.JobComments {
		fmt.Fprintf(os.Stderr, "unknown job %q\n", *job)
		return 2
	}

	cfg, err := config.Load(jobName)
	if err != nil {
		app.NewLogger(os.Stderr, "info").Error("unable to load config", slog.String("error", err.Error()))
		return 1
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel)

	var memory *storage.MemoryStore
	opts := app.Options{}
	if *dryRun {
		memory = storage.NewMemoryStore()
		opts.Store = memory
	}
	deps, err := app.NewDeps(ctx, cfg, jobName, opts, logger)
	if err != nil {
		logger.Error("unable to set up job", slog.String("error", err.Error()))
		return 1
	}
	defer deps.Close()

	if *serve != "" {
		var videoJob *handler.VideoJob
		var commentJob *handler.CommentJob
		if jobName == model.JobVideos {
			videoJob = app.NewVideoJob(cfg, deps, logger)
		} else {
			commentJob = app.NewCommentJob(cfg, deps, logger)
		}
		srv := &http.Server{Addr: *serve, Handler: handler.NewServer(videoJob, commentJob, logger)}
		go func() {
			<-ctx.Done()
			srv.Shutdown(context.Background())
		}()
		logger.Info("http server started", slog.String("address", *serve))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
			return 1
		}
		logger.Info("http server stopped")
		return 0
	}

	var resp events.APIGatewayProxyResponse
	switch jobName {
	case model.JobVideos:
		resp, err = app.NewVideoJob(cfg, deps, logger).Handle(ctx, handler.VideoEvent{StartYear: *startYear, EndYear: *endYear})
	case model.JobComments:
		resp, err = app.NewCommentJob(cfg, deps, logger).Handle(ctx, handler.CommentEvent{VideoID: *videoID})
	}
	if err != nil {
		logger.Error("job failed", slog.String("error", err.Error()))
		return 1
	}

	out := struct {
		StatusCode int             `json:"status_code"`
		Body       json.RawMessage `json:"body"`
		Objects    []string        `json:"objects,omitempty"`
	}{
		StatusCode: resp.StatusCode,
		Body:       json.RawMessage(resp.Body),
	}
	if memory != nil {
		out.Objects = memory.Keys()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("unable to print response", slog.String("error", err.Error()))
		return 1
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return 1
	}

	return 0
}
