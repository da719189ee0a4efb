// Package app wires the configured clients into the jobs. It is shared by
// the Lambda entry points and the local runner.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ewintr.nl/ytharvest/config"
	"ewintr.nl/ytharvest/fetch"
	"ewintr.nl/ytharvest/handler"
	"ewintr.nl/ytharvest/model"
	"ewintr.nl/ytharvest/process"
	"ewintr.nl/ytharvest/storage"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func NewLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		l = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// Deps holds the clients that live for the whole process. Close releases
// the ones that need it.
type Deps struct {
	Youtube *fetch.Youtube
	Store   storage.ObjectStore
	Runs    storage.RunRepository
	Cache   fetch.VideoInfoCache
	closers []func() error
}

func (d *Deps) Close() {
	for _, c := range d.closers {
		c()
	}
}

type Options struct {
	// Store replaces the S3 store, as in a dry run.
	Store storage.ObjectStore
}

func NewDeps(ctx context.Context, cfg *config.Config, job model.JobName, opts Options, logger *slog.Logger) (*Deps, error) {
	deps := &Deps{}

	ytOpts := []option.ClientOption{option.WithAPIKey(cfg.YoutubeAPIKey)}
	if cfg.YoutubeEndpoint != "" {
		ytOpts = append(ytOpts, option.WithEndpoint(cfg.YoutubeEndpoint))
	}
	ytClient, err := youtube.NewService(ctx, ytOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create youtube service: %w", err)
	}
	deps.Youtube = fetch.NewYoutube(ytClient)

	deps.Store = opts.Store
	if deps.Store == nil {
		bucket := cfg.Bucket
		if job == model.JobComments {
			bucket = cfg.CommentBucket
		}
		s3Client, err := storage.NewS3Client(ctx, storage.S3Info{
			Region:   cfg.Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		deps.Store = storage.NewS3Store(s3Client, bucket)
	}

	if cfg.DatabaseURL != "" {
		db, err := storage.OpenPostgres(ctx, storage.PostgresInfo{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("unable to connect to postgres: %w", err)
		}
		postgres, err := storage.NewPostgres(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("unable to migrate run ledger: %w", err)
		}
		deps.Runs = postgres
		deps.closers = append(deps.closers, db.Close)
	}

	if job == model.JobComments && cfg.RedisAddr != "" {
		cache := fetch.NewRedisCache(fetch.NewRedisClient(fetch.RedisInfo{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), cfg.CacheTTL)
		deps.Cache = cache
		deps.closers = append(deps.closers, cache.Close)
	}

	logger.Debug("dependencies ready", slog.Bool("ledger", deps.Runs != nil), slog.Bool("cache", deps.Cache != nil))

	return deps, nil
}

func NewVideoJob(cfg *config.Config, deps *Deps, logger *slog.Logger) *handler.VideoJob {
	loc := cfg.Location()
	channelIDs := make([]model.YoutubeChannelID, 0, len(cfg.ChannelIDs))
	for _, id := range cfg.ChannelIDs {
		channelIDs = append(channelIDs, model.YoutubeChannelID(id))
	}

	fetcher := fetch.NewFetcher(deps.Youtube, deps.Youtube, logger)
	pipeline := process.NewPipeline(process.NewEnricher(loc, cfg.Categories, nil), logger)

	return handler.NewVideoJob(handler.VideoJobInfo{
		ChannelIDs: channelIDs,
		StartYear:  cfg.StartYear,
		Categories: process.CategoryNames(cfg.Categories),
		Location:   loc,
	}, fetcher, pipeline, storage.NewSink(deps.Store), deps.Runs, logger)
}

func NewCommentJob(cfg *config.Config, deps *Deps, logger *slog.Logger) *handler.CommentJob {
	fetcher := fetch.NewCommentFetcher(deps.Youtube, deps.Youtube, deps.Cache, logger)

	return handler.NewCommentJob(fetcher, storage.NewSink(deps.Store), deps.Runs, cfg.Location(), logger)
}
