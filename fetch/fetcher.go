package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"ewintr.nl/ytharvest/model"
)

// Fetcher pages through the videos of a channel. Each page of search results
// is resolved to full video records with one metadata call.
type Fetcher struct {
	channelReader   ChannelReader
	metadataFetcher MetadataFetcher
	logger          *slog.Logger
}

func NewFetcher(channelReader ChannelReader, metadataFetcher MetadataFetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		channelReader:   channelReader,
		metadataFetcher: metadataFetcher,
		logger:          logger,
	}
}

// Walk calls fn for every video of the channel in the window, in the order
// the search returns them. It stops at the first error, either from the API
// or from fn. Videos handed to fn before that are not taken back.
func (f *Fetcher) Walk(ctx context.Context, channelID model.YoutubeChannelID, window Window, fn func(*model.Video) error) error {
	token := ""
	for page := 1; ; page++ {
		f.logger.Info("fetching video page", slog.String("channelid", string(channelID)), slog.Int("page", page), slog.String("pagetoken", token))
		ids, next, err := f.channelReader.Search(ctx, channelID, window, token)
		if err != nil {
			return fmt.Errorf("search page %d of channel %s: %w", page, channelID, err)
		}

		if len(ids) > 0 {
			mds, err := f.metadataFetcher.FetchMetadata(ctx, ids)
			if err != nil {
				return fmt.Errorf("metadata for page %d of channel %s: %w", page, channelID, err)
			}
			for _, id := range ids {
				video, ok := mds[id]
				if !ok {
					f.logger.Warn("no metadata for video", slog.String("videoid", string(id)))
					continue
				}
				if err := fn(video); err != nil {
					return err
				}
			}
		}

		f.logger.Info("fetched video page", slog.String("channelid", string(channelID)), slog.Int("page", page), slog.Int("count", len(ids)))
		if next == "" {
			return nil
		}
		token = next
	}
}

// FetchRange collects all videos of the channel in the window. When the
// fetch fails halfway, the videos collected up to then are returned together
// with the error.
func (f *Fetcher) FetchRange(ctx context.Context, channelID model.YoutubeChannelID, window Window) ([]*model.Video, error) {
	videos := []*model.Video{}
	err := f.Walk(ctx, channelID, window, func(video *model.Video) error {
		videos = append(videos, video)
		return nil
	})
	if err != nil {
		f.logger.Error("failed to fetch videos", slog.String("channelid", string(channelID)), slog.Int("partial", len(videos)), slog.String("error", err.Error()))
		return videos, err
	}

	return videos, nil
}
