package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ewintr.nl/ytharvest/model"
)

type CommentFetcher struct {
	infoFetcher   VideoInfoFetcher
	commentReader CommentReader
	cache         VideoInfoCache
	logger        *slog.Logger
	now           func() time.Time
}

func NewCommentFetcher(infoFetcher VideoInfoFetcher, commentReader CommentReader, cache VideoInfoCache, logger *slog.Logger) *CommentFetcher {
	return &CommentFetcher{
		infoFetcher:   infoFetcher,
		commentReader: commentReader,
		cache:         cache,
		logger:        logger,
		now:           time.Now,
	}
}

// Fetch returns all top level comments of a video. Every comment carries the
// same VideoInfo, looked up once before the first page. If that lookup
// fails, no comments are fetched at all. If a comment page fails, the
// comments of the earlier pages are returned with the error.
func (cf *CommentFetcher) Fetch(ctx context.Context, videoID model.YoutubeVideoID) ([]model.Comment, error) {
	info, err := cf.videoInfo(ctx, videoID)
	if err != nil {
		cf.logger.Error("failed to fetch video info", slog.String("videoid", string(videoID)), slog.String("error", err.Error()))
		return []model.Comment{}, fmt.Errorf("video info for %s: %w", videoID, err)
	}

	fetchedAt := cf.now().UTC()
	comments := []model.Comment{}
	token := ""
	for page := 1; ; page++ {
		batch, next, err := cf.commentReader.CommentThreads(ctx, videoID, token)
		if err != nil {
			cf.logger.Error("failed to fetch comment page", slog.String("videoid", string(videoID)), slog.Int("page", page), slog.Int("partial", len(comments)), slog.String("error", err.Error()))
			return comments, fmt.Errorf("comment page %d of %s: %w", page, videoID, err)
		}
		for _, c := range batch {
			c.Video = info
			c.FetchedAt = fetchedAt
			comments = append(comments, c)
		}
		cf.logger.Info("fetched comment page", slog.String("videoid", string(videoID)), slog.Int("page", page), slog.Int("count", len(batch)))

		if next == "" {
			return comments, nil
		}
		token = next
	}
}

func (cf *CommentFetcher) videoInfo(ctx context.Context, videoID model.YoutubeVideoID) (model.VideoInfo, error) {
	if cf.cache != nil {
		info, ok, err := cf.cache.Get(ctx, videoID)
		switch {
		case err != nil:
			cf.logger.Warn("failed to read video info cache", slog.String("videoid", string(videoID)), slog.String("error", err.Error()))
		case ok:
			return info, nil
		}
	}

	info, err := cf.infoFetcher.FetchVideoInfo(ctx, videoID)
	if err != nil {
		return model.VideoInfo{}, err
	}

	if cf.cache != nil {
		if err := cf.cache.Set(ctx, info); err != nil {
			cf.logger.Warn("failed to write video info cache", slog.String("videoid", string(videoID)), slog.String("error", err.Error()))
		}
	}

	return info, nil
}
