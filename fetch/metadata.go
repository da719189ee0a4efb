package fetch

import (
	"context"

	"ewintr.nl/ytharvest/model"
)

type ChannelReader interface {
	Search(ctx context.Context, channelID model.YoutubeChannelID, window Window, pageToken string) ([]model.YoutubeVideoID, string, error)
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ids []model.YoutubeVideoID) (map[model.YoutubeVideoID]*model.Video, error)
}

type VideoInfoFetcher interface {
	FetchVideoInfo(ctx context.Context, videoID model.YoutubeVideoID) (model.VideoInfo, error)
}

type CommentReader interface {
	CommentThreads(ctx context.Context, videoID model.YoutubeVideoID, pageToken string) ([]model.Comment, string, error)
}
