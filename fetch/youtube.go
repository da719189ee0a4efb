package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ewintr.nl/ytharvest/model"
	"google.golang.org/api/youtube/v3"
)

const (
	searchPageSize  = 50
	commentPageSize = 100
)

var ErrVideoNotFound = errors.New("video not found")

type Youtube struct {
	Client *youtube.Service
	now    func() time.Time
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{
		Client: client,
		now:    time.Now,
	}
}

func (y *Youtube) Search(ctx context.Context, channelID model.YoutubeChannelID, window Window, pageToken string) ([]model.YoutubeVideoID, string, error) {
	call := y.Client.Search.
		List([]string{"id"}).
		MaxResults(searchPageSize).
		Type("video").
		Order("date").
		ChannelId(string(channelID)).
		PublishedAfter(window.Start.UTC().Format(time.RFC3339)).
		PublishedBefore(window.End.UTC().Format(time.RFC3339)).
		Context(ctx)

	if pageToken != "" {
		call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, "", err
	}

	ids := make([]model.YoutubeVideoID, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, model.YoutubeVideoID(item.Id.VideoId))
	}

	return ids, response.NextPageToken, nil
}

func (y *Youtube) FetchMetadata(ctx context.Context, ytIDs []model.YoutubeVideoID) (map[model.YoutubeVideoID]*model.Video, error) {
	if len(ytIDs) == 0 {
		return map[model.YoutubeVideoID]*model.Video{}, nil
	}

	strIDs := make([]string, len(ytIDs))
	for i, id := range ytIDs {
		strIDs[i] = string(id)
	}
	call := y.Client.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(strIDs, ",")).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, err
	}

	fetchedAt := y.now().UTC()
	mds := make(map[model.YoutubeVideoID]*model.Video, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		video := &model.Video{
			ID:           model.YoutubeVideoID(item.Id),
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			PublishedAt:  item.Snippet.PublishedAt,
			ChannelID:    model.YoutubeChannelID(item.Snippet.ChannelId),
			ChannelTitle: item.Snippet.ChannelTitle,
			FetchedAt:    fetchedAt,
		}
		if item.Statistics != nil {
			video.Statistics = model.Statistics{
				ViewCount:    item.Statistics.ViewCount,
				LikeCount:    item.Statistics.LikeCount,
				CommentCount: item.Statistics.CommentCount,
			}
		}
		if item.ContentDetails != nil {
			video.Duration = item.ContentDetails.Duration
		}

		mds[video.ID] = video
	}

	return mds, nil
}

func (y *Youtube) FetchVideoInfo(ctx context.Context, videoID model.YoutubeVideoID) (model.VideoInfo, error) {
	response, err := y.Client.Videos.
		List([]string{"snippet", "statistics"}).
		Id(string(videoID)).
		Context(ctx).
		Do()
	if err != nil {
		return model.VideoInfo{}, err
	}
	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return model.VideoInfo{}, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	item := response.Items[0]
	info := model.VideoInfo{
		ID:           videoID,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
	}
	if item.Statistics != nil {
		info.ViewCount = item.Statistics.ViewCount
		info.LikeCount = item.Statistics.LikeCount
		info.CommentCount = item.Statistics.CommentCount
	}

	return info, nil
}

// CommentThreads returns the top level comments of one page. The VideoInfo
// of the returned comments is not filled in.
func (y *Youtube) CommentThreads(ctx context.Context, videoID model.YoutubeVideoID, pageToken string) ([]model.Comment, string, error) {
	call := y.Client.CommentThreads.
		List([]string{"snippet"}).
		VideoId(string(videoID)).
		MaxResults(commentPageSize).
		TextFormat("plainText").
		Context(ctx)

	if pageToken != "" {
		call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, "", err
	}

	comments := make([]model.Comment, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, model.Comment{
			VideoID:     videoID,
			CommentID:   item.Snippet.TopLevelComment.Id,
			Author:      s.AuthorDisplayName,
			Text:        s.TextDisplay,
			LikeCount:   s.LikeCount,
			PublishedAt: s.PublishedAt,
		})
	}

	return comments, response.NextPageToken, nil
}
