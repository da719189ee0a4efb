package storage

import (
	"fmt"
	"time"

	"ewintr.nl/ytharvest/model"
)

const (
	videoPrefix   = "youtube_videos"
	commentPrefix = "youtube_comments"
)

func VideoYearJSONKey(channelID model.YoutubeChannelID, year, count int) string {
	return fmt.Sprintf("%s/%s/%d/videos_%d_%d.json", videoPrefix, channelID, year, year, count)
}

func VideoYearCSVKey(channelID model.YoutubeChannelID, year, count int) string {
	return fmt.Sprintf("%s/%s/%d/videos_%d_%d.csv", videoPrefix, channelID, year, year, count)
}

// VideoCSVKey is the cumulative CSV for a channel.
func VideoCSVKey(channelID model.YoutubeChannelID) string {
	return fmt.Sprintf("%s/%s/videos.csv", videoPrefix, channelID)
}

// CommentJSONKey uses the local time of the run so that repeated runs for
// the same video do not overwrite each other.
func CommentJSONKey(videoID model.YoutubeVideoID, at time.Time) string {
	return fmt.Sprintf("%s/%s/comments_%s_%s.json", commentPrefix, videoID, videoID, at.Format("20060102_150405"))
}

func CommentCSVKey() string {
	return commentPrefix + "/comments.csv"
}
