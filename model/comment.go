package model

import (
	"strconv"
	"time"
)

// VideoInfo is the part of a video that is copied into every comment of that
// video. It is a snapshot of the moment the comments were fetched.
type VideoInfo struct {
	ID           YoutubeVideoID `json:"id"`
	Title        string         `json:"title"`
	ChannelTitle string         `json:"channelTitle"`
	ViewCount    uint64         `json:"viewCount"`
	LikeCount    uint64         `json:"likeCount"`
	CommentCount uint64         `json:"commentCount"`
}

type Comment struct {
	VideoID     YoutubeVideoID `json:"videoId"`
	CommentID   string         `json:"commentId"`
	Author      string         `json:"author"`
	Text        string         `json:"text"`
	LikeCount   int64          `json:"likeCount"`
	PublishedAt string         `json:"publishedAt"`
	Video       VideoInfo      `json:"video"`
	FetchedAt   time.Time      `json:"fetchedAt"`
}

func CommentCSVHeader() []string {
	return []string{
		"videoId",
		"commentId",
		"author",
		"text",
		"likeCount",
		"publishedAt",
		"videoTitle",
		"videoViewCount",
		"videoLikeCount",
		"videoCommentCount",
		"fetchedAt",
	}
}

func (c *Comment) CSVRow() []string {
	return []string{
		string(c.VideoID),
		c.CommentID,
		CSVField(c.Author),
		CSVField(c.Text),
		strconv.FormatInt(c.LikeCount, 10),
		c.PublishedAt,
		CSVField(c.Video.Title),
		strconv.FormatUint(c.Video.ViewCount, 10),
		strconv.FormatUint(c.Video.LikeCount, 10),
		strconv.FormatUint(c.Video.CommentCount, 10),
		c.FetchedAt.UTC().Format(time.RFC3339),
	}
}
