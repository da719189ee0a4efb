package model

import (
	"strconv"
	"strings"
	"time"
)

type YoutubeVideoID string

type YoutubeChannelID string

type Statistics struct {
	ViewCount    uint64 `json:"viewCount"`
	LikeCount    uint64 `json:"likeCount"`
	CommentCount uint64 `json:"commentCount"`
}

// Video is a video as returned by the YouTube API. It is not changed after
// it has been fetched, enrichment results live in Analysis.
type Video struct {
	ID           YoutubeVideoID   `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	PublishedAt  string           `json:"publishedAt"`
	ChannelID    YoutubeChannelID `json:"channelId"`
	ChannelTitle string           `json:"channelTitle"`
	Statistics   Statistics       `json:"statistics"`
	Duration     string           `json:"duration"`
	FetchedAt    time.Time        `json:"fetchedAt"`
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

type CategoryFlag struct {
	Name  string `json:"name"`
	Match bool   `json:"match"`
}

type Analysis struct {
	Year               int            `json:"year"`
	Month              int            `json:"month"`
	Day                int            `json:"day"`
	Hour               int            `json:"hour"`
	Weekday            string         `json:"weekday"`
	TimeOfDay          TimeOfDay      `json:"timeOfDay"`
	DurationSeconds    int64          `json:"durationSeconds"`
	Categories         []CategoryFlag `json:"categories"`
	DaysSincePublished int64          `json:"daysSincePublished"`
	ViewsPerDay        float64        `json:"viewsPerDay"`
	LikesPerDay        float64        `json:"likesPerDay"`
	CommentsPerDay     float64        `json:"commentsPerDay"`
}

type EnrichedVideo struct {
	Video    Video    `json:"video"`
	Analysis Analysis `json:"analysis"`
}

var videoCSVFields = []string{
	"videoId",
	"title",
	"publishedAt",
	"channelId",
	"channelTitle",
	"viewCount",
	"likeCount",
	"commentCount",
	"durationSeconds",
	"year",
	"month",
	"day",
	"hour",
	"weekday",
	"timeOfDay",
	"daysSincePublished",
	"viewsPerDay",
	"likesPerDay",
	"commentsPerDay",
}

// VideoCSVHeader returns the column names for enriched video rows. There is
// one is_<name> column per category, in the given order, followed by
// fetchedAt.
func VideoCSVHeader(categories []string) []string {
	header := make([]string, 0, len(videoCSVFields)+len(categories)+1)
	header = append(header, videoCSVFields...)
	for _, c := range categories {
		header = append(header, "is_"+c)
	}

	return append(header, "fetchedAt")
}

func (ev *EnrichedVideo) CSVRow() []string {
	v, a := ev.Video, ev.Analysis
	row := []string{
		string(v.ID),
		CSVField(v.Title),
		v.PublishedAt,
		string(v.ChannelID),
		CSVField(v.ChannelTitle),
		strconv.FormatUint(v.Statistics.ViewCount, 10),
		strconv.FormatUint(v.Statistics.LikeCount, 10),
		strconv.FormatUint(v.Statistics.CommentCount, 10),
		strconv.FormatInt(a.DurationSeconds, 10),
		strconv.Itoa(a.Year),
		strconv.Itoa(a.Month),
		strconv.Itoa(a.Day),
		strconv.Itoa(a.Hour),
		a.Weekday,
		string(a.TimeOfDay),
		strconv.FormatInt(a.DaysSincePublished, 10),
		formatFloat(a.ViewsPerDay),
		formatFloat(a.LikesPerDay),
		formatFloat(a.CommentsPerDay),
	}
	for _, c := range a.Categories {
		row = append(row, strconv.FormatBool(c.Match))
	}

	return append(row, v.FetchedAt.UTC().Format(time.RFC3339))
}

var csvReplacer = strings.NewReplacer(
	",", "，",
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// CSVField makes a string safe for a line oriented, unquoted CSV row. Commas
// become full-width commas and line breaks become spaces. This is lossy.
func CSVField(s string) string {
	return csvReplacer.Replace(s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
