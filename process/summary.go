package process

import (
	"time"

	"ewintr.nl/ytharvest/model"
)

type YearSummary struct {
	ChannelID       model.YoutubeChannelID `json:"channel_id"`
	Year            int                    `json:"year"`
	TotalVideos     int                    `json:"total_videos"`
	TotalViews      uint64                 `json:"total_views"`
	TotalLikes      uint64                 `json:"total_likes"`
	TotalComments   uint64                 `json:"total_comments"`
	AverageViews    float64                `json:"average_views"`
	AverageLikes    float64                `json:"average_likes"`
	AverageComments float64                `json:"average_comments"`
	FetchedAt       time.Time              `json:"fetched_at"`
}

func Summarize(channelID model.YoutubeChannelID, year int, videos []model.EnrichedVideo, fetchedAt time.Time) YearSummary {
	s := YearSummary{
		ChannelID:   channelID,
		Year:        year,
		TotalVideos: len(videos),
		FetchedAt:   fetchedAt,
	}
	for _, v := range videos {
		s.TotalViews += v.Video.Statistics.ViewCount
		s.TotalLikes += v.Video.Statistics.LikeCount
		s.TotalComments += v.Video.Statistics.CommentCount
	}
	if n := float64(len(videos)); n > 0 {
		s.AverageViews = float64(s.TotalViews) / n
		s.AverageLikes = float64(s.TotalLikes) / n
		s.AverageComments = float64(s.TotalComments) / n
	}

	return s
}
