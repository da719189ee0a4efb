package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ewintr.nl/ytharvest/fetch"
	"ewintr.nl/ytharvest/model"
	"ewintr.nl/ytharvest/process"
	"ewintr.nl/ytharvest/storage"
	"github.com/aws/aws-lambda-go/events"
)

type VideoFetcher interface {
	FetchRange(ctx context.Context, channelID model.YoutubeChannelID, window fetch.Window) ([]*model.Video, error)
}

type VideoProcessor interface {
	Process(ctx context.Context, videos []*model.Video) ([]model.EnrichedVideo, []error)
}

// VideoEvent is the input of the video job. Both fields are optional, by
// default all years from the configured start year up to the current year
// are collected.
type VideoEvent struct {
	StartYear int `json:"start_year,omitempty"`
	EndYear   int `json:"end_year,omitempty"`
}

type VideoJobInfo struct {
	ChannelIDs []model.YoutubeChannelID
	StartYear  int
	Categories []string
	Location   *time.Location
}

type VideoJob struct {
	info      VideoJobInfo
	fetcher   VideoFetcher
	processor VideoProcessor
	sink      *storage.Sink
	runs      storage.RunRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewVideoJob(info VideoJobInfo, fetcher VideoFetcher, processor VideoProcessor, sink *storage.Sink, runs storage.RunRepository, logger *slog.Logger) *VideoJob {
	if info.Location == nil {
		info.Location = time.UTC
	}
	return &VideoJob{
		info:      info,
		fetcher:   fetcher,
		processor: processor,
		sink:      sink,
		runs:      runs,
		logger:    logger,
		now:       time.Now,
	}
}

type YearCount struct {
	Year   int `json:"year"`
	Videos int `json:"videos"`
}

type ChannelResult struct {
	ChannelID   model.YoutubeChannelID `json:"channel_id"`
	TotalVideos int                    `json:"total_videos"`
	Years       []YearCount            `json:"years"`
}

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type VideoSummary struct {
	Message        string          `json:"message"`
	RunID          string          `json:"run_id"`
	TotalVideos    int             `json:"total_videos"`
	Channels       []ChannelResult `json:"channels"`
	YearsProcessed []int           `json:"years_processed"`
	Range          TimeRange       `json:"range"`
	Errors         []string        `json:"errors,omitempty"`
}

type yearDocument struct {
	Metadata process.YearSummary  `json:"metadata"`
	Videos   []model.EnrichedVideo `json:"videos"`
}

func (j *VideoJob) Handle(ctx context.Context, event VideoEvent) (resp events.APIGatewayProxyResponse, _ error) {
	run := model.NewJobRun(model.JobVideos, j.now())
	defer func() {
		finishRun(ctx, j.runs, run, resp, j.now(), j.logger)
	}()
	defer recoverJob(&resp, j.logger)

	startYear, endYear := j.info.StartYear, run.StartedAt.In(j.info.Location).Year()
	if event.StartYear != 0 {
		startYear = event.StartYear
	}
	if event.EndYear != 0 {
		endYear = event.EndYear
	}
	if startYear > endYear {
		return Error(http.StatusBadRequest, "invalid year range", fmt.Errorf("start year %d is after end year %d", startYear, endYear)), nil
	}

	summary := VideoSummary{
		RunID:    run.ID.String(),
		Channels: []ChannelResult{},
		Range: TimeRange{
			From: fetch.YearWindow(startYear).Start,
			To:   fetch.YearWindow(endYear).End,
		},
	}
	for year := startYear; year <= endYear; year++ {
		summary.YearsProcessed = append(summary.YearsProcessed, year)
	}

	j.logger.Info("starting video job", slog.String("run", run.ID.String()), slog.Int("channels", len(j.info.ChannelIDs)), slog.Int("from", startYear), slog.Int("to", endYear))
	for _, channelID := range j.info.ChannelIDs {
		result := ChannelResult{ChannelID: channelID, Years: []YearCount{}}
		for year := startYear; year <= endYear; year++ {
			count, errs, err := j.collectYear(ctx, channelID, year)
			for _, e := range errs {
				summary.Errors = append(summary.Errors, e.Error())
			}
			if err != nil {
				j.logger.Error("failed to store videos", slog.String("channelid", string(channelID)), slog.Int("year", year), slog.String("error", err.Error()))
				summary.TotalVideos += result.TotalVideos
				summary.Channels = append(summary.Channels, result)
				return Error(http.StatusInternalServerError, "failed to store videos", err, summary), nil
			}
			if count == 0 {
				continue
			}
			result.Years = append(result.Years, YearCount{Year: year, Videos: count})
			result.TotalVideos += count
		}
		summary.TotalVideos += result.TotalVideos
		summary.Channels = append(summary.Channels, result)
	}

	summary.Message = "successfully fetched and saved videos"
	if len(summary.Errors) > 0 {
		summary.Message = "fetched and saved videos with errors"
	}

	return JSON(http.StatusOK, summary), nil
}

// collectYear fetches, enriches and stores the videos of one channel in one
// year. Fetch and enrich problems are returned as errs and do not stop the
// job, a storage failure is returned as err.
func (j *VideoJob) collectYear(ctx context.Context, channelID model.YoutubeChannelID, year int) (int, []error, error) {
	var errs []error
	videos, err := j.fetcher.FetchRange(ctx, channelID, fetch.YearWindow(year))
	if err != nil {
		errs = append(errs, fmt.Errorf("channel %s year %d: %w", channelID, year, err))
	}
	if len(videos) == 0 {
		return 0, errs, nil
	}

	enriched, enrichErrs := j.processor.Process(ctx, videos)
	errs = append(errs, enrichErrs...)
	if len(enriched) == 0 {
		return 0, errs, nil
	}

	if err := j.store(ctx, channelID, year, enriched); err != nil {
		return 0, errs, err
	}
	j.logger.Info("stored videos", slog.String("channelid", string(channelID)), slog.Int("year", year), slog.Int("count", len(enriched)))

	return len(enriched), errs, nil
}

func (j *VideoJob) store(ctx context.Context, channelID model.YoutubeChannelID, year int, videos []model.EnrichedVideo) error {
	fetchedAt := j.now().UTC()
	doc := yearDocument{
		Metadata: process.Summarize(channelID, year, videos, fetchedAt),
		Videos:   videos,
	}
	if err := j.sink.PutJSON(ctx, storage.VideoYearJSONKey(channelID, year, len(videos)), doc); err != nil {
		return err
	}

	header := model.VideoCSVHeader(j.info.Categories)
	rows := make([][]string, 0, len(videos))
	for i := range videos {
		rows = append(rows, videos[i].CSVRow())
	}
	if err := j.sink.PutCSV(ctx, storage.VideoYearCSVKey(channelID, year, len(videos)), header, rows); err != nil {
		return err
	}
	if err := j.sink.MergeCSV(ctx, storage.VideoCSVKey(channelID), header, rows); err != nil {
		return err
	}

	return nil
}
