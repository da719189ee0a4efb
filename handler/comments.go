package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ewintr.nl/ytharvest/model"
	"ewintr.nl/ytharvest/storage"
	"github.com/aws/aws-lambda-go/events"
)

var ErrMissingVideoID = errors.New("video_id is required")

type CommentFetcher interface {
	Fetch(ctx context.Context, videoID model.YoutubeVideoID) ([]model.Comment, error)
}

type CommentEvent struct {
	VideoID string `json:"video_id"`
}

type CommentJob struct {
	fetcher  CommentFetcher
	sink     *storage.Sink
	runs     storage.RunRepository
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

func NewCommentJob(fetcher CommentFetcher, sink *storage.Sink, runs storage.RunRepository, location *time.Location, logger *slog.Logger) *CommentJob {
	if location == nil {
		location = time.UTC
	}
	return &CommentJob{
		fetcher:  fetcher,
		sink:     sink,
		runs:     runs,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

type CommentSummary struct {
	Message       string   `json:"message"`
	RunID         string   `json:"run_id"`
	VideoID       string   `json:"video_id"`
	TotalComments int      `json:"total_comments"`
	Key           string   `json:"key,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

type commentDocument struct {
	VideoID       model.YoutubeVideoID `json:"video_id"`
	Video         model.VideoInfo      `json:"video"`
	FetchedAt     time.Time            `json:"fetched_at"`
	TotalComments int                  `json:"total_comments"`
	Comments      []model.Comment      `json:"comments"`
}

func (j *CommentJob) Handle(ctx context.Context, event CommentEvent) (resp events.APIGatewayProxyResponse, _ error) {
	run := model.NewJobRun(model.JobComments, j.now())
	defer func() {
		finishRun(ctx, j.runs, run, resp, j.now(), j.logger)
	}()
	defer recoverJob(&resp, j.logger)

	videoID := model.YoutubeVideoID(strings.TrimSpace(event.VideoID))
	if videoID == "" {
		return Error(http.StatusBadRequest, "invalid input", ErrMissingVideoID), nil
	}

	summary := CommentSummary{
		RunID:   run.ID.String(),
		VideoID: string(videoID),
	}
	j.logger.Info("starting comment job", slog.String("run", run.ID.String()), slog.String("videoid", string(videoID)))

	comments, err := j.fetcher.Fetch(ctx, videoID)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
	}
	summary.TotalComments = len(comments)
	if len(comments) == 0 {
		summary.Message = "no comments collected"
		return JSON(http.StatusOK, summary), nil
	}

	fetchedAt := comments[0].FetchedAt
	key := storage.CommentJSONKey(videoID, run.StartedAt.In(j.location))
	doc := commentDocument{
		VideoID:       videoID,
		Video:         comments[0].Video,
		FetchedAt:     fetchedAt,
		TotalComments: len(comments),
		Comments:      comments,
	}
	if err := j.sink.PutJSON(ctx, key, doc); err != nil {
		j.logger.Error("failed to store comments", slog.String("videoid", string(videoID)), slog.String("error", err.Error()))
		return Error(http.StatusInternalServerError, "failed to store comments", err, summary), nil
	}

	rows := make([][]string, 0, len(comments))
	for i := range comments {
		rows = append(rows, comments[i].CSVRow())
	}
	if err := j.sink.MergeCSV(ctx, storage.CommentCSVKey(), model.CommentCSVHeader(), rows); err != nil {
		j.logger.Error("failed to store comments", slog.String("videoid", string(videoID)), slog.String("error", err.Error()))
		return Error(http.StatusInternalServerError, "failed to store comments", err, summary), nil
	}
	j.logger.Info("stored comments", slog.String("videoid", string(videoID)), slog.String("key", key), slog.Int("count", len(comments)))

	summary.Key = key
	summary.Message = "successfully fetched and saved comments"
	if len(summary.Errors) > 0 {
		summary.Message = "fetched and saved comments with errors"
	}

	return JSON(http.StatusOK, summary), nil
}
