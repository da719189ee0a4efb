package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ewintr.nl/ytharvest/model"
	"ewintr.nl/ytharvest/storage"
	"github.com/aws/aws-lambda-go/events"
)

// finishRun records the outcome of a run in the ledger, if there is one.
// A ledger failure does not change the response.
func finishRun(ctx context.Context, runs storage.RunRepository, run *model.JobRun, resp events.APIGatewayProxyResponse, finishedAt time.Time, logger *slog.Logger) {
	run.StatusCode = resp.StatusCode
	run.FinishedAt = finishedAt
	run.Summary = []byte(resp.Body)
	logger.Info("job finished", slog.String("job", string(run.Job)), slog.String("run", run.ID.String()), slog.Int("status", run.StatusCode), slog.Duration("took", finishedAt.Sub(run.StartedAt)))

	if runs == nil {
		return
	}
	if err := runs.Record(ctx, run); err != nil {
		logger.Error("failed to record run", slog.String("run", run.ID.String()), slog.String("error", err.Error()))
	}
}

func recoverJob(resp *events.APIGatewayProxyResponse, logger *slog.Logger) {
	if r := recover(); r != nil {
		err := fmt.Errorf("%v", r)
		logger.Error("job panicked", slog.String("error", err.Error()))
		*resp = Error(http.StatusInternalServerError, "job failed", err)
	}
}
