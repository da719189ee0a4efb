package process

import (
	"context"
	"log/slog"

	"ewintr.nl/ytharvest/model"
)

type VideoEnricher interface {
	Enrich(video model.Video) (model.EnrichedVideo, error)
}

// Pipeline enriches a batch of videos one after another. A video that
// cannot be enriched is left out of the result, the others are not
// affected.
type Pipeline struct {
	enricher VideoEnricher
	logger   *slog.Logger
}

func NewPipeline(enricher VideoEnricher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		enricher: enricher,
		logger:   logger,
	}
}

func (p *Pipeline) Process(ctx context.Context, videos []*model.Video) ([]model.EnrichedVideo, []error) {
	enriched := make([]model.EnrichedVideo, 0, len(videos))
	var errs []error
	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			return enriched, errs
		}

		ev, err := p.enricher.Enrich(*video)
		if err != nil {
			p.logger.Error("failed to enrich video", slog.String("video", string(video.ID)), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		enriched = append(enriched, ev)
	}

	return enriched, errs
}
