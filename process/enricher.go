package process

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	"ewintr.nl/ytharvest/model"
	"github.com/sosodev/duration"
)

const DefaultTimezone = "Asia/Tokyo"

var (
	ErrMalformedDuration  = errors.New("malformed duration")
	ErrMalformedTimestamp = errors.New("malformed publish timestamp")
)

// Enricher derives the analysis fields of a video. It has no side effects,
// the same video and clock always give the same result.
type Enricher struct {
	location   *time.Location
	categories []Category
	now        func() time.Time
}

func NewEnricher(location *time.Location, categories []Category, now func() time.Time) *Enricher {
	if now == nil {
		now = time.Now
	}
	return &Enricher{
		location:   location,
		categories: categories,
		now:        now,
	}
}

func (e *Enricher) Categories() []Category {
	return e.categories
}

func (e *Enricher) Enrich(video model.Video) (model.EnrichedVideo, error) {
	published, err := time.Parse(time.RFC3339, video.PublishedAt)
	if err != nil {
		return model.EnrichedVideo{}, fmt.Errorf("%w: video %s: %q", ErrMalformedTimestamp, video.ID, video.PublishedAt)
	}
	seconds, err := DurationSeconds(video.Duration)
	if err != nil {
		return model.EnrichedVideo{}, fmt.Errorf("video %s: %w", video.ID, err)
	}

	local := published.In(e.location)
	days := DaysSince(published, e.now())
	stats := video.Statistics

	return model.EnrichedVideo{
		Video: video,
		Analysis: model.Analysis{
			Year:               local.Year(),
			Month:              int(local.Month()),
			Day:                local.Day(),
			Hour:               local.Hour(),
			Weekday:            local.Weekday().String(),
			TimeOfDay:          TimeOfDayFor(local.Hour()),
			DurationSeconds:    seconds,
			Categories:         Classify(video.Title, e.categories),
			DaysSincePublished: days,
			ViewsPerDay:        float64(stats.ViewCount) / float64(days),
			LikesPerDay:        float64(stats.LikeCount) / float64(days),
			CommentsPerDay:     float64(stats.CommentCount) / float64(days),
		},
	}, nil
}

// TimeOfDayFor buckets an hour of the day: [5,12) morning, [12,17)
// afternoon, [17,22) evening and the rest night.
func TimeOfDayFor(hour int) model.TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return model.Morning
	case hour >= 12 && hour < 17:
		return model.Afternoon
	case hour >= 17 && hour < 22:
		return model.Evening
	default:
		return model.Night
	}
}

// DaysSince returns the number of whole days between published and now,
// never less than 1.
func DaysSince(published, now time.Time) int64 {
	days := int64(math.Floor(now.Sub(published).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// DurationSeconds parses an ISO-8601 duration like PT1H2M3S.
func DurationSeconds(iso string) (int64, error) {
	if iso == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedDuration)
	}
	if strings.IndexFunc(iso, unicode.IsDigit) < 0 || strings.HasSuffix(iso, "T") {
		return 0, fmt.Errorf("%w: %q: no components", ErrMalformedDuration, iso)
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedDuration, iso, err)
	}
	if d.Negative {
		return 0, fmt.Errorf("%w: %q: negative", ErrMalformedDuration, iso)
	}
	// time.Duration overflows on durations beyond roughly 292 years
	td := d.ToTimeDuration()
	if approxSeconds(d) >= maxDurationSeconds || td < 0 {
		return 0, fmt.Errorf("%w: %q: out of range", ErrMalformedDuration, iso)
	}

	return int64(td.Seconds()), nil
}

var maxDurationSeconds = float64(math.MaxInt64 / int64(time.Second))

func approxSeconds(d *duration.Duration) float64 {
	days := d.Years*366 + d.Months*31 + d.Weeks*7 + d.Days
	return days*86400 + d.Hours*3600 + d.Minutes*60 + d.Seconds
}
