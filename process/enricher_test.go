package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ewintr.nl/ytharvest/model"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	return loc
}

func fixedNow(s string) func() time.Time {
	return func() time.Time {
		now, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return now
	}
}

func TestTimeOfDayFor(t *testing.T) {
	exp := map[int]model.TimeOfDay{
		0: model.Night, 1: model.Night, 2: model.Night, 3: model.Night, 4: model.Night,
		5: model.Morning, 6: model.Morning, 7: model.Morning, 8: model.Morning, 9: model.Morning, 10: model.Morning, 11: model.Morning,
		12: model.Afternoon, 13: model.Afternoon, 14: model.Afternoon, 15: model.Afternoon, 16: model.Afternoon,
		17: model.Evening, 18: model.Evening, 19: model.Evening, 20: model.Evening, 21: model.Evening,
		22: model.Night, 23: model.Night,
	}
	for hour := 0; hour < 24; hour++ {
		if act := TimeOfDayFor(hour); act != exp[hour] {
			t.Errorf("hour %d: exp %s, got %s", hour, exp[hour], act)
		}
	}
}

func TestDaysSince(t *testing.T) {
	published := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		name string
		now  time.Time
		exp  int64
	}{
		{"same moment", published, 1},
		{"one hour later", published.Add(time.Hour), 1},
		{"just under two days", published.Add(47 * time.Hour), 1},
		{"two days", published.Add(48 * time.Hour), 2},
		{"ten and a half days", published.Add(252 * time.Hour), 10},
		{"published in the future", published.Add(-72 * time.Hour), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if act := DaysSince(published, tc.now); act != tc.exp {
				t.Errorf("exp %d, got %d", tc.exp, act)
			}
		})
	}
}

func TestDurationSeconds(t *testing.T) {
	for _, tc := range []struct {
		in     string
		exp    int64
		expErr bool
	}{
		{in: "PT4M13S", exp: 253},
		{in: "PT1H2M3S", exp: 3723},
		{in: "PT45S", exp: 45},
		{in: "P1DT1S", exp: 86401},
		{in: "P0D", exp: 0},
		{in: "", expErr: true},
		{in: "4M13S", expErr: true},
		{in: "PT4X", expErr: true},
		{in: "P", expErr: true},
		{in: "PT", expErr: true},
		{in: "P1DT", expErr: true},
		{in: "-PT5S", expErr: true},
		{in: "P300Y", expErr: true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			act, err := DurationSeconds(tc.in)
			if tc.expErr {
				if !errors.Is(err, ErrMalformedDuration) {
					t.Errorf("exp %v, got %v", ErrMalformedDuration, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("exp nil, got %v", err)
			}
			if act != tc.exp {
				t.Errorf("exp %d, got %d", tc.exp, act)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	cats := DefaultCategories()
	for _, tc := range []struct {
		title string
		exp   map[string]bool
	}{
		{
			title: "ももいろクローバーZ LIVE at Tokyo Dome",
			exp:   map[string]bool{"live": true},
		},
		{
			title: "Summer live digest",
			exp:   map[string]bool{"live": true},
		},
		{
			title: "【ライブ】メイキング映像",
			exp:   map[string]bool{"live": true, "behind_the_scenes": true},
		},
		{
			title: "New single MV (Teaser)",
			exp:   map[string]bool{"music_video": true, "teaser": true},
		},
		{
			title: "Greetings from the members",
			exp:   map[string]bool{},
		},
	} {
		t.Run(tc.title, func(t *testing.T) {
			flags := Classify(tc.title, cats)
			if len(flags) != len(cats) {
				t.Fatalf("exp %d flags, got %d", len(cats), len(flags))
			}
			for i, f := range flags {
				if f.Name != cats[i].Name {
					t.Errorf("exp flag %d to be %s, got %s", i, cats[i].Name, f.Name)
				}
				if f.Match != tc.exp[f.Name] {
					t.Errorf("%s: exp %v, got %v", f.Name, tc.exp[f.Name], f.Match)
				}
			}
		})
	}
}

func TestEnrich(t *testing.T) {
	e := NewEnricher(tokyo(t), DefaultCategories(), fixedNow("2024-01-11T00:00:00Z"))

	video := model.Video{
		ID:          "v1",
		Title:       "LIVE from the hall",
		PublishedAt: "2024-01-01T10:30:00Z",
		Duration:    "PT1H",
		Statistics:  model.Statistics{ViewCount: 1000, LikeCount: 25, CommentCount: 3},
	}
	act, err := e.Enrich(video)
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	if act.Video != video {
		t.Errorf("exp video to be kept as is")
	}

	a := act.Analysis
	// 10:30 UTC is 19:30 in Tokyo
	if a.Year != 2024 || a.Month != 1 || a.Day != 1 || a.Hour != 19 {
		t.Errorf("unexpected breakdown %d-%d-%d %d", a.Year, a.Month, a.Day, a.Hour)
	}
	if a.Weekday != "Monday" {
		t.Errorf("exp Monday, got %s", a.Weekday)
	}
	if a.TimeOfDay != model.Evening {
		t.Errorf("exp evening, got %s", a.TimeOfDay)
	}
	if a.DurationSeconds != 3600 {
		t.Errorf("exp 3600, got %d", a.DurationSeconds)
	}
	if a.DaysSincePublished != 9 {
		t.Errorf("exp 9, got %d", a.DaysSincePublished)
	}
	if a.ViewsPerDay != 1000.0/9 || a.LikesPerDay != 25.0/9 || a.CommentsPerDay != 3.0/9 {
		t.Errorf("unexpected averages %v %v %v", a.ViewsPerDay, a.LikesPerDay, a.CommentsPerDay)
	}
	if !a.Categories[0].Match {
		t.Errorf("exp live flag")
	}
}

func TestEnrichDateCrossesInTimezone(t *testing.T) {
	e := NewEnricher(tokyo(t), nil, fixedNow("2024-01-11T00:00:00Z"))

	act, err := e.Enrich(model.Video{PublishedAt: "2023-12-31T20:00:00Z", Duration: "PT1S"})
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	a := act.Analysis
	if a.Year != 2024 || a.Month != 1 || a.Day != 1 || a.Hour != 5 || a.TimeOfDay != model.Morning {
		t.Errorf("unexpected breakdown %+v", a)
	}
}

func TestEnrichErrors(t *testing.T) {
	e := NewEnricher(tokyo(t), nil, fixedNow("2024-01-11T00:00:00Z"))

	_, err := e.Enrich(model.Video{ID: "v1", PublishedAt: "yesterday", Duration: "PT1S"})
	if !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("exp %v, got %v", ErrMalformedTimestamp, err)
	}
	_, err = e.Enrich(model.Video{ID: "v1", PublishedAt: "2024-01-01T00:00:00Z", Duration: "four minutes"})
	if !errors.Is(err, ErrMalformedDuration) {
		t.Errorf("exp %v, got %v", ErrMalformedDuration, err)
	}
}

func TestPipelineProcess(t *testing.T) {
	e := NewEnricher(tokyo(t), DefaultCategories(), fixedNow("2024-01-11T00:00:00Z"))
	p := NewPipeline(e, slog.New(slog.NewTextHandler(io.Discard, nil)))

	videos := []*model.Video{
		{ID: "a", PublishedAt: "2024-01-01T00:00:00Z", Duration: "PT1M"},
		{ID: "b", PublishedAt: "2024-01-01T00:00:00Z", Duration: "bad"},
		{ID: "c", PublishedAt: "2024-01-02T00:00:00Z", Duration: "PT2M"},
	}
	enriched, errs := p.Process(context.Background(), videos)
	if len(errs) != 1 || !errors.Is(errs[0], ErrMalformedDuration) {
		t.Errorf("exp one duration error, got %v", errs)
	}
	if len(enriched) != 2 || enriched[0].Video.ID != "a" || enriched[1].Video.ID != "c" {
		t.Errorf("unexpected result %+v", enriched)
	}
}

func TestSummarize(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	videos := []model.EnrichedVideo{
		{Video: model.Video{Statistics: model.Statistics{ViewCount: 10, LikeCount: 1, CommentCount: 0}}},
		{Video: model.Video{Statistics: model.Statistics{ViewCount: 30, LikeCount: 2, CommentCount: 4}}},
	}
	s := Summarize("UC1", 2023, videos, fetchedAt)
	if s.TotalVideos != 2 || s.TotalViews != 40 || s.TotalLikes != 3 || s.TotalComments != 4 {
		t.Errorf("unexpected totals %+v", s)
	}
	if s.AverageViews != 20 || s.AverageLikes != 1.5 || s.AverageComments != 2 {
		t.Errorf("unexpected averages %+v", s)
	}

	empty := Summarize("UC1", 2023, nil, fetchedAt)
	if empty.TotalVideos != 0 || empty.AverageViews != 0 {
		t.Errorf("unexpected empty summary %+v", empty)
	}
}
