package fetch

import "time"

// Window is the publish time range of a search. Start and End are passed to
// the API as publishedAfter and publishedBefore.
type Window struct {
	Start time.Time
	End   time.Time
}

func YearWindow(year int) Window {
	return Window{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}
