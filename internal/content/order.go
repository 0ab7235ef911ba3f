package content

import (
	"sort"
	"time"

	"github.com/bryan-buckman/studiofront/internal/model"
)

// SortEvents orders events in place: upcoming events before past ones,
// each group by descending date.
func SortEvents(events []model.Event, now time.Time) {
	sort.SliceStable(events, func(i, j int) bool {
		ui, uj := events[i].Upcoming(now), events[j].Upcoming(now)
		if ui != uj {
			return ui
		}
		return events[i].Date.After(events[j].Date)
	})
}

// SplitEvents returns the upcoming and past events, preserving order.
func SplitEvents(events []model.Event, now time.Time) (upcoming, past []model.Event) {
	for _, e := range events {
		if e.Upcoming(now) {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	return upcoming, past
}
