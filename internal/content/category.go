package content

import (
	"sort"
	"strings"

	"github.com/bryan-buckman/studiofront/internal/model"
)

// AllCategories is the filter key that matches everything.
const AllCategories = "all"

var categorySeparators = strings.NewReplacer("-", " ", "_", " ")

// NormalizeCategory folds a category label or filter key to a
// comparable form: lower case, hyphens and underscores as spaces,
// single spaces between words. "Urban-Design" and "urban design" both
// become "urban design".
func NormalizeCategory(s string) string {
	s = categorySeparators.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// CategorySlug is the URL form of a category, "urban-design".
func CategorySlug(s string) string {
	return strings.ReplaceAll(NormalizeCategory(s), " ", "-")
}

// MatchCategory reports whether category passes filter. An empty or
// "all" filter matches everything.
func MatchCategory(category, filter string) bool {
	f := NormalizeCategory(filter)
	if f == "" || f == AllCategories {
		return true
	}
	return NormalizeCategory(category) == f
}

// FilterProjects keeps the projects in the filter's category.
func FilterProjects(projects []model.Project, filter string) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if MatchCategory(p.Category, filter) {
			out = append(out, p)
		}
	}
	return out
}

// FilterEvents keeps the events tagged with the filter's category.
func FilterEvents(events []model.Event, filter string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if eventMatches(e, filter) {
			out = append(out, e)
		}
	}
	return out
}

func eventMatches(e model.Event, filter string) bool {
	if MatchCategory("", filter) {
		return true
	}
	for _, c := range e.Categories {
		if MatchCategory(c, filter) {
			return true
		}
	}
	return false
}

// FilterVideos keeps the videos in the filter's category.
func FilterVideos(videos []model.Video, filter string) []model.Video {
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if MatchCategory(v.Category, filter) {
			out = append(out, v)
		}
	}
	return out
}

// Category is one option of a filter control.
type Category struct {
	Label string
	Slug  string
}

// Categories returns the distinct categories among labels, first label
// seen wins, ordered by slug.
func Categories(labels ...string) []Category {
	seen := make(map[string]bool)
	var out []Category
	for _, l := range labels {
		slug := CategorySlug(l)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, Category{Label: strings.TrimSpace(l), Slug: slug})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// EventCategories collects the categories used by events.
func EventCategories(events []model.Event) []Category {
	var labels []string
	for _, e := range events {
		labels = append(labels, e.Categories...)
	}
	return Categories(labels...)
}

// ProjectCategories collects the categories used by projects.
func ProjectCategories(projects []model.Project) []Category {
	labels := make([]string, 0, len(projects))
	for _, p := range projects {
		labels = append(labels, p.Category)
	}
	return Categories(labels...)
}
