// Package model defines the view models shared by the content client,
// the controllers and the page templates.
package model

import "time"

// Collection names a remote collection served by the content API.
type Collection string

// Known collections.
const (
	CollectionProjects Collection = "projects"
	CollectionEvents   Collection = "events"
	CollectionJobs     Collection = "careers/open"
	CollectionVideos   Collection = "videos"
	CollectionPress    Collection = "press"
)

// Collections lists every collection the site renders, in refresh order.
var Collections = []Collection{
	CollectionProjects,
	CollectionEvents,
	CollectionJobs,
	CollectionVideos,
	CollectionPress,
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// Quote is a client testimonial attached to a project.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Area is a built area with its unit (e.g. 1200 "sq ft").
type Area struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Project is a portfolio entry.
type Project struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	MainImage     string   `json:"mainImage"`
	Year          string   `json:"year"`
	Location      string   `json:"location"`
	Category      string   `json:"category"`
	Description   string   `json:"description,omitempty"`
	GalleryImages []string `json:"galleryImages,omitempty"`
	KeyFeatures   []string `json:"keyFeatures,omitempty"`
	MaterialsUsed []string `json:"materialsUsed,omitempty"`
	Quote         *Quote   `json:"quote,omitempty"`
	Area          *Area    `json:"area,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
}

// Event is an entry in the events calendar.
type Event struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Tagline       string    `json:"tagline"`
	Date          time.Time `json:"date"`
	MainImage     string    `json:"mainImage"`
	GalleryImages []string  `json:"galleryImages,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
}

// Upcoming reports whether the event takes place at or after now.
func (e Event) Upcoming(now time.Time) bool {
	return !e.Date.Before(now)
}

// JobOpening is an open position on the careers page.
type JobOpening struct {
	ID               string `json:"_id"`
	Position         string `json:"position"`
	ShortDescription string `json:"shortDescription"`
	Location         string `json:"location"`
	EmploymentType   string `json:"employmentType"`
	SalaryRange      string `json:"salaryRange"`
}

// Video is an entry in the video gallery. URL holds either a plain
// URL or a block of embed markup, as the API returns it.
type Video struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// PressItem is an article from the studio's press/journal feed.
type PressItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Snapshot is a cached copy of a collection payload.
type Snapshot struct {
	Key       string // request path and query, e.g. "projects?category=residential"
	Payload   []byte // raw JSON as returned by the API
	Hash      string // hex blake3 of Payload
	FetchedAt time.Time
}
