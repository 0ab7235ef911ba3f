package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bryan-buckman/studiofront/internal/content"
	"github.com/bryan-buckman/studiofront/internal/cycler"
	"github.com/bryan-buckman/studiofront/internal/ical"
	"github.com/bryan-buckman/studiofront/internal/model"
	"github.com/bryan-buckman/studiofront/internal/reveal"
	"github.com/bryan-buckman/studiofront/internal/scroll"
	"github.com/bryan-buckman/studiofront/internal/showcase"
	"github.com/bryan-buckman/studiofront/internal/view"
)

// homeLimit is how many projects and events the landing page previews.
const homeLimit = 3

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	var (
		projects content.State[model.Project]
		events   content.State[model.Event]
		press    content.State[model.PressItem]
		start    int
	)
	content.Gather(r.Context(), pageConcurrency,
		content.Task{Name: "projects", Run: func(ctx context.Context) error {
			// The carousel's first slide comes from the same cycler the
			// page script mirrors.
			gallery := view.NewGallery(model.CollectionProjects, func(ctx context.Context) ([]model.Project, error) {
				items, err := s.client.Projects(ctx, "")
				return firstN(showcase.Featured(items), homeLimit), err
			}, 0, cycler.WithClock(s.clock))
			defer gallery.Unmount()
			<-gallery.Mount(ctx)
			projects = gallery.State()
			if c := gallery.Cycler(); c != nil {
				start = c.Index()
			}
			if projects.Status == content.Failed {
				return errors.New(projects.Message)
			}
			return nil
		}},
		content.Task{Name: "events", Run: func(ctx context.Context) error {
			items, err := s.client.Events(ctx)
			upcoming, _ := content.SplitEvents(items, s.clock.Now())
			events = content.Fold(model.CollectionEvents, firstN(upcoming, homeLimit), err)
			return err
		}},
		content.Task{Name: "press", Run: func(ctx context.Context) error {
			items, err := s.client.Press(ctx)
			press = content.Fold(model.CollectionPress, firstN(items, homeLimit), err)
			return err
		}},
	)

	// First frame of the landing as the server sees it: no viewport,
	// so the page is at the top.
	landing := view.NewLanding(s.clock, reveal.DefaultTimings, nil)
	landing.Mount(nil, scroll.Once{})
	effects, settings := landing.Effects(), landing.Settings()
	landing.Unmount()

	p := s.newPage("Studio", "home")
	p.Data["Projects"] = projects
	p.Data["Start"] = start
	p.Data["Events"] = events
	p.Data["Press"] = press
	p.Data["Effects"] = effects
	p.Data["Landing"] = settings
	p.Data["IntroVideo"] = s.cfg.IntroVideoURL
	p.Data["CarouselInterval"] = s.cfg.Carousel.Interval.Milliseconds()
	s.render(w, http.StatusOK, "home.html", p)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	norm := content.NormalizeCategory(category)
	filtering := norm != "" && norm != content.AllCategories

	var all, shown content.State[model.Project]
	tasks := []content.Task{{Name: "projects", Run: func(ctx context.Context) error {
		items, err := s.client.Projects(ctx, "")
		all = content.Fold(model.CollectionProjects, items, err)
		return err
	}}}
	if filtering {
		tasks = append(tasks, content.Task{Name: "projects/" + category, Run: func(ctx context.Context) error {
			items, err := s.client.Projects(ctx, category)
			shown = content.Fold(model.CollectionProjects, items, err)
			return err
		}})
	}
	content.Gather(r.Context(), pageConcurrency, tasks...)
	if !filtering {
		shown = all
	}

	p := s.newPage("Projects", "projects")
	p.Data["Projects"] = shown
	p.Data["Categories"] = content.ProjectCategories(all.Items)
	p.Data["Selected"] = selectedSlug(category)
	s.render(w, http.StatusOK, "projects.html", p)
}

func selectedSlug(category string) string {
	if slug := content.CategorySlug(category); slug != "" {
		return slug
	}
	return content.AllCategories
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.client.Project(r.Context(), chi.URLParam(r, "id"))
	if s.detailFailed(w, model.CollectionProjects, err) {
		return
	}
	p := s.newPage(project.Title, "projects")
	p.Data["Project"] = project
	s.render(w, http.StatusOK, "project.html", p)
}

// detailFailed renders the error page for a failed single-item fetch
// and reports whether it did.
func (s *Server) detailFailed(w http.ResponseWriter, coll model.Collection, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, content.ErrNotFound):
		s.renderError(w, http.StatusNotFound, content.ErrorMessage(coll, err))
	default:
		s.renderError(w, http.StatusBadGateway, content.ErrorMessage(coll, err))
	}
	return true
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items, err := s.client.Events(r.Context())
	all := content.Fold(model.CollectionEvents, items, err)

	shown := content.FilterEvents(all.Items, category)
	upcoming, past := content.SplitEvents(shown, s.clock.Now())

	p := s.newPage("Events", "events")
	p.Data["Events"] = all
	p.Data["Upcoming"] = upcoming
	p.Data["Past"] = past
	p.Data["Matches"] = len(shown)
	p.Data["Categories"] = content.EventCategories(all.Items)
	p.Data["Selected"] = selectedSlug(category)
	// With nothing scheduled the filter is shown but inert.
	p.Data["FilterDisabled"] = len(all.Items) == 0
	s.render(w, http.StatusOK, "events.html", p)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.client.Event(r.Context(), chi.URLParam(r, "id"))
	if s.detailFailed(w, model.CollectionEvents, err) {
		return
	}
	p := s.newPage(event.Title, "events")
	p.Data["Event"] = event
	s.render(w, http.StatusOK, "event.html", p)
}

func (s *Server) handleEventsCalendar(w http.ResponseWriter, r *http.Request) {
	events, err := s.client.Events(r.Context())
	if err != nil {
		http.Error(w, content.ErrorMessage(model.CollectionEvents, err), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "inline; filename=studio-events.ics")
	w.Write(ical.Export("Studio Events", events, s.clock.Now()))
}

func (s *Server) handleCareers(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.client.OpenJobs(r.Context())
	p := s.newPage("Careers", "careers")
	p.Data["Jobs"] = content.Fold(model.CollectionJobs, jobs, err)
	s.render(w, http.StatusOK, "careers.html", p)
}

// videoCard is a video with its resolved player URL.
type videoCard struct {
	model.Video
	Embed string
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items, err := s.client.Videos(r.Context())
	all := content.Fold(model.CollectionVideos, items, err)

	labels := make([]string, 0, len(all.Items))
	for _, v := range all.Items {
		labels = append(labels, v.Category)
	}
	cards := []videoCard{}
	for _, v := range content.FilterVideos(all.Items, category) {
		// An empty Embed renders as "unavailable" under the title.
		embed, _ := content.EmbedSource(v.URL)
		cards = append(cards, videoCard{Video: v, Embed: embed})
	}

	p := s.newPage("Videos", "videos")
	p.Data["Videos"] = all
	p.Data["Cards"] = cards
	p.Data["Categories"] = content.Categories(labels...)
	p.Data["Selected"] = selectedSlug(category)
	s.render(w, http.StatusOK, "videos.html", p)
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	items, err := s.client.Press(r.Context())
	p := s.newPage("Press", "press")
	p.Data["Press"] = content.Fold(model.CollectionPress, items, err)
	s.render(w, http.StatusOK, "press.html", p)
}

func (s *Server) handleShowcase(w http.ResponseWriter, r *http.Request) {
	slide, ok := s.display.Current()
	p := s.newPage("Showcase", "")
	p.Data["Slide"] = slide
	p.Data["HasSlide"] = ok
	p.Data["Interval"] = fmt.Sprint(s.cfg.Showcase.Interval)
	s.render(w, http.StatusOK, "showcase.html", p)
}
