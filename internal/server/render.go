package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bryan-buckman/studiofront/internal/content"
	"github.com/bryan-buckman/studiofront/internal/motion"
)

var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func markdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownConv
}

// renderMarkdown converts API-authored descriptions to HTML. Raw HTML in
// the source is dropped by goldmark's default renderer.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdownParser().Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown render failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// transitionCSS renders a named motion preset as a CSS transition
// value. Templates pass literal property names.
func transitionCSS(name, property string) template.CSS {
	var t motion.Transition
	switch name {
	case "slide":
		t = motion.Slide
	case "fade":
		t = motion.Fade
	case "intro":
		t = motion.IntroExit
	default:
		return ""
	}
	return template.CSS(t.CSS(property))
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
		"relTime": func(t time.Time) string {
			return humanize.RelTime(t, s.clock.Now(), "ago", "from now")
		},
		"date": func(t time.Time) string {
			return t.Format("Monday, January 2, 2006")
		},
		"ordinalDay": func(t time.Time) string {
			return humanize.Ordinal(t.Day())
		},
		"month": func(t time.Time) string {
			return t.Format("Jan")
		},
		"number": func(v float64) string {
			return humanize.Commaf(v)
		},
		"upcoming": func(t time.Time) bool {
			return !t.Before(s.clock.Now())
		},
		"slug":       content.CategorySlug,
		"transition": transitionCSS,
		// slideLock is the cycler's transition lock in milliseconds.
		"slideLock": func() int64 { return motion.Slide.Duration.Milliseconds() },
		"add":        func(a, b int) int { return a + b },
		"join":       strings.Join,
	}
}

// page is the data every template receives.
type page struct {
	Title  string
	Active string
	Year   int
	Data   map[string]any
}

func (s *Server) newPage(title, active string) *page {
	return &page{Title: title, Active: active, Year: s.clock.Now().Year(), Data: map[string]any{}}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data *page) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template error", "template", name, "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	p := s.newPage(http.StatusText(status), "")
	p.Data["Status"] = status
	p.Data["Message"] = message
	s.render(w, status, "error.html", p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}
