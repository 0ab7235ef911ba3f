// Package ical exports the events calendar as an iCalendar (RFC 5545)
// feed that visitors can subscribe to.
package ical

import (
	"bytes"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bryan-buckman/studiofront/internal/model"
)

const (
	prodID   = "-//studiofront//events//EN"
	uidHost  = "studiofront"
	maxOctet = 75

	dateFormat  = "20060102"
	stampFormat = "20060102T150405Z"
)

// Export renders events as a VCALENDAR with one all-day VEVENT per event.
// Events are written in ascending date order so the output is stable.
func Export(calName string, events []model.Event, now time.Time) []byte {
	sorted := append([]model.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	w := &writer{}
	w.line("BEGIN", "VCALENDAR")
	w.line("VERSION", "2.0")
	w.line("PRODID", prodID)
	w.line("CALSCALE", "GREGORIAN")
	w.line("METHOD", "PUBLISH")
	if calName != "" {
		w.line("X-WR-CALNAME", Escape(calName))
	}
	stamp := now.UTC().Format(stampFormat)
	for _, e := range sorted {
		if e.ID == "" || e.Date.IsZero() {
			continue
		}
		day := e.Date.UTC()
		w.line("BEGIN", "VEVENT")
		w.line("UID", e.ID+"@"+uidHost)
		w.line("DTSTAMP", stamp)
		w.line("DTSTART;VALUE=DATE", day.Format(dateFormat))
		w.line("DTEND;VALUE=DATE", day.AddDate(0, 0, 1).Format(dateFormat))
		w.line("SUMMARY", Escape(e.Title))
		if desc := description(e); desc != "" {
			w.line("DESCRIPTION", Escape(desc))
		}
		if e.Location != "" {
			w.line("LOCATION", Escape(e.Location))
		}
		if len(e.Categories) > 0 {
			escaped := make([]string, len(e.Categories))
			for i, c := range e.Categories {
				escaped[i] = Escape(c)
			}
			w.line("CATEGORIES", strings.Join(escaped, ","))
		}
		w.line("END", "VEVENT")
	}
	w.line("END", "VCALENDAR")
	return w.buf.Bytes()
}

func description(e model.Event) string {
	switch {
	case e.Tagline != "" && e.Description != "":
		return e.Tagline + "\n\n" + e.Description
	case e.Tagline != "":
		return e.Tagline
	}
	return e.Description
}

// Escape escapes a TEXT value.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ';', ',':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(`\n`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) line(name, value string) {
	w.buf.WriteString(Fold(name + ":" + value))
	w.buf.WriteString("\r\n")
}

// Fold splits a content line into chunks of at most 75 octets joined by
// CRLF and a single space, never splitting a UTF-8 sequence.
func Fold(line string) string {
	if len(line) <= maxOctet {
		return line
	}
	var b strings.Builder
	limit := maxOctet
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// Continuation lines carry the leading space.
		limit = maxOctet - 1
	}
	b.WriteString(line)
	return b.String()
}
