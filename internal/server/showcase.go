package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bryan-buckman/studiofront/internal/cycler"
)

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// showcaseResult answers a control request: the new slide for API
// callers, a redirect back to the display for plain form posts.
func (s *Server) showcaseResult(w http.ResponseWriter, r *http.Request) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/showcase", http.StatusSeeOther)
		return
	}
	slide, ok := s.display.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, slide)
}

func (s *Server) handleShowcaseNext(w http.ResponseWriter, r *http.Request) {
	s.display.Next()
	s.showcaseResult(w, r)
}

func (s *Server) handleShowcasePrev(w http.ResponseWriter, r *http.Request) {
	s.display.Prev()
	s.showcaseResult(w, r)
}

func (s *Server) handleShowcaseGoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be a number"})
		return
	}
	switch err := s.display.Goto(index); {
	case errors.Is(err, cycler.ErrIndexOutOfRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no slide at that index"})
		return
	case errors.Is(err, cycler.ErrTransitioning):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a transition is in progress"})
		return
	case errors.Is(err, cycler.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "the showcase has stopped"})
		return
	}
	s.showcaseResult(w, r)
}

func (s *Server) handleShowcaseAuto(w http.ResponseWriter, r *http.Request) {
	var enabled bool
	if v := r.FormValue("enabled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "enabled must be true or false"})
			return
		}
		enabled = b
	} else {
		cur, _ := s.display.Current()
		enabled = !cur.Auto
	}
	if err := s.display.SetAuto(enabled); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.showcaseResult(w, r)
}

// handleShowcaseStream sends every slide change as a server-sent event
// until the client goes away or the display closes.
func (s *Server) handleShowcaseStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, slides, cancel := s.display.Subscribe()
	defer cancel()
	fmt.Fprintf(w, ": subscriber %s\n\n", id)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case slide, ok := <-slides:
			if !ok {
				return
			}
			data, err := json.Marshal(slide)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: slide\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
