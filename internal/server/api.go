package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryan-buckman/studiofront/internal/content"
	"github.com/bryan-buckman/studiofront/internal/database"
	"github.com/bryan-buckman/studiofront/internal/model"
)

// snapshotMaxAge is how old a cached snapshot may get before cleanup
// removes it.
const snapshotMaxAge = 7 * 24 * time.Hour

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cache := "none"
	if s.cache != nil {
		cache = s.cache.DatabaseType()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"cache":       cache,
		"subscribers": s.display.Subscribers(),
	})
}

// collectionState loads the named collection as a tri-state view.
func (s *Server) collectionState(ctx context.Context, name, category string) (state any, failed, ok bool) {
	switch name {
	case "projects":
		st := content.Load(ctx, model.CollectionProjects, func(ctx context.Context) ([]model.Project, error) {
			return s.client.Projects(ctx, category)
		})
		return st, st.Status == content.Failed, true
	case "events":
		st := content.Load(ctx, model.CollectionEvents, func(ctx context.Context) ([]model.Event, error) {
			events, err := s.client.Events(ctx)
			return content.FilterEvents(events, category), err
		})
		return st, st.Status == content.Failed, true
	case "careers":
		st := content.Load(ctx, model.CollectionJobs, s.client.OpenJobs)
		return st, st.Status == content.Failed, true
	case "videos":
		st := content.Load(ctx, model.CollectionVideos, func(ctx context.Context) ([]model.Video, error) {
			videos, err := s.client.Videos(ctx)
			return content.FilterVideos(videos, category), err
		})
		return st, st.Status == content.Failed, true
	case "press":
		st := content.Load(ctx, model.CollectionPress, s.client.Press)
		return st, st.Status == content.Failed, true
	}
	return nil, false, false
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	state, failed, ok := s.collectionState(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("category"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown collection"})
		return
	}
	if failed {
		writeJSON(w, http.StatusBadGateway, state)
		return
	}

	body, err := json.Marshal(state)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode failed"})
		return
	}
	etag := fmt.Sprintf(`"%s"`, database.Hash(body)[:32])
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

type snapshotInfo struct {
	Key       string    `json:"key"`
	Hash      string    `json:"hash"`
	FetchedAt time.Time `json:"fetched_at"`
	Age       string    `json:"age"`
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cache disabled"})
		return
	}
	snaps, err := s.cache.ListSnapshots()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list cache"})
		return
	}
	now := s.clock.Now()
	infos := make([]snapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		infos = append(infos, snapshotInfo{
			Key:       snap.Key,
			Hash:      snap.Hash,
			FetchedAt: snap.FetchedAt,
			Age:       now.Sub(snap.FetchedAt).Round(time.Second).String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"database":  s.cache.DatabaseType(),
		"snapshots": infos,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "refresh disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	results := s.refresher.RefreshAll(ctx)
	failed := map[string]string{}
	for name, err := range results {
		if err != nil {
			failed[name] = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"collections": len(results),
		"failed":      failed,
	})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cache disabled"})
		return
	}
	deleted, err := s.cache.PurgeBefore(s.clock.Now().Add(-snapshotMaxAge))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Cleanup failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"deleted": deleted,
	})
}
