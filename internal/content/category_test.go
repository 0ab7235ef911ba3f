package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryan-buckman/studiofront/internal/model"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Residential", "residential"},
		{"urban-design", "urban design"},
		{"  Urban   Design ", "urban design"},
		{"URBAN_DESIGN", "urban design"},
		{"", ""},
		{"--", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.in))
		})
	}
}

func TestMatchCategoryIsSymmetricAcrossSpellings(t *testing.T) {
	spellings := []string{"Urban Design", "urban-design", "URBAN_DESIGN", " urban  design"}
	for _, stored := range spellings {
		for _, filter := range spellings {
			assert.True(t, MatchCategory(stored, filter), "%q vs %q", stored, filter)
		}
	}
	assert.False(t, MatchCategory("Interior", "urban-design"))
	assert.True(t, MatchCategory("Interior", ""))
	assert.True(t, MatchCategory("Interior", "All"))
}

func TestFilterEvents(t *testing.T) {
	events := []model.Event{
		{ID: "a", Categories: []string{"Workshop", "Open-House"}},
		{ID: "b", Categories: []string{"Exhibition"}},
		{ID: "c"},
	}
	got := FilterEvents(events, "open house")
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	assert.Len(t, FilterEvents(events, "all"), 3)
	assert.Empty(t, FilterEvents(nil, "workshop"))
}

func TestFilterVideos(t *testing.T) {
	videos := []model.Video{{ID: "1", Category: "Walkthrough"}, {ID: "2", Category: "interview"}}
	assert.Len(t, FilterVideos(videos, "walkthrough"), 1)
}

func TestCategories(t *testing.T) {
	got := EventCategories([]model.Event{
		{Categories: []string{"Workshop", "open-house"}},
		{Categories: []string{"Open House", "Exhibition", ""}},
	})
	assert.Equal(t, []Category{
		{Label: "Exhibition", Slug: "exhibition"},
		{Label: "open-house", Slug: "open-house"},
		{Label: "Workshop", Slug: "workshop"},
	}, got)

	assert.Empty(t, EventCategories(nil))
	assert.Equal(t, []Category{{Label: "Residential", Slug: "residential"}},
		ProjectCategories([]model.Project{{Category: "Residential"}, {Category: "residential"}}))
}
