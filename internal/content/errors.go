package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bryan-buckman/studiofront/internal/model"
)

// ErrNotFound is wrapped by a FetchError for a 404 response.
var ErrNotFound = errors.New("not found")

// FetchError is a failed request to the content API.
type FetchError struct {
	Collection model.Collection
	Path       string
	Status     int // HTTP status, 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrorMessage is the text shown in place of a section whose
// collection failed to load.
func ErrorMessage(c model.Collection, err error) string {
	name := displayName(c)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("We couldn't find that %s.", singular(c))
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Loading %s took too long. Please try again.", name)
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Status >= http.StatusInternalServerError {
		return fmt.Sprintf("Our %s are temporarily unavailable. Please check back shortly.", name)
	}
	return fmt.Sprintf("We couldn't load %s right now.", name)
}

func displayName(c model.Collection) string {
	switch c {
	case model.CollectionJobs:
		return "open positions"
	case model.CollectionPress:
		return "press articles"
	case "":
		return "this section"
	}
	return string(c)
}

func singular(c model.Collection) string {
	switch c {
	case model.CollectionProjects:
		return "project"
	case model.CollectionEvents:
		return "event"
	case model.CollectionJobs:
		return "position"
	case model.CollectionVideos:
		return "video"
	case model.CollectionPress:
		return "article"
	}
	return "page"
}
