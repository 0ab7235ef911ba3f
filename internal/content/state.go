package content

import (
	"context"

	"github.com/bryan-buckman/studiofront/internal/model"
)

// Status is the phase of a collection load.
type Status int

const (
	// Loading is the zero value: the request has not resolved yet.
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return "loading"
}

// MarshalText renders the status as its name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is what a section renders from: a spinner while Loading, the
// items (or an empty-state message) when Ready, inline error text when
// Failed.
type State[T any] struct {
	Status  Status `json:"status"`
	Items   []T    `json:"items"`
	Message string `json:"message,omitempty"`
}

// Empty reports a successful load with nothing in it.
func (s State[T]) Empty() bool {
	return s.Status == Ready && len(s.Items) == 0
}

// Load runs fetch and folds its outcome into a State.
func Load[T any](ctx context.Context, c model.Collection, fetch func(context.Context) ([]T, error)) State[T] {
	items, err := fetch(ctx)
	return Fold(c, items, err)
}

// Fold turns a fetch result into a State. Items is never nil on
// success so templates can range over it unconditionally.
func Fold[T any](c model.Collection, items []T, err error) State[T] {
	if err != nil {
		return State[T]{Status: Failed, Items: []T{}, Message: ErrorMessage(c, err)}
	}
	if items == nil {
		items = []T{}
	}
	return State[T]{Status: Ready, Items: items}
}
