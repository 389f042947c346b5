package platform

import (
	"context"

	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/recorder"
)

// EventSource streams captured hook and accessibility events in capture
// order until ctx is cancelled or emit returns an error.
type EventSource interface {
	Stream(ctx context.Context, emit func(recorder.Event) error) error
}

// EventSourceFunc adapts a function literal to the EventSource interface.
type EventSourceFunc func(ctx context.Context, emit func(recorder.Event) error) error

// Stream calls the underlying function.
func (f EventSourceFunc) Stream(ctx context.Context, emit func(recorder.Event) error) error {
	return f(ctx, emit)
}

// TreeReader reads the live UI element tree from the OS accessibility layer.
type TreeReader interface {
	ReadTree(ctx context.Context) (*model.Tree, error)
}
