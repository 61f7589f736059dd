package inject

import (
	"context"

	"github.com/junioryono/inject/internal/graph"
)

// resolutionFrame is one key under construction. Frames form a linked list
// carried in the context, from the most recent instantiation back to the
// top-level request.
type resolutionFrame struct {
	parent    *resolutionFrame
	container *Container
	key       *Key
}

type resolutionPathKey struct{}

func resolutionPath(ctx context.Context) *resolutionFrame {
	frame, _ := ctx.Value(resolutionPathKey{}).(*resolutionFrame)
	return frame
}

// enterResolution records that c is building key. It fails if the same key
// is already being built by the same container further up the path.
func enterResolution(ctx context.Context, c *Container, key *Key) (context.Context, error) {
	top := resolutionPath(ctx)

	for frame := top; frame != nil; frame = frame.parent {
		if frame.container == c && frame.key.ID == key.ID {
			return nil, cycleError(top, frame)
		}
	}

	return context.WithValue(ctx, resolutionPathKey{}, &resolutionFrame{
		parent:    top,
		container: c,
		key:       key,
	}), nil
}

// cycleError builds the cycle from repeated back to top, in resolution order.
func cycleError(top, repeated *resolutionFrame) error {
	var reversed []graph.NodeKey
	for frame := top; frame != repeated.parent; frame = frame.parent {
		reversed = append(reversed, nodeKey(frame.key))
	}

	path := make([]graph.NodeKey, len(reversed))
	for i, k := range reversed {
		path[len(reversed)-1-i] = k
	}

	return CircularDependencyError{Node: nodeKey(repeated.key), Path: path}
}

func nodeKey(key *Key) graph.NodeKey {
	return graph.NodeKey{ID: key.ID, Name: key.DisplayName()}
}
