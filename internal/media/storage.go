package media

import (
	"context"
	"io"
)

// Storage persists uploaded media assets and returns a publicly reachable URL.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
