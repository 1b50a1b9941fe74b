package icon

import "context"

// Source turns a direct resource path into an icon image.
type Source interface {
	Icon(ctx context.Context, path string) (Info, error)
}

// unsupportedSource is the explicit capability gap for platforms without any
// native icon storage this package understands.
type unsupportedSource struct{}

func (unsupportedSource) Icon(context.Context, string) (Info, error) {
	return Info{}, ErrUnsupported
}
