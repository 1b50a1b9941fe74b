package icon

import (
	"context"
	"os"
	"time"

	"github.com/example/iconbridge/internal/logging"
)

// Service composes classification, shortcut resolution, extraction and
// encoding. It holds no mutable state and is safe for concurrent use.
type Service struct {
	classify   func(path string) Kind
	resolver   Resolver
	source     Source
	executable func() (string, error)
}

// NewService builds a Service from its collaborators. Nil collaborators are
// replaced by the inert variants.
func NewService(resolver Resolver, source Source) *Service {
	if resolver == nil {
		resolver = NopResolver{}
	}
	if source == nil {
		source = unsupportedSource{}
	}
	return &Service{
		classify:   Classify,
		resolver:   resolver,
		source:     source,
		executable: os.Executable,
	}
}

// NewPlatformService wires the resolver and source native to this platform.
func NewPlatformService(resolverTimeout time.Duration) *Service {
	return NewService(NewResolver(resolverTimeout), NewSource())
}

// FileIcon returns a data URI for the icon of path, or "" when none is
// available. Shortcuts are resolved first; if their target yields nothing,
// the shortcut file itself is tried.
func (s *Service) FileIcon(ctx context.Context, path string) string {
	if s.classify(path) == Indirect {
		if target, ok := s.ShortcutTarget(ctx, path); ok {
			if uri := s.pipeline(ctx, target); uri != "" {
				return uri
			}
			logging.Debugf("shortcut target %s of %s has no icon; trying the shortcut itself", target, path)
		}
	}
	return s.pipeline(ctx, path)
}

// ShortcutTarget resolves a shortcut file to the path it points at.
func (s *Service) ShortcutTarget(ctx context.Context, path string) (string, bool) {
	return s.resolver.Resolve(ctx, path)
}

// ApplicationIcon returns the icon of the running executable. It yields the
// empty Info when the platform cannot provide one.
func (s *Service) ApplicationIcon(ctx context.Context) Info {
	exe, err := s.executable()
	if err != nil {
		logging.Debugf("resolve executable: %v", err)
		return Info{}
	}
	info, err := s.extract(ctx, exe)
	if err != nil {
		logging.Debugf("application icon for %s: %v", exe, err)
		return Info{}
	}
	return info
}

// pipeline runs extraction and encoding for a direct path. Extraction errors
// are logged and collapse into the empty result.
func (s *Service) pipeline(ctx context.Context, path string) string {
	info, err := s.extract(ctx, path)
	if err != nil {
		logging.Debugf("icon extraction for %s: %v", path, err)
		info = Info{}
	}
	return DataURI(info)
}

func (s *Service) extract(ctx context.Context, path string) (info Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debugf("icon extraction for %s panicked: %v", path, r)
			info, err = Info{}, ErrNoIconFound
		}
	}()
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	return s.source.Icon(ctx, path)
}
