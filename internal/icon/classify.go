package icon

import "strings"

// Kind distinguishes paths that carry icon resources from shortcut files.
type Kind int

const (
	// Direct paths hold their own icon resources.
	Direct Kind = iota
	// Indirect paths are shortcut files that must be resolved first.
	Indirect
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Indirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// Classify reports whether path is a shortcut on this platform. Only the
// suffix is inspected; the file is never opened.
func Classify(path string) Kind {
	return classifyWithSuffix(path, shortcutSuffix)
}

func classifyWithSuffix(path, suffix string) Kind {
	if suffix == "" {
		return Direct
	}
	if strings.HasSuffix(strings.ToLower(path), suffix) {
		return Indirect
	}
	return Direct
}
