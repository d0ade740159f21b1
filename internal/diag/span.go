package diag

import "fmt"

// Span identifies a byte range within a manifest file. Start/End are
// byte offsets, End exclusive. A zero-value Span with Path == "" carries no
// location (used by diagnostics such as never-enables and why-enabled).
type Span struct {
	Path  string
	Start int
	End   int
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) String() string {
	if s.Path == "" {
		return "<no-location>"
	}
	return fmt.Sprintf("%s:%d-%d", s.Path, s.Start, s.End)
}
