package diag

// Note provides auxiliary context for a diagnostic message.
type Note struct {
	Span Span
	Msg  string
}

// TextEdit describes a textual change applicable to a manifest file.
//   - Insertion: Span.Start == Span.End, NewText != ""
//   - Deletion:  Span.Start < Span.End, NewText == ""
//   - Replace:   Span.Start < Span.End, NewText != ""
type TextEdit struct {
	Span    Span
	NewText string
}

// FixApplicability communicates how safe it is to apply a fix automatically.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	default:
		return "unknown"
	}
}

// Fix describes an actionable change that would repair a diagnostic. The
// lints that attach a Fix apply the change to the in-memory manifest editor
// themselves and leave Edits empty; unlike the teacher's lazy FixThunk,
// nothing is deferred to a later apply step.
type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	ManifestPath  string
	Edits         []TextEdit
}

// Diagnostic is a single lint finding, with optional notes and a fix.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Span
	// CrateName and Feature identify the (package, feature) pair the
	// diagnostic concerns, used for the ordering guarantee in §5: output
	// must be reproducible in (package name, then feature) order.
	CrateName string
	Feature   string
	Notes     []Note
	Fix       *Fix
}

// New constructs a diagnostic without a fix.
func New(sev Severity, code Code, primary Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// WithNote appends a note and returns the diagnostic for chaining.
func (d Diagnostic) WithNote(sp Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix attaches a fix and returns the diagnostic for chaining.
func (d Diagnostic) WithFix(f Fix) Diagnostic {
	d.Fix = &f
	return d
}
