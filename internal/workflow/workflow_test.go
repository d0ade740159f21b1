package workflow

import (
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `
version:
  format: "1.0.0"
  binary: "0.1.0"
workflows:
  default:
    - ["lint", "--fix"]
    - ["$check.0"]
  check:
    - ["lint", "propagate", "--feature", "std"]
help:
  text: |
    Runs the default lint-and-fix workflow.
  links:
    - "https://example.com/docs"
`

func TestParseResolvesNameIndexReference(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wf, ok := f.Workflow("default")
	if !ok {
		t.Fatalf("expected a \"default\" workflow")
	}
	if len(wf) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(wf))
	}
	want := Step{"lint", "propagate", "--feature", "std"}
	if !reflect.DeepEqual(wf[1], want) {
		t.Fatalf("resolved step = %+v, want %+v", wf[1], want)
	}
}

func TestParseRejectsWrongFormatVersion(t *testing.T) {
	bad := strings.Replace(sampleYAML, `format: "1.0.0"`, `format: "2.0.0"`, 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatalf("expected an error for an unsupported format version")
	}
}

func TestParseReferenceInsideMultiTokenStep(t *testing.T) {
	y := `
version:
  format: "1.0.0"
  binary: "0.1.0"
workflows:
  default:
    - ["lint", "$helper.0", "--fix"]
  helper:
    - ["propagate", "--feature", "std"]
`
	f, err := Parse([]byte(y))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wf, _ := f.Workflow("default")
	want := Step{"lint", "propagate", "--feature", "std", "--fix"}
	if !reflect.DeepEqual(wf[0], want) {
		t.Fatalf("resolved step = %+v, want %+v", wf[0], want)
	}
}

func TestParseDetectsReferenceCycle(t *testing.T) {
	y := `
version:
  format: "1.0.0"
  binary: "0.1.0"
workflows:
  a:
    - ["$b.0"]
  b:
    - ["$a.0"]
`
	if _, err := Parse([]byte(y)); err == nil {
		t.Fatalf("expected a fixed-point error for a reference cycle")
	}
}

func TestParseRejectsUnknownWorkflowReference(t *testing.T) {
	y := `
version:
  format: "1.0.0"
  binary: "0.1.0"
workflows:
  default:
    - ["$missing.0"]
`
	if _, err := Parse([]byte(y)); err == nil {
		t.Fatalf("expected an error for a reference to an unknown workflow")
	}
}

func TestParseRejectsOutOfRangeStepIndex(t *testing.T) {
	y := `
version:
  format: "1.0.0"
  binary: "0.1.0"
workflows:
  default:
    - ["$helper.5"]
  helper:
    - ["noop"]
`
	if _, err := Parse([]byte(y)); err == nil {
		t.Fatalf("expected an error for an out-of-range step index")
	}
}

func TestCheckCompatibilityAcceptsSameOrNewer(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := f.CheckCompatibility("0.1.0"); err != nil {
		t.Fatalf("CheckCompatibility(same): %v", err)
	}
	if err := f.CheckCompatibility("0.2.0"); err != nil {
		t.Fatalf("CheckCompatibility(newer): %v", err)
	}
}

func TestCheckCompatibilityRejectsOlder(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := f.CheckCompatibility("0.0.9"); err == nil {
		t.Fatalf("expected an error for a binary older than required")
	}
}

func TestFormatHelp(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := f.FormatHelp()
	want := "Runs the default lint-and-fix workflow.\n\nFor more information, see:\n  - https://example.com/docs"
	if got != want {
		t.Fatalf("FormatHelp() = %q, want %q", got, want)
	}
}

func TestFormatHelpWithoutLinks(t *testing.T) {
	y := `
version:
  format: "1.0.0"
  binary: "0.1.0"
workflows:
  default:
    - ["noop"]
help:
  text: "just text\n"
`
	f, err := Parse([]byte(y))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.FormatHelp(); got != "just text" {
		t.Fatalf("FormatHelp() = %q", got)
	}
}
