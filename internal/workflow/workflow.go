// Package workflow parses the workflow file (§3, §6): a YAML document of
// named step sequences the Fix Driver's CLI front end can chain together.
// The core treats a workflow as opaque input; this package only resolves its
// own `$name.index` cross-references and validates its declared
// compatibility before handing the result to a caller.
package workflow

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the only workflow file format version this package
// accepts (§6).
const FormatVersion = "1.0.0"

// DefaultWorkflowName is the conventional name of the workflow to run when a
// caller names none.
const DefaultWorkflowName = "default"

// maxResolveIterations bounds the $name.index fixed-point search (§9): a
// reference cycle would otherwise interpolate forever.
const maxResolveIterations = 1024

// Step is one subcommand invocation: a token list, e.g. ["lint",
// "propagate", "--fix"].
type Step []string

// Workflow is an ordered sequence of steps.
type Workflow []Step

// Help is the optional free-text help block a workflow file may declare.
type Help struct {
	Text  string   `yaml:"text"`
	Links []string `yaml:"links"`
}

type versionBlock struct {
	Format string `yaml:"format"`
	Binary string `yaml:"binary"`
}

// File is a fully parsed and resolved workflow file.
type File struct {
	Version   versionBlock        `yaml:"version"`
	Workflows map[string]Workflow `yaml:"workflows"`
	Help      *Help               `yaml:"help,omitempty"`
}

// Load reads path and parses it as a workflow file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workflow: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data as a workflow file, rejects anything but
// FormatVersion, and resolves every $name.index reference to a fixed point.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("workflow: parse: %w", err)
	}
	if f.Version.Format != FormatVersion {
		return nil, fmt.Errorf("workflow: can only parse workflow files with format version %q, got %q", FormatVersion, f.Version.Format)
	}
	if err := f.resolve(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Workflow looks up a workflow by name.
func (f *File) Workflow(name string) (Workflow, bool) {
	wf, ok := f.Workflows[name]
	return wf, ok
}

// resolve repeatedly applies resolveOnce until it reports no more changes,
// modeling "resolved iteratively... until a fixed point" (§6).
func (f *File) resolve() error {
	for i := 0; i < maxResolveIterations; i++ {
		changed, err := f.resolveOnce()
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
	return fmt.Errorf("workflow: $name.index interpolation did not reach a fixed point within %d iterations (likely a reference cycle)", maxResolveIterations)
}

// resolveOnce finds the first token across all workflows (visited in
// lexicographic workflow-name order, for reproducibility) shaped like
// "$name.index", splices the referenced workflow's step in its place, and
// returns immediately so the caller can re-scan from a consistent state.
func (f *File) resolveOnce() (bool, error) {
	names := make([]string, 0, len(f.Workflows))
	for name := range f.Workflows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		wf := f.Workflows[name]
		for si, step := range wf {
			for ti, token := range step {
				if !strings.HasPrefix(token, "$") {
					continue
				}
				replacement, err := f.lookupReference(token)
				if err != nil {
					return false, err
				}
				newStep := make(Step, 0, len(step)-1+len(replacement))
				newStep = append(newStep, step[:ti]...)
				newStep = append(newStep, replacement...)
				newStep = append(newStep, step[ti+1:]...)
				wf[si] = newStep
				f.Workflows[name] = wf
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *File) lookupReference(token string) (Step, error) {
	ref := strings.TrimPrefix(token, "$")
	vname, idxStr, ok := strings.Cut(ref, ".")
	if !ok {
		return nil, fmt.Errorf("workflow: malformed reference %q, expected $name.index", token)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return nil, fmt.Errorf("workflow: malformed reference %q: index must be an integer: %w", token, err)
	}
	target, ok := f.Workflows[vname]
	if !ok {
		return nil, fmt.Errorf("workflow: reference %q: no workflow named %q", token, vname)
	}
	if idx < 0 || idx >= len(target) {
		return nil, fmt.Errorf("workflow: reference %q: step index %d out of range for workflow %q (%d steps)", token, idx, vname, len(target))
	}
	return target[idx], nil
}

// CheckCompatibility reports whether runningVersion (the executing binary's
// semver, without a "v" prefix) is new enough to satisfy the file's declared
// minimum (§6): the running binary must be the same version or newer.
func (f *File) CheckCompatibility(runningVersion string) error {
	required := normalizeSemver(f.Version.Binary)
	current := normalizeSemver(runningVersion)
	if !semver.IsValid(required) {
		return fmt.Errorf("workflow: invalid binary version %q in workflow file", f.Version.Binary)
	}
	if !semver.IsValid(current) {
		return fmt.Errorf("workflow: invalid running binary version %q", runningVersion)
	}
	if semver.Compare(current, required) < 0 {
		return fmt.Errorf("workflow: file requires at least version %s, but the running binary is %s", f.Version.Binary, runningVersion)
	}
	return nil
}

func normalizeSemver(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// FormatHelp renders the workflow file's declared help block, if any: its
// text with any trailing "links" appended as a bulleted list.
func (f *File) FormatHelp() string {
	if f.Help == nil {
		return ""
	}
	text := strings.TrimSuffix(f.Help.Text, "\n")
	if len(f.Help.Links) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nFor more information, see:\n")
	for i, link := range f.Help.Links {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - " + link)
	}
	return b.String()
}
