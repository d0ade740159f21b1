package cargo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// LoadMetadata shells out to `cargo metadata` and decodes its JSON output
// into a Metadata value. This is the external collaborator §1 describes as
// "loading of workspace metadata from the package manager" — every package
// downstream of this one consumes only the Metadata struct, never a
// subprocess or a JSON shape.
func LoadMetadata(ctx context.Context, dir string, locked bool) (*Metadata, error) {
	args := []string{"metadata", "--format-version", "1"}
	if locked {
		args = append(args, "--locked")
	}
	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if locked {
			return nil, fmt.Errorf("%w: %s", ErrLockedMetadata, stderr.String())
		}
		return nil, fmt.Errorf("cargo metadata: %w: %s", err, stderr.String())
	}

	return DecodeMetadata(stdout.Bytes())
}

// ErrLockedMetadata is returned when `--locked` metadata load fails,
// matching §7's LockedMetadata error kind.
var ErrLockedMetadata = fmt.Errorf("cargo metadata --locked failed (lockfile out of date?)")

// rawMetadata mirrors the subset of `cargo metadata --format-version 1`'s
// JSON schema this tool needs.
type rawMetadata struct {
	Packages         []rawPackage `json:"packages"`
	WorkspaceMembers []string     `json:"workspace_members"`
	Resolve          *rawGraph    `json:"resolve"`
}

type rawPackage struct {
	Name         string                     `json:"name"`
	Version      string                     `json:"version"`
	ID           string                     `json:"id"`
	ManifestPath string                     `json:"manifest_path"`
	Features     map[string][]string        `json:"features"`
	Dependencies []rawDependency            `json:"dependencies"`
}

type rawDependency struct {
	Name               string   `json:"name"`
	Rename             string   `json:"rename"`
	Req                string   `json:"req"`
	Kind               string   `json:"kind"` // "", "dev", "build"
	Optional           bool     `json:"optional"`
	UsesDefaultFeatures bool    `json:"uses_default_features"`
	Features           []string `json:"features"`
	Path               string   `json:"path"`
	Source             string   `json:"source"`
}

type rawGraph struct {
	Nodes []rawNode `json:"nodes"`
}

type rawNode struct {
	ID  string    `json:"id"`
	Deps []rawEdge `json:"deps"`
}

type rawEdge struct {
	Name string `json:"name"`
	PKG  string `json:"pkg"`
}

// DecodeMetadata parses `cargo metadata --format-version 1` JSON bytes into
// a Metadata value. Exported separately from LoadMetadata so tests can
// exercise it on fixture bytes without a cargo binary present.
func DecodeMetadata(data []byte) (*Metadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cargo metadata: malformed JSON: %w", err)
	}

	out := &Metadata{
		Packages:         make([]*Package, 0, len(raw.Packages)),
		WorkspaceMembers: make([]CrateID, 0, len(raw.WorkspaceMembers)),
	}
	for _, rp := range raw.Packages {
		pkg := &Package{
			Name:         rp.Name,
			Version:      rp.Version,
			ID:           CrateID(rp.ID),
			ManifestPath: rp.ManifestPath,
			Features:     rp.Features,
			Dependencies: make([]Dependency, 0, len(rp.Dependencies)),
		}
		for _, rd := range rp.Dependencies {
			pkg.Dependencies = append(pkg.Dependencies, Dependency{
				Name:                rd.Name,
				Rename:              rd.Rename,
				Kind:                parseKind(rd.Kind),
				Optional:            rd.Optional,
				UsesDefaultFeatures: rd.UsesDefaultFeatures,
				Features:            rd.Features,
				Path:                rd.Path,
				Source:              rd.Source,
				Req:                 rd.Req,
			})
		}
		out.Packages = append(out.Packages, pkg)
	}
	for _, id := range raw.WorkspaceMembers {
		out.WorkspaceMembers = append(out.WorkspaceMembers, CrateID(id))
	}
	if raw.Resolve != nil {
		resolve := &Resolve{Nodes: make([]ResolveNode, 0, len(raw.Resolve.Nodes))}
		for _, rn := range raw.Resolve.Nodes {
			node := ResolveNode{ID: CrateID(rn.ID), Deps: make([]ResolveDep, 0, len(rn.Deps))}
			for _, re := range rn.Deps {
				node.Deps = append(node.Deps, ResolveDep{Name: re.Name, PKG: CrateID(re.PKG)})
			}
			resolve.Nodes = append(resolve.Nodes, node)
		}
		out.Resolve = resolve
	}
	return out, nil
}

func parseKind(s string) DependencyKind {
	switch s {
	case "dev":
		return KindDev
	case "build":
		return KindBuild
	default:
		return KindNormal
	}
}
