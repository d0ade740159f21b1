package manifest

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// DepTable names one of the three dependency tables a manifest may declare.
type DepTable int

const (
	Dependencies DepTable = iota
	DevDependencies
	BuildDependencies
)

func (t DepTable) tomlName() string {
	switch t {
	case DevDependencies:
		return "dev-dependencies"
	case BuildDependencies:
		return "build-dependencies"
	default:
		return "dependencies"
	}
}

// SourceKind classifies where a dependency's code comes from, used by
// LiftDependency's cross-source check (§4.2.10).
type SourceKind int

const (
	SourceAny SourceKind = iota
	SourceLocal
	SourceRegistry
)

// validSemverRequirement reports whether req looks like a Cargo version
// requirement whose version component parses as semver, stripping the
// leading comparator (^, ~, =, >=, <=, >, <) and any second clause of a
// compound requirement. Grounded on golang.org/x/mod/semver, the one
// semver-aware library present in the reference corpus.
func validSemverRequirement(req string) bool {
	s := strings.TrimSpace(req)
	if i := strings.IndexAny(s, ", "); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "^~=><")
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	parts := strings.Split(s, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return semver.IsValid("v" + strings.Join(parts[:3], "."))
}

// parseInlineTable extracts the key/value pairs of an inline table's raw
// bytes (including braces) into a map of trimmed, unquoted string values.
// Reconstruction (via renderInlineTable) always rewrites the whole value,
// so this need not preserve per-key formatting.
func parseInlineTable(raw []byte) map[string]string {
	fields := map[string]string{}
	if len(raw) < 2 {
		return fields
	}
	inner := raw[1 : len(raw)-1]
	for _, seg := range splitTopLevelCommas(inner) {
		t := strings.TrimSpace(seg)
		if t == "" {
			continue
		}
		eq := strings.IndexByte(t, '=')
		if eq < 0 {
			continue
		}
		key := strings.Trim(strings.TrimSpace(t[:eq]), `"'`)
		val := strings.TrimSpace(t[eq+1:])
		fields[key] = strings.Trim(val, `"'`)
	}
	return fields
}

// inlineOrVersionFields normalizes a dependency value (bare version string
// or inline table) into the same key/value shape.
func inlineOrVersionFields(raw []byte) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}
	switch raw[0] {
	case '"', '\'':
		return map[string]string{"version": string(raw[1 : len(raw)-1])}
	case '{':
		return parseInlineTable(raw)
	default:
		return map[string]string{}
	}
}

// canonicalKeyOrder fixes a deterministic rendering order for inline
// dependency tables so repeated edits don't reorder untouched keys.
var canonicalKeyOrder = []string{
	"workspace", "version", "path", "package", "git", "branch", "tag", "rev",
	"default-features", "optional", "features",
}

// rawInlineKeys lists the dependency-table keys whose value is already
// valid TOML syntax (booleans, arrays) rather than a plain string.
var rawInlineKeys = map[string]bool{
	"workspace":        true,
	"default-features": true,
	"optional":         true,
	"features":         true,
}

// renderInlineTable serializes fields into an inline-table literal. rawKeys
// names keys whose value is already valid TOML syntax (booleans, arrays)
// and must not be string-quoted; every other key is rendered as a quoted
// string.
func renderInlineTable(fields map[string]string, rawKeys map[string]bool) string {
	var parts []string
	used := map[string]bool{}
	render := func(k, v string) string {
		if rawKeys[k] {
			return k + " = " + v
		}
		return k + " = " + fmt.Sprintf("%q", v)
	}
	for _, k := range canonicalKeyOrder {
		if v, ok := fields[k]; ok {
			parts = append(parts, render(k, v))
			used[k] = true
		}
	}
	var rest []string
	for k := range fields {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, render(k, fields[k]))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// LiftDependency rewrites depName's entry in the given dependency table to
// delegate to the workspace table (§4.2.10). workspaceSource, when not
// SourceAny, rejects a lift that would silently flip a dependency between
// a local path and a registry source.
func LiftDependency(doc *Document, table DepTable, depName string, defaultFeaturesOverride *bool, workspaceSource SourceKind) error {
	tStart, tEnd, ok := locateTable(doc.buf, table.tomlName())
	if !ok {
		return newError(doc.Path, KindDependencyNotFound, depName)
	}
	body := doc.buf[tStart:tEnd]
	vs, ve, ok := locateAssignment(body, depName)
	if !ok {
		return newError(doc.Path, KindDependencyNotFound, depName)
	}
	absStart, absEnd := tStart+vs, tStart+ve
	raw := doc.buf[absStart:absEnd]

	var fields map[string]string
	isLocal := false
	switch {
	case len(raw) > 0 && (raw[0] == '"' || raw[0] == '\''):
		req := string(raw[1 : len(raw)-1])
		if !validSemverRequirement(req) {
			return newError(doc.Path, KindManifestParse, fmt.Sprintf("dependency %q: %q is not a valid semver requirement", depName, req))
		}
		fields = map[string]string{}
	case len(raw) > 0 && raw[0] == '{':
		fields = parseInlineTable(raw)
		if _, hasGit := fields["git"]; hasGit {
			return newError(doc.Path, KindGitDepLift, depName)
		}
		_, isLocal = fields["path"]
	default:
		return newError(doc.Path, KindManifestParse, fmt.Sprintf("dependency %q has an unsupported value shape for lift", depName))
	}

	if workspaceSource != SourceAny {
		if (workspaceSource == SourceLocal && !isLocal) || (workspaceSource == SourceRegistry && isLocal) {
			return newError(doc.Path, KindCrossSourceLift, depName)
		}
	}

	delete(fields, "path")
	delete(fields, "version")
	delete(fields, "package")
	delete(fields, "git")
	delete(fields, "default-features")
	fields["workspace"] = "true"
	if defaultFeaturesOverride != nil {
		fields["default-features"] = fmt.Sprintf("%t", *defaultFeaturesOverride)
	}

	text := renderInlineTable(fields, rawInlineKeys)
	doc.replace(absStart, absEnd, text)
	return nil
}

func workspaceDepMismatch(fields map[string]string, version, localPath string, defaultFeatures bool) string {
	if localPath != "" {
		if p, ok := fields["path"]; !ok || p != localPath {
			return fmt.Sprintf("path mismatch: existing %q vs new %q", fields["path"], localPath)
		}
	} else {
		if v, ok := fields["version"]; !ok || v != version {
			return fmt.Sprintf("version mismatch: existing %q vs new %q", fields["version"], version)
		}
	}
	existingDefault := true
	if v, ok := fields["default-features"]; ok && v == "false" {
		existingDefault = false
	}
	if existingDefault != defaultFeatures {
		return fmt.Sprintf("default-features mismatch: existing %t vs new %t", existingDefault, defaultFeatures)
	}
	return ""
}

// AddWorkspaceDep inserts or merges an entry under [workspace.dependencies]
// (§4.2.11). When the dependency already exists under both its original
// name and rename, the alias is preferred (a warning condition the caller
// surfaces; this function simply proceeds using the alias key in that
// case). An existing entry whose version/path/default-features disagree
// with what is being added fails with WorkspaceVersionMismatch.
func AddWorkspaceDep(doc *Document, depName, rename string, defaultFeatures bool, localPath, version string) (warnedAliasPreferred bool, err error) {
	tStart, tEnd, ok := locateTable(doc.buf, "workspace.dependencies")
	var body []byte
	if ok {
		body = doc.buf[tStart:tEnd]
	}

	key := depName
	if rename != "" {
		key = rename
	}

	if ok {
		_, _, origExists := locateAssignment(body, depName)
		if rename != "" {
			if _, _, aliasExists := locateAssignment(body, rename); aliasExists && origExists {
				warnedAliasPreferred = true
			}
		}
		if vs, ve, exists := locateAssignment(body, key); exists {
			absStart, absEnd := tStart+vs, tStart+ve
			fields := inlineOrVersionFields(doc.buf[absStart:absEnd])
			if mismatch := workspaceDepMismatch(fields, version, localPath, defaultFeatures); mismatch != "" {
				return warnedAliasPreferred, newError(doc.Path, KindWorkspaceVersionMismatch, mismatch)
			}
			return warnedAliasPreferred, nil
		}
	}

	fields := map[string]string{}
	if localPath != "" {
		fields["path"] = localPath
	} else {
		fields["version"] = version
	}
	if !defaultFeatures {
		fields["default-features"] = "false"
	}
	if rename != "" {
		fields["package"] = depName
	}
	text := key + " = " + renderInlineTable(fields, rawInlineKeys) + "\n"

	if !ok {
		doc.replace(len(doc.buf), len(doc.buf), "\n[workspace.dependencies]\n"+text)
		return warnedAliasPreferred, nil
	}
	doc.replace(tEnd, tEnd, text)
	return warnedAliasPreferred, nil
}

// DisableDefaultFeatures sets default-features = false on a normal
// dependency entry, failing if the entry is not an inline table (§4.2.12).
func DisableDefaultFeatures(doc *Document, table DepTable, depName string) error {
	tStart, tEnd, ok := locateTable(doc.buf, table.tomlName())
	if !ok {
		return newError(doc.Path, KindDependencyNotFound, depName)
	}
	body := doc.buf[tStart:tEnd]
	vs, ve, ok := locateAssignment(body, depName)
	if !ok {
		return newError(doc.Path, KindDependencyNotFound, depName)
	}
	absStart, absEnd := tStart+vs, tStart+ve
	raw := doc.buf[absStart:absEnd]
	if len(raw) == 0 || raw[0] != '{' {
		return newError(doc.Path, KindNotInlineTable, depName)
	}
	fields := parseInlineTable(raw)
	fields["default-features"] = "false"
	text := renderInlineTable(fields, rawInlineKeys)
	doc.replace(absStart, absEnd, text)
	return nil
}
