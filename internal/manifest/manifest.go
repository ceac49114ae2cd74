// Package manifest produces and validates locked dependency manifests for
// packaged agents. A manifest is a flat list of name==version pins with no
// hashes, comments, or environment markers, suitable for a restricted
// runtime that installs exactly what it is given.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Entry is a single pinned dependency.
type Entry struct {
	Name    string
	Version string
}

// Manifest is an ordered list of pinned dependencies.
type Manifest struct {
	Entries []Entry
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// IsEmpty reports whether the manifest has no entries.
func (m Manifest) IsEmpty() bool {
	return len(m.Entries) == 0
}

// Encode renders the manifest as plain name==version lines.
func (m Manifest) Encode() []byte {
	var b strings.Builder
	for _, e := range m.Entries {
		b.WriteString(e.Name)
		b.WriteString("==")
		b.WriteString(e.Version)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// WriteFile writes the encoded manifest to path.
func (m Manifest) WriteFile(path string) error {
	if err := os.WriteFile(path, m.Encode(), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Validate enforces the manifest invariants: at least one entry, valid
// name==version pins, no duplicate names, and no self-reference to the
// packaged project. selfName may be empty when the project name is unknown.
func (m Manifest) Validate(selfName string) error {
	if m.IsEmpty() {
		return fmt.Errorf("manifest is empty")
	}
	self := canonicalName(selfName)
	seen := make(map[string]struct{}, len(m.Entries))
	for _, e := range m.Entries {
		if !namePattern.MatchString(e.Name) {
			return fmt.Errorf("invalid package name %q", e.Name)
		}
		if e.Version == "" || strings.ContainsAny(e.Version, " \t;#") {
			return fmt.Errorf("invalid version %q for package %s", e.Version, e.Name)
		}
		name := canonicalName(e.Name)
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate package %s", e.Name)
		}
		if self != "" && name == self {
			return fmt.Errorf("manifest references the packaged project itself: %s", e.Name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Load reads and validates a manifest file.
func Load(path, selfName string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := parseStrict(string(data))
	if err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(selfName); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// parseStrict parses a manifest file that must already satisfy the output
// format: only name==version lines, no comments or annotations.
func parseStrict(text string) (Manifest, error) {
	var m Manifest
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, version, ok := strings.Cut(line, "==")
		if !ok || strings.Contains(line, ";") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			return Manifest{}, fmt.Errorf("malformed manifest line %q", line)
		}
		m.Entries = append(m.Entries, Entry{Name: strings.TrimSpace(name), Version: strings.TrimSpace(version)})
	}
	return m, nil
}

// canonicalName normalizes a package name the way Python packaging tools
// compare them: lowercase with underscores folded to hyphens.
func canonicalName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "-", ".", "-").Replace(strings.TrimSpace(name)))
}
