// Package config implements the strict YAML loading contract shared by
// every repo-lint configuration file: single document, explicit start and
// end markers, a config_type discriminator, a semantic version, and no
// unknown keys at any nesting level.
package config

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/repolint/repolint/internal/errs"
)

// Meta is the header every config document must carry.
type Meta struct {
	ConfigType string `yaml:"config_type"`
	Version    string `yaml:"version"`
}

// ValidateDocument checks the raw document structure before any parsing:
// a leading "---" marker, a trailing "..." marker, and exactly one document.
func ValidateDocument(path string, content []byte) error {
	lines := splitLines(content)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return &errs.ConfigError{
			File: path, Line: 1,
			Message: "missing required YAML document start marker '---' at beginning of file",
		}
	}
	last := len(lines) - 1
	for last > 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if strings.TrimSpace(lines[last]) != "..." {
		return &errs.ConfigError{
			File: path, Line: len(lines),
			Message: "missing required YAML document end marker '...' at end of file",
		}
	}
	starts := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "---" {
			starts++
		}
	}
	if starts > 1 {
		return errs.NewConfigf(path,
			"multiple YAML documents detected (%d '---' markers); config files must be single-document", starts)
	}
	return nil
}

// DecodeStrict validates document structure and header, then decodes the
// document into out rejecting unknown keys at every nesting level.
func DecodeStrict(path string, content []byte, wantType string, out any) error {
	if err := ValidateDocument(path, content); err != nil {
		return err
	}

	var meta Meta
	if err := yaml.Unmarshal(content, &meta); err != nil {
		return errs.NewConfigf(path, "YAML parsing error: %v", err)
	}
	if meta.ConfigType == "" {
		return errs.NewConfigf(path, "missing required field 'config_type'")
	}
	if meta.ConfigType != wantType {
		return errs.NewConfigf(path, "invalid config_type: expected %q, got %q", wantType, meta.ConfigType)
	}
	if meta.Version == "" {
		return errs.NewConfigf(path, "missing required field 'version' (e.g. '1.0.0')")
	}
	if _, err := semver.StrictNewVersion(meta.Version); err != nil {
		return errs.NewConfigf(path, "invalid version %q: must follow semantic versioning (e.g. '1.0.0')", meta.Version)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return errs.NewConfigf(path, "schema violation: %s", strings.Join(te.Errors, "; "))
		}
		return errs.NewConfigf(path, "YAML parsing error: %v", err)
	}
	return nil
}

// LoadStrict reads and strictly decodes a config file from disk.
func LoadStrict(path, wantType string, out any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errs.NewConfigf(path, "config file not readable: %v", err)
	}
	return DecodeStrict(path, content, wantType, out)
}

func splitLines(b []byte) []string {
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
