// Package config resolves formatter configuration from raw key/value
// maps into an immutable Config. A Config is created once per
// resolution, never mutated afterwards, and is safe to share across
// concurrent format calls without locks.
package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config is the resolved formatter configuration.
type Config struct {
	// IsValid is false when resolution produced diagnostics. Formatting
	// is refused outright against an invalid configuration.
	IsValid     bool          `yaml:"isValid" json:"isValid"`
	CacheKey    string        `yaml:"cacheKey" json:"cacheKey"`
	LineWidth   uint32        `yaml:"lineWidth" json:"lineWidth"`
	UseTabs     bool          `yaml:"useTabs" json:"useTabs"`
	IndentWidth uint8         `yaml:"indentWidth" json:"indentWidth"`
	Timeout     uint32        `yaml:"timeout" json:"timeout"` // seconds, per command invocation
	Commands    []CommandSpec `yaml:"commands" json:"commands"`
}

// CommandSpec is one configured external formatter.
type CommandSpec struct {
	Executable string   `yaml:"executable" json:"executable"`
	Args       []string `yaml:"args" json:"args"` // raw templates, rendered per invocation
	Cwd        string   `yaml:"cwd" json:"cwd"`
	Stdin      bool     `yaml:"stdin" json:"stdin"`

	// Associations is a doublestar glob matched against the whole path.
	// Empty means the command is a fallback matched by Exts/FileNames.
	Associations string   `yaml:"associations,omitempty" json:"associations,omitempty"`
	Exts         []string `yaml:"exts,omitempty" json:"exts,omitempty"`
	FileNames    []string `yaml:"fileNames,omitempty" json:"fileNames,omitempty"`
}

// GlobalConfig carries host-level defaults applied before plugin keys.
type GlobalConfig struct {
	LineWidth   *uint32
	UseTabs     *bool
	IndentWidth *uint8
}

// Diagnostic describes one configuration problem at a property path.
type Diagnostic struct {
	PropertyName string `json:"propertyName"`
	Message      string `json:"message"`
}

// ResolveResult pairs a resolved Config with its diagnostics.
type ResolveResult struct {
	Config      *Config
	Diagnostics []Diagnostic
}

// FileMatchingInfo aggregates matching hints across all commands so a
// host can pre-filter candidate files.
type FileMatchingInfo struct {
	FileExtensions []string
	FileNames      []string
}

// FileMatching returns the aggregated extension (dot-stripped) and
// file-name matchers of every command.
func (c *Config) FileMatching() FileMatchingInfo {
	var info FileMatchingInfo
	for _, cmd := range c.Commands {
		for _, ext := range cmd.Exts {
			info.FileExtensions = append(info.FileExtensions, strings.TrimPrefix(ext, "."))
		}
		info.FileNames = append(info.FileNames, cmd.FileNames...)
	}
	return info
}

// MatchesAssociations reports whether the command's glob matches path.
// Commands without a glob never match here.
func (c *CommandSpec) MatchesAssociations(path string) bool {
	if c.Associations == "" {
		return false
	}
	ok, err := doublestar.Match(c.Associations, filepath.ToSlash(path))
	return err == nil && ok
}

// MatchesExtsOrFileNames matches the lowercased base name of path:
// extensions by trailing-substring comparison, file names exactly. A
// path without a file name segment never matches.
func (c *CommandSpec) MatchesExtsOrFileNames(path string) bool {
	base := filepath.Base(path)
	if base == "." || base == ".." || base == "/" || base == string(filepath.Separator) {
		return false
	}
	name := strings.ToLower(base)
	for _, ext := range c.Exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	for _, fileName := range c.FileNames {
		if fileName == name {
			return true
		}
	}
	return false
}
