package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"mvdan.cc/sh/v3/shell"

	"github.com/formatkit/execfmt/internal/tmpl"
)

// Default preference values, used when neither the global config nor the
// plugin config supplies one.
const (
	defaultLineWidth   uint32 = 120
	defaultIndentWidth uint8  = 2
	defaultUseTabs            = false
	defaultTimeout     uint32 = 30
)

// Resolve consumes a raw key/value map (typically decoded from a JSONC
// or YAML file) and produces a Config plus accumulated diagnostics.
// Resolution never fails hard: every problem becomes a Diagnostic and
// the resulting Config is marked invalid when any were produced.
func Resolve(raw map[string]any, global GlobalConfig) ResolveResult {
	var diags []Diagnostic
	m := cloneMap(raw)

	lineWidth := defaultLineWidth
	if global.LineWidth != nil {
		lineWidth = *global.LineWidth
	}
	useTabs := defaultUseTabs
	if global.UseTabs != nil {
		useTabs = *global.UseTabs
	}
	indentWidth := defaultIndentWidth
	if global.IndentWidth != nil {
		indentWidth = *global.IndentWidth
	}

	cfg := &Config{
		IsValid:     true,
		CacheKey:    "0",
		LineWidth:   takeUint32(m, "lineWidth", lineWidth, &diags),
		UseTabs:     takeBool(m, "useTabs", useTabs, &diags),
		IndentWidth: takeUint8(m, "indentWidth", indentWidth, &diags),
		Timeout:     takeUint32(m, "timeout", defaultTimeout, &diags),
	}

	rootCacheKey := takeNullableString(m, "cacheKey", &diags)
	rootCwd := takeNullableString(m, "cwd", &diags)

	var cacheKeyFileHashes []string

	if value, ok := m["commands"]; ok {
		delete(m, "commands")
		commands, ok := value.([]any)
		if !ok {
			diags = append(diags, Diagnostic{
				PropertyName: "commands",
				Message:      "Expected an array value.",
			})
		} else {
			for i, element := range commands {
				obj, ok := element.(map[string]any)
				if !ok {
					diags = append(diags, Diagnostic{
						PropertyName: "commands",
						Message:      "Expected to find only objects in the array.",
					})
					continue
				}
				spec, filesHash, cmdDiags := parseCommand(obj, rootCwd)
				for _, d := range cmdDiags {
					d.PropertyName = fmt.Sprintf("commands[%d].%s", i, d.PropertyName)
					diags = append(diags, d)
				}
				if spec != nil {
					if filesHash != "" {
						cacheKeyFileHashes = append(cacheKeyFileHashes, filesHash)
					}
					cfg.Commands = append(cfg.Commands, *spec)
				}
			}
		}
	} else {
		diags = append(diags, Diagnostic{
			PropertyName: "commands",
			Message:      `Expected to find a "commands" array property.`,
		})
	}

	diags = append(diags, unknownPropertyDiagnostics(m)...)

	if key := combineCacheKey(rootCacheKey, cacheKeyFileHashes); key != "" {
		cfg.CacheKey = key
	}

	cfg.IsValid = len(diags) == 0

	return ResolveResult{Config: cfg, Diagnostics: diags}
}

// parseCommand resolves one element of the commands array. It returns a
// nil spec when the element is unusable (no command name, unreadable
// cacheKeyFiles); otherwise the spec is returned alongside whatever
// diagnostics were found.
func parseCommand(obj map[string]any, rootCwd string) (*CommandSpec, string, []Diagnostic) {
	var diags []Diagnostic
	obj = cloneMap(obj)

	commandText := takeString(obj, "command", "", &diags)
	fields, err := shell.Fields(commandText, nil)
	if err != nil {
		diags = append(diags, Diagnostic{
			PropertyName: "command",
			Message:      fmt.Sprintf("Invalid command: %v.", err),
		})
		return nil, "", diags
	}
	fields = withoutEmpty(fields)
	if len(fields) == 0 {
		diags = append(diags, Diagnostic{
			PropertyName: "command",
			Message:      "Expected to find a command name.",
		})
		return nil, "", diags
	}

	for _, arg := range fields[1:] {
		if err := tmpl.Validate(arg); err != nil {
			diags = append(diags, Diagnostic{
				PropertyName: "command",
				Message:      fmt.Sprintf("Invalid template: %v.", err),
			})
		}
	}

	cwd := takeNullableString(obj, "cwd", &diags)
	if cwd == "" {
		cwd = rootCwd
	}
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	cacheKeyFiles := takeStringOrStringSlice(obj, "cacheKeyFiles", &diags)
	filesHash := ""
	if len(cacheKeyFiles) > 0 {
		var err error
		filesHash, err = hashFiles(cwd, cacheKeyFiles)
		if err != nil {
			diags = append(diags, Diagnostic{
				PropertyName: "cacheKeyFiles",
				Message:      fmt.Sprintf("Unable to read file: %v.", err),
			})
			return nil, "", diags
		}
	}

	spec := &CommandSpec{
		Executable:   fields[0],
		Args:         fields[1:],
		Cwd:          cwd,
		Stdin:        takeBool(obj, "stdin", true, &diags),
		Associations: takeAssociations(obj, &diags),
		FileNames:    takeStringOrStringSlice(obj, "fileNames", &diags),
	}

	for _, ext := range takeStringOrStringSlice(obj, "exts", &diags) {
		if len(ext) > 0 && ext[0] != '.' {
			ext = "." + ext
		}
		spec.Exts = append(spec.Exts, ext)
	}

	diags = append(diags, unknownPropertyDiagnostics(obj)...)

	if len(diags) == 0 && len(spec.Exts) == 0 && len(spec.FileNames) == 0 && spec.Associations == "" {
		diags = append(diags, Diagnostic{
			PropertyName: "exts",
			Message:      "You must specify either: exts (recommended), fileNames, or associations.",
		})
	}

	return spec, filesHash, diags
}

// takeAssociations accepts a string or a single-element string array.
func takeAssociations(obj map[string]any, diags *[]Diagnostic) string {
	value, ok := obj["associations"]
	if !ok {
		return ""
	}
	delete(obj, "associations")

	var pattern string
	switch v := value.(type) {
	case string:
		pattern = v
	case []any:
		switch len(v) {
		case 0:
			return ""
		case 1:
			s, ok := v[0].(string)
			if !ok {
				*diags = append(*diags, Diagnostic{
					PropertyName: "associations",
					Message:      "Expected string value in array.",
				})
				return ""
			}
			pattern = s
		default:
			*diags = append(*diags, Diagnostic{
				PropertyName: "associations",
				Message:      "Multiple globs are not supported. Please provide a single glob.",
			})
			return ""
		}
	default:
		*diags = append(*diags, Diagnostic{
			PropertyName: "associations",
			Message:      "Expected string or array value.",
		})
		return ""
	}

	if !doublestar.ValidatePattern(pattern) {
		*diags = append(*diags, Diagnostic{
			PropertyName: "associations",
			Message:      fmt.Sprintf("Error parsing associations glob: invalid pattern %q.", pattern),
		})
		return ""
	}
	return pattern
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func withoutEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// unknownPropertyDiagnostics reports every key left in the map after all
// recognized keys were consumed, in sorted order for stable output.
func unknownPropertyDiagnostics(m map[string]any) []Diagnostic {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var diags []Diagnostic
	for _, k := range keys {
		diags = append(diags, Diagnostic{
			PropertyName: k,
			Message:      "Unknown property.",
		})
	}
	return diags
}

func takeString(m map[string]any, key, def string, diags *[]Diagnostic) string {
	value, ok := m[key]
	if !ok {
		return def
	}
	delete(m, key)
	s, ok := value.(string)
	if !ok {
		*diags = append(*diags, Diagnostic{PropertyName: key, Message: "Expected string value."})
		return def
	}
	return s
}

func takeNullableString(m map[string]any, key string, diags *[]Diagnostic) string {
	return takeString(m, key, "", diags)
}

// takeStringOrStringSlice accepts either a bare string or an array of
// strings, mirroring how hosts commonly shorthand single-element lists.
func takeStringOrStringSlice(m map[string]any, key string, diags *[]Diagnostic) []string {
	value, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)

	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for i, element := range v {
			s, ok := element.(string)
			if !ok {
				*diags = append(*diags, Diagnostic{
					PropertyName: fmt.Sprintf("%s[%d]", key, i),
					Message:      "Expected string element.",
				})
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		*diags = append(*diags, Diagnostic{PropertyName: key, Message: "Expected string or array value."})
		return nil
	}
}

func takeBool(m map[string]any, key string, def bool, diags *[]Diagnostic) bool {
	value, ok := m[key]
	if !ok {
		return def
	}
	delete(m, key)
	b, ok := value.(bool)
	if !ok {
		*diags = append(*diags, Diagnostic{PropertyName: key, Message: "Expected boolean value."})
		return def
	}
	return b
}

func takeUint32(m map[string]any, key string, def uint32, diags *[]Diagnostic) uint32 {
	n, ok := takeNumber(m, key, diags)
	if !ok {
		return def
	}
	if n < 0 || n > math.MaxUint32 {
		*diags = append(*diags, Diagnostic{PropertyName: key, Message: "Value out of range."})
		return def
	}
	return uint32(n)
}

func takeUint8(m map[string]any, key string, def uint8, diags *[]Diagnostic) uint8 {
	n, ok := takeNumber(m, key, diags)
	if !ok {
		return def
	}
	if n < 0 || n > math.MaxUint8 {
		*diags = append(*diags, Diagnostic{PropertyName: key, Message: "Value out of range."})
		return def
	}
	return uint8(n)
}

// takeNumber normalizes the numeric types the JSON and YAML decoders
// produce. The second return is false when the key was absent or not a
// whole number.
func takeNumber(m map[string]any, key string, diags *[]Diagnostic) (int64, bool) {
	value, ok := m[key]
	if !ok {
		return 0, false
	}
	delete(m, key)

	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		if v > math.MaxInt64 {
			break
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			break
		}
		return int64(v), true
	}
	*diags = append(*diags, Diagnostic{PropertyName: key, Message: "Expected whole number value."})
	return 0, false
}
