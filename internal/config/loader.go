package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadFile reads a configuration file into the raw key/value map that
// Resolve consumes. JSON files may contain comments and trailing commas
// (JSONC); .yaml/.yml files are parsed as YAML. ${VAR} references are
// interpolated from the environment before parsing.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	interpolated := interpolateEnv(string(data))

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(interpolated), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON([]byte(interpolated)), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON in %s: %w", path, err)
		}
	}
	return raw, nil
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is (not expanded).
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}
