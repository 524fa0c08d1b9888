// Package envfile parses KEY=VALUE variable files used to inject component
// parameters into a local run, mirroring how the host seeds the process
// environment from a component's configured variables.
package envfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parse reads a vars file. Blank lines and '#' comments are skipped, a
// leading "export " is tolerated, and simple single- or double-quoted
// values are unquoted. A line without '=' or with an empty key is an error.
func Parse(data []byte) (map[string]string, error) {
	vars := make(map[string]string)
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("invalid env line (expected KEY=VALUE): %q", raw)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid env line (empty key): %q", raw)
		}
		vars[key] = unquote(strings.TrimSpace(value))
	}
	return vars, nil
}

// ParseFile reads and parses a vars file from disk.
func ParseFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user-supplied vars file
	if err != nil {
		return nil, fmt.Errorf("read vars file: %w", err)
	}
	vars, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// unquote strips one level of matching quotes. Malformed quoting falls back
// to the raw value.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	switch {
	case value[0] == '"' && value[len(value)-1] == '"':
		if s, err := strconv.Unquote(value); err == nil {
			return s
		}
	case value[0] == '\'' && value[len(value)-1] == '\'':
		return value[1 : len(value)-1]
	}
	return value
}
