package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/moye/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML configuration
// file mapping flag names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are flag names. Hyphens may be written as underscores:
//
//	max-depth: 200
//	log_level: debug
//	load:
//	  - prelude.moye
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		// Unreadable config is ignored.
		log.Warn("ignoring configuration file", slog.Any("error", err))

		return config{}, nil
	}

	return makeConfig(values), nil
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// makeConfig normalizes decoded YAML values into the forms kong parses.
func makeConfig(values map[string]any) config {
	c := make(config, len(values))

	for key, val := range values {
		c[strings.ReplaceAll(key, "_", "-")] = flagString(val)
	}

	return c
}

// flagString converts a decoded scalar to the form kong expects. Kong
// requires numbers as strings for parsing, including sequence items.
func flagString(val any) any {
	switch v := val.(type) {
	case nil, bool, string:
		return v

	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}

		return items

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
