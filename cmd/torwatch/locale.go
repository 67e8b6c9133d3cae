package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// builtinLocales is a small embedded table covering the countries common
// Tor exit relays sit in. Anything missing falls back to the uppercased
// code, matching the display contract.
var builtinLocales = map[string]string{
	"US": "United States",
	"DE": "Germany",
	"NL": "Netherlands",
	"FR": "France",
	"SE": "Sweden",
	"CH": "Switzerland",
	"GB": "United Kingdom",
	"CA": "Canada",
	"RO": "Romania",
	"FI": "Finland",
	"AT": "Austria",
	"JP": "Japan",
	"SG": "Singapore",
}

// localeTable resolves a 2-letter country code to a display name, falling
// back to the uppercased code when nothing matches.
type localeTable struct {
	overrides map[string]string
}

// loadLocaleTable builds a localeTable from the embedded defaults,
// optionally merged with overrides from a YAML file of the form:
//
//	RO: Romania
//	NL: The Netherlands
func loadLocaleTable(path string) (*localeTable, error) {
	t := &localeTable{overrides: map[string]string{}}
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("locale file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t.overrides); err != nil {
		return nil, fmt.Errorf("locale file: parse %s: %w", path, err)
	}
	return t, nil
}

// Name returns the display name for a country code. An empty code yields
// "unknown".
func (t *localeTable) Name(code string) string {
	code = strings.ToUpper(code)
	if code == "" {
		return "unknown"
	}
	if t != nil {
		if name, ok := t.overrides[code]; ok {
			return name
		}
	}
	if name, ok := builtinLocales[code]; ok {
		return name
	}
	return code
}
