package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// appName scopes torwatch's XDG directories.
const appName = "torwatch"

// Default control port address and the control port itself, per Tor's
// conventional torrc defaults (9151 is the Tor Browser control port; 9051
// is the system tor default).
const (
	defaultHost = "127.0.0.1"
	defaultPort = 9151
)

var errNoHost = errors.New("config: host must not be empty")

// Config holds the flags cobra populates in main.go.
type Config struct {
	Host       string
	Port       int
	Password   string
	LocaleFile string
}

// NewConfig returns a Config with torwatch's defaults.
func NewConfig() *Config {
	return &Config{
		Host: defaultHost,
		Port: defaultPort,
	}
}

// Validate checks the config before anything is dialed.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errNoHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	return nil
}

// Addr returns the "host:port" form control.Registry.Open expects.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// defaultLocaleFile looks for a locale override file in torwatch's XDG
// config directory, the way the example pack's tools locate an optional
// config file: present if the user dropped one there, otherwise absent
// and the caller falls back to the embedded table.
func defaultLocaleFile() string {
	path := filepath.Join(xdg.ConfigHome, appName, "locales.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
