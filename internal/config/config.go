// Package config loads the server settings file. Each line has the form
// "KEY: value"; lines without a colon and lines starting with '#' are
// ignored.
package config

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	IPKey              = "IP"
	PortKey            = "PORT"
	RootKey            = "ROOT"
	DefaultDocumentKey = "DEFAULT_DOCUMENT"
	TimeoutKey         = "TIMEOUT"

	DefaultRoot           = "./public"
	DefaultDocument       = "index.html"
	DefaultTimeoutSeconds = 10
	DefaultConfigFile     = "config.txt"
)

type Config struct {
	path     string
	ip       string
	port     int
	settings map[string]string
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()
	return parse(path, f)
}

// Parse reads settings from r. IP and PORT are mandatory.
func Parse(r io.Reader) (*Config, error) {
	return parse("<reader>", r)
}

func parse(path string, r io.Reader) (*Config, error) {
	c := &Config{path: path, settings: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon == -1 {
			continue
		}
		value := ""
		if colon+2 <= len(line) {
			value = line[colon+2:]
		}
		c.settings[line[:colon]] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	for _, key := range []string{IPKey, PortKey} {
		if !c.Has(key) {
			return nil, fmt.Errorf("config at %s doesn't have %s key", path, key)
		}
	}
	c.ip = c.settings[IPKey]

	port, err := strconv.Atoi(c.settings[PortKey])
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("config at %s has invalid %s %q", path, PortKey, c.settings[PortKey])
	}
	c.port = port

	if value, ok := c.Get(TimeoutKey); ok {
		if seconds, err := strconv.Atoi(value); err != nil || seconds <= 0 {
			return nil, fmt.Errorf("config at %s has invalid %s %q", path, TimeoutKey, value)
		}
	}
	return c, nil
}

func (c *Config) IP() string {
	return c.ip
}

func (c *Config) Port() int {
	return c.port
}

// Addr is the listen address built from IP and PORT.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ip, strconv.Itoa(c.port))
}

func (c *Config) Get(key string) (string, bool) {
	value, ok := c.settings[key]
	return value, ok
}

func (c *Config) Has(key string) bool {
	_, ok := c.settings[key]
	return ok
}

func (c *Config) getOr(key, fallback string) string {
	if value, ok := c.settings[key]; ok && value != "" {
		return value
	}
	return fallback
}

func (c *Config) Root() string {
	return c.getOr(RootKey, DefaultRoot)
}

func (c *Config) DefaultDocument() string {
	return c.getOr(DefaultDocumentKey, DefaultDocument)
}

// Timeout is the keep-alive idle timeout. Parse has already rejected bad
// values.
func (c *Config) Timeout() time.Duration {
	seconds, err := strconv.Atoi(c.getOr(TimeoutKey, strconv.Itoa(DefaultTimeoutSeconds)))
	if err != nil {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}
