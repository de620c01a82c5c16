package animeflv

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Relay is one retrieval strategy for reaching the source site. An empty
// Prefix means a direct request; otherwise the URL-encoded target is appended
// to the prefix. Order in the configured list is the order of attempts.
type Relay struct {
	Name        string `yaml:"name"`
	Prefix      string `yaml:"prefix"`
	CacheBuster bool   `yaml:"cacheBuster"`
}

type relaysFile struct {
	Relays []Relay `yaml:"relays"`
}

// DefaultRelays returns the built-in strategy order. The relays go first
// because the source site's bot mitigation blocks direct requests more often
// than it blocks the relay services.
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "allorigins", Prefix: "https://api.allorigins.win/raw?url=", CacheBuster: true},
		{Name: "corsproxy", Prefix: "https://corsproxy.io/?"},
		{Name: "direct"},
	}
}

// LoadRelays reads a relay list override from a YAML file. A missing file is
// not an error; the defaults apply.
func LoadRelays(path string) ([]Relay, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultRelays(), nil
	}

	content, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRelays(), nil
		}
		return nil, fmt.Errorf("read relays file: %w", err)
	}

	var file relaysFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse relays file: %w", err)
	}
	if len(file.Relays) == 0 {
		return DefaultRelays(), nil
	}

	for i, relay := range file.Relays {
		if strings.TrimSpace(relay.Name) == "" {
			return nil, fmt.Errorf("relay %d is missing a name", i)
		}
	}

	return file.Relays, nil
}

// RequestURL builds the URL to request for a given target page.
func (r Relay) RequestURL(target string) string {
	if r.Prefix == "" {
		return target
	}
	built := r.Prefix + url.QueryEscape(target)
	if r.CacheBuster {
		built += "&t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return built
}
