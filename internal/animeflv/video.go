package animeflv

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aniview/anime-gateway/internal/models"
)

var (
	videosObjectPattern = regexp.MustCompile(`(?s)var videos = (\{.*?\});`)
	iframeSrcPattern    = regexp.MustCompile(`src="([^"]+)"`)
)

type rawVideoOption struct {
	Server string `json:"server"`
	Code   string `json:"code"`
}

// ParseVideoServers extracts the playback options for one episode page. The
// page embeds them as a script object keyed by subtitle track; only the SUB
// track is used. A missing block or an empty SUB list is a failure, not an
// empty result.
func ParseVideoServers(body string) ([]models.VideoServer, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse episode page: %w", err)
	}

	script := findScriptContaining(doc, "var videos =")
	if script == "" {
		return nil, fmt.Errorf("%w: no embedded video block", ErrNotFound)
	}

	match := videosObjectPattern.FindStringSubmatch(script)
	if len(match) < 2 {
		return nil, fmt.Errorf("%w: malformed embedded video block", ErrNotFound)
	}

	var tracks map[string][]rawVideoOption
	if err := json.Unmarshal([]byte(match[1]), &tracks); err != nil {
		return nil, fmt.Errorf("decode embedded video block: %w", err)
	}

	servers := make([]models.VideoServer, 0, len(tracks["SUB"]))
	for _, option := range tracks["SUB"] {
		servers = append(servers, models.VideoServer{
			Name: option.Server,
			URL:  cleanVideoURL(option.Code),
		})
	}

	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: no SUB servers", ErrNotFound)
	}

	return servers, nil
}

// cleanVideoURL unwraps embed codes delivered as full iframe tags; plain
// URLs pass through untouched.
func cleanVideoURL(code string) string {
	if !strings.Contains(code, "<iframe") {
		return code
	}
	match := iframeSrcPattern.FindStringSubmatch(code)
	if len(match) < 2 {
		return code
	}
	return match[1]
}
