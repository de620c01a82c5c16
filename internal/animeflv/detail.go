package animeflv

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aniview/anime-gateway/internal/models"
)

var episodesArrayPattern = regexp.MustCompile(`(?s)var episodes = (\[.*?\]);`)

// ParseDetail extracts the full record for one anime page. The title heading
// is the success gate: without it the whole extraction fails as not-found and
// nothing may be cached.
func ParseDetail(body string, id string, baseURL string) (*models.AnimeDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse anime page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1.Title").First().Text())
	if title == "" {
		return nil, fmt.Errorf("%w: anime %s has no title heading", ErrNotFound, id)
	}

	detail := &models.AnimeDetail{
		ID:          id,
		Title:       title,
		Poster:      absoluteURL(baseURL, doc.Find(".Image figure img").First().AttrOr("src", "")),
		Description: strings.TrimSpace(doc.Find(".Description p").First().Text()),
		Type:        strings.TrimSpace(doc.Find(".Type").First().Text()),
		Status:      strings.TrimSpace(doc.Find(".AnmStts span").First().Text()),
		Genres:      make([]string, 0),
		Episodes:    make([]models.Episode, 0),
	}

	doc.Find("nav.Nvgnrs a").Each(func(_ int, tag *goquery.Selection) {
		genre := strings.TrimSpace(tag.Text())
		if genre != "" {
			detail.Genres = append(detail.Genres, genre)
		}
	})

	detail.Episodes = extractEpisodes(doc)

	return detail, nil
}

// extractEpisodes reads the embedded episode index. The source page carries
// it as a script assignment of [episodeNumber, episodeId] tuples, newest
// first; the result is reversed to oldest-first.
func extractEpisodes(doc *goquery.Document) []models.Episode {
	script := findScriptContaining(doc, "var episodes =")
	if script == "" {
		return []models.Episode{}
	}

	match := episodesArrayPattern.FindStringSubmatch(script)
	if len(match) < 2 {
		return []models.Episode{}
	}

	var tuples [][]any
	if err := json.Unmarshal([]byte(match[1]), &tuples); err != nil {
		return []models.Episode{}
	}

	episodes := make([]models.Episode, 0, len(tuples))
	for _, tuple := range tuples {
		if len(tuple) < 2 {
			continue
		}
		number, ok := asNumber(tuple[0])
		if !ok {
			continue
		}
		episodes = append(episodes, models.Episode{
			Number:    number,
			EpisodeID: asString(tuple[1]),
		})
	}

	for i, j := 0, len(episodes)-1; i < j; i, j = i+1, j-1 {
		episodes[i], episodes[j] = episodes[j], episodes[i]
	}

	return episodes
}

func findScriptContaining(doc *goquery.Document, marker string) string {
	var found string
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if strings.Contains(text, marker) {
			found = text
			return false
		}
		return true
	})
	return found
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
