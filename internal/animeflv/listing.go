package animeflv

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aniview/anime-gateway/internal/models"
)

// ParseSearchListing extracts catalog cards from a search results page.
// Cards missing an id or a title are dropped; document order is preserved.
func ParseSearchListing(body string, baseURL string) ([]models.Anime, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return extractCards(doc.Find(".ListAnimes li"), baseURL), nil
}

// ParseBrowseListing extracts catalog cards from a browse/filter page.
func ParseBrowseListing(body string, baseURL string) ([]models.Anime, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse browse page: %w", err)
	}
	return extractCards(doc.Find("article.Anime"), baseURL), nil
}

func extractCards(cards *goquery.Selection, baseURL string) []models.Anime {
	items := make([]models.Anime, 0, cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		href := card.Find("a").First().AttrOr("href", "")
		anime := models.Anime{
			ID:     animeIDFromHref(href),
			Title:  strings.TrimSpace(card.Find(".Title").Last().Text()),
			Poster: absoluteURL(baseURL, card.Find("img").First().AttrOr("src", "")),
			Type:   strings.TrimSpace(card.Find(".Type").First().Text()),
			Rating: strings.TrimSpace(card.Find(".Vts").First().Text()),
		}
		if anime.ID == "" || anime.Title == "" {
			return
		}
		items = append(items, anime)
	})

	return items
}

// animeIDFromHref pulls the catalog slug out of an anchor target, e.g.
// "/anime/naruto" -> "naruto".
func animeIDFromHref(href string) string {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return ""
	}
	if _, after, found := strings.Cut(trimmed, "/anime/"); found {
		return strings.Trim(after, "/")
	}
	trimmed = strings.Trim(trimmed, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// absoluteURL rewrites protocol-relative and root-relative poster paths
// against the source site's origin.
func absoluteURL(baseURL string, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return trimmed
	}
	return base.ResolveReference(parsed).String()
}
