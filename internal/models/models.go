package models

// Anime is a single catalog card from a listing or search page. ID is the
// source site's URL slug and is the join key for detail and video lookups.
type Anime struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Poster string `json:"poster"`
	Type   string `json:"type,omitempty"`
	Rating string `json:"rating,omitempty"`
}

// Episode references one episode of an anime. EpisodeID is the source's
// opaque per-episode identifier and is not in the same namespace as Anime.ID.
type Episode struct {
	Number    float64 `json:"number"`
	EpisodeID string  `json:"episodeId"`
}

type AnimeDetail struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Poster      string    `json:"poster"`
	Description string    `json:"description"`
	Type        string    `json:"type,omitempty"`
	Status      string    `json:"status,omitempty"`
	Genres      []string  `json:"genres"`
	Episodes    []Episode `json:"episodes"`
}

// VideoServer is a resolved playback option. The URLs are short-lived grants
// from the hosting servers, so server lists are never persisted.
type VideoServer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type HomePage struct {
	Trending    []Anime      `json:"trending"`
	NewReleases []Anime      `json:"newReleases"`
	Classics    []Anime      `json:"classics"`
	Featured    *AnimeDetail `json:"featured,omitempty"`
}
