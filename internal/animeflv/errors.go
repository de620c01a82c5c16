package animeflv

import "errors"

var (
	// ErrUpstreamUnavailable means every configured relay strategy failed
	// for a request. It is terminal for the request; callers map it to 503.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound means the page was retrieved but its extraction gate
	// failed (missing title, missing video block). Results carrying this
	// error must never be cached.
	ErrNotFound = errors.New("not found")
)
