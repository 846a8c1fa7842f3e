package config

import (
	"pricefeed-api/pkg/feed"
)

// MustLoadFeed loads etc/feed.yaml from the project root and panics on error.
// FeedConfig falls back to it when the main file has no Feed section.
func MustLoadFeed() *feed.Config {
	return feed.MustLoad()
}
