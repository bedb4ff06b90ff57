package bridge

import "context"

// ContentType is the media type of synthesized feeds
const ContentType = "application/rss+xml; charset=utf-8"

// Feed is one finished pipeline result
type Feed struct {
	// XML is the complete RSS document
	XML string

	// PodcastID is the upstream identifier the feed was built from
	PodcastID string
}

// FeedBuilder defines the business logic interface for turning a podcast
// identifier into a synthesized feed
type FeedBuilder interface {
	BuildFeed(ctx context.Context, podcastID string) (*Feed, error)
}

// PageFetcher fetches a podcast page from the origin platform
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}
