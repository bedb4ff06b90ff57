package bridge

import (
	"context"
	"fmt"
	"log"
	"strings"

	"xyzrss/internal/services/feed"
	"xyzrss/internal/services/scraper"
)

// Service runs the full pipeline: fetch the podcast page, extract the
// embedded payload, normalize it into the canonical model, and synthesize
// the RSS document. One invocation is fully sequential; invocations for
// different podcasts are independent.
type Service struct {
	fetcher     PageFetcher
	synthesizer *feed.Synthesizer
	baseURL     string
	selfURL     string
}

// NewService creates a new bridge service. baseURL is the platform origin,
// selfURL the public base URL of this service.
func NewService(fetcher PageFetcher, baseURL, selfURL string) *Service {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Service{
		fetcher:     fetcher,
		synthesizer: feed.NewSynthesizer(baseURL),
		baseURL:     baseURL,
		selfURL:     strings.TrimSuffix(selfURL, "/"),
	}
}

// BuildFeed builds the RSS feed for one podcast identifier
func (s *Service) BuildFeed(ctx context.Context, podcastID string) (*Feed, error) {
	pageURL := fmt.Sprintf("%s/podcast/%s", s.baseURL, podcastID)

	html, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	raw, err := scraper.ExtractPayload(html)
	if err != nil {
		return nil, err
	}

	normalized, err := feed.Normalize(raw, pageURL)
	if err != nil {
		return nil, err
	}

	// Dropped episodes are data-quality issues, not pipeline failures; a
	// feed with most of its episodes intact is still useful.
	for _, note := range normalized.Dropped {
		log.Printf("[WARN] podcast %s: dropped %s", podcastID, note)
	}

	selfURL := fmt.Sprintf("%s/rss/xyz/%s", s.selfURL, podcastID)
	xmlDoc, err := s.synthesizer.SynthesizeRSS(normalized.Podcast, normalized.Episodes, selfURL)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] podcast %s: synthesized feed with %d episode(s)", podcastID, len(normalized.Episodes))

	return &Feed{XML: xmlDoc, PodcastID: podcastID}, nil
}
