package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"xyzrss/internal/models"
)

const (
	itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	atomNamespace   = "http://www.w3.org/2005/Atom"
	generatorName   = "xyzrss"

	// feedTTLMinutes is the polling hint handed to feed readers, fixed at
	// one hour regardless of episode cadence.
	feedTTLMinutes = 60
)

// Synthesizer renders the canonical model as an RSS 2.0 document with
// iTunes extensions. It never re-sorts episodes and silently omits
// restricted ones.
type Synthesizer struct {
	// EpisodeLinkBase is the platform origin used to build episode
	// permalinks, e.g. https://www.xiaoyuzhoufm.com
	EpisodeLinkBase string

	// Now supplies the synthesis-time clock; overridable in tests.
	Now func() time.Time
}

// NewSynthesizer creates a synthesizer building permalinks on episodeLinkBase
func NewSynthesizer(episodeLinkBase string) *Synthesizer {
	return &Synthesizer{
		EpisodeLinkBase: strings.TrimSuffix(episodeLinkBase, "/"),
		Now:             time.Now,
	}
}

// rssDocument is the RSS 2.0 root element
type rssDocument struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ItunesNS string     `xml:"xmlns:itunes,attr"`
	AtomNS   string     `xml:"xmlns:atom,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string       `xml:"title"`
	Link           string       `xml:"link"`
	Description    string       `xml:"description"`
	AtomLink       atomLink     `xml:"atom:link"`
	Generator      string       `xml:"generator"`
	TTL            int          `xml:"ttl"`
	PubDate        string       `xml:"pubDate"`
	Image          *rssImage    `xml:"image,omitempty"`
	ItunesAuthor   string       `xml:"itunes:author,omitempty"`
	ItunesImage    *itunesImage `xml:"itunes:image,omitempty"`
	ItunesSubtitle string       `xml:"itunes:subtitle,omitempty"`
	ItunesSummary  string       `xml:"itunes:summary,omitempty"`
	Items          []rssItem    `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type rssItem struct {
	Title          string       `xml:"title"`
	Description    string       `xml:"description"`
	Link           string       `xml:"link"`
	GUID           rssGUID      `xml:"guid"`
	PubDate        string       `xml:"pubDate"`
	Enclosure      rssEnclosure `xml:"enclosure"`
	ItunesDuration string       `xml:"itunes:duration,omitempty"`
	ItunesImage    *itunesImage `xml:"itunes:image,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// SynthesizeRSS builds the complete feed document for a canonical podcast
// and its episodes. feedSelfURL is the public URL of the feed itself and is
// caller-supplied because it encodes the outward-facing route.
func (s *Synthesizer) SynthesizeRSS(podcast models.Podcast, episodes []models.Episode, feedSelfURL string) (string, error) {
	channel := rssChannel{
		Title:       podcast.Title,
		Link:        podcast.SourceURL,
		Description: podcast.Description,
		AtomLink: atomLink{
			Href: feedSelfURL,
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Generator:      generatorName,
		TTL:            feedTTLMinutes,
		ItunesAuthor:   podcast.Author,
		ItunesSubtitle: podcast.Description,
		ItunesSummary:  podcast.Description,
	}

	if podcast.ImageURL != "" {
		channel.Image = &rssImage{
			URL:   podcast.ImageURL,
			Title: podcast.Title,
			Link:  podcast.SourceURL,
		}
		channel.ItunesImage = &itunesImage{Href: podcast.ImageURL}
	}

	for _, ep := range episodes {
		// Gated media stays out of the feed. This is access policy, not
		// a data error, so no diagnostic is produced.
		if ep.IsRestricted {
			continue
		}
		channel.Items = append(channel.Items, s.buildItem(ep))
	}

	// Channel pubDate follows the most recent included episode; an empty
	// feed stamps the synthesis time instead.
	if len(channel.Items) > 0 {
		channel.PubDate = channel.Items[0].PubDate
	} else {
		channel.PubDate = s.Now().UTC().Format(time.RFC1123Z)
	}

	doc := rssDocument{
		Version:  "2.0",
		ItunesNS: itunesNamespace,
		AtomNS:   atomNamespace,
		Channel:  channel,
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal rss document: %w", err)
	}

	return xml.Header + string(out), nil
}

// buildItem renders one included episode
func (s *Synthesizer) buildItem(ep models.Episode) rssItem {
	item := rssItem{
		Title:       ep.Title,
		Description: ep.Description,
		Link:        fmt.Sprintf("%s/episode/%s", s.EpisodeLinkBase, ep.ID),
		GUID: rssGUID{
			IsPermaLink: "false",
			Value:       ep.ID,
		},
		PubDate: ep.PublishedAt.UTC().Format(time.RFC1123Z),
		Enclosure: rssEnclosure{
			URL:  ep.AudioURL,
			Type: ep.AudioMimeType,
		},
	}

	if ep.HasDuration {
		item.ItunesDuration = fmt.Sprintf("%d", ep.DurationSeconds)
	}
	if ep.ImageURL != "" {
		item.ItunesImage = &itunesImage{Href: ep.ImageURL}
	}

	return item
}
