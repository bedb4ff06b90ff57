package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"xyzrss/internal/models"
	"xyzrss/pkg/errors"
)

// publishedAtFields lists the timestamp field names observed across upstream
// payload variants, in preference order. The first parseable one wins.
var publishedAtFields = []string{"pubDate", "publishedAt", "publishDate"}

// NormalizedFeed is the result of normalizing one raw payload: exactly one
// podcast, its usable episodes in upstream order, and a note per episode
// that had to be dropped.
type NormalizedFeed struct {
	Podcast  models.Podcast
	Episodes []models.Episode

	// Dropped records data-quality issues (missing audio, unparseable
	// dates). They never fail the run; the caller decides whether to log
	// them.
	Dropped []string
}

// Normalize maps the raw extracted payload into the canonical model.
// sourceURL is the canonical podcast page URL and becomes the channel link.
// Normalization is pure: no I/O, and the same payload always yields the
// same result. A payload matching none of the known layouts fails with
// STRUCTURAL_MISMATCH.
func Normalize(raw json.RawMessage, sourceURL string) (*NormalizedFeed, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, errors.StructuralMismatch("payload root is not an object: " + err.Error())
	}

	var (
		podcastNode map[string]interface{}
		episodeList []interface{}
		matched     bool
	)
	for _, sp := range shapeProbes {
		if p, eps, ok := sp.probe(root); ok {
			podcastNode, episodeList, matched = p, eps, true
			break
		}
	}
	if !matched {
		return nil, errors.StructuralMismatch("no known layout contains an episode list")
	}

	podcast := normalizePodcast(podcastNode, sourceURL)

	result := &NormalizedFeed{Podcast: podcast}
	seen := make(map[string]int)
	for i, node := range episodeList {
		epNode, ok := asMap(node)
		if !ok {
			result.Dropped = append(result.Dropped, fmt.Sprintf("episode[%d]: not an object", i))
			continue
		}

		ep, reason := normalizeEpisode(epNode, podcast.ImageURL)
		if reason != "" {
			result.Dropped = append(result.Dropped, fmt.Sprintf("episode[%d]: %s", i, reason))
			continue
		}

		// Duplicate ids: last-seen wins, keeping the position of the
		// first occurrence.
		if pos, dup := seen[ep.ID]; dup {
			result.Episodes[pos] = ep
			continue
		}
		seen[ep.ID] = len(result.Episodes)
		result.Episodes = append(result.Episodes, ep)
	}

	return result, nil
}

// normalizePodcast maps channel-level fields, defaulting whatever the
// upstream omitted.
func normalizePodcast(node map[string]interface{}, sourceURL string) models.Podcast {
	title := stringField(node, "title")
	if title == "" {
		title = models.DefaultPodcastTitle
	}

	return models.Podcast{
		Title:       title,
		SourceURL:   sourceURL,
		Author:      stringField(node, "author"),
		ImageURL:    imageURL(node["image"]),
		Description: stringField(node, "description"),
	}
}

// normalizeEpisode maps one raw episode node. A non-empty reason means the
// episode is unusable and must be dropped.
func normalizeEpisode(node map[string]interface{}, podcastImage string) (models.Episode, string) {
	// Prefer the short-code id over any numeric id. A numeric id alone is
	// still usable; it is stringified for the guid.
	id := stringField(node, "eid")
	if id == "" {
		id = stringField(node, "id")
	}
	if id == "" {
		if n, ok := numberField(node, "id"); ok {
			id = strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	if id == "" {
		return models.Episode{}, "no usable id"
	}

	audioURL := audioSource(node)
	if audioURL == "" {
		return models.Episode{}, "no audio URL"
	}

	publishedAt, ok := publishedTime(node)
	if !ok {
		return models.Episode{}, "no parseable publish date"
	}

	title := stringField(node, "title")
	if title == "" {
		title = models.DefaultEpisodeTitle
	}

	description := stringField(node, "shownotes")
	if description == "" {
		description = stringField(node, "description")
	}

	mimeType := models.DefaultAudioMimeType
	if media, ok := asMap(node["media"]); ok {
		if mt := stringField(media, "mimeType"); mt != "" {
			mimeType = mt
		}
	}

	ep := models.Episode{
		ID:            id,
		Title:         title,
		Description:   description,
		PublishedAt:   publishedAt,
		AudioURL:      audioURL,
		AudioMimeType: mimeType,
		ImageURL:      episodeImage(node, podcastImage),
		IsRestricted:  truthy(node["isPrivateMedia"]) || truthy(node["isPrivate"]),
	}

	// Duration only when upstream gives numeric seconds; never guessed.
	if secs, ok := numberField(node, "duration"); ok {
		ep.DurationSeconds = int(secs)
		ep.HasDuration = true
	}

	return ep, ""
}

// audioSource probes the known audio locations in preference order.
func audioSource(node map[string]interface{}) string {
	if enclosure, ok := asMap(node["enclosure"]); ok {
		if u := stringField(enclosure, "url"); u != "" {
			return u
		}
	}
	if media, ok := asMap(node["media"]); ok {
		if source, ok := asMap(media["source"]); ok {
			if u := stringField(source, "url"); u != "" {
				return u
			}
		}
	}
	return ""
}

// episodeImage resolves the item image: the episode's own image first, then
// the image of the podcast object embedded in the episode, then the channel
// image.
func episodeImage(node map[string]interface{}, podcastImage string) string {
	if u := imageURL(node["image"]); u != "" {
		return u
	}
	if embedded, ok := asMap(node["podcast"]); ok {
		if u := imageURL(embedded["image"]); u != "" {
			return u
		}
	}
	return podcastImage
}

// imageURL accepts either a plain URL string or the platform's image object
// and returns the best available URL.
func imageURL(v interface{}) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]interface{}:
		for _, key := range []string{"middlePicUrl", "picUrl", "largePicUrl", "smallPicUrl"} {
			if u := stringField(img, key); u != "" {
				return u
			}
		}
	}
	return ""
}

// publishedTime probes the known timestamp fields and formats.
func publishedTime(node map[string]interface{}) (time.Time, bool) {
	for _, field := range publishedAtFields {
		v, exists := node[field]
		if !exists {
			continue
		}
		if ts, ok := parseTimestamp(v); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseTimestamp accepts ISO-8601 strings and epoch numbers (seconds or
// milliseconds).
func parseTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC1123Z, time.RFC1123} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	case float64:
		if t <= 0 {
			return time.Time{}, false
		}
		if t > 1e12 { // epoch milliseconds
			return time.UnixMilli(int64(t)).UTC(), true
		}
		return time.Unix(int64(t), 0).UTC(), true
	}
	return time.Time{}, false
}

// stringField returns the field's value when it is a non-empty string
func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// numberField returns the field's value when it is a JSON number
func numberField(m map[string]interface{}, key string) (float64, bool) {
	n, ok := m[key].(float64)
	return n, ok
}

// truthy maps the upstream flag variants to a bool: boolean true, non-zero
// numbers and "true"/"1" strings all count.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "true" || t == "1"
	}
	return false
}
