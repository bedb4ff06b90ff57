package feed

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xyzrss/internal/models"
	"xyzrss/pkg/errors"
)

const sourceURL = "https://www.xiaoyuzhoufm.com/podcast/abc123"

func TestNormalizeShapeVariants(t *testing.T) {
	episode := `{
		"eid": "e1",
		"title": "Ep1",
		"pubDate": "2024-01-01T00:00:00Z",
		"enclosure": {"url": "http://x/1.mp3"}
	}`

	// The same podcast under the three observed layouts.
	variants := map[string]string{
		"episodes under page-props wrapper": fmt.Sprintf(
			`{"props":{"pageProps":{"podcast":{"title":"Show","episodes":[%s]}}}}`, episode),
		"episodes nested under podcast": fmt.Sprintf(
			`{"podcast":{"title":"Show","episodes":[%s]}}`, episode),
		"episodes as sibling array": fmt.Sprintf(
			`{"podcast":{"title":"Show"},"episodes":[%s]}`, episode),
	}

	for name, payload := range variants {
		t.Run(name, func(t *testing.T) {
			result, err := Normalize(json.RawMessage(payload), sourceURL)

			require.NoError(t, err)
			assert.Equal(t, "Show", result.Podcast.Title)
			require.Len(t, result.Episodes, 1)
			assert.Equal(t, "e1", result.Episodes[0].ID)
			assert.Equal(t, "Ep1", result.Episodes[0].Title)
			assert.Equal(t, "http://x/1.mp3", result.Episodes[0].AudioURL)
		})
	}
}

func TestNormalizeStructuralMismatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty object", payload: `{}`},
		{name: "podcast without episode array", payload: `{"podcast":{"title":"Show"}}`},
		{name: "episodes not an array", payload: `{"episodes":{"e1":{}}}`},
		{name: "root not an object", payload: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(json.RawMessage(tt.payload), sourceURL)

			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeStructuralMismatch, errors.GetCode(err))
		})
	}
}

func TestNormalizeDropsEpisodeWithoutAudio(t *testing.T) {
	payload := `{"podcast":{"title":"Show","episodes":[
		{"eid":"good","title":"Has audio","pubDate":"2024-01-02T00:00:00Z","enclosure":{"url":"http://x/good.mp3"}},
		{"eid":"bad","title":"No audio","pubDate":"2024-01-01T00:00:00Z"}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	// The run still succeeds: podcast metadata plus the usable episode.
	require.NoError(t, err)
	assert.Equal(t, "Show", result.Podcast.Title)
	require.Len(t, result.Episodes, 1)
	assert.Equal(t, "good", result.Episodes[0].ID)
	require.Len(t, result.Dropped, 1)
	assert.Contains(t, result.Dropped[0], "no audio URL")
}

func TestNormalizeDropsEpisodeWithUnparseableDate(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"eid":"e1","pubDate":"not a date","enclosure":{"url":"http://x/1.mp3"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	assert.Empty(t, result.Episodes)
	require.Len(t, result.Dropped, 1)
	assert.Contains(t, result.Dropped[0], "publish date")
}

func TestNormalizeTimestampVariants(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		want    time.Time
	}{
		{
			name:  "RFC3339 string",
			field: `"pubDate":"2024-03-05T10:30:00Z"`,
			want:  time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "ISO with millis",
			field: `"publishedAt":"2024-03-05T10:30:00.000Z"`,
			want:  time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "epoch seconds",
			field: `"publishDate":1709634600`,
			want:  time.Unix(1709634600, 0).UTC(),
		},
		{
			name:  "epoch milliseconds",
			field: `"pubDate":1709634600000`,
			want:  time.UnixMilli(1709634600000).UTC(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := fmt.Sprintf(`{"podcast":{"episodes":[
				{"eid":"e1",%s,"enclosure":{"url":"http://x/1.mp3"}}
			]}}`, tt.field)

			result, err := Normalize(json.RawMessage(payload), sourceURL)

			require.NoError(t, err)
			require.Len(t, result.Episodes, 1)
			assert.True(t, tt.want.Equal(result.Episodes[0].PublishedAt))
		})
	}
}

func TestNormalizePrefersShortCodeID(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"eid":"shortcode","id":12345,"pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"http://x/1.mp3"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	require.Len(t, result.Episodes, 1)
	assert.Equal(t, "shortcode", result.Episodes[0].ID)
}

func TestNormalizeNumericIDFallback(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"id":12345,"title":"Numbered","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"http://x/1.mp3"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	require.Len(t, result.Episodes, 1)
	assert.Equal(t, "12345", result.Episodes[0].ID)
	assert.Empty(t, result.Dropped)
}

func TestNormalizeDuplicateIDsLastSeenWins(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"eid":"e1","title":"First","pubDate":"2024-01-03T00:00:00Z","enclosure":{"url":"http://x/first.mp3"}},
		{"eid":"e2","title":"Other","pubDate":"2024-01-02T00:00:00Z","enclosure":{"url":"http://x/other.mp3"}},
		{"eid":"e1","title":"Second","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"http://x/second.mp3"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	require.Len(t, result.Episodes, 2)
	// Position of the first occurrence, content of the last.
	assert.Equal(t, "e1", result.Episodes[0].ID)
	assert.Equal(t, "Second", result.Episodes[0].Title)
	assert.Equal(t, "http://x/second.mp3", result.Episodes[0].AudioURL)
	assert.Equal(t, "e2", result.Episodes[1].ID)
}

func TestNormalizeImageFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		episode string
		want    string
	}{
		{
			name:    "own image object",
			episode: `{"eid":"e1","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"},"image":{"middlePicUrl":"http://img/own.jpg"}}`,
			want:    "http://img/own.jpg",
		},
		{
			name:    "own image as plain string",
			episode: `{"eid":"e1","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"},"image":"http://img/plain.jpg"}`,
			want:    "http://img/plain.jpg",
		},
		{
			name:    "embedded podcast image",
			episode: `{"eid":"e1","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"},"podcast":{"image":{"picUrl":"http://img/embedded.jpg"}}}`,
			want:    "http://img/embedded.jpg",
		},
		{
			name:    "channel image fallback",
			episode: `{"eid":"e1","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}}`,
			want:    "http://img/channel.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := fmt.Sprintf(`{"podcast":{"image":{"middlePicUrl":"http://img/channel.jpg"},"episodes":[%s]}}`, tt.episode)

			result, err := Normalize(json.RawMessage(payload), sourceURL)

			require.NoError(t, err)
			require.Len(t, result.Episodes, 1)
			assert.Equal(t, tt.want, result.Episodes[0].ImageURL)
		})
	}
}

func TestNormalizeDuration(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"eid":"e1","duration":1800,"pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}},
		{"eid":"e2","duration":"30:00","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}},
		{"eid":"e3","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	require.Len(t, result.Episodes, 3)

	// Only numeric seconds are trusted; anything else stays absent.
	assert.True(t, result.Episodes[0].HasDuration)
	assert.Equal(t, 1800, result.Episodes[0].DurationSeconds)
	assert.False(t, result.Episodes[1].HasDuration)
	assert.False(t, result.Episodes[2].HasDuration)
}

func TestNormalizeRestrictedFlagVariants(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"eid":"e1","isPrivateMedia":true,"pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}},
		{"eid":"e2","isPrivate":true,"pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}},
		{"eid":"e3","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"u"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	require.Len(t, result.Episodes, 3)
	assert.True(t, result.Episodes[0].IsRestricted)
	assert.True(t, result.Episodes[1].IsRestricted)
	assert.False(t, result.Episodes[2].IsRestricted)
}

func TestNormalizeDefaultsAndFallbacks(t *testing.T) {
	payload := `{"podcast":{"episodes":[
		{"eid":"e1","pubDate":"2024-01-01T00:00:00Z","media":{"source":{"url":"http://x/via-media.m4a"},"mimeType":"audio/mp4"}}
	]}}`

	result, err := Normalize(json.RawMessage(payload), sourceURL)

	require.NoError(t, err)
	assert.Equal(t, models.DefaultPodcastTitle, result.Podcast.Title)
	assert.Equal(t, sourceURL, result.Podcast.SourceURL)
	require.Len(t, result.Episodes, 1)

	ep := result.Episodes[0]
	assert.Equal(t, models.DefaultEpisodeTitle, ep.Title)
	assert.Equal(t, "http://x/via-media.m4a", ep.AudioURL)
	assert.Equal(t, "audio/mp4", ep.AudioMimeType)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	payload := `{"podcast":{"title":"Show","episodes":[
		{"eid":"e1","title":"A","pubDate":"2024-01-02T00:00:00Z","enclosure":{"url":"http://x/a.mp3"}},
		{"eid":"e2","title":"B","pubDate":"2024-01-01T00:00:00Z","enclosure":{"url":"http://x/b.mp3"}}
	]}}`

	first, err := Normalize(json.RawMessage(payload), sourceURL)
	require.NoError(t, err)
	second, err := Normalize(json.RawMessage(payload), sourceURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
