package feed

// A shapeProbe attempts to locate the podcast object and its episode list
// in one known upstream payload layout. Probes are tried in priority order;
// the first one that yields an episode array wins. Adding tolerance for a
// new upstream layout means adding a probe, not touching existing ones.
type shapeProbe struct {
	name  string
	probe func(root map[string]interface{}) (podcast map[string]interface{}, episodes []interface{}, ok bool)
}

var shapeProbes = []shapeProbe{
	{name: "next-page-props", probe: probeNextPageProps},
	{name: "nested-podcast", probe: probeNestedPodcast},
	{name: "sibling-episodes", probe: probeSiblingEpisodes},
}

// probeNextPageProps handles the full Next.js document:
// props.pageProps.podcast with a nested episodes array.
func probeNextPageProps(root map[string]interface{}) (map[string]interface{}, []interface{}, bool) {
	props, ok := asMap(root["props"])
	if !ok {
		return nil, nil, false
	}
	pageProps, ok := asMap(props["pageProps"])
	if !ok {
		return nil, nil, false
	}
	return probeNestedPodcast(pageProps)
}

// probeNestedPodcast handles a bare pageProps object: a podcast key whose
// value carries the episodes array.
func probeNestedPodcast(root map[string]interface{}) (map[string]interface{}, []interface{}, bool) {
	podcast, ok := asMap(root["podcast"])
	if !ok {
		return nil, nil, false
	}
	episodes, ok := asSlice(podcast["episodes"])
	if !ok {
		return nil, nil, false
	}
	return podcast, episodes, true
}

// probeSiblingEpisodes handles the flattened layout: a top-level episodes
// array next to a sibling podcast object.
func probeSiblingEpisodes(root map[string]interface{}) (map[string]interface{}, []interface{}, bool) {
	episodes, ok := asSlice(root["episodes"])
	if !ok {
		return nil, nil, false
	}
	// The sibling podcast object may be absent; channel fields then fall
	// back to defaults.
	podcast, _ := asMap(root["podcast"])
	if podcast == nil {
		podcast = map[string]interface{}{}
	}
	return podcast, episodes, true
}

// asMap narrows an untyped payload node to an object
func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// asSlice narrows an untyped payload node to an array
func asSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}
