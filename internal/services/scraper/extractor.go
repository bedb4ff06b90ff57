package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"xyzrss/pkg/errors"
)

// nextDataSelector matches the script element Next.js uses to embed
// server-rendered state. The platform ships exactly one per page.
const nextDataSelector = "script#__NEXT_DATA__"

// ExtractPayload locates the embedded data element in html and returns its
// JSON content. A missing element and unparseable content are reported as
// distinct MALFORMED_PAGE reasons so callers can tell a markup change from
// a payload change.
func ExtractPayload(html string) (json.RawMessage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.MalformedPage("parse html: " + err.Error())
	}

	sel := doc.Find(nextDataSelector)
	if sel.Length() == 0 {
		return nil, errors.MalformedPage("embedded data element not found")
	}

	// Take the text content verbatim. Trimming or decoding here could
	// corrupt the JSON.
	raw := sel.First().Text()
	if !json.Valid([]byte(raw)) {
		return nil, errors.MalformedPage("embedded payload is not valid JSON")
	}

	return json.RawMessage(raw), nil
}
