package scraper

import "net/url"

// absoluteURL resolves href against base. Malformed input falls back to the
// raw href so a bad single link never poisons its whole page.
func absoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
