package scraper

import "errors"

// ErrMissingAffordance marks a structural element the site was expected to
// render but did not. Local failure: the current unit of work is skipped.
var ErrMissingAffordance = errors.New("expected page structure is missing")

// ErrMalformedRecord marks a listing item that lacks its required fields.
// A dropped record is preferable to a silently incomplete one.
var ErrMalformedRecord = errors.New("item is missing required fields")
