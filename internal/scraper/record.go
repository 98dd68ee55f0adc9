package scraper

import (
	"fmt"
	"strings"

	"freshmart/scraper/internal/domain"
)

// BuildRecord joins a raw listing item with the category path of the leaf
// it was found under. Pure mapping: no page interaction, no hidden state,
// identical input always gives an identical record.
//
// An item without a title or detail URL is rejected outright rather than
// emitted half-filled.
func BuildRecord(item domain.RawItem, leafCtx domain.LeafContext) (domain.ProductRecord, error) {
	if strings.TrimSpace(item.Title) == "" {
		return domain.ProductRecord{}, fmt.Errorf("%w: title", ErrMalformedRecord)
	}
	if strings.TrimSpace(item.DetailURL) == "" {
		return domain.ProductRecord{}, fmt.Errorf("%w: detail URL", ErrMalformedRecord)
	}

	return domain.ProductRecord{
		Title:        item.Title,
		RegularPrice: item.PriceText,
		PackageSize:  item.SizeText,
		ProductURL:   item.DetailURL,
		Category:     leafCtx.Category,
		Subcategory:  leafCtx.Subcategory,
		Subcategory2: leafCtx.Subcategory2,
	}, nil
}
