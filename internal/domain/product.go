package domain

// RawItem is a product exactly as it appears on a listing page. Price and
// package size stay as display text; numeric parsing is downstream work.
type RawItem struct {
	Title     string `json:"title"`
	PriceText string `json:"price_text"`
	SizeText  string `json:"size_text"`
	DetailURL string `json:"detail_url"`
}

// ProductRecord is a RawItem joined with the category path of the leaf it
// was found under. Immutable once built.
type ProductRecord struct {
	Title        string `json:"product-title"`
	RegularPrice string `json:"regular-price"`
	PackageSize  string `json:"product-package-size"`
	ProductURL   string `json:"product-url"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	Subcategory2 string `json:"subcategory2"`
}
