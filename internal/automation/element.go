package automation

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLElement is an Element backed by a parsed HTML snapshot. The chromedp
// driver builds these from the live DOM's outer HTML; test drivers build
// them straight from fixtures.
type HTMLElement struct {
	sel *goquery.Selection

	// Selector and Index locate the click target in the live page via
	// document.querySelectorAll(Selector)[Index]. Empty for elements that
	// were produced by Find and are not click targets.
	Selector string
	Index    int
}

// Snapshot parses html and returns its root element.
func Snapshot(html string) (*HTMLElement, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page snapshot: %w", err)
	}
	return &HTMLElement{sel: doc.Selection}, nil
}

// Select runs selector against the snapshot root and returns addressable
// elements, each carrying its querySelectorAll position for later clicks.
func (e *HTMLElement) Select(selector string) []*HTMLElement {
	var out []*HTMLElement
	e.sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		out = append(out, &HTMLElement{sel: s, Selector: selector, Index: i})
	})
	return out
}

func (e *HTMLElement) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *HTMLElement) Attr(name string) string {
	val, _ := e.sel.Attr(name)
	return val
}

func (e *HTMLElement) Find(selector string) []Element {
	var out []Element
	e.sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		out = append(out, &HTMLElement{sel: s})
	})
	return out
}
