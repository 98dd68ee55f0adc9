package scraper

import (
	"context"
	"testing"
	"time"

	"freshmart/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootPage = `
<html><body>
<nav class="category-nav">
  <ul>
    <li><a class="category-link" href="/shop/produce">Produce</a></li>
    <li><a class="category-link" href="/shop/bakery">Bakery</a></li>
    <li><a class="category-link" href="/shop/frozen">Frozen</a></li>
  </ul>
</nav>
</body></html>`

const producePage = `
<html><body>
<ul class="subcategory-list">
  <li><a class="subcategory-toggle" href="#">Fresh Fruit</a></li>
  <li><a class="subcategory-toggle" href="#">Vegetables</a></li>
</ul>
</body></html>`

func TestListCategoriesDisplayOrder(t *testing.T) {
	driver := newFakeDriver(map[string]string{"https://shop.test": rootPage})
	extractor := NewTreeExtractor(driver, testSite(), time.Second)

	idxs, warnings, err := extractor.ListCategories(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, idxs, 3)

	var names []string
	for _, idx := range idxs {
		node := extractor.Tree.Node(idx)
		assert.Equal(t, domain.LevelCategory, node.Level)
		assert.Equal(t, domain.NoParent, node.Parent)
		names = append(names, node.Name)
	}
	assert.Equal(t, []string{"Produce", "Bakery", "Frozen"}, names)
	assert.Equal(t, "https://shop.test/shop/produce", extractor.Tree.Node(idxs[0]).URL)
}

func TestListCategoriesAllowListNormalization(t *testing.T) {
	driver := newFakeDriver(map[string]string{"https://shop.test": rootPage})
	extractor := NewTreeExtractor(driver, testSite(), time.Second)

	idxs, warnings, err := extractor.ListCategories(context.Background(), []string{"  PRODUCE ", "frozen", "Deli"})
	require.NoError(t, err)
	require.Len(t, idxs, 2)
	assert.Equal(t, "Produce", extractor.Tree.Node(idxs[0]).Name)
	assert.Equal(t, "Frozen", extractor.Tree.Node(idxs[1]).Name)

	// The unmatched request is reported, not fatal.
	assert.Equal(t, []string{"Deli"}, warnings)
}

func TestListCategoriesMissingMenu(t *testing.T) {
	driver := newFakeDriver(map[string]string{"https://shop.test": "<html><body><p>maintenance</p></body></html>"})
	extractor := NewTreeExtractor(driver, testSite(), time.Second)

	_, _, err := extractor.ListCategories(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAffordance)
}

func TestListSubcategories(t *testing.T) {
	driver := newFakeDriver(map[string]string{
		"https://shop.test":              rootPage,
		"https://shop.test/shop/produce": producePage,
	})
	extractor := NewTreeExtractor(driver, testSite(), time.Second)

	catIdxs, _, err := extractor.ListCategories(context.Background(), []string{"Produce"})
	require.NoError(t, err)
	require.Len(t, catIdxs, 1)

	subIdxs, err := extractor.ListSubcategories(context.Background(), catIdxs[0])
	require.NoError(t, err)
	require.Len(t, subIdxs, 2)

	assert.Equal(t, "Fresh Fruit", extractor.Tree.Node(subIdxs[0]).Name)
	assert.Equal(t, "Vegetables", extractor.Tree.Node(subIdxs[1]).Name)
	for _, idx := range subIdxs {
		assert.Equal(t, domain.LevelSubcategory, extractor.Tree.Node(idx).Level)
		assert.Equal(t, catIdxs[0], extractor.Tree.Node(idx).Parent)
	}

	// One navigation for the whole subcategory listing.
	assert.Equal(t, []string{"https://shop.test", "https://shop.test/shop/produce"}, driver.navigations)
}
