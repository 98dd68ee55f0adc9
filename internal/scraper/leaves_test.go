package scraper

import (
	"context"
	"testing"
	"time"

	"freshmart/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryPageCollapsed = `
<html><body>
<ul class="subcategory-list">
  <li><a class="subcategory-toggle" href="#">Fresh Fruit</a></li>
  <li><a class="subcategory-toggle" href="#">Vegetables</a></li>
  <li><a class="subcategory-toggle" href="#">Salads</a></li>
</ul>
</body></html>`

const categoryPageFruitExpanded = `
<html><body>
<ul class="subcategory-list">
  <li><a class="subcategory-toggle" href="#">Fresh Fruit</a>
    <ul class="subcategory2-list">
      <li><a href="/shop/produce/fruit/apples">Apples</a></li>
      <li><a href="/shop/produce/fruit/bananas">Bananas</a></li>
    </ul>
  </li>
  <li><a class="subcategory-toggle" href="#">Vegetables</a></li>
  <li><a class="subcategory-toggle" href="#">Salads</a></li>
</ul>
</body></html>`

const categoryPageSaladsExpanded = `
<html><body>
<ul class="subcategory-list">
  <li><a class="subcategory-toggle" href="#">Fresh Fruit</a></li>
  <li><a class="subcategory-toggle" href="#">Vegetables</a></li>
  <li><a class="subcategory-toggle" href="#">Salads</a>
    <ul class="subcategory2-list">
      <li><a href="/shop/produce/salads/bagged">Bagged Salads</a></li>
    </ul>
  </li>
</ul>
</body></html>`

// resolverFixture builds a tree holding one category with three
// subcategories and a driver sitting on the category landing page. The
// Vegetables toggle is broken: clicking it expands nothing.
func resolverFixture() (*fakeDriver, *domain.Tree, int, []int) {
	driver := newFakeDriver(nil)
	driver.currentHTML = categoryPageCollapsed
	driver.onClick = func(d *fakeDriver, selector string, index int) {
		if selector != "a.subcategory-toggle" {
			return
		}
		switch index {
		case 0:
			d.currentHTML = categoryPageFruitExpanded
		case 2:
			d.currentHTML = categoryPageSaladsExpanded
		}
	}

	tree := &domain.Tree{}
	catIdx := tree.Add(domain.CategoryNode{Name: "Produce", Level: domain.LevelCategory, URL: "https://shop.test/shop/produce", Parent: domain.NoParent})
	subIdxs := []int{
		tree.Add(domain.CategoryNode{Name: "Fresh Fruit", Level: domain.LevelSubcategory, Parent: catIdx}),
		tree.Add(domain.CategoryNode{Name: "Vegetables", Level: domain.LevelSubcategory, Parent: catIdx}),
		tree.Add(domain.CategoryNode{Name: "Salads", Level: domain.LevelSubcategory, Parent: catIdx}),
	}
	return driver, tree, catIdx, subIdxs
}

func TestResolveLeavesSinglePass(t *testing.T) {
	driver, tree, catIdx, subIdxs := resolverFixture()
	resolver := NewLeafResolver(driver, testSite(), time.Second, tree)

	outcomes := resolver.ResolveLeaves(context.Background(), catIdx, subIdxs)

	var leaves []domain.CategoryNode
	for _, o := range outcomes {
		if !o.IsSkipped() {
			leaves = append(leaves, tree.Node(o.Value))
		}
	}

	require.Len(t, leaves, 3)
	assert.Equal(t, "Apples", leaves[0].Name)
	assert.Equal(t, "https://shop.test/shop/produce/fruit/apples", leaves[0].URL)
	assert.Equal(t, "Bananas", leaves[1].Name)
	assert.Equal(t, "Bagged Salads", leaves[2].Name)

	for _, leaf := range leaves {
		assert.Equal(t, domain.LevelSubcategory2, leaf.Level)
		assert.NotEmpty(t, leaf.URL)
	}

	// Parent links point at the owning subcategory, which points at the
	// category.
	appleCtx := tree.ContextOf(outcomesValue(outcomes, 0))
	assert.Equal(t, domain.LeafContext{Category: "Produce", Subcategory: "Fresh Fruit", Subcategory2: "Apples"}, appleCtx)
}

func TestResolveLeavesExpansionBudget(t *testing.T) {
	driver, tree, catIdx, subIdxs := resolverFixture()
	resolver := NewLeafResolver(driver, testSite(), time.Second, tree)

	resolver.ResolveLeaves(context.Background(), catIdx, subIdxs)

	// No page navigations at all, and exactly one expansion click per
	// subcategory no matter how many leaves each one yields.
	assert.Empty(t, driver.navigations)
	assert.Equal(t, []string{
		"a.subcategory-toggle[0]",
		"a.subcategory-toggle[1]",
		"a.subcategory-toggle[2]",
	}, driver.clicks)
}

func TestResolveLeavesBrokenSubcategoryIsIsolated(t *testing.T) {
	driver, tree, catIdx, subIdxs := resolverFixture()
	resolver := NewLeafResolver(driver, testSite(), time.Second, tree)

	outcomes := resolver.ResolveLeaves(context.Background(), catIdx, subIdxs)

	var skips []domain.StageError
	resolved := 0
	for _, o := range outcomes {
		if o.IsSkipped() {
			skips = append(skips, *o.Skip)
		} else {
			resolved++
		}
	}

	require.Len(t, skips, 1)
	assert.Equal(t, "subcategory", skips[0].Stage)
	assert.Equal(t, "Vegetables", skips[0].Context)

	// Siblings before and after the broken subcategory still resolve.
	assert.Equal(t, 3, resolved)
}

// outcomesValue returns the n-th successful value in outcomes.
func outcomesValue(outcomes []domain.Outcome[int], n int) int {
	seen := 0
	for _, o := range outcomes {
		if o.IsSkipped() {
			continue
		}
		if seen == n {
			return o.Value
		}
		seen++
	}
	return -1
}
