package domain

// Level identifies the depth of a node in the site's three-level taxonomy.
type Level string

const (
	LevelCategory     Level = "category"
	LevelSubcategory  Level = "subcategory"
	LevelSubcategory2 Level = "subcategory2"
)

func (l Level) String() string {
	return string(l)
}

// NoParent marks a root node in the tree arena.
const NoParent = -1

// CategoryNode is one entry of the taxonomy. URL is the landing page for
// category nodes and the listing page for subcategory2 leaves; subcategory
// nodes carry no URL of their own, they are expanded in place on the
// category landing page.
type CategoryNode struct {
	Name   string `json:"name"`
	Level  Level  `json:"level"`
	URL    string `json:"url,omitempty"`
	Parent int    `json:"parent"`
}

// Tree is an arena of category nodes. Parent links are indices into Nodes,
// used only for metadata lookup on the way back up, never for traversal.
type Tree struct {
	Nodes []CategoryNode
}

// Add appends node and returns its index.
func (t *Tree) Add(node CategoryNode) int {
	t.Nodes = append(t.Nodes, node)
	return len(t.Nodes) - 1
}

// Node returns the node at idx.
func (t *Tree) Node(idx int) CategoryNode {
	return t.Nodes[idx]
}

// LeafContext is the category path of a resolved leaf, copied onto every
// record built under it.
type LeafContext struct {
	Category     string
	Subcategory  string
	Subcategory2 string
}

// ContextOf walks parent links from a leaf index up to its category and
// returns the full path.
func (t *Tree) ContextOf(leafIdx int) LeafContext {
	leaf := t.Nodes[leafIdx]
	ctx := LeafContext{Subcategory2: leaf.Name}
	if leaf.Parent != NoParent {
		sub := t.Nodes[leaf.Parent]
		ctx.Subcategory = sub.Name
		if sub.Parent != NoParent {
			ctx.Category = t.Nodes[sub.Parent].Name
		}
	}
	return ctx
}
