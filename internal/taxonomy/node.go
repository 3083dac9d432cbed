package taxonomy

// Kind identifies how a node entered the taxonomy.
type Kind string

const (
	// KindStatic marks nodes that come directly from a template.
	KindStatic Kind = "static"

	// KindManager marks nodes synthesized from a manager roster entry.
	KindManager Kind = "manager"

	// KindSupplier marks nodes synthesized from a supplier roster entry.
	KindSupplier Kind = "supplier"
)

// Node is one entry in the folder/label taxonomy. A top-level node is a
// category; its Children are subcategories; tertiary items hang off a
// subcategory name via Nested. The tree is never more than three levels
// deep.
type Node struct {
	// Name is the display name, unique among siblings.
	Name string

	// Color is a provider hint (hex background color). Flat-namespace
	// providers apply it; hierarchical providers ignore it.
	Color string

	// Intent is a short routing description consumed by downstream
	// classification, not by this engine.
	Intent string

	// Critical marks categories whose absence should fail provisioning
	// health rather than merely lowering the percentage.
	Critical bool

	// Dynamic is true for nodes synthesized from roster data rather
	// than declared in a template.
	Dynamic bool

	// Kind records the roster origin for dynamic nodes; static for
	// everything that comes from a template.
	Kind Kind

	// Children holds the next level down (subcategories for a
	// category node).
	Children []Node

	// Nested maps a subcategory name to its tertiary items.
	Nested map[string][]Node
}

// Compiled is the merged, placeholder-resolved taxonomy for one user.
// It is built once per provisioning run and not mutated afterwards.
type Compiled struct {
	// Roots are the top-level category nodes, fully resolved.
	Roots []Node

	// RootOrder lists top-level names in creation order. Categories
	// not named here are appended in template order.
	RootOrder []string
}

// Root returns the top-level node with the given name, or nil.
func (c *Compiled) Root(name string) *Node {
	for i := range c.Roots {
		if c.Roots[i].Name == name {
			return &c.Roots[i]
		}
	}
	return nil
}

// OrderedRoots returns the root nodes in RootOrder, with any roots
// missing from the order list appended in declaration order.
func (c *Compiled) OrderedRoots() []Node {
	seen := make(map[string]bool, len(c.Roots))
	out := make([]Node, 0, len(c.Roots))

	for _, name := range c.RootOrder {
		if root := c.Root(name); root != nil && !seen[name] {
			out = append(out, *root)
			seen[name] = true
		}
	}
	for _, root := range c.Roots {
		if !seen[root.Name] {
			out = append(out, root)
			seen[root.Name] = true
		}
	}
	return out
}

// NodeCount returns the total number of nodes across all three levels.
func (c *Compiled) NodeCount() int {
	total := 0
	for _, root := range c.Roots {
		total++
		total += len(root.Children)
		for _, items := range root.Nested {
			total += len(items)
		}
	}
	return total
}
