package taxonomy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Roster holds the live team members whose names feed placeholder
// resolution and dynamic node synthesis. Both slices are in roster
// position order (Manager1 is Managers[0], and so on).
type Roster struct {
	Managers  []string
	Suppliers []string
}

// placeholderPattern matches a numbered roster placeholder such as
// {{Manager1}} or {{Supplier3}}. Parsed once at compile time; compiled
// trees never carry placeholder literals.
var placeholderPattern = regexp.MustCompile(`^\{\{(Manager|Supplier)(\d+)\}\}$`)

type placeholder struct {
	kind Kind
	slot int // 1-indexed roster position
}

// parsePlaceholder reports whether name is a roster placeholder and, if
// so, which kind and slot it refers to.
func parsePlaceholder(name string) (placeholder, bool) {
	m := placeholderPattern.FindStringSubmatch(name)
	if m == nil {
		return placeholder{}, false
	}
	slot, err := strconv.Atoi(m[2])
	if err != nil || slot < 1 {
		return placeholder{}, false
	}
	kind := KindManager
	if m[1] == "Supplier" {
		kind = KindSupplier
	}
	return placeholder{kind: kind, slot: slot}, true
}

// Compile merges the templates for the given business types, resolves
// roster placeholders, and synthesizes dynamic top-level nodes for
// roster members that exceed the numbered slots. The result contains no
// placeholder literals and no duplicate top-level names.
func Compile(businessTypes []string, roster Roster) (*Compiled, error) {
	if len(businessTypes) == 0 {
		return nil, fmt.Errorf("compiling taxonomy: no business types given")
	}

	loaded := make([]Template, 0, len(businessTypes))
	for _, bt := range businessTypes {
		t, ok := LookupTemplate(bt)
		if !ok {
			return nil, fmt.Errorf("compiling taxonomy: unknown business type %q", bt)
		}
		loaded = append(loaded, t)
	}

	merged := mergeTemplates(loaded)
	resolved := resolveRoster(merged, roster)
	appendOverflowNodes(resolved, roster)

	return resolved, nil
}

// mergeTemplates folds N templates into one root list. Shared categories
// merge by name (subcategory union, first-seen wins, matching nested
// lists recursively unioned); industry-specific categories union by name
// without subtree merging. Root order follows the base (first) template,
// with unseen industry categories appended in first-seen order.
func mergeTemplates(loaded []Template) *Compiled {
	if len(loaded) == 1 {
		roots := cloneNodes(loaded[0].Categories)
		return &Compiled{Roots: roots, RootOrder: rootNames(roots)}
	}

	var roots []Node
	index := make(map[string]int)

	for _, t := range loaded {
		for _, cat := range t.Categories {
			i, exists := index[cat.Name]
			if !exists {
				index[cat.Name] = len(roots)
				roots = append(roots, cloneNode(cat))
				continue
			}
			if sharedCategoryNames[cat.Name] {
				mergeCategory(&roots[i], cat)
			}
			// Industry-specific duplicates keep the first-seen subtree.
		}
	}

	return &Compiled{Roots: roots, RootOrder: rootNames(roots)}
}

// mergeCategory unions src's subcategories into dst. Existing names keep
// their first-seen definition but their nested item lists are unioned.
func mergeCategory(dst *Node, src Node) {
	have := make(map[string]bool, len(dst.Children))
	for _, c := range dst.Children {
		have[c.Name] = true
	}
	for _, c := range src.Children {
		if !have[c.Name] {
			dst.Children = append(dst.Children, cloneNode(c))
			have[c.Name] = true
		}
	}

	if len(src.Nested) == 0 {
		return
	}
	if dst.Nested == nil {
		dst.Nested = make(map[string][]Node)
	}
	for sub, items := range src.Nested {
		existing := dst.Nested[sub]
		haveItem := make(map[string]bool, len(existing))
		for _, it := range existing {
			haveItem[it.Name] = true
		}
		for _, it := range items {
			if !haveItem[it.Name] {
				existing = append(existing, cloneNode(it))
				haveItem[it.Name] = true
			}
		}
		dst.Nested[sub] = existing
	}
}

// resolveRoster substitutes numbered placeholders with roster names and
// drops placeholders whose slot has no roster member. Nested lists keyed
// by a placeholder name are re-keyed to the resolved name.
func resolveRoster(c *Compiled, roster Roster) *Compiled {
	for i := range c.Roots {
		root := &c.Roots[i]
		kept := root.Children[:0]
		for _, child := range root.Children {
			ph, ok := parsePlaceholder(child.Name)
			if !ok {
				kept = append(kept, child)
				continue
			}
			name, found := rosterName(roster, ph)
			if !found {
				delete(root.Nested, child.Name)
				continue
			}
			if items, hasNested := root.Nested[child.Name]; hasNested {
				delete(root.Nested, child.Name)
				root.Nested[name] = items
			}
			child.Name = name
			child.Dynamic = true
			child.Kind = ph.kind
			kept = append(kept, child)
		}
		root.Children = kept
	}
	return c
}

func rosterName(roster Roster, ph placeholder) (string, bool) {
	var pool []string
	switch ph.kind {
	case KindManager:
		pool = roster.Managers
	case KindSupplier:
		pool = roster.Suppliers
	}
	if ph.slot > len(pool) {
		return "", false
	}
	name := strings.TrimSpace(pool[ph.slot-1])
	if name == "" {
		return "", false
	}
	return name, true
}

// appendOverflowNodes adds a dynamic top-level node for every roster
// member beyond the numbered slots, inheriting the parent category's
// color so the per-person folder displays alongside the roster sub-list.
func appendOverflowNodes(c *Compiled, roster Roster) {
	managerColor, supplierColor := colorManager, colorSuppliers
	if root := c.Root("MANAGER"); root != nil {
		managerColor = root.Color
	}
	if root := c.Root("SUPPLIERS"); root != nil {
		supplierColor = root.Color
	}

	taken := make(map[string]bool, len(c.Roots))
	for _, root := range c.Roots {
		taken[root.Name] = true
	}

	add := func(name string, kind Kind, color string) {
		name = strings.TrimSpace(name)
		if name == "" || taken[name] {
			return
		}
		c.Roots = append(c.Roots, Node{
			Name:    name,
			Color:   color,
			Dynamic: true,
			Kind:    kind,
		})
		c.RootOrder = append(c.RootOrder, name)
		taken[name] = true
	}

	for i := managerSlots; i < len(roster.Managers); i++ {
		add(roster.Managers[i], KindManager, managerColor)
	}
	for i := supplierSlots; i < len(roster.Suppliers); i++ {
		add(roster.Suppliers[i], KindSupplier, supplierColor)
	}
}

// Vocabulary returns the normalized token set of every node name in the
// compiled tree, used by the coverage check to decide whether a remote
// container maps to any taxonomy concept.
func (c *Compiled) Vocabulary() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		tok := NormalizeToken(name)
		if tok != "" && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, root := range c.Roots {
		add(root.Name)
		for _, sub := range root.Children {
			add(sub.Name)
		}
		for _, items := range root.Nested {
			for _, it := range items {
				add(it.Name)
			}
		}
	}
	return out
}

// NormalizeToken lowercases a name and strips separators and
// punctuation so vocabulary matching is case- and separator-insensitive.
func NormalizeToken(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func rootNames(roots []Node) []string {
	names := make([]string, len(roots))
	for i, r := range roots {
		names[i] = r.Name
	}
	return names
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	c := n
	c.Children = cloneNodes(n.Children)
	if n.Nested != nil {
		c.Nested = make(map[string][]Node, len(n.Nested))
		for k, v := range n.Nested {
			c.Nested[k] = cloneNodes(v)
		}
	}
	return c
}
