package graph

import (
	"bytes"
	"fmt"
	"strings"
)

const separatorWidth = 60 // Width of separator lines in text output

// ToDOT outputs the graph in Graphviz DOT format. Variant files are drawn as
// dashed nodes linked by dashed edges; entry roots are bold.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph variants {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	roots := make(map[*Module]bool, len(g.Entries))
	for _, m := range g.Entries {
		roots[m] = true
	}

	paths := sortedKeys(g.Modules)
	for _, path := range paths {
		m := g.Modules[path]
		label := path
		if m.IsVariant() {
			label += "\\n" + m.VariantSet.String()
		}
		attrs := fmt.Sprintf(`label="%s"`, label) //nolint:gocritic // DOT format requires this quote style
		if roots[m] {
			attrs += ", style=bold"
		}
		if m.IsVariant() {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", path, attrs)
	}

	buf.WriteString("\n")

	for _, path := range paths {
		m := g.Modules[path]
		for _, v := range m.Variants {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", path, v.Path)
		}
		for _, c := range m.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", path, c.Path)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable text representation of the graph: summary
// statistics followed by one tree per entry.
func (g *Graph) ToText() string {
	var buf bytes.Buffer

	stats := g.Stats()
	fmt.Fprintf(&buf, "Variant Graph (%d entries)\n", stats.Entries)
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	fmt.Fprintf(&buf, "Total modules: %d\n", stats.Modules)
	fmt.Fprintf(&buf, "Variant files: %d\n", stats.VariantFiles)
	fmt.Fprintf(&buf, "Modules with variants: %d\n", stats.VariantModules)
	fmt.Fprintf(&buf, "Dependencies: %d\n", stats.Dependencies)
	fmt.Fprintf(&buf, "Max depth: %d\n", stats.MaxDepth)
	if len(stats.Axes) > 0 {
		fmt.Fprintf(&buf, "Axes: %s\n", strings.Join(stats.Axes, ", "))
	}

	for _, name := range g.EntryNames() {
		root := g.Entries[name]
		if root == nil {
			continue
		}
		fmt.Fprintf(&buf, "\nEntry %s:\n%s%s\n", name, root.Path, variantLabel(root))
		visited := map[*Module]bool{root: true}
		printChildren(&buf, root, "", visited)
	}

	return buf.String()
}

func variantLabel(m *Module) string {
	if !m.IsVariant() {
		return ""
	}
	return " [" + m.VariantSet.String() + "]"
}

// printChildren prints the variant files (marked with "~") and dependencies
// of m below it.
func printChildren(buf *bytes.Buffer, m *Module, prefix string, visited map[*Module]bool) {
	next := edges(m)
	for i, child := range next {
		isLast := i == len(next)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if isLast {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		marker := ""
		if i < len(m.Variants) {
			marker = "~ "
		}

		buf.WriteString(prefix + connector + marker + child.Path + variantLabel(child))
		if visited[child] {
			buf.WriteString(" (circular)\n")
			continue
		}
		buf.WriteString("\n")

		visited[child] = true
		printChildren(buf, child, childPrefix, visited)
		visited[child] = false
	}
}
