package output

import (
	"path"
	"slices"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// annotationColumn is where annotations start when the line is short enough.
	annotationColumn = 44
)

type treeNode struct {
	name       string
	annotation string
	dir        bool
	children   []*treeNode
}

func (n *treeNode) child(name string, dir bool) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &treeNode{name: name, dir: dir}
	n.children = append(n.children, c)
	return c
}

// RenderFileTree renders slash-separated relative paths as a tree under root.
// Annotations (e.g. the resolved output name of a template file) are aligned
// to a common column. Directories sort before files, then alphabetically.
func RenderFileTree(root string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	top := &treeNode{name: root, dir: true}
	for p, annotation := range files {
		parts := strings.Split(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
		cur := top
		for i, part := range parts {
			cur = cur.child(part, i < len(parts)-1)
		}
		cur.annotation = annotation
	}
	sortTree(top)

	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Bold.Render(top.name + "/"))
	sb.WriteString("\n")
	for i, c := range top.children {
		renderNode(&sb, styles, c, "", i == len(top.children)-1)
	}
	return sb.String()
}

// RenderPathTree renders paths without annotations.
func RenderPathTree(root string, paths []string) string {
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		files[p] = ""
	}
	return RenderFileTree(root, files)
}

func sortTree(n *treeNode) {
	slices.SortFunc(n.children, func(a, b *treeNode) int {
		if a.dir != b.dir {
			if a.dir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})
	for _, c := range n.children {
		sortTree(c)
	}
}

func renderNode(sb *strings.Builder, styles Styles, n *treeNode, prefix string, last bool) {
	connector := treeEdge
	if last {
		connector = treeLast
	}

	name := n.name
	if n.dir {
		name += "/"
	}
	line := prefix + connector + name

	if n.annotation != "" {
		padding := annotationColumn - len([]rune(line))
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding) + styles.Muted.Render(n.annotation)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	childPrefix := prefix + treeVert
	if last {
		childPrefix = prefix + treeSpace
	}
	for i, c := range n.children {
		renderNode(sb, styles, c, childPrefix, i == len(n.children)-1)
	}
}
