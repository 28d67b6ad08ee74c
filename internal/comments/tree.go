// Package comments turns the flat comment lists returned by the server into
// reply trees.
package comments

import (
	"strconv"
	"strings"

	"github.com/glabrego/lemmy-cli/internal/api"
)

// Node is one comment and its direct replies in input order.
type Node struct {
	View     api.CommentView
	Children []*Node
}

func (n *Node) ID() int64 {
	return n.View.Comment.ID
}

// ParentID reads the parent comment id from a materialized path such as
// "0.12.40". The parent is the second-to-last segment; "0" means the comment
// answers the post directly.
func ParentID(path string) (int64, bool) {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '.' || r == '/' })
	if len(segments) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(segments[len(segments)-2], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Build links comments into chains. Comments whose parent is not present are
// promoted to roots.
func Build(views []api.CommentView) []*Node {
	nodes := make(map[int64]*Node, len(views))
	ordered := make([]*Node, 0, len(views))
	for _, v := range views {
		if _, dup := nodes[v.Comment.ID]; dup {
			continue
		}
		n := &Node{View: v}
		nodes[v.Comment.ID] = n
		ordered = append(ordered, n)
	}

	roots := make([]*Node, 0)
	for _, n := range ordered {
		parentID, ok := ParentID(n.View.Comment.Path)
		if !ok || parentID == n.ID() {
			roots = append(roots, n)
			continue
		}
		parent, found := nodes[parentID]
		if !found {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// Count returns the number of nodes in the given chains.
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Children)
	}
	return total
}

type Row struct {
	CommentID int64
	Depth     int
	// Hidden is the number of descendants folded under a collapsed row.
	Hidden int
	Node   *Node
}

type BuildOptions struct {
	Collapsed map[int64]bool
}

// Flatten walks the chains depth-first and returns one row per visible comment.
func Flatten(roots []*Node, opts BuildOptions) []Row {
	rows := make([]Row, 0, len(roots))
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			row := Row{CommentID: n.ID(), Depth: depth, Node: n}
			if opts.Collapsed[n.ID()] {
				row.Hidden = Count(n.Children)
				rows = append(rows, row)
				continue
			}
			rows = append(rows, row)
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	return rows
}
