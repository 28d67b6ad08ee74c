package comments

import (
	"reflect"
	"testing"

	"github.com/glabrego/lemmy-cli/internal/api"
)

func comment(id int64, path string) api.CommentView {
	return api.CommentView{Comment: api.Comment{ID: id, Path: path}}
}

func ids(nodes []*Node) []int64 {
	out := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

func TestParentID(t *testing.T) {
	cases := []struct {
		path string
		want int64
		ok   bool
	}{
		{"0.1", 0, false},
		{"0.1.2", 1, true},
		{"0/1/2/3", 2, true},
		{"7", 0, false},
		{"", 0, false},
		{"0.x.3", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParentID(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParentID(%q) = %d,%v want %d,%v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBuild_LinksChildrenInInputOrder(t *testing.T) {
	roots := Build([]api.CommentView{
		comment(1, "0.1"),
		comment(2, "0.1.2"),
		comment(3, "0.3"),
		comment(4, "0.1.4"),
		comment(5, "0.1.2.5"),
	})

	if !reflect.DeepEqual(ids(roots), []int64{1, 3}) {
		t.Fatalf("unexpected roots: %v", ids(roots))
	}
	if !reflect.DeepEqual(ids(roots[0].Children), []int64{2, 4}) {
		t.Fatalf("unexpected children of 1: %v", ids(roots[0].Children))
	}
	if !reflect.DeepEqual(ids(roots[0].Children[0].Children), []int64{5}) {
		t.Fatalf("unexpected children of 2: %v", ids(roots[0].Children[0].Children))
	}
	if Count(roots) != 5 {
		t.Fatalf("expected 5 nodes, got %d", Count(roots))
	}
}

func TestBuild_PromotesOrphans(t *testing.T) {
	roots := Build([]api.CommentView{
		comment(10, "0.9.10"),
		comment(11, "0.11"),
	})
	if !reflect.DeepEqual(ids(roots), []int64{10, 11}) {
		t.Fatalf("orphan must become a root: %v", ids(roots))
	}
}

func TestBuild_ChildBeforeParent(t *testing.T) {
	roots := Build([]api.CommentView{
		comment(2, "0.1.2"),
		comment(1, "0.1"),
	})
	if !reflect.DeepEqual(ids(roots), []int64{1}) {
		t.Fatalf("unexpected roots: %v", ids(roots))
	}
	if !reflect.DeepEqual(ids(roots[0].Children), []int64{2}) {
		t.Fatalf("unexpected children: %v", ids(roots[0].Children))
	}
}

func TestBuild_Empty(t *testing.T) {
	if roots := Build(nil); len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}

func TestFlatten_DepthAndCollapse(t *testing.T) {
	roots := Build([]api.CommentView{
		comment(1, "0.1"),
		comment(2, "0.1.2"),
		comment(3, "0.1.2.3"),
		comment(4, "0.4"),
	})

	rows := Flatten(roots, BuildOptions{})
	var got [][2]int64
	for _, r := range rows {
		got = append(got, [2]int64{r.CommentID, int64(r.Depth)})
	}
	want := [][2]int64{{1, 0}, {2, 1}, {3, 2}, {4, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rows: %v", got)
	}

	rows = Flatten(roots, BuildOptions{Collapsed: map[int64]bool{2: true}})
	if len(rows) != 3 {
		t.Fatalf("expected 3 visible rows, got %d", len(rows))
	}
	if rows[1].CommentID != 2 || rows[1].Hidden != 1 {
		t.Fatalf("expected collapsed row 2 hiding 1 reply, got %+v", rows[1])
	}
}
