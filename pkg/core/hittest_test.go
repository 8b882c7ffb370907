package core

import (
	"slices"
	"testing"

	"github.com/go-drift/plane/pkg/graphics"
)

func placed(parent *Node, label string, r graphics.Rect, cfg Config) *Node {
	cfg.Label = label
	n := NewNode(parent, nil, cfg)
	Adopt(parent, "child", n)
	n.Bind(&fakeElement{bounds: r})
	return n
}

func TestNodeAt(t *testing.T) {
	pt := graphics.Offset{X: 30, Y: 30}
	tests := []struct {
		name  string
		setup func(root *Node)
		p     graphics.Offset
		want  string
	}{
		{
			name: "later sibling wins",
			setup: func(root *Node) {
				placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				placed(root, "b", graphics.RectFromLTWH(25, 25, 50, 50), Config{})
			},
			p: pt, want: "b",
		},
		{
			name: "higher z wins",
			setup: func(root *Node) {
				a := placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				placed(root, "b", graphics.RectFromLTWH(25, 25, 50, 50), Config{})
				a.ZIndex().Set(1)
			},
			p: pt, want: "a",
		},
		{
			name: "iterate forwards",
			setup: func(root *Node) {
				host := placed(root, "host", graphics.RectFromLTWH(0, 0, 100, 100), Config{IterateChildrenForwards: true})
				placed(host, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				placed(host, "b", graphics.RectFromLTWH(25, 25, 50, 50), Config{})
			},
			p: pt, want: "a",
		},
		{
			name: "deepest",
			setup: func(root *Node) {
				a := placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				placed(a, "a1", graphics.RectFromLTWH(20, 20, 20, 20), Config{})
			},
			p: pt, want: "a1",
		},
		{
			name: "opaque stops descent",
			setup: func(root *Node) {
				a := placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{Opaque: true})
				placed(a, "a1", graphics.RectFromLTWH(20, 20, 20, 20), Config{})
			},
			p: pt, want: "a",
		},
		{
			name: "transparent passes through",
			setup: func(root *Node) {
				placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				placed(root, "glass", graphics.RectFromLTWH(0, 0, 50, 50), Config{Transparent: true})
			},
			p: pt, want: "a",
		},
		{
			name: "ignore pointer",
			setup: func(root *Node) {
				placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				placed(root, "ghost", graphics.RectFromLTWH(0, 0, 50, 50), Config{IgnorePointer: true})
			},
			p: pt, want: "a",
		},
		{
			name: "invisible",
			setup: func(root *Node) {
				placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				b := placed(root, "b", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				b.Visible().Set(false)
			},
			p: pt, want: "a",
		},
		{
			name: "clipped",
			setup: func(root *Node) {
				a := placed(root, "a", graphics.RectFromLTWH(0, 0, 50, 50), Config{})
				clip := graphics.RectFromLTWH(0, 0, 20, 20)
				a.Clip().Set(&clip)
			},
			p: pt, want: "root",
		},
		{
			name: "child outside parent",
			setup: func(root *Node) {
				a := placed(root, "a", graphics.RectFromLTWH(0, 0, 10, 10), Config{})
				placed(a, "a1", graphics.RectFromLTWH(25, 25, 10, 10), Config{})
			},
			p: pt, want: "root",
		},
		{
			name: "overflow",
			setup: func(root *Node) {
				a := placed(root, "a", graphics.RectFromLTWH(0, 0, 10, 10), Config{Overflow: true})
				placed(a, "a1", graphics.RectFromLTWH(25, 25, 10, 10), Config{})
			},
			p: pt, want: "a1",
		},
		{
			name:  "miss",
			setup: func(root *Node) {},
			p:     graphics.Offset{X: 500, Y: 500}, want: "<nil>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRoot(nil, nil, Config{Label: "root"})
			defer root.Destroy()
			root.Bind(&fakeElement{bounds: graphics.RectFromLTWH(0, 0, 100, 100)})
			tt.setup(root)
			if got := root.NodeAt(tt.p, true); label(got) != tt.want {
				t.Errorf("NodeAt(%v) = %s, want %s", tt.p, label(got), tt.want)
			}
		})
	}
}

func TestNodeAtWithoutPointer(t *testing.T) {
	root := NewRoot(nil, nil, Config{Label: "root"})
	defer root.Destroy()
	root.Bind(&fakeElement{bounds: graphics.RectFromLTWH(0, 0, 100, 100)})
	placed(root, "ghost", graphics.RectFromLTWH(0, 0, 50, 50), Config{IgnorePointer: true})

	if got := root.NodeAt(graphics.Offset{X: 10, Y: 10}, false); label(got) != "ghost" {
		t.Errorf("NodeAt(pointer=false) = %s, want ghost", label(got))
	}
}

func TestNodesInRect(t *testing.T) {
	root := NewRoot(nil, nil, Config{Label: "root", Transparent: true})
	defer root.Destroy()
	root.Bind(&fakeElement{bounds: graphics.RectFromLTWH(0, 0, 100, 100)})
	placed(root, "a", graphics.RectFromLTWH(0, 0, 10, 10), Config{})
	b := placed(root, "b", graphics.RectFromLTWH(20, 20, 10, 10), Config{})
	placed(b, "b1", graphics.RectFromLTWH(22, 22, 2, 2), Config{})
	placed(root, "c", graphics.RectFromLTWH(60, 60, 10, 10), Config{})

	got := labels(root.NodesInRect(graphics.RectFromLTWH(5, 5, 20, 20)))
	want := []string{"b", "b1", "a"}
	if !slices.Equal(got, want) {
		t.Errorf("NodesInRect() = %v, want %v", got, want)
	}
}
