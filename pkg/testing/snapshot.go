package testing

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/plane/pkg/core"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing test
// doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is a serializable picture of a node tree and its interaction
// state.
type Snapshot struct {
	Tree      *SnapshotNode `yaml:"tree"`
	Focus     string        `yaml:"focus"`
	Selection []string      `yaml:"selection,omitempty"`
	Overrides []string      `yaml:"overrides,omitempty"`
}

// SnapshotNode is one node of a Snapshot.
type SnapshotNode struct {
	Label    string          `yaml:"label"`
	Rect     [4]float64      `yaml:"rect,flow"`
	Focus    string          `yaml:"focus,omitempty"`
	Selected bool            `yaml:"selected,omitempty"`
	Hidden   bool            `yaml:"hidden,omitempty"`
	Children []*SnapshotNode `yaml:"children,omitempty"`
}

// CaptureSnapshot captures the tester's tree, focus, selection and held
// overrides.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{
		Tree:  captureNode(t.Root),
		Focus: t.Focus.Current().String(),
	}
	for _, n := range t.Selection.Nodes.Value() {
		snap.Selection = append(snap.Selection, n.String())
	}
	for _, k := range t.Nav.Overrides() {
		b, _ := t.Nav.Override(k)
		snap.Overrides = append(snap.Overrides, k.String()+"="+core.BehaviorName(b))
	}
	return snap
}

func captureNode(n *core.Node) *SnapshotNode {
	r := n.Rect().Value()
	sn := &SnapshotNode{
		Label:    n.String(),
		Rect:     [4]float64{round2(r.Left), round2(r.Top), round2(r.Width()), round2(r.Height())},
		Selected: n.Selected().Value(),
		Hidden:   !n.Visible().Value(),
	}
	if m := n.Focused().Value(); m != core.Unmarked {
		sn.Focus = m.String()
	}
	for _, c := range n.Children() {
		sn.Children = append(sn.Children, captureNode(c))
	}
	return sn
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When PLANE_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("PLANE_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: PLANE_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: PLANE_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other (expected) and s (actual). It is
// empty when they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return lineDiff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lineDiff lists differing lines position by position.
func lineDiff(expected, actual string) string {
	exp := strings.Split(expected, "\n")
	act := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")
	for i := 0; i < max(len(exp), len(act)); i++ {
		var e, a string
		if i < len(exp) {
			e = exp[i]
		}
		if i < len(act) {
			a = act[i]
		}
		if e == a {
			continue
		}
		if i < len(exp) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(act) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}
	return buf.String()
}
