// Package testing provides a harness for driving a plane tree in tests.
//
// # Quick Start
//
// Create a tester, add nodes, and send input through the real collector:
//
//	func TestSelect(t *testing.T) {
//	    tester := planetest.New(t)
//	    card := tester.Add(tester.Root, "card", graphics.RectFromLTWH(10, 10, 50, 50),
//	        core.Config{Selectable: true})
//	    tester.Root.AddHeritableBehavior(behaviors.NewClickSelect(tester.Focus, tester.Selection))
//
//	    tester.TapAt(graphics.Offset{X: 20, Y: 20})
//
//	    if !tester.Selection.Contains(card) {
//	        t.Error("card not selected")
//	    }
//	    tester.AssertNoOverrides()
//	}
//
// # Snapshot Testing
//
// Capture the node tree and compare it with a golden file:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/outline.snapshot.yaml")
//
// Run with PLANE_UPDATE_SNAPSHOTS=1 to rewrite golden files.
package testing
