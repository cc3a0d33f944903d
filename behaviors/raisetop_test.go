package behaviors

import (
	"testing"

	"github.com/fenwick3d/probe"
)

// threeSiblingRects builds a parent with three side-by-side (non-overlapping)
// rectangle children at world x = -1, 0, 1, attaching behave to the child
// with the given id. Screen x = 0, 1, 2 (at y = 1) hit the -1, 0, 1 children
// respectively under identityCameraContext's 2x2 viewport. The parent is a
// transparent infinite plane, so it does not occlude the children.
func threeSiblingRects(behave probe.Behavior, targetID int) (*probe.Context, *probe.Element) {
	c := identityCameraContext()
	parent := probe.NewPrototype(1, "parent")
	parent.Transparent = true
	offsets := map[int]float64{2: -1, 3: 0, 4: 1}
	for id, x := range offsets {
		child := probe.NewPrototype(id, "child")
		child.Shape = probe.ShapeRectangle
		child.DisplayTransform.SetPosition(probe.Vec3{x, 0, 0})
		if id == targetID {
			child.Behaviors = []probe.Behavior{behave}
		}
		parent.AddChild(child)
	}
	c.AddOrUpdateElements(true, map[int]*probe.Prototype{1: parent})
	root := c.Roots()[1]
	return c, root
}

func TestRaiseOnTouchMovesHitElementToEndOfSiblingOrder(t *testing.T) {
	c, root := threeSiblingRects(&RaiseOnTouch{GUID: "raise"}, 3)

	c.Step(1.0/60, []probe.ScreenTouchInput{pressAt(1, 1, 1)}) // center child, id 3

	order := root.ChildOrder()
	if order[len(order)-1] != 3 {
		t.Fatalf("ChildOrder = %v, want id 3 last after being hit", order)
	}
}

func TestRaiseOnTouchOnlyOnHitBeginRaisesOnce(t *testing.T) {
	c, root := threeSiblingRects(&RaiseOnTouch{GUID: "raise", OnlyOnHitBegin: true}, 2)

	c.Step(1.0/60, []probe.ScreenTouchInput{pressAt(1, 0, 1)}) // left child, id 2
	order := root.ChildOrder()
	if order[len(order)-1] != 2 {
		t.Fatalf("expected id 2 raised on hit-begin, order=%v", order)
	}

	// manually move another sibling to the end, then confirm a second frame
	// of the same ongoing hit (not a new hit-begin) does not re-raise id 2.
	root.Children()[4].RaiseToTop()
	c.Step(1.0/60, []probe.ScreenTouchInput{pressAt(1, 0, 1)})
	order2 := root.ChildOrder()
	if order2[len(order2)-1] != 4 {
		t.Fatalf("expected the continuing hit to not re-raise id 2 past id 4, order=%v", order2)
	}
}

func TestRaiseOnTouchNoopWhenNotHit(t *testing.T) {
	c, root := threeSiblingRects(&RaiseOnTouch{GUID: "raise"}, 2)

	before := append([]int(nil), root.ChildOrder()...)
	c.Step(1.0/60, []probe.ScreenTouchInput{pressAt(1, 50, 50)}) // well off every shape
	after := root.ChildOrder()

	if len(before) != len(after) {
		t.Fatalf("child order length changed: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("child order changed without a hit: %v -> %v", before, after)
		}
	}
}
