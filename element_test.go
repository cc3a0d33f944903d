package probe

import "testing"

func TestAdvanceFadeInZeroTimeBecomesVisibleImmediately(t *testing.T) {
	e := newElement(1, "e")
	e.fadeInTime = 0
	e.advanceFade(0.1)
	if e.state != Visible {
		t.Fatalf("state = %v, want Visible", e.state)
	}
	if e.elementFade != 1 {
		t.Fatalf("elementFade = %v, want 1", e.elementFade)
	}
}

func TestAdvanceFadeInRespectsDelayThenRamps(t *testing.T) {
	e := newElement(1, "e")
	e.fadeInDelay = 1
	e.fadeInTime = 1

	e.advanceFade(0.5)
	if e.state != FadingIn {
		t.Fatalf("state = %v, want still FadingIn during delay", e.state)
	}
	if e.elementFade != 0 {
		t.Fatalf("elementFade during delay = %v, want 0", e.elementFade)
	}

	// consume the rest of the delay (0.5s) and half the ramp (0.5s)
	e.advanceFade(1.0)
	if e.elementFade <= 0 || e.elementFade >= 1 {
		t.Fatalf("elementFade mid-ramp = %v, want strictly between 0 and 1", e.elementFade)
	}

	e.advanceFade(1.0)
	if e.state != Visible || e.elementFade != 1 {
		t.Fatalf("after full ramp: state=%v fade=%v, want Visible/1", e.state, e.elementFade)
	}
}

func TestAdvanceFadeOutZeroTimeDeletesImmediately(t *testing.T) {
	e := newElement(1, "e")
	e.state = Visible
	e.elementFade = 1
	e.StartDeletion()
	if e.state != Deleted || !e.deleteMe {
		t.Fatalf("expected immediate deletion with fadeOutTime=0, got state=%v deleteMe=%v", e.state, e.deleteMe)
	}
}

func TestAdvanceFadeOutRampDecreasesFromBaseline(t *testing.T) {
	e := newElement(1, "e")
	e.state = Visible
	e.elementFade = 1
	e.fadeOutTime = 1
	e.StartDeletion()
	if e.state != FadingOut {
		t.Fatalf("expected FadingOut, got %v", e.state)
	}

	e.advanceFade(0.5)
	if e.elementFade <= 0 || e.elementFade >= 1 {
		t.Fatalf("mid-fade-out elementFade = %v, want strictly between 0 and 1", e.elementFade)
	}

	e.advanceFade(0.5)
	if e.state != Deleted || e.elementFade != 0 {
		t.Fatalf("after full fade-out: state=%v fade=%v, want Deleted/0", e.state, e.elementFade)
	}
}

func TestStartDeletionCascadesAbsoluteDelayToChildren(t *testing.T) {
	parent := newElement(1, "parent")
	parent.fadeOutDelay = 2
	child := newElement(2, "child")
	child.fadeOutDelay = 3
	child.Parent = parent
	parent.addChild(child)

	parent.StartDeletion()

	if child.absoluteFadeOutDelay != 5 {
		t.Fatalf("child.absoluteFadeOutDelay = %v, want 5 (2 + 3)", child.absoluteFadeOutDelay)
	}
	if parent.absoluteFadeOutDelay != 2 {
		t.Fatalf("parent.absoluteFadeOutDelay = %v, want 2", parent.absoluteFadeOutDelay)
	}
}

func TestUpdateFromReentersFadingInContinuously(t *testing.T) {
	e := newElement(1, "e")
	e.fadeOutTime = 1
	e.state = FadingOut
	e.elementFade = 0.4 // partway faded out

	p := NewPrototype(1, "e")
	p.FadeInTime = 2
	p.Active = true

	e.UpdateFrom(p)

	if e.state != FadingIn {
		t.Fatalf("state = %v, want FadingIn after re-entry", e.state)
	}
	wantElapsed := 0.4 * 2
	if e.fadeInElapsed != wantElapsed {
		t.Fatalf("fadeInElapsed = %v, want %v (continuity with fade-out progress)", e.fadeInElapsed, wantElapsed)
	}
}

func TestUpdateFromFadingOutReentryWithZeroFadeInTime(t *testing.T) {
	e := newElement(1, "e")
	e.fadeOutTime = 1
	e.state = FadingOut
	e.elementFade = 0.7

	p := NewPrototype(1, "e")
	p.FadeInTime = 0

	e.UpdateFrom(p)
	if e.fadeInElapsed != 0 {
		t.Fatalf("fadeInElapsed with zero fadeInTime = %v, want 0", e.fadeInElapsed)
	}
}

func TestUpdateChildrenAddsUpdatesAndRemoves(t *testing.T) {
	e := newElement(1, "root")
	existingChild := NewPrototype(2, "keep")
	existingElement, errs := instantiateElement(existingChild, e)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors instantiating: %v", errs)
	}
	e.addChild(existingElement)

	toRemove := NewPrototype(3, "gone")
	removeElement, _ := instantiateElement(toRemove, e)
	e.addChild(removeElement)

	next := map[int]*Prototype{
		2: NewPrototype(2, "keep-renamed"),
		4: NewPrototype(4, "new"),
	}
	errs2 := e.UpdateChildren(true, next)
	if len(errs2) != 0 {
		t.Fatalf("unexpected errors: %v", errs2)
	}

	if _, ok := e.children[4]; !ok {
		t.Fatalf("expected new child 4 to be instantiated")
	}
	if e.children[2] != existingElement {
		t.Fatalf("expected child 2 updated in place, not replaced")
	}
	if e.children[3].state != FadingOut && e.children[3].state != Deleted {
		t.Fatalf("expected missing child 3 to start deletion, got state %v", e.children[3].state)
	}
}

func TestUpdateChildrenRejectsSelfCycleChild(t *testing.T) {
	e := newElement(1, "root")
	next := map[int]*Prototype{1: NewPrototype(1, "self")}
	errs := e.UpdateChildren(false, next)
	if len(errs) == 0 {
		t.Fatalf("expected a structural error for a child id equal to the parent's")
	}
	if _, ok := e.children[1]; ok {
		t.Fatalf("self-cycle child must not be instantiated")
	}
}

func TestRaiseToTopMovesElementToEndOfSiblingOrder(t *testing.T) {
	parent := newElement(1, "parent")
	a := newElement(2, "a")
	b := newElement(3, "b")
	c := newElement(4, "c")
	a.Parent, b.Parent, c.Parent = parent, parent, parent
	parent.addChild(a)
	parent.addChild(b)
	parent.addChild(c)

	a.RaiseToTop()

	order := parent.ChildOrder()
	if order[len(order)-1] != a.id {
		t.Fatalf("ChildOrder = %v, want a.id (%d) last", order, a.id)
	}
	if len(order) != 3 {
		t.Fatalf("ChildOrder length changed: %v", order)
	}
}

func TestRaiseToTopNoopWithoutParent(t *testing.T) {
	e := newElement(1, "root")
	e.RaiseToTop() // must not panic
}
