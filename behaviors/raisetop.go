package behaviors

import "github.com/fenwick3d/probe"

// RaiseOnTouch moves its element to the end of its parent's child order
// (probe.Element.RaiseToTop), which is the order Context's flat list
// visits siblings in. It implements probe.SiblingRewritingBehavior because
// it mutates state shared with every sibling under the same parent, so
// Context runs it in the serialized post-pass rather than the parallel
// element phase.
type RaiseOnTouch struct {
	GUID string

	// OnlyOnHitBegin raises only on the frame a hit begins rather than on
	// every frame the element remains hit.
	OnlyOnHitBegin bool
}

func (r *RaiseOnTouch) ID() string        { return r.GUID }
func (r *RaiseOnTouch) RewritesSiblings() {}

type raiseState struct {
	wasHit bool
}

// Copy resets wasHit: a copy target starts as though nothing has hit it yet.
func (r *raiseState) Copy() probe.AuxiliaryObject      { return &raiseState{} }
func (r *raiseState) UpdateFrom(probe.AuxiliaryObject) {}

// Behave implements probe.Behavior.
func (r *RaiseOnTouch) Behave(e *probe.Element, ctx *probe.Context) {
	hit := e.Hit()
	if !hit {
		r.setWasHit(e, false)
		return
	}
	if r.OnlyOnHitBegin && r.getWasHit(e) {
		return
	}
	e.RaiseToTop()
	r.setWasHit(e, true)
}

func (r *RaiseOnTouch) getWasHit(e *probe.Element) bool {
	st, ok := e.Values().Object(probe.BehaviorAuxKey(r.ID())).(*raiseState)
	return ok && st.wasHit
}

func (r *RaiseOnTouch) setWasHit(e *probe.Element, v bool) {
	key := probe.BehaviorAuxKey(r.ID())
	st, ok := e.Values().Object(key).(*raiseState)
	if !ok {
		st = &raiseState{}
		e.Values().SetObject(key, st)
	}
	st.wasHit = v
}
