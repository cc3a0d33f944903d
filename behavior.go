package probe

// Behavior is stateless code plus a stable identity. Its one operation,
// Behave, runs once per Element per frame during Context.Step's element
// phase (a SiblingRewritingBehavior instead runs in the serialized pass
// after it) and stores any per-element state it needs through
// element.Values().Object(BehaviorAuxKey(b.ID())).
//
// Implementations live in the behaviors subpackage; the canonical
// reference is the sliding behavior (behaviors.Sliding).
type Behavior interface {
	// ID returns a stable identity (conventionally a GUID string) used to
	// key this behavior's per-element auxiliary state.
	ID() string
	// Behave runs this behavior's per-frame logic against element within
	// the owning ctx.
	Behave(element *Element, ctx *Context)
}

// SiblingRewritingBehavior is implemented by behaviors that mutate
// siblings of the element they're attached to (the canonical example is
// move-to-top, which reassigns z-depth among siblings). Such behaviors
// must not run inside the parallel element phase; Context runs them in a
// serialized post-pass instead.
type SiblingRewritingBehavior interface {
	Behavior
	RewritesSiblings()
}
