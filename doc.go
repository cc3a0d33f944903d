// Package probe implements a renderless 3D interaction pipeline: given a
// dynamic hierarchy of spatial elements and a per-frame batch of pointer
// samples (touches, pen, or mouse), it computes which element each pointer
// hovers, hits, and interacts with; dispatches lifecycle events; runs
// per-frame behaviors that transform elements; and manages element
// fade-in/fade-out lifecycles, including transitive deletion.
//
// Probe draws nothing. A host reads Transform, ElementFade, and the event
// callbacks fired from a Context to drive its own renderer.
//
// The core pieces are a Prototype (a stateless, user-owned description of
// an element), an Element (the stateful per-Context instance of a
// Prototype), a Context (the per-frame pipeline that owns every Element and
// the touch table for one viewport), and Behaviors (stateless per-frame
// mutators keyed into an Element's auxiliary state, with the sliding
// behavior as the canonical reference implementation in the behaviors
// subpackage).
package probe
