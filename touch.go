package probe

// PointingDevice carries accessory state for a touch that is backed by a
// mouse or similar device: accumulated wheel deltas and button edges for
// the frame. Context clears it at the start of every Step, since button and
// wheel state is re-read fresh each frame rather than latched across frames.
type PointingDevice struct {
	ScrollX, ScrollY float64
	ButtonsPressed   []int
	ButtonsReleased  []int
}

// Touch is the per-pointer state tracked across frames: screen-space point,
// frame-to-frame velocity, the world ray Context derives from point each
// frame, press state, and age/expiry counters.
//
// Touch equality is identity-based: a *Touch obtained from one Context's
// touch table is never equal to a *Touch from another Context even if both
// carry the same numeric ID, without needing a composite key. Two touches
// sharing an ID can only arise from two different Contexts, and Go pointer
// identity already distinguishes them.
type Touch struct {
	ID int

	Point    Vec2
	Velocity Vec2

	Origin  Vec3
	ViewDir Vec3

	Force              float64
	FramesSincePressed int
	ExpireFrames       int
	Pressed            bool

	Device *PointingDevice

	// AttachedObject records, after this frame's hit-test phase, the
	// ordered set of elements this touch's ray reported a hover for
	// (transparency-aware prefix; see Context.hitTestOne).
	AttachedObject []*Element

	frameCreated int
}

// touchTable owns every live Touch for one Context. It is mutated only
// during the serial steps of Context.Step, so it needs no internal locking;
// the concurrency that does exist in the pipeline is confined to Element's
// touch maps (see concurrent.go).
type touchTable struct {
	byID map[int]*Touch
}

func newTouchTable() *touchTable {
	return &touchTable{byID: make(map[int]*Touch)}
}

func (tt *touchTable) get(id int) (*Touch, bool) {
	t, ok := tt.byID[id]
	return t, ok
}

func (tt *touchTable) getOrCreate(id int, frame int) (*Touch, bool) {
	if t, ok := tt.byID[id]; ok {
		return t, false
	}
	t := &Touch{ID: id, frameCreated: frame}
	tt.byID[id] = t
	return t, true
}

func (tt *touchTable) remove(id int) {
	delete(tt.byID, id)
}

func (tt *touchTable) all() []*Touch {
	out := make([]*Touch, 0, len(tt.byID))
	for _, t := range tt.byID {
		out = append(out, t)
	}
	return out
}
