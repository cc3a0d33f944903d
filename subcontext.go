package probe

// SubContextOptions configures a SubContext nested inside an owning
// Element.
type SubContextOptions struct {
	// Width and Height size the surface-space plane the owning element's
	// source touches are projected into before being fed to the nested
	// Context as synthetic touches.
	Width, Height float64

	// SourceTouching selects touching as the source set instead of the
	// default, hitting: hitting requires only a ray intersection, touching
	// additionally requires a press.
	SourceTouching bool
}

// SubContext is a nested Context fed entirely from its owning Element's
// hitting set (or touching, under SourceTouching) rather than from
// host-injected input. It is not traversed by the owning Context's
// hit-testing or Opaq path queries, since it is a separate tree rooted at
// its own Context. Mouse attachment propagates by construction: a
// synthetic touch keeps its originating touch's id, so a host correlating
// nested.AttachedObject against an outer touch id needs no extra
// bookkeeping.
type SubContext struct {
	options SubContextOptions
	ctx     *Context
}

func newSubContext(opts SubContextOptions) *SubContext {
	return &SubContext{
		options: opts,
		ctx:     NewContext(DefaultContextConfig()),
	}
}

// Context returns the nested Context, for reading its elements or wiring
// prototypes into it.
func (s *SubContext) Context() *Context { return s.ctx }

// step projects owner's current source set (hitting by default, touching
// under SourceTouching) into the surface-space plane sized by s.options and
// feeds the nested Context one synthetic touch per original touch,
// preserving the original touch's id and force, then steps the nested
// context with dt, the owning Context's own delta time; sub-contexts do
// not run their own clock. Press state is not carried across: the nested
// Context derives it from force against its own MinimumForce, same as any
// other Context.
func (s *SubContext) step(owner *Element, dt float64) {
	var source map[*Touch]*IntersectionPoint
	if s.options.SourceTouching {
		source = owner.touching.snapshot()
	} else {
		source = owner.hitting.snapshot()
	}
	batch := make([]SyntheticTouchInput, 0, len(source))
	for t, ip := range source {
		if ip == nil {
			// slid off the owning element's hit area while still pressed;
			// nothing to project into the nested surface this frame.
			continue
		}
		u := ip.Surface.X * s.options.Width
		v := ip.Surface.Y * s.options.Height
		batch = append(batch, SyntheticTouchInput{
			ID:      t.ID,
			Point:   Vec2{X: u, Y: v},
			Origin:  Vec3{u, v, 1},
			ViewDir: Vec3{0, 0, -1},
			Force:   t.Force,
			Device:  t.Device,
		})
	}
	s.ctx.stepWithTouches(dt, batch)
}
