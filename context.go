package probe

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ContextConfig tunes a Context's per-frame behavior. It is a plain struct
// of direct fields rather than functional options.
type ContextConfig struct {
	// UseParallel enables the concurrent hit-test and element phases.
	// Disabled, Step runs both phases on the calling goroutine, useful for
	// deterministic single-threaded tests.
	UseParallel bool

	// MaxParallelism bounds the number of goroutines the hit-test and
	// element phases run concurrently. 0 means runtime.NumCPU().
	MaxParallelism int

	// MinimumForce is the press force (touch.Force) at or above which a
	// touch counts as pressed. A touch below it is still ingested,
	// hit-tested, and hovered; it just never starts touching. Default -1.
	MinimumForce float64

	// ConsiderNewBefore is the frame count a touch's FramesSincePressed
	// must stay under for the touch-begin event to treat it as a fresh
	// press rather than one already mid-interaction when it first reaches
	// this element (e.g. after sliding in from another).
	ConsiderNewBefore int

	// ConsiderReleasedAfter bounds a touch's ExpireFrames, which every Step
	// increments and which resets to 0 whenever the touch is in the input
	// batch. A touch whose ExpireFrames already exceeds it at the start of
	// a Step is removed from the touch table; independently, the element
	// phase ends a hitting/touching entry once its touch exceeds it.
	ConsiderReleasedAfter int

	// UpdateOnlyChangeFlagged, when set, makes AddOrUpdateElements skip
	// reconciling a prototype subtree whose root pointer is identical to
	// the one last seen for that id. Prototypes are stateless and
	// user-owned (see prototype.go); a prototype edited in place keeps its
	// pointer, so its edits are not reconciled while this is set.
	UpdateOnlyChangeFlagged bool

	// Debug enables per-frame diagnostic logging to stderr.
	Debug bool
}

// DefaultContextConfig returns the stock configuration: parallel phases on,
// MinimumForce -1, ConsiderNewBefore and ConsiderReleasedAfter 1.
// NewContext does not apply it; SubContext uses it for its nested Context.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		UseParallel:           true,
		MinimumForce:          -1,
		ConsiderNewBefore:     1,
		ConsiderReleasedAfter: 1,
	}
}

// ScreenTouchInput is one host-reported pointer sample for a Step call: a
// screen-space point plus force, keyed by a stable per-pointer id,
// supporting an arbitrary set of concurrent pointers/touches. There is no
// Pressed field: press state is derived by Context from Force against
// Config.MinimumForce, never supplied directly by the host.
type ScreenTouchInput struct {
	ID          int
	ScreenPoint Vec2
	Force       float64
	Device      *PointingDevice
}

// SyntheticTouchInput is a touch sample already resolved to a world-space
// ray, either by Context.Step's screen-to-world unprojection or by a
// SubContext projecting its owner's surface coordinates. Point carries the
// pre-unprojection 2D point in whichever space the caller samples pointers
// in (screen pixels for Context.Step, surface coordinates scaled by
// SubContextOptions Width/Height for SubContext.step) so ingest can derive Touch.Velocity from it. As with
// ScreenTouchInput, press state is derived from Force, not supplied here.
type SyntheticTouchInput struct {
	ID      int
	Point   Vec2
	Origin  Vec3
	ViewDir Vec3
	Force   float64
	Device  *PointingDevice
}

// Context owns a tree of Elements, the live touch table, and the camera
// matrices needed to turn screen-space input into world-space rays. Step
// advances everything by one frame.
type Context struct {
	Config ContextConfig

	touches *touchTable

	roots          map[int]*Element
	flat           []*Element
	lastPrototypes map[int]*Prototype

	ViewMatrix Mat4
	ProjMatrix Mat4
	Viewport   Rect

	frame  int
	lastDT float64

	errors []*FrameError

	entityStore EntityStore
}

// SetEntityStore installs an optional ECS bridge: every hit/touch/
// interaction event fired at any element is also forwarded to it as an
// InteractionEvent.
func (c *Context) SetEntityStore(store EntityStore) {
	c.entityStore = store
}

// fire runs cb (if set) and, if an EntityStore is installed, forwards the
// same event to it as an InteractionEvent keyed by kind.
func (c *Context) fire(kind EventKind, cb func(TouchEvent), e *Element, t *Touch, ip *IntersectionPoint) {
	fireTouchEvent(cb, e, t, ip)
	if c.entityStore == nil {
		return
	}
	ev := InteractionEvent{Kind: kind, ElementID: e.id, Touch: t}
	if ip != nil {
		ev.World = ip.World
		ev.Surface = ip.Surface
	}
	c.entityStore.EmitEvent(ev)
}

// DeltaTime returns the dt seconds passed to the most recent Step call, for
// behaviors that need the frame interval but aren't handed it directly.
func (c *Context) DeltaTime() float64 { return c.lastDT }

// NewContext returns an empty Context with the given configuration.
func NewContext(cfg ContextConfig) *Context {
	return &Context{
		Config:         cfg,
		touches:        newTouchTable(),
		roots:          make(map[int]*Element),
		lastPrototypes: make(map[int]*Prototype),
	}
}

// SetCamera installs the view/projection matrices and screen-space
// viewport Step uses to unproject ScreenTouchInput points into rays.
func (c *Context) SetCamera(view, proj Mat4, viewport Rect) {
	c.ViewMatrix = view
	c.ProjMatrix = proj
	c.Viewport = viewport
}

// Roots returns the top-level elements, keyed by id.
func (c *Context) Roots() map[int]*Element { return c.roots }

// Flat returns the most recently rebuilt depth-first element list.
func (c *Context) Flat() []*Element { return c.flat }

// Errors returns the FrameErrors collected during the most recent Step or
// AddOrUpdateElements call.
func (c *Context) Errors() []*FrameError { return c.errors }

// AddOrUpdateElements reconciles prototypes (keyed by id, top-level only)
// onto this Context's root elements: existing roots are updated in place,
// new ones instantiated, and, if removeMissing, roots absent from
// prototypes have StartDeletion called on them. Mirrors Element.UpdateChildren
// one level up, since a Context's roots have no single owning Element.
func (c *Context) AddOrUpdateElements(removeMissing bool, prototypes map[int]*Prototype) []*FrameError {
	c.errors = c.errors[:0]

	for id, p := range prototypes {
		if c.Config.UpdateOnlyChangeFlagged && c.lastPrototypes[id] == p {
			continue
		}
		if existing, ok := c.roots[id]; ok {
			existing.UpdateFrom(p)
			c.errors = append(c.errors, existing.UpdateChildren(true, p.Children)...)
		} else {
			el, childErrs := instantiateElement(p, nil)
			c.errors = append(c.errors, childErrs...)
			c.roots[id] = el
		}
		c.lastPrototypes[id] = p
	}
	if removeMissing {
		for id, el := range c.roots {
			if _, ok := prototypes[id]; !ok {
				el.StartDeletion()
			}
		}
	}
	c.rebuildFlatList()
	return c.errors
}

// rebuildFlatList walks the root set depth-first, physically removing any
// element flagged deleteMe (the garbage-collection half of the lifecycle
// state machine: a FadingOut element that reached Deleted stays in the
// tree, still visible to queries, until this pass drops it). OnDeleting
// fires on each element right as it's dropped.
func (c *Context) rebuildFlatList() {
	c.flat = c.flat[:0]
	for id, el := range c.roots {
		if el.deleteMe {
			if el.callbacks.OnDeleting != nil {
				el.callbacks.OnDeleting()
			}
			delete(c.roots, id)
			continue
		}
		c.collect(el)
	}
}

func (c *Context) collect(el *Element) {
	c.flat = append(c.flat, el)
	live := el.childOrder[:0]
	for _, id := range el.childOrder {
		child := el.children[id]
		if child.deleteMe {
			if child.callbacks.OnDeleting != nil {
				child.callbacks.OnDeleting()
			}
			delete(el.children, id)
			continue
		}
		live = append(live, id)
		c.collect(child)
	}
	el.childOrder = live
}

// Step advances the Context by dt seconds against the given frame's
// pointer samples: touches are unprojected to world-space rays via
// ViewMatrix/ProjMatrix/Viewport, then run through the shared pipeline in
// stepWithTouches.
func (c *Context) Step(dt float64, touches []ScreenTouchInput) []*FrameError {
	invViewProj := c.ProjMatrix.Mul4(c.ViewMatrix).Inv()

	batch := make([]SyntheticTouchInput, 0, len(touches))
	for _, in := range touches {
		ndcX := (in.ScreenPoint.X/c.Viewport.Width)*2 - 1
		ndcY := 1 - (in.ScreenPoint.Y/c.Viewport.Height)*2
		near := unproject(invViewProj, ndcX, ndcY, -1)
		far := unproject(invViewProj, ndcX, ndcY, 1)
		dir := far.Sub(near)
		if n := dir.Len(); n > 1e-12 {
			dir = dir.Mul(1 / n)
		}
		batch = append(batch, SyntheticTouchInput{
			ID:      in.ID,
			Point:   in.ScreenPoint,
			Origin:  near,
			ViewDir: dir,
			Force:   in.Force,
			Device:  in.Device,
		})
	}
	return c.stepWithTouches(dt, batch)
}

func unproject(invViewProj Mat4, ndcX, ndcY, ndcZ float64) Vec3 {
	clip := Vec4{ndcX, ndcY, ndcZ, 1}
	world := invViewProj.Mul4x1(clip)
	if w := world[3]; w != 0 {
		return Vec3{world[0] / w, world[1] / w, world[2] / w}
	}
	return world.Vec3()
}

// stepWithTouches runs the frame pipeline against an
// already-resolved batch of world-space touch samples: ingestion and
// expiry (serial), then the hit-test and element phases (parallel unless
// Config.UseParallel is false). Used by both Step (top-level, screen-space
// input) and SubContext.step (nested, surface-projected input).
func (c *Context) stepWithTouches(dt float64, batch []SyntheticTouchInput) []*FrameError {
	c.frame++
	c.lastDT = dt
	c.errors = c.errors[:0]

	start := time.Now()
	c.expireTouches()
	c.ingest(batch)
	ingestTime := time.Since(start)

	c.rebuildFlatList()
	if c.Config.Debug {
		for _, root := range c.roots {
			debugCheckTreeDepth(root)
			debugCheckChildCount(root)
		}
		for _, e := range c.flat {
			debugCheckDeleted(e, "flat-list")
			debugCheckFadeOutBudget(e)
		}
	}

	for _, e := range c.flat {
		e.hovering.clear()
	}

	live := c.touches.all()

	// refresh every lazily cached world matrix here, so the hit-test phase
	// only reads them
	for _, e := range c.flat {
		e.DisplayMatrix()
	}

	hitStart := time.Now()
	if c.Config.UseParallel {
		c.hitTestPhaseParallel(live)
	} else {
		for _, t := range live {
			c.hitTestOne(t)
		}
	}
	hitTestTime := time.Since(hitStart)

	elemStart := time.Now()
	if c.Config.UseParallel {
		c.elementPhaseParallel(dt)
	} else {
		for _, e := range c.flat {
			c.elementPhaseOne(e, dt)
		}
	}
	elementTime := time.Since(elemStart)

	siblingStart := time.Now()
	for _, e := range c.flat {
		e.runBehaviors(c, true)
	}
	siblingTime := time.Since(siblingStart)

	if c.Config.Debug {
		c.debugLog(debugStats{
			ingestTime:   ingestTime,
			hitTestTime:  hitTestTime,
			elementTime:  elementTime,
			siblingTime:  siblingTime,
			touchCount:   len(live),
			elementCount: len(c.flat),
			errorCount:   len(c.errors),
		})
		debugLogErrors(c.errors)
	}

	return c.errors
}

// expireTouches drops touches absent from the input batch for more than
// ConsiderReleasedAfter frames from the touch table entirely; every
// surviving touch's ExpireFrames is then incremented (ingest resets it
// back to 0 for any touch present in this frame's batch) and its
// AttachedObject and Device from last frame are cleared (ingest sets Device
// again for touches in the batch).
func (c *Context) expireTouches() {
	for _, t := range c.touches.all() {
		if t.ExpireFrames > c.Config.ConsiderReleasedAfter {
			c.removeTouch(t)
		}
	}
	for _, t := range c.touches.all() {
		t.ExpireFrames++
		t.AttachedObject = nil
		t.Device = nil
	}
}

func (c *Context) removeTouch(t *Touch) {
	for _, e := range c.flat {
		e.hovering.delete(t)
		e.hitting.delete(t)
		e.touching.delete(t)
		e.touchBegin.delete(t)
	}
	c.touches.remove(t.ID)
}

// ingest refreshes point/velocity/ray/force and resets ExpireFrames to 0
// for every touch present in the batch (it was "sighted" this frame).
// Pressed is latched from Force against Config.MinimumForce, never taken
// from the input directly: a touch below the threshold still gets
// ingested, hit-tested, and hovered, it just never starts a touching
// session. FramesSincePressed resets to 0 on the not-pressed->pressed edge
// and otherwise increments while the touch remains pressed. Velocity is
// the per-frame delta of Point, zero for a touch seen for the first time.
func (c *Context) ingest(batch []SyntheticTouchInput) {
	for _, in := range batch {
		t, created := c.touches.getOrCreate(in.ID, c.frame)
		if created {
			t.Velocity = Vec2{}
		} else {
			t.Velocity = Vec2{X: in.Point.X - t.Point.X, Y: in.Point.Y - t.Point.Y}
		}
		t.Point = in.Point
		t.Origin = in.Origin
		t.ViewDir = in.ViewDir
		t.Force = in.Force
		t.ExpireFrames = 0
		pressed := in.Force >= c.Config.MinimumForce
		if !created {
			if pressed && !t.Pressed {
				t.FramesSincePressed = 0
			} else if pressed {
				t.FramesSincePressed++
			}
		}
		t.Pressed = pressed
		t.Device = in.Device
	}
}

func workerCount(cfg ContextConfig) int64 {
	if cfg.MaxParallelism > 0 {
		return int64(cfg.MaxParallelism)
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return int64(n)
}

// hitTestPhaseParallel runs one goroutine per live touch, bounded by a
// weighted semaphore. Each goroutine owns its touch exclusively, so no
// synchronization is needed beyond Element's own touchMap locks.
func (c *Context) hitTestPhaseParallel(live []*Touch) {
	sem := semaphore.NewWeighted(workerCount(c.Config))
	g, ctx := errgroup.WithContext(context.Background())
	for _, t := range live {
		t := t
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			c.hitTestOne(t)
			return nil
		})
	}
	_ = g.Wait()
}

// hitTestOne runs the occlusion-aware hit-test for one touch against every
// active element: every element the touch's ray hits (HitTest with no
// previous-position fallback) is depth-sorted by distance from the touch's
// ray origin, which for points along a single ray orders identically to
// screen-space z/w depth without requiring a real camera (SubContext rays
// have none). Hover status is granted to the sorted prefix up to and
// including the first opaque element: transparent elements don't occlude,
// so the chain stops right after the first opaque one.
func (c *Context) hitTestOne(t *Touch) {
	type hitResult struct {
		el   *Element
		ip   *IntersectionPoint
		dist float64
	}
	var hits []hitResult
	for _, e := range c.flat {
		if !e.Active() {
			continue
		}
		ip, _ := e.HitTest(t, false)
		if ip == nil {
			continue
		}
		d := ip.World.Sub(t.Origin).Len()
		hits = append(hits, hitResult{el: e, ip: ip, dist: d})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	newAttached := make([]*Element, 0, len(hits))
	for _, h := range hits {
		newAttached = append(newAttached, h.el)
		h.el.hovering.set(t, h.ip)
		if h.el.Transparent() {
			continue
		}
		break
	}
	t.AttachedObject = newAttached
}

// elementPhaseParallel runs one goroutine per element in the flat list,
// bounded the same way as hitTestPhaseParallel. Sibling-rewriting
// behaviors are excluded here and run in a serialized pass afterward,
// since they mutate state belonging to elements other than the one
// they're attached to.
func (c *Context) elementPhaseParallel(dt float64) {
	sem := semaphore.NewWeighted(workerCount(c.Config))
	g, ctx := errgroup.WithContext(context.Background())
	for _, e := range c.flat {
		e := e
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			c.elementPhaseOne(e, dt)
			return nil
		})
	}
	_ = g.Wait()
}

// elementPhaseOne runs the per-element update sub-steps for one element,
// in order.
func (c *Context) elementPhaseOne(e *Element, dt float64) {
	if e.callbacks.OnMainLoopBegin != nil {
		e.callbacks.OnMainLoopBegin()
	}

	c.endExpiredTouching(e)  // 8a
	c.endExpiredHitting(e)   // 8b
	c.refreshIntersections(e) // 8d (hit_test recompute drives 8b's genuine-miss case too)

	e.Age += dt
	e.advanceFade(dt) // 8e

	c.fireMouseEvents(e) // 8f

	if e.transformationFollowTime > 0 { // 8g
		e.DisplayTransform.FollowWithDamper(e.TargetTransform, e.transformationFollowTime, dt, e.applyTransformMask)
	}

	for t, ip := range e.touching.snapshot() { // 8h
		c.fire(EventInteracting, e.callbacks.OnInteracting, e, t, ip)
	}

	e.runBehaviors(c, false) // 8i

	if e.SubContext != nil {
		e.SubContext.step(e, dt)
	}

	c.processHovering(e) // 8j

	e.hit = e.hitting.len() > 0
	e.touched = e.touching.len() > 0

	if e.callbacks.OnMainLoopEnd != nil {
		e.callbacks.OnMainLoopEnd()
	}
}

func (e *Element) runBehaviors(ctx *Context, siblingRewriting bool) {
	for _, b := range e.Behaviors {
		_, isSiblingRewriting := b.(SiblingRewritingBehavior)
		if isSiblingRewriting == siblingRewriting {
			b.Behave(e, ctx)
		}
	}
}

// endExpiredTouching ends a touch's touching session once released or once
// it has gone unrefreshed for too long; on the non-empty->empty transition,
// OnInteractionEnd fires. This is the only site that fires it, since
// interaction begin/end track touching, not hovering.
func (c *Context) endExpiredTouching(e *Element) {
	before := e.touching.len()
	var lastTouch *Touch
	var lastIP *IntersectionPoint
	for t, prevIP := range e.touching.snapshot() {
		if t.ExpireFrames > c.Config.ConsiderReleasedAfter || !t.Pressed {
			e.touching.delete(t)
			e.touchBegin.delete(t)
			c.fire(EventTouchEnd, e.callbacks.OnTouchEnd, e, t, prevIP)
			lastTouch, lastIP = t, prevIP
		}
	}
	if before > 0 && e.touching.len() == 0 {
		c.fire(EventInteractionEnd, e.callbacks.OnInteractionEnd, e, lastTouch, lastIP)
	}
}

// endExpiredHitting ages out hitting entries purely by ExpireFrames,
// independent of press state.
func (c *Context) endExpiredHitting(e *Element) {
	for t, prevIP := range e.hitting.snapshot() {
		if t.ExpireFrames > c.Config.ConsiderReleasedAfter {
			e.hitting.delete(t)
			c.fire(EventHitEnd, e.callbacks.OnHitEnd, e, t, prevIP)
		}
	}
}

// refreshIntersections recomputes the intersection for every touch still
// tracked in hitting or touching against this frame's geometry (no
// previous-position fallback, so a genuine miss is a genuine miss here). A
// hitting entry that now misses ends the hit; this is where a true
// slide-off, as opposed to mere expiry, is detected. A touching entry that
// now misses keeps its slot but drops to a nil intersection, since the
// session itself only ends via release or expiry, not a momentary miss.
func (c *Context) refreshIntersections(e *Element) {
	for t := range e.hitting.snapshot() {
		ip, _ := e.HitTest(t, false)
		if ip == nil {
			if prev, ok := e.hitting.get(t); ok {
				e.hitting.delete(t)
				c.fire(EventHitEnd, e.callbacks.OnHitEnd, e, t, prev)
			}
			continue
		}
		e.hitting.set(t, ip)
	}
	for t := range e.touching.snapshot() {
		ip, _ := e.HitTest(t, false)
		e.touching.set(t, ip)
	}
}

// fireMouseEvents surfaces scroll and button edges from any mouse-backed
// touch attached to this element this frame (its hovering set, populated
// by the hit-test phase) as element events.
func (c *Context) fireMouseEvents(e *Element) {
	for t := range e.hovering.snapshot() {
		d := t.Device
		if d == nil {
			continue
		}
		if d.ScrollY != 0 && e.callbacks.OnVerticalMouseWheelChange != nil {
			e.callbacks.OnVerticalMouseWheelChange(WheelEvent{Element: e, Touch: t, Delta: d.ScrollY})
		}
		if d.ScrollX != 0 && e.callbacks.OnHorizontalMouseWheelChange != nil {
			e.callbacks.OnHorizontalMouseWheelChange(WheelEvent{Element: e, Touch: t, Delta: d.ScrollX})
		}
		for _, b := range d.ButtonsPressed {
			if e.callbacks.OnMouseButtonPressed != nil {
				e.callbacks.OnMouseButtonPressed(ButtonEvent{Element: e, Touch: t, Button: b})
			}
		}
		for _, b := range d.ButtonsReleased {
			if e.callbacks.OnMouseButtonReleased != nil {
				e.callbacks.OnMouseButtonReleased(ButtonEvent{Element: e, Touch: t, Button: b})
			}
		}
	}
}

// processHovering starts a hit session for every touch this frame's
// hit-test phase attached to this element (its hovering set) if it doesn't
// already have one, and, if it's pressed, not already touching, and still
// within ConsiderNewBefore frames of its own press edge, starts an
// interaction/touch session too.
func (c *Context) processHovering(e *Element) {
	for t, ip := range e.hovering.snapshot() {
		if _, already := e.hitting.get(t); !already {
			e.hitting.set(t, ip)
			c.fire(EventHitBegin, e.callbacks.OnHitBegin, e, t, ip)
		}

		if !t.Pressed {
			continue
		}
		if _, touching := e.touching.get(t); touching {
			continue
		}
		if t.FramesSincePressed >= c.Config.ConsiderNewBefore {
			continue
		}
		wasEmpty := e.touching.len() == 0
		e.touching.set(t, ip)
		e.touchBegin.set(t, ip)
		if wasEmpty {
			c.fire(EventInteractionBegin, e.callbacks.OnInteractionBegin, e, t, ip)
		}
		c.fire(EventTouchBegin, e.callbacks.OnTouchBegin, e, t, ip)
	}
}
