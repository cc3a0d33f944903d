// Package behaviors collects the stock probe.Behavior implementations:
// dragging/scaling (Sliding), sibling reordering (RaiseOnTouch),
// 2D value sliders, and mouse-wheel scroll. Each stores its own per-element
// state under probe.BehaviorAuxKey so attaching the same *Sliding value to
// many elements is safe and carries no shared mutable state.
package behaviors

import (
	"math"

	"github.com/fenwick3d/probe"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Plane selects which plane a Sliding behavior projects touches onto before
// computing deltas.
type Plane int

const (
	// ViewAligned builds a billboard plane perpendicular to the first
	// tracked touch's ray direction (+Z when there is none), centered on
	// the element's world position.
	ViewAligned Plane = iota
	// OwnPlane uses the element's own local XY plane, in world space.
	OwnPlane
	// ParentPlane uses the parent's local XY plane, in world space.
	// Falls back to ViewAligned when the element has no parent.
	ParentPlane
)

// Limit2 bounds a Vec2 accumulation to an axis-aligned box.
type Limit2 struct {
	Min, Max probe.Vec2
}

func (l *Limit2) clamp(v probe.Vec2) probe.Vec2 {
	if l == nil {
		return v
	}
	return probe.Vec2{X: clampF(v.X, l.Min.X, l.Max.X), Y: clampF(v.Y, l.Min.Y, l.Max.Y)}
}

// LimitRange bounds a scalar accumulation (total rotation or scale) to
// [Min, Max]. Used for rotation cycle bounds and scale_min_max.
type LimitRange struct {
	Min, Max float64
}

func (l *LimitRange) clamp(v float64) float64 {
	if l == nil {
		return v
	}
	return clampF(v, l.Min, l.Max)
}

func clampF(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Sliding is the canonical drag/pinch/rotate behavior: while MinimumTouches
// or more touches are captured on the element, it translates (Draggable),
// scales (Scalable), and/or rotates about the chosen plane's normal
// (Pivotable) the element's DisplayTransform to track the touches' movement
// across a plane selected by Plane. Its per-frame motion is smoothed over a
// trailing two-frame window rather than applied at the raw instantaneous
// reading, so an isolated single-frame move reads as a gentler half-gain
// response before sustained movement settles it to full gain. On release
// it coasts for FlickDuration seconds, seeded from the delayed-delta buffer
// at FlickVelocityDelay ago rather than the instant of release, decaying
// with FlickEase.
type Sliding struct {
	GUID string

	Draggable bool
	Scalable  bool
	Pivotable bool

	Plane Plane

	// DragCoeff scales the translation delta per plane axis before
	// application. The zero value is treated as {1, 1}.
	DragCoeff probe.Vec2
	// RotateCoeff and ScaleCoeff scale the rotation/scale deltas before
	// application. The zero value of each is treated as 1.
	RotateCoeff float64
	ScaleCoeff  float64

	MinimumTouches int

	// TranslationLimit, RotationLimit and ScaleLimit bound the element's
	// local position (plane X/Y), accumulated rotation angle, and scale,
	// respectively. Nil means unbounded.
	TranslationLimit *Limit2
	RotationLimit    *LimitRange
	ScaleLimit       *LimitRange

	FlickDuration      float32
	FlickEase          ease.TweenFunc
	FlickVelocityDelay float64
}

// ID returns the GUID used to key this behavior's per-element state.
func (s *Sliding) ID() string { return s.GUID }

func (s *Sliding) dragCoeff() probe.Vec2 {
	if s.DragCoeff == (probe.Vec2{}) {
		return probe.Vec2{X: 1, Y: 1}
	}
	return s.DragCoeff
}

func (s *Sliding) rotateCoeff() float64 {
	if s.RotateCoeff == 0 {
		return 1
	}
	return s.RotateCoeff
}

func (s *Sliding) scaleCoeff() float64 {
	if s.ScaleCoeff == 0 {
		return 1
	}
	return s.ScaleCoeff
}

type slidingTouchState struct {
	lastWorld probe.Vec3
}

// delayedDelta is one sample of a Sliding's delta_pos/delta_angle/delta_size
// taken at a point in the behavior's own running clock.
type delayedDelta struct {
	clock float64
	pos   probe.Vec2
	angle float64
	size  float64
}

// delayedDeltaBuffer keeps the last second of delayedDelta samples so a
// released flick can be seeded from a few frames before the release rather
// than the release frame itself, which is frequently a near-stationary
// "lift off" sample.
type delayedDeltaBuffer struct {
	entries []delayedDelta
}

const delayedDeltaWindow = 1.0 // seconds

func (b *delayedDeltaBuffer) push(clock float64, pos probe.Vec2, angle, size float64) {
	b.entries = append(b.entries, delayedDelta{clock: clock, pos: pos, angle: angle, size: size})
	cutoff := clock - delayedDeltaWindow
	i := 0
	for i < len(b.entries) && b.entries[i].clock < cutoff {
		i++
	}
	if i > 0 {
		b.entries = b.entries[i:]
	}
}

// at returns the sample closest to delay seconds before clock, or the zero
// delta if nothing has been recorded yet.
func (b *delayedDeltaBuffer) at(clock, delay float64) delayedDelta {
	if len(b.entries) == 0 {
		return delayedDelta{}
	}
	target := clock - delay
	best := b.entries[0]
	bestDiff := math.Abs(best.clock - target)
	for _, e := range b.entries[1:] {
		if d := math.Abs(e.clock - target); d < bestDiff {
			best, bestDiff = e, d
		}
	}
	return best
}

// slidingState is the per-element auxiliary object a Sliding behavior
// stores under probe.BehaviorAuxKey(s.ID()).
type slidingState struct {
	perTouch map[*probe.Touch]slidingTouchState

	clock      float64
	wasActive  bool
	totalAngle float64

	// prevRaw{Pos,Angle,Size} hold the previous frame's raw (unsmoothed)
	// delta, used to smooth delta_pos/delta_angle/delta_size over a
	// trailing two-frame window (see Behave). Zeroed whenever the touch
	// count drops below threshold, so a fresh gesture always starts its
	// own smoothing window from rest rather than carrying over a stale
	// velocity from an unrelated previous gesture.
	prevRawPos   probe.Vec2
	prevRawAngle float64
	prevRawSize  float64

	buffer delayedDeltaBuffer

	flicking   bool
	flickPos   probe.Vec2
	flickAngle float64
	flickSize  float64
	flickTween *gween.Tween
}

func newSlidingState() *slidingState {
	return &slidingState{perTouch: make(map[*probe.Touch]slidingTouchState)}
}

// Copy returns an independent slidingState with no in-flight per-touch
// tracking or flick: a fresh drag always starts clean on the copy target.
func (s *slidingState) Copy() probe.AuxiliaryObject {
	return newSlidingState()
}

// UpdateFrom is a no-op: slidingState is purely runtime bookkeeping, not
// something a host ever supplies through a Prototype's AttachedValues.
func (s *slidingState) UpdateFrom(probe.AuxiliaryObject) {}

func (s *Sliding) state(e *probe.Element) *slidingState {
	key := probe.BehaviorAuxKey(s.ID())
	obj := e.Values().Object(key)
	st, ok := obj.(*slidingState)
	if !ok {
		st = newSlidingState()
		e.Values().SetObject(key, st)
	}
	return st
}

// planeBasis returns an origin and right/up/normal basis, all in world
// space, for the plane touches are projected onto this frame.
func (s *Sliding) planeBasis(e *probe.Element, touches []*probe.Touch) (origin, right, up, normal probe.Vec3) {
	switch s.Plane {
	case OwnPlane:
		return axesFromMatrix(e.DisplayMatrix())
	case ParentPlane:
		if e.Parent != nil {
			return axesFromMatrix(e.Parent.DisplayMatrix())
		}
	}
	// ViewAligned, and ParentPlane's no-parent fallback.
	origin = e.DisplayMatrix().Mul4x1(probe.Vec4{0, 0, 0, 1}).Vec3()
	normal = probe.Vec3{0, 0, 1}
	if len(touches) > 0 {
		normal = touches[0].ViewDir
	}
	if normal.Len() < 1e-9 {
		normal = probe.Vec3{0, 0, 1}
	} else {
		normal = normal.Normalize()
	}
	worldUp := probe.Vec3{0, 1, 0}
	if math.Abs(normal.Dot(worldUp)) > 0.999 {
		worldUp = probe.Vec3{1, 0, 0}
	}
	right = worldUp.Cross(normal).Normalize()
	up = normal.Cross(right)
	return origin, right, up, normal
}

func axesFromMatrix(m probe.Mat4) (origin, right, up, normal probe.Vec3) {
	origin = m.Mul4x1(probe.Vec4{0, 0, 0, 1}).Vec3()
	right = m.Mul4x1(probe.Vec4{1, 0, 0, 0}).Vec3()
	up = m.Mul4x1(probe.Vec4{0, 1, 0, 0}).Vec3()
	normal = m.Mul4x1(probe.Vec4{0, 0, 1, 0}).Vec3()
	return
}

func projectToPlane(origin, right, up, world probe.Vec3) probe.Vec2 {
	rel := world.Sub(origin)
	return probe.Vec2{X: rel.Dot(right), Y: rel.Dot(up)}
}

// Behave implements probe.Behavior.
func (s *Sliding) Behave(e *probe.Element, ctx *probe.Context) {
	st := s.state(e)
	st.clock += ctx.DeltaTime()
	touching := e.Touching()

	active := len(touching) > 0 && len(touching) >= s.MinimumTouches

	if !active {
		if st.wasActive {
			seed := st.buffer.at(st.clock, s.FlickVelocityDelay)
			st.flicking = true
			st.flickPos = seed.pos
			st.flickAngle = seed.angle
			st.flickSize = seed.size
			st.flickTween = nil
		}
		st.wasActive = false
		st.prevRawPos, st.prevRawAngle, st.prevRawSize = probe.Vec2{}, 0, 0
		for t := range st.perTouch {
			if _, stillTouching := touching[t]; !stillTouching {
				delete(st.perTouch, t)
			}
		}
		s.advanceFlick(e, st, ctx.DeltaTime())
		return
	}
	st.wasActive = true

	touches := make([]*probe.Touch, 0, len(touching))
	for t := range touching {
		touches = append(touches, t)
	}
	origin, right, up, normal := s.planeBasis(e, touches)

	var tracked []slidingSample
	for t, ip := range touching {
		if ip == nil {
			// slid off the element while still pressed; hold position
			// rather than jump when it re-enters the hover area.
			continue
		}
		prev, ok := st.perTouch[t]
		if !ok {
			// First frame this behavior has observed t in touching. By now
			// e.Touching()'s own entry for t has already been refreshed to
			// this frame's position (8d runs before 8i), so the touch's
			// own press-frame intersection, recorded the instant it
			// entered touching, is the only place the real baseline
			// survives. Without it the press->this-frame motion would be
			// silently dropped and dragging would only start a frame late.
			if begin, hasBegin := e.TouchBegin(t); hasBegin && begin != nil {
				prev, ok = slidingTouchState{lastWorld: begin.World}, true
			}
		}
		st.perTouch[t] = slidingTouchState{lastWorld: ip.World}
		if !ok {
			continue
		}
		tracked = append(tracked, slidingSample{
			touch: t,
			cur:   projectToPlane(origin, right, up, ip.World),
			prev:  projectToPlane(origin, right, up, prev.lastWorld),
		})
	}
	for t := range st.perTouch {
		if _, stillTouching := touching[t]; !stillTouching {
			delete(st.perTouch, t)
		}
	}
	if len(tracked) == 0 {
		return
	}

	var rawPos probe.Vec2
	var rawAngle, rawSize float64

	switch {
	case len(tracked) == 1 && s.Draggable:
		rawPos = probe.Vec2{X: tracked[0].cur.X - tracked[0].prev.X, Y: tracked[0].cur.Y - tracked[0].prev.Y}
	case len(tracked) == 1:
		// Not draggable but rotatable/scalable: treat the lone touch as a
		// two-point gesture against its mirror through the plane origin.
		// The mirror's contribution to the average position is always the
		// negation of the touch's own, so avg_curr - avg_prev cancels to
		// zero (no translation); the angle/radius of the touch about the
		// origin carries the rotation/scale.
		curAngle := math.Atan2(tracked[0].cur.Y, tracked[0].cur.X)
		prevAngle := math.Atan2(tracked[0].prev.Y, tracked[0].prev.X)
		rawAngle = normalizeAngle(curAngle - prevAngle)
		rawSize = math.Hypot(tracked[0].cur.X, tracked[0].cur.Y) - math.Hypot(tracked[0].prev.X, tracked[0].prev.Y)
	default:
		a, b := fastestTwo(tracked)
		avgCur := probe.Vec2{X: (a.cur.X + b.cur.X) / 2, Y: (a.cur.Y + b.cur.Y) / 2}
		avgPrev := probe.Vec2{X: (a.prev.X + b.prev.X) / 2, Y: (a.prev.Y + b.prev.Y) / 2}
		rawPos = probe.Vec2{X: avgCur.X - avgPrev.X, Y: avgCur.Y - avgPrev.Y}
		curVec := probe.Vec2{X: b.cur.X - a.cur.X, Y: b.cur.Y - a.cur.Y}
		prevVec := probe.Vec2{X: b.prev.X - a.prev.X, Y: b.prev.Y - a.prev.Y}
		rawAngle = normalizeAngle(math.Atan2(curVec.Y, curVec.X) - math.Atan2(prevVec.Y, prevVec.X))
		rawSize = math.Hypot(curVec.X, curVec.Y) - math.Hypot(prevVec.X, prevVec.Y)
	}

	// delta_pos/delta_angle/delta_size are smoothed over a trailing
	// two-frame window rather than taken as this frame's raw reading: a
	// velocity derived from a single sample is noisy, and smoothing it
	// against the previous frame's raw reading (zero, the first frame a
	// gesture produces one) is what gives a single isolated motion a
	// half-gain response before it settles to full gain once sustained.
	deltaPos := probe.Vec2{X: (rawPos.X + st.prevRawPos.X) / 2, Y: (rawPos.Y + st.prevRawPos.Y) / 2}
	deltaAngle := (rawAngle + st.prevRawAngle) / 2
	deltaSize := (rawSize + st.prevRawSize) / 2
	st.prevRawPos, st.prevRawAngle, st.prevRawSize = rawPos, rawAngle, rawSize

	st.buffer.push(st.clock, deltaPos, deltaAngle, deltaSize)
	s.apply(e, st, right, up, normal, deltaPos, deltaAngle, deltaSize)
}

// slidingSample is one touch's current and previous plane-local position,
// tracked frame to frame while it remains in the touching set.
type slidingSample struct {
	touch *probe.Touch
	cur   probe.Vec2
	prev  probe.Vec2
}

func (s slidingSample) speedSq() float64 {
	dx, dy := s.cur.X-s.prev.X, s.cur.Y-s.prev.Y
	return dx*dx + dy*dy
}

// fastestTwo picks the two tracked samples with the largest planar
// displacement this frame, by squared velocity, breaking ties by ascending
// touch id so the pair stays stable frame to frame. Returned in ascending
// touch-id order.
func fastestTwo(tracked []slidingSample) (a, b slidingSample) {
	faster := func(i, j int) bool {
		si, sj := tracked[i].speedSq(), tracked[j].speedSq()
		if si != sj {
			return si > sj
		}
		return tracked[i].touch.ID < tracked[j].touch.ID
	}
	firstIdx, secondIdx := 0, 1
	if faster(secondIdx, firstIdx) {
		firstIdx, secondIdx = secondIdx, firstIdx
	}
	for i := 2; i < len(tracked); i++ {
		switch {
		case faster(i, firstIdx):
			secondIdx = firstIdx
			firstIdx = i
		case faster(i, secondIdx):
			secondIdx = i
		}
	}
	a, b = tracked[firstIdx], tracked[secondIdx]
	if a.touch.ID > b.touch.ID {
		a, b = b, a
	}
	return a, b
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// apply applies one frame's translation/scale/rotation deltas to e,
// honoring Draggable/Scalable/Pivotable, per-axis coefficients, and the
// configured limits.
func (s *Sliding) apply(e *probe.Element, st *slidingState, right, up, normal probe.Vec3, deltaPos probe.Vec2, deltaAngle, deltaSize float64) {
	if s.Draggable && (deltaPos != probe.Vec2{}) {
		coeff := s.dragCoeff()
		worldDelta := right.Mul(deltaPos.X * coeff.X).Add(up.Mul(deltaPos.Y * coeff.Y))
		pos := e.DisplayTransform.Position().Add(worldDelta)
		local := s.TranslationLimit.clamp(probe.Vec2{X: pos[0], Y: pos[1]})
		e.DisplayTransform.SetPosition(probe.Vec3{local.X, local.Y, pos[2]})
	}

	if s.Scalable && deltaSize != 0 {
		grow := deltaSize * s.scaleCoeff()
		cur := e.DisplayTransform.Scale()
		next := cur.Add(probe.Vec3{grow, grow, grow})
		for i := range next {
			next[i] = s.ScaleLimit.clamp(next[i])
		}
		e.DisplayTransform.SetScale(next)
	}

	if s.Pivotable && deltaAngle != 0 {
		applied := deltaAngle * s.rotateCoeff()
		newTotal := st.totalAngle + applied
		if s.RotationLimit != nil {
			newTotal = s.RotationLimit.clamp(newTotal)
			applied = newTotal - st.totalAngle
		}
		st.totalAngle = newTotal

		axis := normal
		if e.Parent != nil {
			axis = e.Parent.InverseDisplayMatrix().Mul4x1(normal.Vec4(0)).Vec3()
			if axis.Len() > 1e-9 {
				axis = axis.Normalize()
			}
		}
		rot := mgl64.QuatRotate(applied, axis)
		e.DisplayTransform.SetRotation(rot.Mul(e.DisplayTransform.Rotation()))
	}
}

// advanceFlick coasts translation/rotation/scale using a decaying tween
// seeded from the delayed-delta buffer, started the first frame no touch
// remains.
func (s *Sliding) advanceFlick(e *probe.Element, st *slidingState, dt float64) {
	if !st.flicking || s.FlickDuration <= 0 || dt <= 0 {
		st.flicking = false
		return
	}
	if st.flickTween == nil {
		if st.flickPos == (probe.Vec2{}) && st.flickAngle == 0 && st.flickSize == 0 {
			st.flicking = false
			return
		}
		fn := s.FlickEase
		if fn == nil {
			fn = ease.OutCubic
		}
		st.flickTween = gween.New(1, 0, s.FlickDuration, fn)
	}
	v, finished := st.flickTween.Update(float32(dt))
	frac := float64(v)

	_, right, up, normal := s.planeBasis(e, nil)
	s.apply(e, st, right, up, normal,
		probe.Vec2{X: st.flickPos.X * frac, Y: st.flickPos.Y * frac},
		st.flickAngle*frac, st.flickSize*frac)

	if finished {
		st.flickTween = nil
		st.flicking = false
		st.flickPos = probe.Vec2{}
		st.flickAngle = 0
		st.flickSize = 0
	}
}
