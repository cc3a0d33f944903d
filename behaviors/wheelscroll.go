package behaviors

import "github.com/fenwick3d/probe"

// MouseWheelScroll translates or scales an element in response to wheel
// deltas on any touch currently hovering it. Wheel input doesn't require a
// press, so this reads Hovering() rather than Touching(). The vertical
// wheel delta always drives local Y (or scale, under Zoom); horizontal
// delta drives local X only when Horizontal is true.
type MouseWheelScroll struct {
	GUID string

	Speed      float64
	Horizontal bool

	// Zoom, if set, scales DisplayTransform uniformly instead of
	// translating it; Speed is then a scale-per-wheel-unit factor.
	Zoom bool
}

func (m *MouseWheelScroll) ID() string { return m.GUID }

// Behave implements probe.Behavior.
func (m *MouseWheelScroll) Behave(e *probe.Element, ctx *probe.Context) {
	var dx, dy float64
	for t := range e.Hovering() {
		if t.Device == nil {
			continue
		}
		dx += t.Device.ScrollX
		dy += t.Device.ScrollY
	}
	if dx == 0 && dy == 0 {
		return
	}

	if m.Zoom {
		factor := 1 + dy*m.Speed
		if factor <= 0 {
			factor = 1e-6
		}
		e.DisplayTransform.SetScale(e.DisplayTransform.Scale().Mul(factor))
		return
	}

	delta := e.DisplayTransform.Position()
	delta[1] += dy * m.Speed
	if m.Horizontal {
		delta[0] += dx * m.Speed
	}
	e.DisplayTransform.SetPosition(delta)
}
