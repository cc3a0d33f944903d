package behaviors

import "github.com/fenwick3d/probe"

// ValueSlider2D writes the fastest captured touch's planar (screen/surface
// space) velocity into two slots of the element's AttachedValues, so a host
// can read out a UI slider's value without the behavior owning any
// presentation concept itself.
type ValueSlider2D struct {
	GUID string

	// XIndex and YIndex select which AttachedValues.Values slots receive
	// the fastest touch's velocity X and Y components. Values is grown
	// with FillValues if either index is out of range.
	XIndex, YIndex int

	// Clamp restricts the written components to [0, 1].
	Clamp bool
}

func (v *ValueSlider2D) ID() string { return v.GUID }

// Behave implements probe.Behavior.
func (v *ValueSlider2D) Behave(e *probe.Element, ctx *probe.Context) {
	touching := e.Touching()
	if len(touching) == 0 {
		return
	}

	fastest := fastestTouch(touching)
	if fastest == nil {
		return
	}

	x, y := fastest.Velocity.X, fastest.Velocity.Y
	if v.Clamp {
		x = clamp01(x)
		y = clamp01(y)
	}

	values := e.Values()
	need := v.XIndex
	if v.YIndex > need {
		need = v.YIndex
	}
	if len(values.Values) <= need {
		values.FillValues(need + 1)
	}
	values.Values[v.XIndex] = x
	values.Values[v.YIndex] = y
}

// fastestTouch returns the touch with the largest squared velocity among
// touching.
func fastestTouch(touching map[*probe.Touch]*probe.IntersectionPoint) *probe.Touch {
	var best *probe.Touch
	var bestSq float64
	for t := range touching {
		sq := t.Velocity.X*t.Velocity.X + t.Velocity.Y*t.Velocity.Y
		if best == nil || sq > bestSq {
			best, bestSq = t, sq
		}
	}
	return best
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
