package probe

import "github.com/go-gl/mathgl/mgl64"

// Transform is a position/rotation/scale triple with a cached local matrix
// and change notifications. Every setter invalidates the cache and fires
// all registered subscribers synchronously.
type Transform struct {
	position Vec3
	rotation Quat
	scale    Vec3

	matrix Mat4
	cached bool

	subscribers map[string]func()
}

// NewTransform returns an identity Transform (zero translation, identity
// rotation, unit scale).
func NewTransform() *Transform {
	return &Transform{
		rotation:    mgl64.QuatIdent(),
		scale:       Vec3{1, 1, 1},
		subscribers: make(map[string]func()),
	}
}

// Position returns the translation component.
func (t *Transform) Position() Vec3 { return t.position }

// Rotation returns the rotation component.
func (t *Transform) Rotation() Quat { return t.rotation }

// Scale returns the scale component.
func (t *Transform) Scale() Vec3 { return t.scale }

// SetPosition sets the translation and invalidates the cached matrix.
func (t *Transform) SetPosition(p Vec3) {
	t.position = p
	t.invalidate()
}

// SetRotation sets the rotation and invalidates the cached matrix.
func (t *Transform) SetRotation(r Quat) {
	t.rotation = r
	t.invalidate()
}

// SetScale sets the scale and invalidates the cached matrix.
func (t *Transform) SetScale(s Vec3) {
	t.scale = s
	t.invalidate()
}

// Subscribe registers a change listener under id, replacing any listener
// previously registered under the same id. Subscribers fire synchronously,
// on the thread that called a setter.
func (t *Transform) Subscribe(id string, fn func()) {
	t.subscribers[id] = fn
}

// Unsubscribe removes the listener registered under id, if any.
func (t *Transform) Unsubscribe(id string) {
	delete(t.subscribers, id)
}

func (t *Transform) invalidate() {
	t.cached = false
	for _, fn := range t.subscribers {
		fn()
	}
}

// Matrix returns the local matrix translate * rotation * scale (so scale is
// applied to a point first, then rotation, then translation), recomputing
// it only if the cache was invalidated since the last call.
func (t *Transform) Matrix() Mat4 {
	if t.cached {
		return t.matrix
	}
	scale := mgl64.Scale3D(t.scale[0], t.scale[1], t.scale[2])
	rot := t.rotation.Mat4()
	translate := mgl64.Translate3D(t.position[0], t.position[1], t.position[2])
	t.matrix = translate.Mul4(rot).Mul4(scale)
	t.cached = true
	return t.matrix
}

// UpdateFrom copies the components selected by mask from other into t,
// invalidating the cache if anything changed. With ApplyAll, t ends up
// identical to other on every masked component.
func (t *Transform) UpdateFrom(other *Transform, mask ApplyTransformMode) {
	changed := false
	if mask.Has(ApplyTranslation) && t.position != other.position {
		t.position = other.position
		changed = true
	}
	if mask.Has(ApplyRotation) && t.rotation != other.rotation {
		t.rotation = other.rotation
		changed = true
	}
	if mask.Has(ApplyScale) && t.scale != other.scale {
		t.scale = other.scale
		changed = true
	}
	if changed {
		t.invalidate()
	}
}

// FollowWithDamper damps the components selected by mask toward target's
// components with time constant tau (seconds), advancing by dt seconds.
// Components not selected by mask are left untouched.
func (t *Transform) FollowWithDamper(target *Transform, tau, dt float64, mask ApplyTransformMode) {
	changed := false
	if mask.Has(ApplyTranslation) {
		np := DampVec3(t.position, target.position, dt, tau)
		if np != t.position {
			t.position = np
			changed = true
		}
	}
	if mask.Has(ApplyRotation) {
		nr := DampQuat(t.rotation, target.rotation, dt, tau)
		if nr != t.rotation {
			t.rotation = nr
			changed = true
		}
	}
	if mask.Has(ApplyScale) {
		ns := DampVec3(t.scale, target.scale, dt, tau)
		if ns != t.scale {
			t.scale = ns
			changed = true
		}
	}
	if changed {
		t.invalidate()
	}
}

// Clone returns an independent copy with no subscribers.
func (t *Transform) Clone() *Transform {
	return &Transform{
		position:    t.position,
		rotation:    t.rotation,
		scale:       t.scale,
		subscribers: make(map[string]func()),
	}
}
