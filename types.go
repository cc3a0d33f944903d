package probe

import "github.com/go-gl/mathgl/mgl64"

// Vec2 is a 2D vector used for screen-space points, surface-space (UV-like)
// coordinates, and planar deltas.
type Vec2 struct {
	X, Y float64
}

// Vec3, Quat, and Mat4 are the 3D math types used throughout probe. They are
// aliases of mathgl's types rather than wrapped structs, so callers can use
// mathgl directly against values read back from the framework.
type (
	Vec3 = mgl64.Vec3
	Vec4 = mgl64.Vec4
	Quat = mgl64.Quat
	Mat4 = mgl64.Mat4
)

// Rect is an axis-aligned rectangle, used as the Context's screen-space
// viewport.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// ApplyTransformMode is a bitmask selecting which Transform components an
// operation (update_from, follow_with_damper) should touch.
type ApplyTransformMode uint8

const (
	ApplyTranslation ApplyTransformMode = 1 << iota
	ApplyRotation
	ApplyScale
)

// ApplyAll selects every Transform component.
const ApplyAll = ApplyTranslation | ApplyRotation | ApplyScale

// Has reports whether mode includes component.
func (m ApplyTransformMode) Has(component ApplyTransformMode) bool {
	return m&component != 0
}

// ShapeKind discriminates which per-variant hit-test function a Prototype
// binds to. This replaces reflection-driven constructor lookup with a
// tagged-variant descriptor: instances store a ShapeKind field and no
// runtime type introspection is needed to dispatch a hit-test.
type ShapeKind uint8

const (
	ShapeInfinitePlane ShapeKind = iota
	ShapeRectangle
	ShapeCircle
	ShapeSegment
	ShapePolygon
	ShapeBox
	ShapeSphere
)

// SegmentParams configures a ShapeSegment (annular sector) shape.
type SegmentParams struct {
	HoleRadius float64
	// Cycles is signed; magnitude is clamped to 1 by the hit-test.
	Cycles float64
	Phase  float64
}

// PolygonParams configures a ShapePolygon shape. Vertices must have length
// >= 3 and are interpreted in element-space XY using the even-odd rule.
type PolygonParams struct {
	Vertices []Vec2
}

// BoxParams configures a ShapeBox shape.
type BoxParams struct {
	Size Vec3
}

// ShapeParams bundles the per-variant parameters for shape kinds that need
// more than a discriminant. Only the field matching the element's ShapeKind
// is read.
type ShapeParams struct {
	Segment SegmentParams
	Polygon PolygonParams
	Box     BoxParams
}
