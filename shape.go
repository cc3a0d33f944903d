package probe

import "math"

// dispatchHitTest runs the ray carried by touch against e's shape in e's own
// local space, doing all geometry in one consistent coordinate space before
// handing results back in world terms. The ray is transformed into element
// space via e's cached inverse world matrix; results are transformed back.
//
// usePreviousPosition controls what a miss returns: with it set, a touch
// whose ray misses the shape this frame but which has a hitting entry on e
// gets that stored intersection back as persistent (hit stays nil), so
// behaviors tracking a drag off a shape's finite bounds don't see a hole.
func dispatchHitTest(e *Element, touch *Touch, usePreviousPosition bool) (hit, persistent *IntersectionPoint) {
	inv := e.InverseDisplayMatrix()
	localOrigin := inv.Mul4x1(touch.Origin.Vec4(1)).Vec3()
	localDir := inv.Mul4x1(touch.ViewDir.Vec4(0)).Vec3()

	var (
		localPoint Vec3
		surface    Vec2
		ok         bool
	)

	switch e.shape {
	case ShapeInfinitePlane:
		localPoint, surface, ok = hitInfinitePlane(localOrigin, localDir)
	case ShapeRectangle:
		localPoint, surface, ok = hitRectangle(localOrigin, localDir)
	case ShapeCircle:
		localPoint, surface, ok = hitCircle(localOrigin, localDir)
	case ShapeSegment:
		localPoint, surface, ok = hitSegment(localOrigin, localDir, e.shapeParams.Segment)
	case ShapePolygon:
		localPoint, surface, ok = hitPolygon(localOrigin, localDir, e.shapeParams.Polygon)
	case ShapeBox:
		localPoint, surface, ok = hitBox(localOrigin, localDir, e.shapeParams.Box)
	case ShapeSphere:
		localPoint, surface, ok = hitSphere(localOrigin, localDir)
	default:
		return nil, nil
	}

	if !ok {
		if usePreviousPosition {
			if prev, found := e.hitting.get(touch); found {
				return nil, prev
			}
		}
		return nil, nil
	}

	world := e.DisplayMatrix().Mul4x1(localPoint.Vec4(1)).Vec3()
	ip := &IntersectionPoint{
		World:               world,
		Element:             localPoint,
		Surface:             surface,
		WorldTangentFrame:   e.DisplayMatrix(),
		ElementTangentFrame: identityMat4(),
		OwningElement:       e,
		OwningTouch:         touch,
	}
	return ip, ip
}

func identityMat4() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// rayPlaneZ0 intersects a ray against the element-space z=0 plane, returning
// the local hit point and false if the ray is parallel to it.
func rayPlaneZ0(origin, dir Vec3) (Vec3, bool) {
	if math.Abs(dir[2]) < 1e-12 {
		return Vec3{}, false
	}
	t := -origin[2] / dir[2]
	if t < 0 {
		return Vec3{}, false
	}
	return Vec3{origin[0] + dir[0]*t, origin[1] + dir[1]*t, 0}, true
}

func hitInfinitePlane(origin, dir Vec3) (Vec3, Vec2, bool) {
	p, ok := rayPlaneZ0(origin, dir)
	if !ok {
		return Vec3{}, Vec2{}, false
	}
	return p, Vec2{X: p[0] * 2, Y: p[1] * 2}, true
}

func hitRectangle(origin, dir Vec3) (Vec3, Vec2, bool) {
	p, ok := rayPlaneZ0(origin, dir)
	if !ok || p[0] < -0.5 || p[0] > 0.5 || p[1] < -0.5 || p[1] > 0.5 {
		return Vec3{}, Vec2{}, false
	}
	return p, Vec2{X: p[0] + 0.5, Y: p[1] + 0.5}, true
}

func hitCircle(origin, dir Vec3) (Vec3, Vec2, bool) {
	p, ok := rayPlaneZ0(origin, dir)
	if !ok {
		return Vec3{}, Vec2{}, false
	}
	r := math.Hypot(p[0], p[1])
	if r > 0.5 {
		return Vec3{}, Vec2{}, false
	}
	angle := math.Atan2(p[1], p[0])
	return p, Vec2{X: r / 0.5, Y: angle}, true
}

// hitSegment is an annular-sector shape: the radial band between HoleRadius
// and 0.5, swept through a signed fraction of a full turn (|Cycles| clamped
// to 1) starting at Phase radians.
func hitSegment(origin, dir Vec3, params SegmentParams) (Vec3, Vec2, bool) {
	p, ok := rayPlaneZ0(origin, dir)
	if !ok {
		return Vec3{}, Vec2{}, false
	}
	r := math.Hypot(p[0], p[1])
	if r > 0.5 || r < params.HoleRadius {
		return Vec3{}, Vec2{}, false
	}
	cycles := params.Cycles
	if cycles > 1 {
		cycles = 1
	}
	if cycles < -1 {
		cycles = -1
	}
	angle := math.Atan2(p[1], p[0]) - params.Phase
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	sweep := math.Abs(cycles) * 2 * math.Pi
	if cycles < 0 {
		angle = 2*math.Pi - angle
	}
	if angle > sweep {
		return Vec3{}, Vec2{}, false
	}
	return p, Vec2{X: r, Y: angle}, true
}

// hitPolygon tests the element-space XY projection of the hit point against
// params.Vertices using the even-odd rule.
func hitPolygon(origin, dir Vec3, params PolygonParams) (Vec3, Vec2, bool) {
	if len(params.Vertices) < 3 {
		return Vec3{}, Vec2{}, false
	}
	p, ok := rayPlaneZ0(origin, dir)
	if !ok || !pointInPolygon(p[0], p[1], params.Vertices) {
		return Vec3{}, Vec2{}, false
	}
	return p, Vec2{X: p[0], Y: p[1]}, true
}

func pointInPolygon(x, y float64, verts []Vec2) bool {
	inside := false
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := verts[i], verts[j]
		if (vi.Y > y) != (vj.Y > y) {
			xCross := vj.X + (y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if x < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// hitBox is a slab test against an axis-aligned box centered on the origin
// with extents params.Size, grounded on the standard ray-AABB "slab" method.
func hitBox(origin, dir Vec3, params BoxParams) (Vec3, Vec2, bool) {
	half := Vec3{params.Size[0] / 2, params.Size[1] / 2, params.Size[2] / 2}
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < -half[axis] || origin[axis] > half[axis] {
				return Vec3{}, Vec2{}, false
			}
			continue
		}
		t1 := (-half[axis] - origin[axis]) / dir[axis]
		t2 := (half[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return Vec3{}, Vec2{}, false
		}
	}
	t := tMin
	if t < 0 {
		t = tMax
	}
	if t < 0 {
		return Vec3{}, Vec2{}, false
	}
	p := Vec3{origin[0] + dir[0]*t, origin[1] + dir[1]*t, origin[2] + dir[2]*t}
	return p, Vec2{X: p[0]/params.Size[0] + 0.5, Y: p[1]/params.Size[1] + 0.5}, true
}

// hitSphere solves the unit sphere quadratic (dir·dir)t² + 2(origin·dir)t +
// (origin·origin - 1) = 0 and picks the nearest non-negative root. Unlike
// the other shapes, which are half-extent 0.5 to match a 1x1 display
// transform, the sphere's radius is literally 1.
func hitSphere(origin, dir Vec3) (Vec3, Vec2, bool) {
	a := dir.Dot(dir)
	b := 2 * origin.Dot(dir)
	c := origin.Dot(origin) - 1
	disc := b*b - 4*a*c
	if disc < 0 || a < 1e-12 {
		return Vec3{}, Vec2{}, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 {
		return Vec3{}, Vec2{}, false
	}
	p := Vec3{origin[0] + dir[0]*t, origin[1] + dir[1]*t, origin[2] + dir[2]*t}
	u := math.Atan2(p[1], p[0])/(2*math.Pi) + 0.5
	v := math.Acos(clampUnit(p[2])) / math.Pi
	return p, Vec2{X: u, Y: v}, true
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
