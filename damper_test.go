package probe

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDampScalarApproachesTarget(t *testing.T) {
	v := dampScalar(0, 10, 1.0/60.0, 0.25)
	if v <= 0 || v >= 10 {
		t.Fatalf("dampScalar should move partway toward target, got %v", v)
	}
}

func TestDampScalarZeroTauSnapsToTarget(t *testing.T) {
	v := dampScalar(0, 10, 1.0/60.0, 0)
	if v != 10 {
		t.Fatalf("tau<=0 should snap to target immediately, got %v", v)
	}
}

func TestDampScalarSameFractionAtAnyFrameRate(t *testing.T) {
	// Thirty 1/30-second steps and one full-second step should
	// land at the same place since the filter is dt-correct.
	const tau = 0.5
	a := 0.0
	for i := 0; i < 30; i++ {
		a = dampScalar(a, 100, 1.0/30.0, tau)
	}
	b := dampScalar(0, 100, 1.0, tau)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("frame-rate dependent result: stepped=%v, single=%v", a, b)
	}
}

func TestDampVec3Componentwise(t *testing.T) {
	v := DampVec3(Vec3{0, 0, 0}, Vec3{10, -10, 0}, 1.0/60.0, 0.25)
	if v[0] <= 0 || v[1] >= 0 || v[2] != 0 {
		t.Fatalf("DampVec3 componentwise result unexpected: %v", v)
	}
}

func TestDampQuatZeroTauSnapsToTarget(t *testing.T) {
	target := mgl64.QuatRotate(math.Pi/2, Vec3{0, 0, 1})
	q := DampQuat(mgl64.QuatRotate(0, Vec3{0, 0, 1}), target, 1.0/60.0, 0)
	if q != target {
		t.Fatalf("tau<=0 should snap quat to target")
	}
}

func TestDampQuatConverges(t *testing.T) {
	cur := mgl64.QuatRotate(0, Vec3{0, 0, 1})
	target := mgl64.QuatRotate(math.Pi/2, Vec3{0, 0, 1})
	for i := 0; i < 600; i++ {
		cur = DampQuat(cur, target, 1.0/60.0, 0.1)
	}
	dot := cur.Dot(target)
	if dot < 0.9999 {
		t.Fatalf("quat damper did not converge, dot=%v", dot)
	}
}
