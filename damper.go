package probe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// dampScalar advances current toward target using a critically-damped
// exponential filter with time constant tau (seconds): the fraction of the
// remaining distance covered in dt seconds is `1 - exp(-dt/tau)`, so the
// same tau produces the same settling behavior at any frame rate.
func dampScalar(current, target, dt, tau float64) float64 {
	if tau <= 0 {
		return target
	}
	f := 1 - math.Exp(-dt/tau)
	return current + (target-current)*f
}

// DampVec3 damps each component of current toward target with time
// constant tau.
func DampVec3(current, target Vec3, dt, tau float64) Vec3 {
	return Vec3{
		dampScalar(current[0], target[0], dt, tau),
		dampScalar(current[1], target[1], dt, tau),
		dampScalar(current[2], target[2], dt, tau),
	}
}

// DampQuat damps current toward target with time constant tau, using
// spherical interpolation with the same exponential fraction as DampVec3.
func DampQuat(current, target Quat, dt, tau float64) Quat {
	if tau <= 0 {
		return target
	}
	f := 1 - math.Exp(-dt/tau)
	if f > 1 {
		f = 1
	}
	return mgl64.QuatSlerp(current, target, f)
}
