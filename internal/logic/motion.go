package logic

// Approach moves current a fraction of the way towards target.
// The result never passes target and equals current when the gap is zero.
func Approach(current, target, factor float64) float64 {
	if current == target {
		return current
	}
	next := current + factor*(target-current)
	// Rounding can land a hair past target when factor is close to 1.
	if (target > current && next > target) || (target < current && next < target) {
		return target
	}
	return next
}

// ApproachPoint applies Approach on each axis independently.
func ApproachPoint(current, target Point, factor float64) Point {
	return Point{
		X: Approach(current.X, target.X, factor),
		Y: Approach(current.Y, target.Y, factor),
	}
}

// RandomPoint samples each axis uniformly from [lo, hi).
func RandomPoint(r Rand, lo, hi float64) Point {
	return Point{
		X: lo + r.Float64()*(hi-lo),
		Y: lo + r.Float64()*(hi-lo),
	}
}
