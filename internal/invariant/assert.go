// Package invariant ports the assert()-at-the-top-of-every-method idiom from
// this engine's original C++ implementation: a violated structural invariant
// (nil order, a resting flag that disagrees with reality, a zero quantity fed
// to a mutating call) is a programmer error, not a business rejection, and is
// never recovered from by retrying. Business rejections (FOK can't fill, no
// liquidity) are reported through terminal order statuses instead, never
// through a panic or an error return.
package invariant

// Enabled gates whether Check panics on a violated invariant. Tests leave it
// at its default of true; a release build that has already validated inputs
// at its outer boundary MAY set this to false to skip the checks on the hot
// path, per the "release behavior is undefined, callers MUST validate before
// submission" contract.
var Enabled = true

// Check panics with msg if cond is false and invariant checking is enabled.
func Check(cond bool, msg string) {
	if Enabled && !cond {
		panic("invariant violated: " + msg)
	}
}
