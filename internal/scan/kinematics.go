package scan

import "math"

// panZeroOffsetDeg is the rig's zero-pan reference: a commanded pan of 90°
// points the arm along the base frame's +x axis. This is a calibration
// constant of the physical rig, not a derived quantity.
const panZeroOffsetDeg = 90.0

// ArmGeometry holds the fixed link lengths of the pan/tilt arm, in inches.
// R1 is the base-to-tilt-pivot offset; R2 is the tilt-link length.
type ArmGeometry struct {
	R1 float64
	R2 float64
}

// DefaultArm matches the rig the production scanner runs on.
var DefaultArm = ArmGeometry{R1: 2.0, R2: 1.6}

// PointFrom converts a pan/tilt pose (degrees) and a calibrated range reading
// (inches) into a point in the rig's base frame. The sensor mount sits at the
// end of two rigid offsets: R1 rotated by pan about the vertical axis, then
// R2 rotated by tilt and pan. The return lies along the mount's pointing
// direction at the measured distance.
func (a ArmGeometry) PointFrom(panDeg, tiltDeg, distance float64) Point3D {
	panRad := (panDeg - panZeroOffsetDeg) * math.Pi / 180.0
	tiltRad := tiltDeg * math.Pi / 180.0

	cosPan := math.Cos(panRad)
	sinPan := math.Sin(panRad)
	cosTilt := math.Cos(tiltRad)
	sinTilt := math.Sin(tiltRad)

	// Sensor mount ("end effector") position.
	xEE := a.R1*cosPan + a.R2*cosTilt*cosPan
	yEE := a.R1*sinPan + a.R2*cosTilt*sinPan
	zEE := a.R2 * sinTilt

	// Unit pointing direction of the sensor, from the same two angles.
	dirX := cosTilt * cosPan
	dirY := cosTilt * sinPan
	dirZ := sinTilt

	return Point3D{
		X: xEE + distance*dirX,
		Y: yEE + distance*dirY,
		Z: zEE + distance*dirZ,
	}
}
