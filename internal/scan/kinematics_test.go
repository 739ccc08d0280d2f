package scan

import (
	"math"
	"testing"
)

func pointNear(t *testing.T, got, want Point3D, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol || math.Abs(got.Z-want.Z) > tol {
		t.Errorf("point = (%v, %v, %v), want (%v, %v, %v) within %v",
			got.X, got.Y, got.Z, want.X, want.Y, want.Z, tol)
	}
}

func TestPointFromZeroDistanceIsEndEffector(t *testing.T) {
	// With no range offset the point is exactly the sensor mount position.
	arm := ArmGeometry{R1: 2.0, R2: 1.6}

	// Pan 90 maps to a zero pan angle, so the arm lies fully along +x.
	pointNear(t, arm.PointFrom(90, 0, 0), Point3D{X: 3.6, Y: 0, Z: 0}, 1e-9)

	// Tilt 90 folds the tilt link straight up.
	pointNear(t, arm.PointFrom(90, 90, 0), Point3D{X: 2.0, Y: 0, Z: 1.6}, 1e-9)
}

func TestPointFromOffsetsAlongPointingDirection(t *testing.T) {
	arm := ArmGeometry{R1: 2.0, R2: 1.6}

	cases := []struct {
		name                string
		pan, tilt, distance float64
		want                Point3D
	}{
		{"straight ahead", 90, 0, 1.0, Point3D{X: 4.6, Y: 0, Z: 0}},
		{"straight up", 90, 90, 2.0, Point3D{X: 2.0, Y: 0, Z: 3.6}},
		{"pan zero points to -y", 0, 0, 1.0, Point3D{X: 0, Y: -4.6, Z: 0}},
		{"pan 180 points to +y", 180, 0, 1.0, Point3D{X: 0, Y: 4.6, Z: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pointNear(t, arm.PointFrom(c.pan, c.tilt, c.distance), c.want, 1e-9)
		})
	}
}

func TestPointFromTiltedPose(t *testing.T) {
	// Cross-check one non-axis pose against the closed form.
	arm := ArmGeometry{R1: 2.0, R2: 1.6}
	pan, tilt, dist := 135.0, 30.0, 4.0

	panRad := (pan - 90) * math.Pi / 180
	tiltRad := tilt * math.Pi / 180
	want := Point3D{
		X: arm.R1*math.Cos(panRad) + (arm.R2+dist)*math.Cos(tiltRad)*math.Cos(panRad),
		Y: arm.R1*math.Sin(panRad) + (arm.R2+dist)*math.Cos(tiltRad)*math.Sin(panRad),
		Z: (arm.R2 + dist) * math.Sin(tiltRad),
	}

	pointNear(t, arm.PointFrom(pan, tilt, dist), want, 1e-12)
}

func TestPointFromDeterministic(t *testing.T) {
	arm := DefaultArm
	a := arm.PointFrom(37.5, -12.25, 11.875)
	b := arm.PointFrom(37.5, -12.25, 11.875)
	if a != b {
		t.Fatalf("identical inputs produced different outputs: %+v vs %+v", a, b)
	}
}
