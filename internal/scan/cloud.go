package scan

// Point3D is a single scan return in the rig's base frame. Units are inches.
type Point3D struct {
	X float64
	Y float64
	Z float64
}

// PointCloud is an append-only, arrival-ordered collection of scan points.
// It is created empty at session start, grows monotonically while the stream
// runs, and is read-only once the session finalizes. There is no
// deduplication: two identical returns produce two points.
type PointCloud struct {
	points []Point3D
}

// NewPointCloud returns an empty cloud for a new scan session.
func NewPointCloud() *PointCloud {
	return &PointCloud{}
}

// Add appends a point. Insertion order is arrival order.
func (c *PointCloud) Add(p Point3D) {
	c.points = append(c.points, p)
}

// Len returns the number of accumulated points.
func (c *PointCloud) Len() int {
	return len(c.points)
}

// Points returns a copy of the accumulated points so callers cannot mutate
// the cloud out from under the session.
func (c *PointCloud) Points() []Point3D {
	out := make([]Point3D, len(c.points))
	copy(out, c.points)
	return out
}
