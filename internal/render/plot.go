// Package render draws the accumulated point cloud with gonum/plot. The rig
// has no attached display, so "rendering" writes PNG files: a live preview
// rewritten in place while the scan runs, and a timestamped final artifact
// written at session end.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/scan3d/internal/scan"
)

// Envelope bounds the plot axes to the rig's scan volume, in inches.
type Envelope struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// DefaultEnvelope matches the bench rig's reachable volume.
var DefaultEnvelope = Envelope{XMin: 0, XMax: 20, YMin: -20, YMax: 0, ZMin: -10, ZMax: 10}

// CloudRenderer writes scatter projections of the cloud as PNG files. It
// implements scan.Renderer.
type CloudRenderer struct {
	OutDir   string
	Session  string
	Envelope Envelope

	// now is swappable for deterministic filenames in tests.
	now func() time.Time
}

// NewCloudRenderer creates a renderer writing into outDir. The session ID
// keeps live previews from concurrent scans apart.
func NewCloudRenderer(outDir, session string) *CloudRenderer {
	return &CloudRenderer{
		OutDir:   outDir,
		Session:  session,
		Envelope: DefaultEnvelope,
		now:      time.Now,
	}
}

// RenderIncremental rewrites the live preview in place.
func (r *CloudRenderer) RenderIncremental(cloud *scan.PointCloud) error {
	return r.save(cloud, r.PreviewPath(), "Live 3D Scan")
}

// RenderFinal writes the timestamped session artifact and returns its path.
// An empty cloud writes nothing.
func (r *CloudRenderer) RenderFinal(cloud *scan.PointCloud) (string, error) {
	if cloud.Len() == 0 {
		return "", nil
	}
	path := filepath.Join(r.OutDir, fmt.Sprintf("3d_scan_%s.png", FormatTimestamp(r.now())))
	if err := r.save(cloud, path, "Final 3D Scan"); err != nil {
		return "", err
	}
	return path, nil
}

// PreviewPath returns the live preview filename for this session.
func (r *CloudRenderer) PreviewPath() string {
	return filepath.Join(r.OutDir, fmt.Sprintf("scan_%s_live.png", r.Session))
}

// FormatTimestamp names final artifacts. Second resolution avoids collisions
// between sessions.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}

// projection selects two of the three point coordinates for one panel.
type projection struct {
	name       string
	xLabel     string
	yLabel     string
	xMin, xMax float64
	yMin, yMax float64
	x, y       func(p scan.Point3D) float64
}

func (r *CloudRenderer) projections() []projection {
	e := r.Envelope
	return []projection{
		{
			name: "Top (X/Y)", xLabel: "X (inches)", yLabel: "Y (inches)",
			xMin: e.XMin, xMax: e.XMax, yMin: e.YMin, yMax: e.YMax,
			x: func(p scan.Point3D) float64 { return p.X },
			y: func(p scan.Point3D) float64 { return p.Y },
		},
		{
			name: "Front (X/Z)", xLabel: "X (inches)", yLabel: "Z (inches)",
			xMin: e.XMin, xMax: e.XMax, yMin: e.ZMin, yMax: e.ZMax,
			x: func(p scan.Point3D) float64 { return p.X },
			y: func(p scan.Point3D) float64 { return p.Z },
		},
		{
			name: "Side (Y/Z)", xLabel: "Y (inches)", yLabel: "Z (inches)",
			xMin: e.YMin, xMax: e.YMax, yMin: e.ZMin, yMax: e.ZMax,
			x: func(p scan.Point3D) float64 { return p.Y },
			y: func(p scan.Point3D) float64 { return p.Z },
		},
	}
}

// save tiles the three orthographic projections into one PNG. Points are
// coloured by height so depth reads through in the flat panels.
func (r *CloudRenderer) save(cloud *scan.PointCloud, path, title string) error {
	pts := cloud.Points()
	if len(pts) == 0 {
		return nil
	}

	img := vgimg.New(18*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 3,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}

	for i, proj := range r.projections() {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s: %s", title, proj.name)
		p.X.Label.Text = proj.xLabel
		p.Y.Label.Text = proj.yLabel
		p.X.Min, p.X.Max = proj.xMin, proj.xMax
		p.Y.Min, p.Y.Max = proj.yMin, proj.yMax

		xys := make(plotter.XYs, len(pts))
		for j, pt := range pts {
			xys[j] = plotter.XY{X: proj.x(pt), Y: proj.y(pt)}
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("build scatter for %s: %w", proj.name, err)
		}
		sc.GlyphStyleFunc = func(j int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  r.colorForHeight(pts[j].Z),
				Radius: vg.Points(1.5),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(sc)

		p.Draw(tiles.At(dc, i, 0))
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("write plot file: %w", err)
	}
	return w.Close()
}

// colorForHeight maps Z within the envelope onto a blue-to-red hue ramp.
func (r *CloudRenderer) colorForHeight(z float64) color.Color {
	lo, hi := r.Envelope.ZMin, r.Envelope.ZMax
	t := 0.5
	if hi > lo {
		t = (z - lo) / (hi - lo)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	// Hue from 240° (blue, low) down to 0° (red, high).
	cr, cg, cb := hslToRGB((1-t)*2.0/3.0, 0.7, 0.5)
	return color.RGBA{R: cr, G: cg, B: cb, A: 255}
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
