// Command calibrate fits the duration-to-distance model from the bench
// calibration table, reports residual error against the held-out validation
// set, and writes the fit and parity plots.
package main

import (
	_ "embed"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/scan3d/internal/scan"
)

//go:embed calibration_data.csv
var calibrationCSV string

//go:embed validation_data.csv
var validationCSV string

var outDir = flag.String("out-dir", ".", "Directory for the fit and parity plots")

func main() {
	flag.Parse()

	calSamples, err := parseSamples(calibrationCSV)
	if err != nil {
		log.Fatalf("failed to parse calibration table: %v", err)
	}
	valSamples, err := parseSamples(validationCSV)
	if err != nil {
		log.Fatalf("failed to parse validation table: %v", err)
	}

	params, err := scan.Fit(calSamples)
	if err != nil {
		log.Fatalf("calibration fit failed: %v", err)
	}

	fmt.Println("--- Calibration Function ---")
	fmt.Printf("Slope: %.4f inches/unit\n", params.Slope)
	fmt.Printf("Intercept: %.4f inches\n", params.Intercept)
	fmt.Printf("Formula: Predicted_Distance_inch = %.4f * measured_duration + %.4f\n\n", params.Slope, params.Intercept)

	predictions := scan.Evaluate(params, valSamples)
	fmt.Println("--- Error Analysis ---")
	for _, p := range predictions {
		fmt.Printf("Actual: %.1f in, Sensor Reading: %.0f, Predicted: %.2f in\n",
			p.ActualInches, p.Duration, p.PredictedInches)
	}

	fitPath := filepath.Join(*outDir, "calibration_fit.png")
	if err := saveFitPlot(params, calSamples, fitPath); err != nil {
		log.Fatalf("failed to save fit plot: %v", err)
	}
	fmt.Printf("\nSaved calibration plot to %s\n", fitPath)

	parityPath := filepath.Join(*outDir, "calibration_parity.png")
	if err := saveParityPlot(predictions, parityPath); err != nil {
		log.Fatalf("failed to save parity plot: %v", err)
	}
	fmt.Printf("Saved error plot to %s\n", parityPath)
}

// parseSamples reads an "Actual_inch,measured_duration" table with a header
// row into calibration samples.
func parseSamples(text string) ([]scan.Sample, error) {
	r := csv.NewReader(strings.NewReader(text))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("expected a header row and at least one sample, got %d rows", len(records))
	}

	samples := make([]scan.Sample, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) != 2 {
			return nil, fmt.Errorf("expected 2 columns, got %d in %v", len(row), row)
		}
		actual, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad actual distance %q: %w", row[0], err)
		}
		duration, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad duration %q: %w", row[1], err)
		}
		samples = append(samples, scan.Sample{ActualInches: actual, Duration: duration})
	}
	return samples, nil
}

// saveFitPlot draws the calibration samples with the fitted regression line.
func saveFitPlot(params scan.CalibrationParameters, samples []scan.Sample, path string) error {
	p := plot.New()
	p.Title.Text = "Sensor Calibration Plot"
	p.X.Label.Text = "Raw Sensor Reading (measured_duration)"
	p.Y.Label.Text = "Actual Distance (inches)"

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i] = plotter.XY{X: s.Duration, Y: s.ActualInches}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	p.Add(sc)
	p.Legend.Add("Actual Data Points", sc)

	line := plotter.NewFunction(func(x float64) float64 {
		return params.Slope*x + params.Intercept
	})
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("Linear Regression Fit", line)
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// saveParityPlot draws predicted vs actual for the validation set with the
// ideal y=x diagonal.
func saveParityPlot(predictions []scan.Prediction, path string) error {
	p := plot.New()
	p.Title.Text = "Error Plot: Predicted vs. Actual Distance"
	p.X.Label.Text = "Actual Distance (inches)"
	p.Y.Label.Text = "Predicted Distance (inches)"

	pts := make(plotter.XYs, len(predictions))
	lo, hi := predictions[0].ActualInches, predictions[0].ActualInches
	for i, pred := range predictions {
		pts[i] = plotter.XY{X: pred.ActualInches, Y: pred.PredictedInches}
		for _, v := range []float64{pred.ActualInches, pred.PredictedInches} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.Radius = vg.Points(4)
	p.Add(sc)
	p.Legend.Add("Validation Points", sc)

	ideal := plotter.NewFunction(func(x float64) float64 { return x })
	ideal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ideal)
	p.Legend.Add("Ideal Prediction (y=x)", ideal)
	p.Legend.Top = true
	p.Legend.Left = true

	// Same span on both axes so the diagonal reads as a true 45 degrees.
	p.X.Min, p.X.Max = lo-0.5, hi+0.5
	p.Y.Min, p.Y.Max = lo-0.5, hi+0.5

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}
