package scan

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned by Fit when the sample set cannot support a
// least-squares line: fewer than two samples, or no variance in the measured
// durations.
var ErrInsufficientData = errors.New("insufficient calibration data")

// CalibrationParameters define the affine map from a raw sensor duration to a
// physical distance in inches. They are fixed for the lifetime of a scan
// session.
type CalibrationParameters struct {
	Slope     float64
	Intercept float64
}

// DefaultCalibration holds the production constants fitted from the bench
// calibration table (see cmd/calibrate).
var DefaultCalibration = CalibrationParameters{Slope: 0.0069, Intercept: -0.0751}

// Distance converts a raw duration reading into inches. A duration of zero is
// the sensor's "no echo" sentinel and maps to zero exactly instead of going
// through the affine model. Callers must treat any result outside the valid
// range filter as noise, not as an error.
func (p CalibrationParameters) Distance(duration float64) float64 {
	if duration == 0 {
		return 0
	}
	return p.Slope*duration + p.Intercept
}

// Sample pairs a ground-truth distance with the raw duration the sensor
// reported at that distance.
type Sample struct {
	ActualInches float64
	Duration     float64
}

// Fit performs an ordinary least-squares regression of actual distance on
// measured duration and returns the fitted slope and intercept.
func Fit(samples []Sample) (CalibrationParameters, error) {
	if len(samples) < 2 {
		return CalibrationParameters{}, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInsufficientData, len(samples))
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Duration
		ys[i] = s.ActualInches
	}

	if !hasVariance(xs) {
		return CalibrationParameters{}, fmt.Errorf("%w: all %d durations are identical", ErrInsufficientData, len(samples))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return CalibrationParameters{Slope: slope, Intercept: intercept}, nil
}

func hasVariance(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// Prediction records how the model performed on one validation sample.
type Prediction struct {
	ActualInches    float64
	Duration        float64
	PredictedInches float64
}

// Evaluate predicts a distance for every validation sample and pairs it with
// the known actual value. It is purely observational and never modifies the
// fitted parameters.
func Evaluate(p CalibrationParameters, samples []Sample) []Prediction {
	out := make([]Prediction, len(samples))
	for i, s := range samples {
		out[i] = Prediction{
			ActualInches:    s.ActualInches,
			Duration:        s.Duration,
			PredictedInches: p.Distance(s.Duration),
		}
	}
	return out
}
