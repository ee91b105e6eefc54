package pattern

import (
	"image"

	"github.com/planebrane/brane"
)

// Options control how an image becomes a displacement grid.
type Options struct {
	// Resolution is the side of the square grid produced.
	Resolution int
	Threshold  ThresholdMethod
	// ThresholdValue in [0,1] is used by ThresholdFixed.
	ThresholdValue float64
	// Invert selects dark features on a light background.
	Invert bool
	// FalloffRadius in pixels softens lines into ramps. Zero keeps the hard
	// binary image.
	FalloffRadius int
	// Smoothing is the sigma of a Gaussian blur applied after resampling.
	Smoothing float64
}

// DefaultOptions returns Otsu thresholding of dark lines with a 5 pixel
// falloff and light smoothing, sampled at 128×128.
func DefaultOptions() Options {
	return Options{
		Resolution:     128,
		Threshold:      ThresholdOtsu,
		ThresholdValue: 0.5,
		Invert:         true,
		FalloffRadius:  5,
		Smoothing:      2,
	}
}

// Displacement derives a displacement grid from img: grayscale, binarize,
// soften by distance falloff, resample and smooth.
func Displacement(img image.Image, opt Options) (brane.DisplacementGrid, error) {
	if opt.Resolution < 2 {
		return brane.DisplacementGrid{}, &brane.InputError{Op: "displacement", Reason: "resolution must be at least 2"}
	}
	gray, err := Gray(img)
	if err != nil {
		return brane.DisplacementGrid{}, err
	}
	if err := ValidateMatrix(gray); err != nil {
		return brane.DisplacementGrid{}, err
	}
	binary := gray
	switch opt.Threshold {
	case ThresholdOtsu:
		binary = Binarize(gray, OtsuThreshold(gray), opt.Invert)
	case ThresholdFixed:
		binary = Binarize(gray, opt.ThresholdValue, opt.Invert)
	case ThresholdAdaptive:
		binary = AdaptiveBinarize(gray, 5, 2.0/255, opt.Invert)
	default:
		return brane.DisplacementGrid{}, &brane.InputError{Op: "displacement", Reason: "unknown threshold method " + opt.Threshold.String()}
	}
	field := binary
	if opt.FalloffRadius > 0 {
		field = DistanceFalloff(binary, opt.FalloffRadius)
	}
	grid, err := brane.GridFromDense(field)
	if err != nil {
		return brane.DisplacementGrid{}, err
	}
	grid, err = grid.Resample(opt.Resolution, opt.Resolution)
	if err != nil {
		return brane.DisplacementGrid{}, err
	}
	if opt.Smoothing > 0 {
		return brane.GridFromDense(GaussianBlur(grid.Dense(), opt.Smoothing))
	}
	return grid, nil
}
