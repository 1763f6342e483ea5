// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"fmt"

	"github.com/cct-datascience/drone-pipeline/internal/imagery"
)

// greennessPrecision is the number of decimal places reported. Index values
// are unitless; four places is what downstream trait consumers expect.
const greennessPrecision = 4

// Greenness computes the mean excess-green index (2G - R - B) over the
// plot, normalized to the 0..255 channel range. It is the working example
// algorithm extractor authors start from.
func Greenness(plot *imagery.PixelGrid) (Value, error) {
	if plot == nil || len(plot.Pix) == 0 {
		return Value{}, fmt.Errorf("no pixel data for plot")
	}

	var sum float64
	for i := 0; i+2 < len(plot.Pix); i += 3 {
		r := float64(plot.Pix[i])
		g := float64(plot.Pix[i+1])
		b := float64(plot.Pix[i+2])
		sum += 2*g - r - b
	}

	mean := sum / float64(plot.Width*plot.Height)
	return Float(mean, greennessPrecision), nil
}

func init() {
	Register("greenness", Func(Greenness))
}
