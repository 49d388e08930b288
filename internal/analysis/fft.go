package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k| for the non-negative frequencies of the mean
// removed, Hann windowed signal. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-zero bin of a signal sampled every interval. It returns 0 for
// a constant signal.
func DominantFrequency(data []float64, interval float64) float64 {
	ps := PowerSpectrum(data)
	best, peak := 0, 1e-12
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 || interval <= 0 {
		return 0
	}
	return float64(best) / (float64(len(data)) * interval)
}
