// Package analysis extracts frequency content from run telemetry, mainly
// to characterize the oscillation of spring systems.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/kobrakid/partsim/internal/telemetry"
)

// FFT computes the discrete Fourier transform with the radix-2
// Cooley-Tukey recursion. The input length must be a power of two; use
// padPow2 for arbitrary series.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of the first half of the transform
// of the zero-padded, mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(padPow2(demean(data)))
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Spectrum computes the power spectrum of a run's kinetic energy series
// and the frequency axis implied by its timestep.
func Spectrum(records []telemetry.StepRecord, dt float64) (freqs, power []float64) {
	data := make([]float64, len(records))
	for i, rec := range records {
		data[i] = rec.KineticEnergy
	}

	power = PowerSpectrum(data)
	freqs = make([]float64, len(power))
	// padded length is twice the spectrum length
	n := 2 * len(power)
	if n == 0 || dt <= 0 {
		return freqs, power
	}
	for i := range freqs {
		freqs[i] = float64(i) / (float64(n) * dt)
	}
	return freqs, power
}

// DominantFrequency returns the strongest nonzero frequency bin, or 0
// when the series is flat.
func DominantFrequency(records []telemetry.StepRecord, dt float64) float64 {
	freqs, power := Spectrum(records, dt)

	best, bestPower := 0.0, 0.0
	for i := 1; i < len(power); i++ {
		if power[i] > bestPower {
			bestPower = power[i]
			best = freqs[i]
		}
	}
	return best
}

func demean(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

func padPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if n == len(data) {
		return data
	}
	out := make([]float64, n)
	copy(out, data)
	return out
}
