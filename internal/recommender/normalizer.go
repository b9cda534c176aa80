package recommender

import (
	"math"

	"github.com/fdg312/bioboard/internal/meals"
)

// FeatureCount is the width of a nutrition feature vector.
const FeatureCount = 4

// Vector is a nutrition feature vector: calories, protein, carbs, fats.
type Vector = [FeatureCount]float64

// Normalizer standardizes feature vectors with per-feature mean and population
// standard deviation. The zero value is unfit.
type Normalizer struct {
	Mean  Vector `json:"mean"`
	Scale Vector `json:"scale"`
}

// Fit computes mean and scale over the corpus. A feature with zero deviation
// gets scale 1.
func (n *Normalizer) Fit(corpus []meals.Record) error {
	if len(corpus) == 0 {
		return ErrInsufficientData
	}

	var mean, scale Vector
	count := float64(len(corpus))
	for _, r := range corpus {
		f := r.Features()
		for i := range f {
			mean[i] += f[i]
		}
	}
	for i := range mean {
		mean[i] /= count
	}

	for _, r := range corpus {
		f := r.Features()
		for i := range f {
			d := f[i] - mean[i]
			scale[i] += d * d
		}
	}
	for i := range scale {
		scale[i] = math.Sqrt(scale[i] / count)
		if scale[i] == 0 {
			scale[i] = 1
		}
	}

	n.Mean, n.Scale = mean, scale
	return nil
}

// Transform applies (x - mean) / scale to each feature.
func (n *Normalizer) Transform(v Vector) Vector {
	var out Vector
	for i := range v {
		out[i] = (v[i] - n.Mean[i]) / n.Scale[i]
	}
	return out
}

// Valid reports whether the fit parameters are usable: finite means and
// finite, positive scales.
func (n *Normalizer) Valid() bool {
	for i := 0; i < FeatureCount; i++ {
		if math.IsNaN(n.Mean[i]) || math.IsInf(n.Mean[i], 0) {
			return false
		}
		s := n.Scale[i]
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return false
		}
	}
	return true
}

func cosine(a, b Vector) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
