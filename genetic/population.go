package genetic

import (
	"math"

	"github.com/zapzap/zapzap/strategy"
)

// Population is a generation's set of individuals.
type Population struct {
	Individuals []*Individual
	Generation  int
}

// NewPopulation wraps a slice of individuals as generation 0.
func NewPopulation(individuals []*Individual) *Population {
	return &Population{Individuals: individuals}
}

// Size returns the number of individuals.
func (p *Population) Size() int { return len(p.Individuals) }

// GetBestIndividual returns the highest-fitness individual.
func (p *Population) GetBestIndividual() *Individual {
	if len(p.Individuals) == 0 {
		return nil
	}
	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

// GetAverageFitness returns the mean fitness across evaluated individuals.
func (p *Population) GetAverageFitness() float64 {
	var sum float64
	var count int
	for _, ind := range p.Individuals {
		if ind.Evaluated {
			sum += ind.Fitness
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// GetUnevaluated returns every individual whose fitness hasn't been set.
func (p *Population) GetUnevaluated() []*Individual {
	var out []*Individual
	for _, ind := range p.Individuals {
		if !ind.Evaluated {
			out = append(out, ind)
		}
	}
	return out
}

// SortByFitness returns a new slice of individuals sorted descending
// by fitness (insertion sort: population sizes here are small and the
// result is usually near-sorted already from the previous generation).
func (p *Population) SortByFitness() []*Individual {
	sorted := make([]*Individual, len(p.Individuals))
	copy(sorted, p.Individuals)
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && sorted[j-1].Fitness < sorted[j].Fitness {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}
	return sorted
}

// MeanGeneCoefficientOfVariation computes, for every gene position, the
// population's standard deviation divided by its mean, then averages
// that across all 35 genes. Values near 0 mean the population has
// converged on (nearly) identical weight vectors (§4.7's early-diversity
// safeguard trigger).
func (p *Population) MeanGeneCoefficientOfVariation() float64 {
	n := len(p.Individuals)
	if n < 2 {
		return 0
	}
	dim := strategy.VinceWeightCount
	vectors := make([][]float64, n)
	for i, ind := range p.Individuals {
		vectors[i] = ind.Weights.ToVector()
	}

	var sumCV float64
	counted := 0
	for g := 0; g < dim; g++ {
		var sum float64
		for _, v := range vectors {
			sum += v[g]
		}
		mean := sum / float64(n)
		if mean == 0 {
			continue
		}
		var variance float64
		for _, v := range vectors {
			d := v[g] - mean
			variance += d * d
		}
		variance /= float64(n)
		sumCV += math.Sqrt(variance) / math.Abs(mean)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sumCV / float64(counted)
}
