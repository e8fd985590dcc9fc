// Package genetic evolves HardVince's ~35-weight parameter vector via
// a population of individuals, tournament selection, blend crossover,
// and bounded mutation (§4.7). The genome here is a flat float64
// vector rather than a tree of rule structs, so every operator works
// directly over strategy.VinceWeights.ToVector().
package genetic

import "github.com/zapzap/zapzap/strategy"

// Individual is one HardVince parameter assignment with its evaluated
// fitness.
type Individual struct {
	Weights   strategy.VinceWeights
	Fitness   float64
	Evaluated bool
}

// Clone returns an independent copy of the individual.
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Weights:   ind.Weights,
		Fitness:   ind.Fitness,
		Evaluated: ind.Evaluated,
	}
}
