package genetic

import (
	"math/rand"
	"time"

	"github.com/zapzap/zapzap/strategy"
)

// Config holds the tunable parameters of one evolutionary run (§4.7).
type Config struct {
	PopulationSize int
	Generations    int
	EliteCount     int
	TournamentSize int
	CrossoverRate  float64
	MutationRate   float64
	MutationRange  float64
	GamesPerEval   int
	Style          string
	Seed           int64
	Baseline       func() strategy.Strategy `json:"-"`

	// Workers bounds how many individuals are evaluated concurrently
	// per generation (0 = runtime.NumCPU).
	Workers int

	// DiversityFloor is the mean per-gene coefficient-of-variation below
	// which the early-diversity safeguard reinjects fresh random
	// individuals into the worst slots.
	DiversityFloor float64

	// Constraints overrides the per-gene (min_mult, max_mult) search
	// band; nil uses DefaultConstraints.
	Constraints []GeneConstraint
}

// DefaultConfig returns §4.7's stated defaults: 2000 games per
// evaluation, tournament size 3, diversity floor 0.01.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 50,
		Generations:    30,
		EliteCount:     5,
		TournamentSize: 3,
		CrossoverRate:  0.7,
		MutationRate:   0.1,
		MutationRange:  0.2,
		GamesPerEval:   2000,
		Style:          "balanced",
		DiversityFloor: 0.01,
		Baseline:       DefaultBaseline,
	}
}

// GenerationStats records one generation's summary for progress
// reporting and the stats-history checkpoint field.
type GenerationStats struct {
	Generation  int
	BestFitness float64
	AvgFitness  float64
	Diversity   float64
}

// Engine runs the generational loop described in §4.7: evaluate
// unevaluated individuals, sort, preserve the elite, fill the rest via
// tournament selection plus blend crossover or cloning plus mutation,
// with an early-diversity safeguard, and best-ever tracking revalidated
// at 2x games once the loop ends.
type Engine struct {
	Config       Config
	Population   *Population
	BestEver     *Individual
	StatsHistory []GenerationStats
	Rng          *rand.Rand

	defaultVector []float64
	constraints   []GeneConstraint

	// OnGenerationComplete, if set, is invoked after each generation's
	// stats are recorded (the CLI dashboard's progress callback, §4.7/4.8).
	OnGenerationComplete func(GenerationStats)
}

// NewEngine builds an engine from cfg, filling unset fields from
// DefaultConfig.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = def.PopulationSize
	}
	if cfg.Generations <= 0 {
		cfg.Generations = def.Generations
	}
	if cfg.TournamentSize <= 0 {
		cfg.TournamentSize = def.TournamentSize
	}
	if cfg.GamesPerEval <= 0 {
		cfg.GamesPerEval = def.GamesPerEval
	}
	if cfg.Style == "" {
		cfg.Style = def.Style
	}
	if cfg.DiversityFloor <= 0 {
		cfg.DiversityFloor = def.DiversityFloor
	}
	if cfg.Baseline == nil {
		cfg.Baseline = def.Baseline
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	constraints := cfg.Constraints
	if constraints == nil {
		constraints = DefaultConstraints()
	}

	return &Engine{
		Config:        cfg,
		Rng:           rand.New(rand.NewSource(seed)),
		StatsHistory:  make([]GenerationStats, 0, cfg.Generations),
		defaultVector: strategy.DefaultVinceWeights().ToVector(),
		constraints:   constraints,
	}
}

// InitializePopulation seeds the population with the default vector, a
// small-variation copy of it, and the rest drawn uniformly at random
// from the per-gene constraint intervals (§4.7).
func (e *Engine) InitializePopulation() {
	individuals := make([]*Individual, 0, e.Config.PopulationSize)

	defaultWeights := strategy.VinceWeightsFromVector(e.defaultVector)
	individuals = append(individuals, &Individual{Weights: defaultWeights})

	if len(individuals) < e.Config.PopulationSize {
		variant := SmallVariation(defaultWeights, e.defaultVector, e.constraints, e.Rng)
		individuals = append(individuals, &Individual{Weights: variant})
	}

	for len(individuals) < e.Config.PopulationSize {
		w := RandomIndividual(e.defaultVector, e.constraints, e.Rng)
		individuals = append(individuals, &Individual{Weights: w})
	}

	e.Population = NewPopulation(individuals)
}

// EvaluatePopulation runs GamesPerEval games for every individual whose
// fitness is unset, fanned out across Config.Workers goroutines.
func (e *Engine) EvaluatePopulation() {
	if e.Population == nil {
		return
	}
	pe := NewParallelEvaluator(e.Config.Workers, e.Config.GamesPerEval, e.Rng.Int63(), e.Config.Style, e.Config.Baseline)
	pe.EvaluateIndividuals(e.Population.GetUnevaluated())
}

// CreateOffspring builds the next generation: elite individuals carried
// over unmodified, the remainder from tournament-selected parents
// combined by blend crossover (w.p. CrossoverRate) or cloned, then
// mutated gene-by-gene (§4.7).
func (e *Engine) CreateOffspring() []*Individual {
	offspring := make([]*Individual, 0, e.Config.PopulationSize)

	for _, ind := range SelectElite(e.Population, e.Config.EliteCount) {
		offspring = append(offspring, ind.Clone())
	}

	for len(offspring) < e.Config.PopulationSize {
		parent1 := TournamentSelection(e.Population, e.Config.TournamentSize, e.Rng)
		parent2 := TournamentSelection(e.Population, e.Config.TournamentSize, e.Rng)

		var child1, child2 strategy.VinceWeights
		if e.Rng.Float64() < e.Config.CrossoverRate {
			child1, child2 = BlendCrossover(parent1.Weights, parent2.Weights, e.defaultVector, e.constraints, e.Rng)
		} else {
			child1, child2 = parent1.Weights, parent2.Weights
		}

		child1 = Mutate(child1, e.Config.MutationRate, e.Config.MutationRange, e.defaultVector, e.constraints, e.Rng)
		offspring = append(offspring, &Individual{Weights: child1})

		if len(offspring) < e.Config.PopulationSize {
			child2 = Mutate(child2, e.Config.MutationRate, e.Config.MutationRange, e.defaultVector, e.constraints, e.Rng)
			offspring = append(offspring, &Individual{Weights: child2})
		}
	}

	return offspring[:e.Config.PopulationSize]
}

// applyDiversitySafeguard reinjects fresh random individuals into the
// worst-fitness slots when the population's mean per-gene
// coefficient-of-variation falls below the configured floor.
func (e *Engine) applyDiversitySafeguard() {
	cv := e.Population.MeanGeneCoefficientOfVariation()
	if cv >= e.Config.DiversityFloor {
		return
	}
	numFresh := e.Config.PopulationSize / 10
	if numFresh < 1 {
		numFresh = 1
	}
	for _, idx := range WorstIndices(e.Population, numFresh) {
		w := RandomIndividual(e.defaultVector, e.constraints, e.Rng)
		e.Population.Individuals[idx] = &Individual{Weights: w}
	}
}

// Evolve runs the full generational loop and, once it ends, revalidates
// the best-ever individual with 2x games (§4.7's closing step).
func (e *Engine) Evolve() {
	if e.Population == nil {
		e.InitializePopulation()
	}
	e.EvaluatePopulation()

	for gen := 0; gen < e.Config.Generations; gen++ {
		best := e.Population.GetBestIndividual()
		if e.BestEver == nil || best.Fitness > e.BestEver.Fitness {
			e.BestEver = best.Clone()
		}

		stats := GenerationStats{
			Generation:  gen,
			BestFitness: best.Fitness,
			AvgFitness:  e.Population.GetAverageFitness(),
			Diversity:   e.Population.MeanGeneCoefficientOfVariation(),
		}
		e.StatsHistory = append(e.StatsHistory, stats)
		if e.OnGenerationComplete != nil {
			e.OnGenerationComplete(stats)
		}

		e.applyDiversitySafeguard()

		offspring := e.CreateOffspring()
		e.Population = NewPopulation(offspring)
		e.Population.Generation = gen + 1
		e.EvaluatePopulation()
	}

	if e.BestEver != nil {
		revalidated := Evaluate(e.BestEver.Weights, e.Config.GamesPerEval*2, e.Rng.Int63(), e.Config.Baseline)
		e.BestEver.Fitness = Fitness(e.Config.Style, revalidated)
	}
}
