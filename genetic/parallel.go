package genetic

import (
	"runtime"
	"sync"

	"github.com/zapzap/zapzap/strategy"
)

type evaluationTask struct {
	Index   int
	Weights strategy.VinceWeights
}

type evaluationResult struct {
	Index int
	Stats BatchStats
}

// ParallelEvaluator fans a generation's fitness evaluations out across
// a fixed worker pool, one task-and-result channel pair per
// EvaluateIndividuals call.
type ParallelEvaluator struct {
	Workers      int
	GamesPerEval int
	BaseSeed     int64
	Style        string
	Baseline     func() strategy.Strategy
}

// NewParallelEvaluator builds an evaluator with Workers workers (0 =
// runtime.NumCPU).
func NewParallelEvaluator(workers, gamesPerEval int, baseSeed int64, style string, baseline func() strategy.Strategy) *ParallelEvaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParallelEvaluator{
		Workers:      workers,
		GamesPerEval: gamesPerEval,
		BaseSeed:     baseSeed,
		Style:        style,
		Baseline:     baseline,
	}
}

// EvaluateIndividuals runs Evaluate for every individual in parallel
// and fills in its Fitness and Evaluated fields. Individuals already
// evaluated are skipped.
func (pe *ParallelEvaluator) EvaluateIndividuals(individuals []*Individual) {
	pending := make([]*Individual, 0, len(individuals))
	for _, ind := range individuals {
		if !ind.Evaluated {
			pending = append(pending, ind)
		}
	}
	if len(pending) == 0 {
		return
	}

	tasks := make(chan evaluationTask, len(pending))
	results := make(chan evaluationResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < pe.Workers; i++ {
		wg.Add(1)
		go pe.worker(tasks, results, &wg)
	}

	for i, ind := range pending {
		tasks <- evaluationTask{Index: i, Weights: ind.Weights}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	statsByIndex := make([]BatchStats, len(pending))
	for r := range results {
		statsByIndex[r.Index] = r.Stats
	}

	for i, ind := range pending {
		ind.Fitness = Fitness(pe.Style, statsByIndex[i])
		ind.Evaluated = true
	}
}

func (pe *ParallelEvaluator) worker(tasks <-chan evaluationTask, results chan<- evaluationResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range tasks {
		seed := pe.BaseSeed + int64(task.Index)*int64(pe.GamesPerEval)
		stats := Evaluate(task.Weights, pe.GamesPerEval, seed, pe.Baseline)
		results <- evaluationResult{Index: task.Index, Stats: stats}
	}
}
