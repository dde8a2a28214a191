package main

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/liquid/config"
	"github.com/pthm-cable/liquid/sim"
	"github.com/pthm-cable/liquid/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how closely the
// particle count holds a target.
type FitnessEvaluator struct {
	params      *ParamVector
	configPath  string
	maxTicks    int32
	seeds       []int64
	target      float64
	statsWindow float64

	mu       sync.Mutex
	lastFill float64 // mean particles/target from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Each run loads a fresh config from configPath.
func NewFitnessEvaluator(params *ParamVector, configPath string, maxTicks int32, seeds []int64, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		configPath:  configPath,
		maxTicks:    maxTicks,
		seeds:       seeds,
		target:      target,
		statsWindow: 1.0,
	}
}

// LastFill returns the mean fill ratio from the most recent evaluation.
func (fe *FitnessEvaluator) LastFill() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFill
}

// Fitness weights.
const (
	weightStability = 0.5
	weightDiverged  = 10.0

	warmupFraction = 0.5 // score only the second half of a run

	failedFitness = 1e6
)

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	failed      bool                    // a step returned an error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	fill    float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			fitness, fill := fe.computeFitness(result)
			results[idx] = seedResult{fitness: fitness, fill: fill}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalFill float64
	for _, r := range results {
		totalFitness += r.fitness
		totalFill += r.fill
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastFill = totalFill / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	result := &runResult{}

	cfg, err := config.Load(fe.configPath)
	if err != nil {
		result.failed = true
		return result
	}
	fe.params.ApplyToConfig(cfg, x)

	s, err := sim.New(sim.Options{
		Config:         cfg,
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.failed = true
		return result
	}
	defer s.Close()

	for s.Tick() < fe.maxTicks {
		if err := s.UpdateHeadless(); err != nil {
			result.failed = true
			return result
		}
	}
	return result
}

// computeFitness scores a run: squared relative error of the particle count
// against the target, plus penalties for fluctuation and non-finite grids.
// Returns the fitness and the mean fill ratio.
func (fe *FitnessEvaluator) computeFitness(r *runResult) (fitness, fill float64) {
	if r.failed || len(r.windowStats) == 0 {
		return failedFitness, 0
	}

	start := int(float64(len(r.windowStats)) * warmupFraction)
	scored := r.windowStats[start:]

	counts := make([]float64, len(scored))
	var sqErr float64
	var diverged, ticks int
	for i, w := range scored {
		counts[i] = float64(w.Particles)
		rel := (counts[i] - fe.target) / fe.target
		sqErr += rel * rel
		diverged += w.NonFiniteTicks
		ticks += int(w.WindowEndTick - w.WindowStartTick)
	}
	n := float64(len(scored))

	mean, std := stat.PopMeanStdDev(counts, nil)
	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}
	divergedFrac := 0.0
	if ticks > 0 {
		divergedFrac = float64(diverged) / float64(ticks)
	}

	fitness = sqErr/n + weightStability*cv*cv + weightDiverged*divergedFrac
	return fitness, mean / fe.target
}
