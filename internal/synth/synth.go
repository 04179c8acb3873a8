// Package synth generates synthetic runs shaped like the simulator's recordings.
// They are used for demos, fixtures and load tests of the report pipeline.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/aretw0/simreport/pkg/domain"
)

// Options sizes a synthetic run.
type Options struct {
	Seed       uint64
	Steps      int
	Population int
	// SampleRate is the share of the population recorded in "sample".
	SampleRate float64
	Publishers int
}

// DefaultOptions returns a small but complete run.
func DefaultOptions() Options {
	return Options{Seed: 1, Steps: 20, Population: 50, SampleRate: 0.2, Publishers: 5}
}

type agent struct {
	id        int
	x, y      float64
	followers int
}

// Generate produces a run whose history contains every channel of the default schema
// plus the opaque "step" and "top_content" channels.
func Generate(opts Options) (*domain.Run, error) {
	if opts.Steps < 1 || opts.Population < 1 || opts.Publishers < 1 {
		return nil, fmt.Errorf("steps, population and publishers must be positive")
	}
	if opts.SampleRate <= 0 || opts.SampleRate > 1 {
		return nil, fmt.Errorf("sample rate %v out of range (0,1]", opts.SampleRate)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	agents := make([]agent, opts.Population)
	for i := range agents {
		agents[i] = agent{id: i, x: rng.Float64()*2 - 1, y: rng.Float64()*2 - 1}
	}
	sampled := rng.Perm(opts.Population)[:max(1, int(float64(opts.Population)*opts.SampleRate))]
	budgets := make([]float64, opts.Publishers)
	for i := range budgets {
		budgets[i] = 10 * rng.Float64()
	}

	history := make([]domain.StepRecord, 0, opts.Steps)
	for step := 0; step < opts.Steps; step++ {
		shares := make([]float64, opts.Population)
		shareDist := map[string]any{}
		followerDist := map[string]any{}
		followers := make([]float64, opts.Population)
		produced := 0

		for i := range agents {
			a := &agents[i]
			a.x = clamp(a.x + rng.NormFloat64()*0.05)
			a.y = clamp(a.y + rng.NormFloat64()*0.05)
			if rng.Float64() < 0.1 {
				a.followers++
			}
			if rng.Float64() < 0.3 {
				produced++
			}

			n := rng.IntN(4)
			shares[i] = float64(n)
			bump(shareDist, n)
			bump(followerDist, a.followers)
			followers[i] = float64(a.followers)
		}

		sample := make([]any, 0, len(sampled))
		for _, idx := range sampled {
			a := agents[idx]
			sample = append(sample, map[string]any{"id": float64(a.id), "values": []any{a.x, a.y}})
		}

		subscribers := make([]float64, opts.Publishers)
		published := make([]float64, opts.Publishers)
		reach := make([]float64, opts.Publishers)
		for i := range budgets {
			budgets[i] = math.Max(0, budgets[i]+rng.NormFloat64())
			subscribers[i] = float64(rng.IntN(opts.Population))
			published[i] = float64(rng.IntN(5))
			reach[i] = rng.Float64()
		}
		shifts := make([]float64, len(sampled))
		publishability := make([]float64, len(sampled))
		for i := range sampled {
			shifts[i] = rng.Float64() * float64(step) / float64(opts.Steps)
			publishability[i] = rng.Float64()
		}

		history = append(history, domain.StepRecord{
			"step":           float64(step),
			"sample":         sample,
			"to_share":       float64(rng.IntN(opts.Population)),
			"p_produced":     float64(produced) / float64(opts.Population),
			"shares":         stats(shares),
			"share_dist":     shareDist,
			"followers":      stats(followers),
			"follower_dist":  followerDist,
			"value_shifts":   stats(shifts),
			"subscribers":    stats(subscribers),
			"published":      stats(published),
			"reach":          stats(reach),
			"budget":         stats(budgets),
			"publishability": stats(publishability),
			"top_content":    []any{map[string]any{"shares": shares[0], "topics": []any{0.5, 0.5}}},
		})
	}

	return &domain.Run{
		Config: map[string]any{
			"seed":       float64(opts.Seed),
			"steps":      float64(opts.Steps),
			"POPULATION": float64(opts.Population),
			"PUBLISHERS": float64(opts.Publishers),
		},
		Meta:    domain.NewMeta("seed", float64(opts.Seed), "steps", float64(opts.Steps), "population", float64(opts.Population)),
		History: history,
	}, nil
}

func stats(vs []float64) map[string]any {
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	return map[string]any{"max": hi, "min": lo, "mean": sum / float64(len(vs))}
}

func bump(dist map[string]any, bin int) {
	key := strconv.Itoa(bin)
	n, _ := dist[key].(float64)
	dist[key] = n + 1
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
