// Package optim searches tuning-parameter grids for the setting that
// minimizes a run metric, e.g. the largest stable timestep for a scene.
package optim

import (
	"context"
	"math"
)

// Evaluate runs one trial with the given parameter assignment and returns
// its score; lower is better. Returning an error skips the point.
type Evaluate func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search exhausts the grid and returns the best assignment and score.
// When every point fails or the grid is empty, params is nil and the
// score is +Inf.
func (g *GridSearch) Search(ctx context.Context, evaluate Evaluate) (map[string]float64, float64) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), evaluate, &best, &bestParams)
	return bestParams, best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate Evaluate,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		val, err := evaluate(ctx, current)
		if err != nil {
			return
		}
		if val < *best {
			*best = val
			params := make(map[string]float64, len(current))
			for k, v := range current {
				params[k] = v
			}
			*bestParams = params
		}
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.searchRecursive(ctx, depth+1, current, evaluate, best, bestParams)
	}
	delete(current, name)
}
