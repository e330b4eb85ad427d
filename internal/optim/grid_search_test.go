package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSearchFindsMinimum(t *testing.T) {
	gs := NewGridSearch(
		[]string{"x", "y"},
		[][]float64{{-1, 0, 1, 2}, {0, 3}},
	)

	params, score := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		// minimum at x=1, y=0
		return (p["x"]-1)*(p["x"]-1) + p["y"], nil
	})
	if params == nil {
		t.Fatal("no best params")
	}
	if params["x"] != 1 || params["y"] != 0 {
		t.Errorf("best params = %v, want x=1 y=0", params)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestSearchSkipsFailedPoints(t *testing.T) {
	gs := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	params, score := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] == 1 {
			return 0, errors.New("unstable")
		}
		return p["x"], nil
	})
	if params["x"] != 2 || score != 2 {
		t.Errorf("best = %v score %v, want x=2 score 2", params, score)
	}
}

func TestSearchAllFail(t *testing.T) {
	gs := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})

	params, score := gs.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return 0, errors.New("nope")
	})
	if params != nil {
		t.Errorf("params = %v, want nil", params)
	}
	if !math.IsInf(score, 1) {
		t.Errorf("score = %v, want +Inf", score)
	}
}

func TestSearchHonorsContext(t *testing.T) {
	gs := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	gs.Search(ctx, func(context.Context, map[string]float64) (float64, error) {
		calls++
		cancel()
		return 1, nil
	})
	if calls != 1 {
		t.Errorf("evaluate called %d times after cancel, want 1", calls)
	}
}
