package optimizer

import (
	"context"
	"errors"
)

// ErrNoGlobal is returned by TwoStage without a global strategy.
var ErrNoGlobal = errors.New("optimizer: two-stage strategy needs a global stage")

// TwoStage runs Global and then, when Local is set, refines the global
// result with Local. Only the last stage's result is the overall result.
type TwoStage struct {
	Global Strategy
	Local  *Local
}

// GlobalOnly wraps s as a single-stage strategy.
func GlobalOnly(s Strategy) TwoStage {
	return TwoStage{Global: s}
}

// Minimize implements Strategy.
func (t TwoStage) Minimize(ctx context.Context, p Problem) (Result, error) {
	stages, err := t.MinimizeStages(ctx, p)
	if len(stages) == 0 {
		return Result{}, err
	}
	return stages[len(stages)-1], err
}

// MinimizeStages implements Staged.
func (t TwoStage) MinimizeStages(ctx context.Context, p Problem) ([]Result, error) {
	if t.Global == nil {
		return nil, ErrNoGlobal
	}

	global, err := t.Global.Minimize(ctx, p)
	if err != nil {
		if global.X == nil {
			return nil, err
		}
		return []Result{global}, err
	}
	if t.Local == nil {
		return []Result{global}, nil
	}

	refine := p
	refine.Seed = global.X
	local, err := t.Local.Minimize(ctx, refine)
	return []Result{global, local}, err
}
