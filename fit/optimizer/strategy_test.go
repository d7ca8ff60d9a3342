package optimizer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/optimize"
)

func TestCMAESFindsBowlMinimum(t *testing.T) {
	center := []float64{1, -2, 0.5}
	lower, upper := box(3, -5, 5)

	for _, workers := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			c := NewCMAES()
			c.Workers = workers
			c.MaxEvaluations = 20000

			res, err := c.Minimize(context.Background(), Problem{Func: bowl(center...), Lower: lower, Upper: upper})
			if err != nil {
				t.Fatal(err)
			}
			if res.F > 1e-8 {
				t.Fatalf("F = %v after %d evaluations, status %q", res.F, res.Evaluations, res.Status)
			}
			requireClose(t, res.X, center, 1e-3)
			if res.Stage != "cmaes" {
				t.Fatalf("stage %q", res.Stage)
			}
		})
	}
}

func TestCMAESHonorsConverger(t *testing.T) {
	c := NewCMAES()
	c.Workers = 1
	c.MaxEvaluations = 500
	c.Converger = optimize.NeverTerminate{}

	lower, upper := box(2, -1, 1)
	res, err := c.Minimize(context.Background(), Problem{Func: bowl(0.3, -0.2), Lower: lower, Upper: upper})
	if err != nil {
		t.Fatal(err)
	}
	if want := optimize.FunctionEvaluationLimit.String(); res.Status != want {
		t.Fatalf("status %q, want %q", res.Status, want)
	}
	if res.Evaluations < c.MaxEvaluations {
		t.Fatalf("evaluations %d, want budget %d used", res.Evaluations, c.MaxEvaluations)
	}
}

func TestTwoStage(t *testing.T) {
	center := []float64{0.2, 0.4, -0.3}
	lower, upper := box(3, -1, 1)
	p := Problem{Func: bowl(center...), Lower: lower, Upper: upper}

	swarm := smallSwarm(1)
	swarm.Config.MaxIter = 20
	strategy := TwoStage{Global: swarm, Local: NewLocal()}

	stages, err := strategy.MinimizeStages(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 2 || stages[0].Stage != "swarm" || stages[1].Stage != "local" {
		t.Fatalf("unexpected stages %+v", stages)
	}
	if stages[1].F > stages[0].F {
		t.Fatalf("local stage worsened the fit: %v > %v", stages[1].F, stages[0].F)
	}

	res, err := strategy.Minimize(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != "local" {
		t.Fatalf("final stage %q", res.Stage)
	}
	requireClose(t, res.X, center, 1e-3)
}

func TestGlobalOnly(t *testing.T) {
	lower, upper := box(1, -1, 1)
	stages, err := GlobalOnly(smallSwarm(1)).MinimizeStages(context.Background(), Problem{Func: bowl(0.5), Lower: lower, Upper: upper})
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 1 || stages[0].Stage != "swarm" {
		t.Fatalf("unexpected stages %+v", stages)
	}
}

func TestTwoStageErrors(t *testing.T) {
	if _, err := (TwoStage{}).Minimize(context.Background(), Problem{}); !errors.Is(err, ErrNoGlobal) {
		t.Fatalf("err = %v", err)
	}
	if _, err := GlobalOnly(smallSwarm(1)).Minimize(context.Background(), Problem{}); !errors.Is(err, ErrNoFunc) {
		t.Fatalf("err = %v", err)
	}
}

func TestEvalPool(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Fatal("DefaultWorkers < 1")
	}

	xs := make([][]float64, 100)
	for i := range xs {
		xs[i] = []float64{float64(i)}
	}
	for _, workers := range []int{1, 4} {
		pool := newEvalPool(func(x []float64) float64 { return x[0] * x[0] }, workers)
		out := make([]float64, len(xs))
		pool.evaluate(xs, out)
		pool.evaluate(xs, out)
		pool.stop()
		for i, v := range out {
			if v != float64(i*i) {
				t.Fatalf("workers=%d out[%d] = %v", workers, i, v)
			}
		}
	}
}
