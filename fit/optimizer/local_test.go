package optimizer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLocalMethods(t *testing.T) {
	center := []float64{0.4, -1.5, 2}
	lower, upper := box(3, -3, 3)

	for _, m := range []LocalMethod{MethodNelderMead, MethodLBFGS, MethodBFGS} {
		t.Run(m.String(), func(t *testing.T) {
			l := NewLocal()
			l.Method = m
			res, err := l.Minimize(context.Background(), Problem{
				Func:  bowl(center...),
				Lower: lower,
				Upper: upper,
				Seed:  []float64{0, 0, 0},
			})
			if err != nil {
				t.Fatal(err)
			}
			if res.F > 1e-6 {
				t.Fatalf("F = %v, status %q", res.F, res.Status)
			}
			requireClose(t, res.X, center, 1e-3)
		})
	}
}

func TestLocalNeverWorseThanSeed(t *testing.T) {
	center := []float64{0.5, 0.5}
	lower, upper := box(2, 0, 1)
	res, err := NewLocal().Minimize(context.Background(), Problem{
		Func: bowl(center...), Lower: lower, Upper: upper, Seed: center,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.F != 0 || res.Status != StatusNoImprovement {
		t.Fatalf("F = %v, status %q", res.F, res.Status)
	}
	requireClose(t, res.X, center, 0)
}

func TestLocalRespectsBounds(t *testing.T) {
	res, err := NewLocal().Minimize(context.Background(), Problem{
		Func:  bowl(5),
		Lower: []float64{0},
		Upper: []float64{1},
		Seed:  []float64{0.2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.X[0] > 1 || res.X[0] < 0.99 {
		t.Fatalf("x = %v, want the upper bound", res.X[0])
	}
}

func TestLocalFixGlobals(t *testing.T) {
	center := []float64{1, 1, 1, 0.2, -0.4, 0.6}
	seed := []float64{0, 0.5, -0.5, 0, 0, 0}
	lower, upper := box(6, -2, 2)

	l := NewLocal()
	l.FixGlobals = true
	res, err := l.Minimize(context.Background(), Problem{
		Func: bowl(center...), Lower: lower, Upper: upper, Seed: seed,
	})
	if err != nil {
		t.Fatal(err)
	}
	requireClose(t, res.X[:3], seed[:3], 0)
	requireClose(t, res.X[3:], center[3:], 1e-3)
}

func TestLocalNoFreeParameters(t *testing.T) {
	res, err := NewLocal().Minimize(context.Background(), Problem{
		Func: bowl(0, 0), Lower: []float64{1, 2}, Upper: []float64{1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusNoFreeParams {
		t.Fatalf("status %q", res.Status)
	}
	requireClose(t, res.X, []float64{1, 2}, 0)
}

func TestLocalCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lower, upper := box(2, -1, 1)
	res, err := NewLocal().Minimize(ctx, Problem{Func: bowl(0.5, 0.5), Lower: lower, Upper: upper})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if res.X == nil {
		t.Fatal("canceled refinement should return its seed")
	}
}

func TestLocalRejectsNegativeBudget(t *testing.T) {
	l := NewLocal()
	l.MaxEvaluations = -1
	lower, upper := box(1, 0, 1)
	if _, err := l.Minimize(context.Background(), Problem{Func: bowl(0), Lower: lower, Upper: upper}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestLocalLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLocal()
	l.Logger = zap.New(core)

	lower, upper := box(2, -1, 1)
	if _, err := l.Minimize(context.Background(), Problem{Func: bowl(0.1, 0.2), Lower: lower, Upper: upper}); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("local refinement finished").All()
	if len(entries) != 1 {
		t.Fatalf("got %d finish logs", len(entries))
	}
	if got := entries[0].ContextMap()["method"]; got != "nelder-mead" {
		t.Fatalf("method field = %v", got)
	}
}
