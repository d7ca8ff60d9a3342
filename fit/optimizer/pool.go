package optimizer

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/cpu"
)

// DefaultWorkers returns the number of logical CPUs minus one, and at
// least one.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	if n > 1 {
		n--
	}
	return n
}

type evalJob struct {
	x    []float64
	out  *float64
	done *sync.WaitGroup
}

// evalPool evaluates batches of points on a fixed set of goroutines.
type evalPool struct {
	f    func([]float64) float64
	jobs chan evalJob
	wg   sync.WaitGroup
}

func newEvalPool(f func([]float64) float64, workers int) *evalPool {
	p := &evalPool{f: f}
	if workers > 1 {
		p.jobs = make(chan evalJob, workers)
		p.start(workers)
	}
	return p
}

func (p *evalPool) start(workers int) {
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				*job.out = p.f(job.x)
				job.done.Done()
			}
		}()
	}
}

// evaluate writes f(xs[i]) into out[i] and returns once the whole batch is done.
func (p *evalPool) evaluate(xs [][]float64, out []float64) {
	if p.jobs == nil {
		for i, x := range xs {
			out[i] = p.f(x)
		}
		return
	}

	var batch sync.WaitGroup
	batch.Add(len(xs))
	for i := range xs {
		p.jobs <- evalJob{x: xs[i], out: &out[i], done: &batch}
	}
	batch.Wait()
}

func (p *evalPool) stop() {
	if p.jobs == nil {
		return
	}
	close(p.jobs)
	p.wg.Wait()
}
