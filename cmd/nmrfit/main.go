// Command nmrfit fits pseudo-Voigt peaks to a spectrum read from CSV and
// prints the fitted parameters and the satellite area fraction.
//
// Usage:
//
//	nmrfit [flags] -data spectrum.csv -roi low:high[,low:high...]
//
// The CSV holds one sample per row: frequency, in-phase, quadrature. Lines
// starting with '#' and a non-numeric header row are skipped. Each -roi
// entry selects one peak; its height, location and area are measured from
// the phased data and seed the parameter bounds.
//
// Examples:
//
//	nmrfit -data run1.csv -roi 3.40:3.50,3.55:3.65
//	nmrfit -data run1.csv -roi 3.40:3.50 -theta 0.12 -local -imag
//	nmrfit -demo -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/fit"
	"github.com/cwbudde/algo-nmrfit/fit/objective"
	"github.com/cwbudde/algo-nmrfit/fit/optimizer"
	"github.com/cwbudde/algo-nmrfit/measure/spectrum"
)

var errUsage = errors.New("nmrfit: invalid usage")

type options struct {
	data       string
	rois       string
	out        string
	theta      float64
	weights    string
	strategy   string
	imag       bool
	local      bool
	fixGlobals bool
	swarmSize  int
	maxIter    int
	workers    int
	seed       int64
	scale      float64
	nodes      int
	demo       bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("nmrfit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.data, "data", "", "CSV file with frequency, in-phase and quadrature columns")
	fs.StringVar(&o.rois, "roi", "", "comma separated peak regions low:high")
	fs.StringVar(&o.out, "out", "", "write fitted curves as CSV to this file")
	fs.Float64Var(&o.theta, "theta", math.NaN(), "initial phase in radians (estimated when unset)")
	fs.StringVar(&o.weights, "weights", "static", "residual weighting: none, static, dynamic")
	fs.StringVar(&o.strategy, "strategy", "swarm", "global strategy: swarm, cmaes")
	fs.BoolVar(&o.imag, "imag", false, "also fit the dispersive channel")
	fs.BoolVar(&o.local, "local", false, "refine the global result with a local search")
	fs.BoolVar(&o.fixGlobals, "fix-globals", false, "hold theta, r and offset during local refinement")
	fs.IntVar(&o.swarmSize, "swarm", optimizer.DefaultSwarmConfig().SwarmSize, "particle swarm size")
	fs.IntVar(&o.maxIter, "iter", optimizer.DefaultSwarmConfig().MaxIter, "maximum swarm iterations")
	fs.IntVar(&o.workers, "workers", 0, "parallel evaluations (0 = CPUs - 1)")
	fs.Int64Var(&o.seed, "seed", 0, "random seed of the swarm")
	fs.Float64Var(&o.scale, "scale", fit.DefaultScale, "oversampling of the fitted curves")
	fs.IntVar(&o.nodes, "nodes", lineshape.DefaultNodes, "quadrature nodes per segment")
	fs.BoolVar(&o.demo, "demo", false, "fit a synthetic two-peak spectrum")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: nmrfit [flags] -data spectrum.csv -roi low:high[,low:high...]\n\n")
		fmt.Fprintf(stderr, "Fits pseudo-Voigt peaks and prints parameters and area fraction.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  nmrfit -data run1.csv -roi 3.40:3.50,3.55:3.65\n")
		fmt.Fprintf(stderr, "  nmrfit -data run1.csv -roi 3.40:3.50 -theta 0.12 -local -imag\n")
		fmt.Fprintf(stderr, "  nmrfit -demo -v\n")
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.demo && (o.data == "" || o.rois == "") {
		fs.Usage()
		return o, fmt.Errorf("%w: -data and -roi are required without -demo", errUsage)
	}
	return o, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(o.verbose)
	if err != nil {
		return fmt.Errorf("nmrfit: logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	s, regions, err := load(o)
	if err != nil {
		return err
	}

	theta := o.theta
	if o.demo && math.IsNaN(theta) {
		theta = demoTheta
	}
	if math.IsNaN(theta) {
		if theta, err = s.EstimatePhase(0); err != nil {
			return err
		}
		logger.Info("estimated phase", zap.Float64("theta", theta))
	}

	V, _ := s.Rotated(theta)
	peaks := make([]spectrum.Peak, len(regions))
	for i, r := range regions {
		if peaks[i], err = spectrum.NewPeak(s.W, V, r[0], r[1]); err != nil {
			return fmt.Errorf("nmrfit: roi %d: %w", i, err)
		}
	}
	lower, upper := spectrum.InitialBounds(peaks, theta)

	opts, err := fitOptions(o, logger)
	if err != nil {
		return err
	}
	opts = append(opts, fit.WithInitialGuess(spectrum.Seed(peaks, theta, 0.5, 0)))

	res, err := fit.Fit(ctx, s, peaks, lower, upper, opts...)
	if err != nil {
		return err
	}

	approx, _ := spectrum.ApproximateAreaFraction(peaks)
	printResult(stdout, res, approx)

	if o.out != "" {
		if err := writeCurves(o.out, res); err != nil {
			return err
		}
	}
	return nil
}

func fitOptions(o options, logger *zap.Logger) ([]fit.Option, error) {
	swarm := optimizer.DefaultSwarmConfig()
	swarm.SwarmSize = o.swarmSize
	swarm.MaxIter = o.maxIter
	swarm.Workers = o.workers
	swarm.Seed = o.seed
	if err := swarm.Validate(); err != nil {
		return nil, err
	}

	opts := []fit.Option{
		fit.WithSwarm(swarm),
		fit.WithImaginary(o.imag),
		fit.WithLocalRefinement(o.local),
		fit.WithFixGlobals(o.fixGlobals),
		fit.WithScale(o.scale),
		fit.WithQuadratureNodes(o.nodes),
		fit.WithLogger(logger),
	}

	switch strings.ToLower(o.weights) {
	case "none":
		opts = append(opts, fit.WithWeightMode(objective.Unweighted))
	case "static":
		opts = append(opts, fit.WithWeightMode(objective.StaticField))
	case "dynamic":
		opts = append(opts, fit.WithWeightMode(objective.DynamicField))
	default:
		return nil, fmt.Errorf("%w: unknown weighting %q", errUsage, o.weights)
	}

	switch strings.ToLower(o.strategy) {
	case "swarm":
	case "cmaes":
		c := optimizer.NewCMAES()
		c.Workers = o.workers
		c.Logger = logger
		t := optimizer.GlobalOnly(c)
		if o.local {
			t.Local = optimizer.NewLocal()
			t.Local.FixGlobals = o.fixGlobals
			t.Local.Logger = logger
		}
		opts = append(opts, fit.WithStrategy(t))
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", errUsage, o.strategy)
	}
	return opts, nil
}

func load(o options) (spectrum.Spectrum, [][2]float64, error) {
	if o.demo {
		return demo()
	}

	f, err := os.Open(o.data)
	if err != nil {
		return spectrum.Spectrum{}, nil, fmt.Errorf("nmrfit: %w", err)
	}
	defer f.Close()

	s, err := readSpectrum(f)
	if err != nil {
		return spectrum.Spectrum{}, nil, err
	}
	regions, err := parseROIs(o.rois)
	if err != nil {
		return spectrum.Spectrum{}, nil, err
	}
	return s, regions, nil
}

const demoTheta = 0.15

// demo synthesizes a major peak with one satellite at 10% of its area.
func demo() (spectrum.Spectrum, [][2]float64, error) {
	params := lineshape.Vector(
		lineshape.Globals{Theta: demoTheta, R: 0.7, YOffset: 0},
		lineshape.Peak{Width: 0.02, Location: 3.45, Area: 1},
		lineshape.Peak{Width: 0.02, Location: 3.60, Area: 0.1},
	)
	w := core.Linspace(3.3, 3.75, 400)
	s, err := spectrum.Synthesize(w, params, spectrum.SynthOptions{NoiseSigma: 0.05, Seed: 1})
	if err != nil {
		return spectrum.Spectrum{}, nil, err
	}
	return s, [][2]float64{{3.40, 3.50}, {3.55, 3.65}}, nil
}

func printResult(w io.Writer, res *fit.FitResult, approx float64) {
	g := lineshape.SplitGlobals(res.Params)
	fmt.Fprintf(w, "theta=%.5f  r=%.4f  y_offset=%.3g  error=%.6g\n", g.Theta, g.R, g.YOffset, res.Error)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "peak\twidth\tlocation\tarea\t")
	fmt.Fprintln(tw, "----\t-----\t--------\t----\t")
	n, _ := lineshape.NumPeaks(len(res.Params))
	for i := 0; i < n; i++ {
		p := lineshape.PeakAt(res.Params, i)
		fmt.Fprintf(tw, "%d\t%.5f\t%.5f\t%.5f\t\n", i+1, p.Width, p.Location, p.Area)
	}
	tw.Flush()

	conf := ""
	if res.LowConfidence {
		conf = " (low confidence)"
	}
	fmt.Fprintf(w, "area fraction: %.5f%s  data estimate: %.5f\n", res.AreaFraction, conf, approx)
	fmt.Fprintf(w, "residual rms: %.4g  sign changes: %d/%d\n",
		res.Residual.RMS, res.Residual.SignChanges, res.Residual.Length)
	for _, st := range res.Stages {
		fmt.Fprintf(w, "stage %-6s f=%.6g  iterations=%d  evaluations=%d  %s\n",
			st.Stage, st.F, st.Iterations, st.Evaluations, st.Status)
	}
}
